//go:build !windows

package debug

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartMemLogger logs Go heap stats until ctx is done. The resident set is
// only sampled on Windows.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	memLoop(ctx, interval, logger, func() (uint64, error) {
		return 0, errors.ErrUnsupported
	})
}
