package app

import (
	"context"
	"errors"
	"image"

	"github.com/soocke/sawbot-go/backend"
	"github.com/soocke/sawbot-go/domain/action"
)

// pointerFallback reads the cursor locally when the engine is offline, so
// corner capture still works without a connection.
type pointerFallback struct {
	*backend.Client
	local func() (image.Point, error)
}

func (p pointerFallback) MousePosition(ctx context.Context) (image.Point, error) {
	pt, err := p.Client.MousePosition(ctx)
	if err == nil || !errors.Is(err, backend.ErrNotConnected) || p.local == nil {
		return pt, err
	}
	if lpt, lerr := p.local(); lerr == nil {
		return lpt, nil
	}
	return pt, err
}

func withLocalPointer(c *backend.Client) pointerFallback {
	return pointerFallback{Client: c, local: action.CursorPosition}
}
