package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/soocke/sawbot-go/domain/diag"
	"github.com/soocke/sawbot-go/domain/session"
)

// Coordinator allows at most one open selection strategy at a time.
type Coordinator struct {
	logger *slog.Logger
	log    *diag.Log

	mu         sync.Mutex
	strategies map[Kind]Strategy
	active     Strategy
	cancel     context.CancelFunc // cancels the ctx passed to the active Open
	gen        uint64
}

// NewCoordinator returns a coordinator over the given strategies, keyed by
// their Kind.
func NewCoordinator(logger *slog.Logger, log *diag.Log, strategies ...Strategy) *Coordinator {
	c := &Coordinator{logger: logger, log: log, strategies: make(map[Kind]Strategy, len(strategies))}
	for _, s := range strategies {
		c.strategies[s.Kind()] = s
	}
	return c
}

// Begin opens the strategy of the given kind. Failures are logged and wrap
// session.ErrSelectionTool. A selection cancelled while it was still opening
// returns ErrCancelled.
func (c *Coordinator) Begin(ctx context.Context, kind Kind) error {
	c.mu.Lock()
	if c.active != nil {
		active := c.active.Kind()
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBusy, active)
	}
	s, ok := c.strategies[kind]
	if !ok {
		c.mu.Unlock()
		err := fmt.Errorf("%w: %s selection not available", session.ErrSelectionTool, kind)
		c.fail(err)
		return err
	}
	openCtx, cancel := context.WithCancel(ctx)
	c.gen++
	gen := c.gen
	c.active = s
	c.cancel = cancel
	c.mu.Unlock()

	if err := s.Open(openCtx, func() { c.release(gen) }); err != nil {
		c.release(gen)
		if errors.Is(err, ErrCancelled) {
			if c.logger != nil {
				c.logger.Debug("area selection cancelled while opening", "kind", kind.String())
			}
			return err
		}
		c.fail(err)
		return err
	}
	if c.logger != nil {
		c.logger.Debug("area selection opened", "kind", kind.String())
	}
	return nil
}

// Active reports the open strategy kind, if any.
func (c *Coordinator) Active() (Kind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return 0, false
	}
	return c.active.Kind(), true
}

// CancelActive dismisses the open strategy without a result. A strategy
// that is still opening sees its context cancelled and never shows.
func (c *Coordinator) CancelActive() bool {
	c.mu.Lock()
	s, gen := c.active, c.gen
	cancel := c.cancel
	c.mu.Unlock()
	if s == nil {
		return false
	}
	cancel()
	s.Cancel()
	c.release(gen)
	return true
}

func (c *Coordinator) release(gen uint64) {
	c.mu.Lock()
	if c.gen == gen && c.active != nil {
		c.active = nil
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
}

func (c *Coordinator) fail(err error) {
	if c.logger != nil {
		c.logger.Error("area selection failed", "error", err)
	}
	if c.log != nil {
		c.log.Failure(string(session.Kind(err)), err.Error())
	}
}
