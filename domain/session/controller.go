// Package session owns the drawing session state machine. The Controller is
// the single writer of session state, the manual selection and the selected
// image; UI actions and backend events reach it only through its methods and
// its bus subscriptions.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/sawbot-go/domain/diag"
	"github.com/soocke/sawbot-go/domain/events"
	"github.com/soocke/sawbot-go/domain/geometry"
)

// MinOverlaySelection is the exclusive lower bound, per side, of an
// overlay-selected rectangle.
const MinOverlaySelection = 10

// Options wires a Controller. Backend is required; everything else may be nil.
type Options struct {
	Backend Backend
	Bus     *events.Bus
	Diag    *diag.Log
	Speeds  SpeedSource
	Alert   Alerter
	History Recorder
	// Bounds reports the known screen area. An empty rectangle disables the
	// out-of-bounds warning.
	Bounds func() image.Rectangle
	// ValidateImage checks a picked file before it is accepted.
	ValidateImage func(path string) error
	Logger        *slog.Logger
	Now           func() time.Time
}

// transition carries the sequence number assigned under the controller lock
// so deliveries racing on different goroutines can be put back in order.
type transition struct {
	prev, next State
	seq        uint64
}

// Controller drives the backend for one drawing session at a time.
type Controller struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	attempt   uint64 // bumped by every start and every forced end
	imagePath string
	method    string
	selection geometry.ManualSelection
	current   *Record
	listeners []StateListener
	seq       uint64 // last transition issued
	delivered uint64 // last transition handed to listeners

	mountOnce sync.Once
	subsMu    sync.Mutex
	subs      []*events.Subscription
}

// NewController returns an idle controller using the default method. Call
// Mount to subscribe it to the bus.
func NewController(opts Options) *Controller {
	c := &Controller{opts: opts, logger: opts.Logger, now: opts.Now, method: DefaultMethod}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Mount establishes the bus subscriptions. Only the first call has effect.
func (c *Controller) Mount() {
	c.mountOnce.Do(func() {
		if c.opts.Bus == nil {
			return
		}
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		c.subs = append(c.subs,
			c.opts.Bus.Subscribe(events.TopicEmergencyStop, func(events.Event) { c.EmergencyStop() }),
			c.opts.Bus.Subscribe(events.TopicAreaSelected, c.onAreaSelected),
			c.opts.Bus.Subscribe(events.TopicDrawingFinished, func(events.Event) { c.finish(OutcomeCompleted) }),
		)
	})
}

// Close releases the bus subscriptions. No handler runs after Close returns.
func (c *Controller) Close() {
	c.subsMu.Lock()
	subs := c.subs
	c.subs = nil
	c.subsMu.Unlock()
	for _, s := range subs {
		s.Close()
	}
}

// AddListener registers l for state transitions. Listeners run on the
// goroutine that caused the transition, outside the controller lock, and may
// call back into the controller. A transition superseded by a newer one
// before it is delivered is dropped, so a listener never sees state go
// backwards.
func (c *Controller) AddListener(l StateListener) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ImagePath returns the accepted image, or "" when none is selected.
func (c *Controller) ImagePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.imagePath
}

// Method returns the selected drawing method id.
func (c *Controller) Method() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

// Selection returns the manual selection corners.
func (c *Controller) Selection() geometry.ManualSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// SelectImage validates and stores the image path. An empty path clears the
// selection. On failure the previous path is kept.
func (c *Controller) SelectImage(path string) error {
	if path != "" && c.opts.ValidateImage != nil {
		if err := c.opts.ValidateImage(path); err != nil {
			if !errors.Is(err, ErrMissingInput) {
				err = fmt.Errorf("%w: %w", ErrMissingInput, err)
			}
			c.failure(err, "image rejected: "+err.Error())
			return err
		}
	}
	c.mu.Lock()
	c.imagePath = path
	c.mu.Unlock()
	if path != "" {
		c.note(diag.LevelInfo, "image selected: "+path)
	}
	return nil
}

// SetMethod selects the drawing method. Unknown ids are passed through to
// the backend.
func (c *Controller) SetMethod(id string) {
	if _, ok := LookupMethod(id); !ok {
		c.note(diag.LevelWarn, "unknown drawing method: "+id)
	}
	c.mu.Lock()
	c.method = id
	c.mu.Unlock()
}

// SetCorners replaces the manual selection, as typed by the user.
func (c *Controller) SetCorners(sel geometry.ManualSelection) {
	c.mu.Lock()
	c.selection = sel
	c.mu.Unlock()
}

// ApplySelection is the single result sink of both area-selection
// strategies. r is in absolute screen coordinates.
func (c *Controller) ApplySelection(r geometry.Rect) error {
	if r.Empty() {
		return fmt.Errorf("%w: empty selection %s", ErrInvalidGeometry, r)
	}
	sel := geometry.SelectionFromRect(r)
	c.mu.Lock()
	c.selection = sel
	c.mu.Unlock()
	c.note(diag.LevelInfo, "area selected: "+r.String())
	return nil
}

func (c *Controller) onAreaSelected(ev events.Event) {
	p, ok := ev.Payload.(events.AreaSelected)
	if !ok {
		return
	}
	if !p.Rect.Larger(MinOverlaySelection) {
		if c.logger != nil {
			c.logger.Debug("area selection below minimum ignored", "rect", p.Rect.String())
		}
		return
	}
	_ = c.ApplySelection(p.Rect)
}

// CaptureCorner stores the current pointer position as one selection corner.
func (c *Controller) CaptureCorner(ctx context.Context, corner geometry.Corner) error {
	pt, err := c.opts.Backend.MousePosition(ctx)
	if err != nil {
		err = fmt.Errorf("%w: get_mouse_position: %w", ErrBackendCommand, err)
		c.failure(err, "corner capture failed: "+err.Error())
		return err
	}
	c.mu.Lock()
	c.selection = c.selection.WithCorner(corner, pt)
	c.mu.Unlock()
	c.note(diag.LevelInfo, fmt.Sprintf("%s corner captured at %d,%d", corner, pt.X, pt.Y))
	return nil
}

// prepareLocked validates the inputs in order and resolves the request.
func (c *Controller) prepareLocked() (DrawRequest, error) {
	if c.imagePath == "" {
		return DrawRequest{}, fmt.Errorf("%w: no image selected", ErrMissingInput)
	}
	r := c.selection.Rect()
	if r.Empty() {
		return DrawRequest{}, fmt.Errorf("%w: zero-size area %s", ErrInvalidGeometry, r)
	}
	if r.Negative() {
		return DrawRequest{}, fmt.Errorf("%w: negative origin %d,%d", ErrInvalidGeometry, r.X, r.Y)
	}
	speed := DefaultSpeed
	if c.opts.Speeds != nil {
		if v, ok := c.opts.Speeds.MethodSpeed(c.method); ok {
			speed = v
		}
	}
	return DrawRequest{
		ImagePath: c.imagePath,
		Method:    c.method,
		Speed:     speed,
		X:         r.X,
		Y:         r.Y,
		Width:     r.Width,
		Height:    r.Height,
	}, nil
}

// StartDrawing validates the inputs, moves to Drawing and issues the begin
// command. A failed command rolls the state back to Idle. If a stop won the
// race while the command was in flight, ErrInterrupted is returned and the
// state stays as the stop left it.
func (c *Controller) StartDrawing(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrSessionActive
	}
	req, err := c.prepareLocked()
	if err != nil {
		c.mu.Unlock()
		c.failure(err, "start rejected: "+err.Error())
		return err
	}
	c.attempt++
	token := c.attempt
	c.current = &Record{
		ID:        uuid.NewString(),
		ImagePath: req.ImagePath,
		Method:    req.Method,
		Speed:     req.Speed,
		Rect:      req.Rect(),
		StartedAt: c.now(),
	}
	tr := c.setStateLocked(StateDrawing)
	c.mu.Unlock()
	c.notify(tr)

	if c.opts.Bounds != nil {
		if b := c.opts.Bounds(); !req.Rect().Within(b) {
			c.note(diag.LevelWarn, fmt.Sprintf("area %s exceeds screen bounds %dx%d", req.Rect(), b.Dx(), b.Dy()))
		}
	}

	berr := c.opts.Backend.StartDrawing(ctx, req)

	c.mu.Lock()
	superseded := c.attempt != token
	if berr != nil {
		err = fmt.Errorf("%w: start_drawing: %w", ErrBackendCommand, berr)
		if superseded {
			c.mu.Unlock()
			if c.logger != nil {
				c.logger.Debug("start failed after session was ended", "error", berr)
			}
			return err
		}
		rec := c.endLocked(OutcomeFailed, err)
		tr = c.setStateLocked(StateIdle)
		c.mu.Unlock()
		c.notify(tr)
		c.failure(err, "start drawing failed: "+berr.Error())
		c.record(rec)
		return err
	}
	c.mu.Unlock()
	if superseded {
		return ErrInterrupted
	}
	if c.logger != nil {
		c.logger.Info("drawing started", "method", req.Method, "speed", req.Speed, "rect", req.Rect().String())
	}
	c.note(diag.LevelInfo, fmt.Sprintf("drawing started: %s at %s speed %d", req.Method, req.Rect(), req.Speed))
	return nil
}

// StopDrawing issues the stop command regardless of the current state. On
// failure the state is unchanged.
func (c *Controller) StopDrawing(ctx context.Context) error {
	if err := c.opts.Backend.StopDrawing(ctx); err != nil {
		err = fmt.Errorf("%w: stop_drawing: %w", ErrBackendCommand, err)
		c.failure(err, "stop drawing failed: "+err.Error())
		return err
	}
	if c.finish(OutcomeStopped) {
		c.note(diag.LevelInfo, "drawing stopped")
	}
	return nil
}

// finish ends the running session, if any, with the given outcome.
func (c *Controller) finish(outcome Outcome) bool {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return false
	}
	c.attempt++
	rec := c.endLocked(outcome, nil)
	tr := c.setStateLocked(StateIdle)
	c.mu.Unlock()
	c.notify(tr)
	if outcome == OutcomeCompleted {
		c.note(diag.LevelInfo, "drawing finished")
	}
	c.record(rec)
	return true
}

// EmergencyStop forces the session to Idle. When a session was running it
// logs one error entry and raises the visual alert; a signal while idle, or
// a duplicate that lost the race, only leaves an info entry. Concurrent calls
// collapse to the same Idle outcome.
func (c *Controller) EmergencyStop() {
	c.mu.Lock()
	active := c.state == StateDrawing
	c.attempt++
	var trs []transition
	var rec *Record
	if active {
		rec = c.endLocked(OutcomeEmergency, nil)
		trs = append(trs, c.setStateLocked(StateEmergencyStopped), c.setStateLocked(StateIdle))
	}
	c.mu.Unlock()
	c.notify(trs...)

	if active {
		c.note(diag.LevelError, "EMERGENCY STOP: drawing interrupted")
		if c.logger != nil {
			c.logger.Warn("emergency stop interrupted drawing")
		}
		c.record(rec)
		if c.opts.Alert != nil {
			c.opts.Alert.Alert("Emergency stop")
		}
		return
	}
	c.note(diag.LevelInfo, "emergency stop received while idle")
}

func (c *Controller) setStateLocked(next State) transition {
	c.seq++
	tr := transition{prev: c.state, next: next, seq: c.seq}
	c.state = next
	return tr
}

func (c *Controller) endLocked(outcome Outcome, err error) *Record {
	rec := c.current
	c.current = nil
	if rec == nil {
		return nil
	}
	rec.EndedAt = c.now()
	rec.Outcome = outcome
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

func (c *Controller) notify(trs ...transition) {
	if len(trs) == 0 {
		return
	}
	last := trs[len(trs)-1].seq
	c.mu.Lock()
	if last <= c.delivered {
		c.mu.Unlock()
		return
	}
	c.delivered = last
	ls := append([]StateListener(nil), c.listeners...)
	c.mu.Unlock()
	for _, tr := range trs {
		if tr.prev == tr.next {
			continue
		}
		if c.logger != nil {
			c.logger.Debug("session state", "from", tr.prev.String(), "to", tr.next.String())
		}
		for _, l := range ls {
			if c.superseded(last) {
				return
			}
			l(tr.prev, tr.next)
		}
	}
}

// superseded reports whether a batch ending at last was overtaken by a newer
// delivery, typically one started by a listener calling back in.
func (c *Controller) superseded(last uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delivered != last
}

func (c *Controller) record(rec *Record) {
	if rec == nil || c.opts.History == nil {
		return
	}
	if err := c.opts.History.RecordSession(context.Background(), *rec); err != nil && c.logger != nil {
		c.logger.Warn("session history write failed", "error", err)
	}
}

func (c *Controller) note(level diag.Level, msg string) {
	if c.opts.Diag != nil {
		c.opts.Diag.Add(level, msg)
	}
}

func (c *Controller) failure(err error, msg string) {
	if c.logger != nil {
		c.logger.Error(msg, "kind", string(Kind(err)))
	}
	if c.opts.Diag != nil {
		c.opts.Diag.Failure(string(Kind(err)), msg)
	}
}
