package selection

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/sawbot-go/domain/diag"
	"github.com/soocke/sawbot-go/domain/events"
	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type mockSurface struct {
	origin   image.Point
	shown    bool
	shows    int
	hides    int
	feedback []geometry.Rect
	showErr  error
}

func (m *mockSurface) Show() error {
	if m.showErr != nil {
		return m.showErr
	}
	m.shown = true
	m.shows++
	return nil
}
func (m *mockSurface) Hide() error { m.shown = false; m.hides++; return nil }
func (m *mockSurface) Origin() image.Point { return m.origin }
func (m *mockSurface) DrawFeedback(r geometry.Rect) { m.feedback = append(m.feedback, r) }
func (m *mockSurface) ClearFeedback() {}

type mockModal struct {
	shown   image.Image
	open    bool
	closes  int
	showErr error
}

func (m *mockModal) Show(img image.Image) error {
	if m.showErr != nil {
		return m.showErr
	}
	m.shown = img
	m.open = true
	return nil
}
func (m *mockModal) Close() error { m.open = false; m.closes++; return nil }
func (m *mockModal) DrawFeedback(geometry.Rect) {}
func (m *mockModal) ClearFeedback() {}

type fakeCapturer struct {
	img image.Image
	err error
}

func (f fakeCapturer) CaptureScreen(context.Context) (image.Image, error) { return f.img, f.err }

func collectAreas(bus *events.Bus) *[]geometry.Rect {
	var got []geometry.Rect
	bus.Subscribe(events.TopicAreaSelected, func(ev events.Event) {
		got = append(got, ev.Payload.(events.AreaSelected).Rect)
	})
	return &got
}

func TestDrag(t *testing.T) {
	var d Drag
	_, ok := d.Move(image.Pt(5, 5))
	assert.False(t, ok, "move without down")

	d.Down(image.Pt(50, 60))
	r, ok := d.Move(image.Pt(10, 20))
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 40, Height: 40}, r)

	r, ok = d.Up(image.Pt(70, 80))
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 60, Width: 20, Height: 20}, r)
	assert.False(t, d.Active())

	d.Down(image.Pt(1, 1))
	d.Cancel()
	_, ok = d.Up(image.Pt(9, 9))
	assert.False(t, ok)
}

func TestOverlay_ValidDragPublishesAbsoluteRect(t *testing.T) {
	bus := events.NewBus(discardLogger())
	got := collectAreas(bus)
	surface := &mockSurface{origin: image.Pt(-1920, 0)}
	o := NewOverlay(surface, bus, discardLogger())
	ended := 0
	require.NoError(t, o.Open(context.Background(), func() { ended++ }))

	o.PointerDown(image.Pt(100, 100))
	o.PointerMove(image.Pt(130, 140))
	r, ok := o.PointerUp(image.Pt(150, 150))

	require.True(t, ok)
	want := geometry.Rect{X: 100, Y: 100, Width: 50, Height: 50}
	assert.Equal(t, want, r)
	assert.Equal(t, []geometry.Rect{want}, *got)
	// feedback is relative to the surface origin
	assert.Equal(t, []geometry.Rect{{X: 2020, Y: 100, Width: 30, Height: 40}}, surface.feedback)
	assert.False(t, o.Visible())
	assert.Equal(t, 1, surface.hides)
	assert.Equal(t, 1, ended)
}

func TestOverlay_SmallDragKeepsOverlayOpen(t *testing.T) {
	bus := events.NewBus(discardLogger())
	got := collectAreas(bus)
	surface := &mockSurface{}
	o := NewOverlay(surface, bus, discardLogger())
	require.NoError(t, o.Open(context.Background(), func() {}))

	for _, end := range []image.Point{{110, 150}, {150, 110}, {105, 105}} {
		o.PointerDown(image.Pt(100, 100))
		_, ok := o.PointerUp(end)
		assert.False(t, ok)
	}
	assert.Empty(t, *got)
	assert.True(t, o.Visible())
	assert.Equal(t, 0, surface.hides)
}

func TestOverlay_CancelDismissesWithoutResult(t *testing.T) {
	bus := events.NewBus(discardLogger())
	got := collectAreas(bus)
	surface := &mockSurface{}
	o := NewOverlay(surface, bus, discardLogger())
	ended := 0
	require.NoError(t, o.Open(context.Background(), func() { ended++ }))

	o.PointerDown(image.Pt(0, 0))
	o.PointerMove(image.Pt(300, 300))
	o.Cancel()
	_, ok := o.PointerUp(image.Pt(300, 300))

	assert.False(t, ok)
	assert.Empty(t, *got)
	assert.False(t, o.Visible())
	assert.Equal(t, 1, ended)

	o.Cancel()
	assert.Equal(t, 1, ended)
}

func TestOverlay_ShowFailureIsSelectionToolError(t *testing.T) {
	o := NewOverlay(&mockSurface{showErr: errors.New("no display")}, nil, nil)
	err := o.Open(context.Background(), func() {})
	assert.ErrorIs(t, err, session.ErrSelectionTool)
}

func TestOverlay_ResultReachesController(t *testing.T) {
	bus := events.NewBus(discardLogger())
	ctrl := session.NewController(session.Options{Bus: bus, Logger: discardLogger()})
	ctrl.Mount()
	defer ctrl.Close()

	o := NewOverlay(&mockSurface{}, bus, discardLogger())
	require.NoError(t, o.Open(context.Background(), func() {}))
	o.PointerDown(image.Pt(100, 100))
	_, ok := o.PointerUp(image.Pt(150, 150))
	require.True(t, ok)

	assert.Equal(t, geometry.ManualSelection{X1: 100, Y1: 100, X2: 150, Y2: 150}, ctrl.Selection())
}

func TestSnapshot_DragReportsAndCloses(t *testing.T) {
	modal := &mockModal{}
	var got []geometry.Rect
	s := NewSnapshot(fakeCapturer{img: image.NewRGBA(image.Rect(0, 0, 800, 600))}, modal,
		func(r geometry.Rect) error { got = append(got, r); return nil }, discardLogger())
	ended := 0
	require.NoError(t, s.Open(context.Background(), func() { ended++ }))
	require.True(t, modal.open)

	s.PointerDown(image.Pt(200, 150))
	s.PointerMove(image.Pt(100, 100))
	r, ok := s.PointerUp(image.Pt(50, 40))

	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 40, Width: 150, Height: 110}, r)
	assert.Equal(t, []geometry.Rect{r}, got)
	assert.False(t, modal.open)
	assert.Equal(t, 1, ended)
}

func TestSnapshot_AddsCaptureOrigin(t *testing.T) {
	var got geometry.Rect
	s := NewSnapshot(fakeCapturer{img: image.NewRGBA(image.Rect(-1280, 0, 1920, 1080))}, &mockModal{},
		func(r geometry.Rect) error { got = r; return nil }, nil)
	require.NoError(t, s.Open(context.Background(), func() {}))

	s.PointerDown(image.Pt(10, 10))
	_, ok := s.PointerUp(image.Pt(30, 30))
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: -1270, Y: 10, Width: 20, Height: 20}, got)
}

func TestSnapshot_LeaveCancelsDragButKeepsModal(t *testing.T) {
	modal := &mockModal{}
	called := false
	s := NewSnapshot(fakeCapturer{img: image.NewRGBA(image.Rect(0, 0, 100, 100))}, modal,
		func(geometry.Rect) error { called = true; return nil }, nil)
	require.NoError(t, s.Open(context.Background(), func() {}))

	s.PointerDown(image.Pt(10, 10))
	s.PointerMove(image.Pt(50, 50))
	s.PointerLeave()
	_, ok := s.PointerUp(image.Pt(50, 50))

	assert.False(t, ok)
	assert.False(t, called)
	assert.True(t, modal.open)
	assert.True(t, s.IsOpen())
}

func TestSnapshot_DegenerateDragIgnored(t *testing.T) {
	modal := &mockModal{}
	s := NewSnapshot(fakeCapturer{img: image.NewRGBA(image.Rect(0, 0, 100, 100))}, modal, nil, nil)
	require.NoError(t, s.Open(context.Background(), func() {}))

	s.PointerDown(image.Pt(10, 10))
	_, ok := s.PointerUp(image.Pt(10, 40))
	assert.False(t, ok)
	assert.True(t, modal.open)
}

func TestSnapshot_CaptureFailure(t *testing.T) {
	modal := &mockModal{}
	s := NewSnapshot(fakeCapturer{err: errors.New("backend offline")}, modal, nil, nil)
	err := s.Open(context.Background(), func() {})
	assert.ErrorIs(t, err, session.ErrSelectionTool)
	assert.Nil(t, modal.shown)
}

func TestCoordinator_MutualExclusion(t *testing.T) {
	surface := &mockSurface{}
	modal := &mockModal{}
	o := NewOverlay(surface, nil, nil)
	s := NewSnapshot(fakeCapturer{img: image.NewRGBA(image.Rect(0, 0, 10, 10))}, modal, nil, nil)
	c := NewCoordinator(discardLogger(), diag.New(10), o, s)

	require.NoError(t, c.Begin(context.Background(), KindOverlay))
	kind, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, KindOverlay, kind)

	err := c.Begin(context.Background(), KindSnapshot)
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, modal.open)

	assert.True(t, c.CancelActive())
	_, ok = c.Active()
	assert.False(t, ok)
	assert.False(t, surface.shown)

	require.NoError(t, c.Begin(context.Background(), KindSnapshot))
	assert.True(t, modal.open)
}

func TestCoordinator_ReleasedAfterResult(t *testing.T) {
	o := NewOverlay(&mockSurface{}, nil, nil)
	c := NewCoordinator(nil, nil, o)
	require.NoError(t, c.Begin(context.Background(), KindOverlay))

	o.PointerDown(image.Pt(0, 0))
	_, ok := o.PointerUp(image.Pt(40, 40))
	require.True(t, ok)

	_, active := c.Active()
	assert.False(t, active)
	assert.False(t, c.CancelActive())
}

func TestCoordinator_OpenFailureIsLogged(t *testing.T) {
	log := diag.New(10)
	s := NewSnapshot(fakeCapturer{err: errors.New("denied")}, &mockModal{}, nil, nil)
	c := NewCoordinator(discardLogger(), log, s)

	err := c.Begin(context.Background(), KindSnapshot)
	require.ErrorIs(t, err, session.ErrSelectionTool)
	_, active := c.Active()
	assert.False(t, active)
	assert.Equal(t, 1, log.Count(func(e diag.Entry) bool { return e.Kind == string(session.KindSelectionToolFailure) }))

	err = c.Begin(context.Background(), KindOverlay)
	assert.ErrorIs(t, err, session.ErrSelectionTool)
}

type blockingCapturer struct {
	started chan struct{}
	release chan struct{}
	img     image.Image
}

func (b *blockingCapturer) CaptureScreen(context.Context) (image.Image, error) {
	close(b.started)
	<-b.release
	return b.img, nil
}

func TestCoordinator_CancelDuringCaptureKeepsExclusion(t *testing.T) {
	surface := &mockSurface{}
	modal := &mockModal{}
	capt := &blockingCapturer{
		started: make(chan struct{}),
		release: make(chan struct{}),
		img:     image.NewRGBA(image.Rect(0, 0, 10, 10)),
	}
	o := NewOverlay(surface, nil, nil)
	s := NewSnapshot(capt, modal, nil, nil)
	c := NewCoordinator(discardLogger(), diag.New(10), o, s)

	done := make(chan error, 1)
	go func() { done <- c.Begin(context.Background(), KindSnapshot) }()
	<-capt.started

	require.True(t, c.CancelActive())
	require.NoError(t, c.Begin(context.Background(), KindOverlay))

	close(capt.release)
	assert.ErrorIs(t, <-done, ErrCancelled)

	assert.False(t, modal.open, "cancelled snapshot must not show")
	assert.False(t, s.IsOpen())
	assert.True(t, o.Visible())
	kind, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, KindOverlay, kind)

	assert.True(t, c.CancelActive())
	assert.False(t, surface.shown)
}

func TestSnapshot_OpenWithCancelledContext(t *testing.T) {
	modal := &mockModal{}
	s := NewSnapshot(fakeCapturer{img: image.NewRGBA(image.Rect(0, 0, 10, 10))}, modal, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Open(ctx, func() {})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.False(t, modal.open)
}
