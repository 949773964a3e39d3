package window

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/sawbot-go/config"
)

type mockHost struct {
	sizes     []config.Size
	pinned    bool
	pinCalls  int
	resizeErr error
	pinErr    error
	minimized int
}

func (h *mockHost) SetGeometry(_ context.Context, s config.Size, _ *config.Position) error {
	if h.resizeErr != nil {
		return h.resizeErr
	}
	h.sizes = append(h.sizes, s)
	return nil
}

func (h *mockHost) SetAlwaysOnTop(_ context.Context, on bool) error {
	h.pinCalls++
	if h.pinErr != nil {
		return h.pinErr
	}
	h.pinned = on
	return nil
}

func (h *mockHost) Minimize(context.Context) error { h.minimized++; return nil }
func (h *mockHost) ToggleMaximize(context.Context) error { return nil }
func (h *mockHost) Close(context.Context) error { return nil }

func (h *mockHost) last() config.Size { return h.sizes[len(h.sizes)-1] }

func newPrefs(t *testing.T) *config.PreferenceStore {
	t.Helper()
	p, err := config.OpenPreferences(filepath.Join(t.TempDir(), "prefs.json"), nil)
	require.NoError(t, err)
	return p
}

// recordingPrefs counts geometry writes reaching the store.
type recordingPrefs struct {
	*config.PreferenceStore
	writes []config.Size
	pos    []*config.Position
}

func (p *recordingPrefs) RecordGeometry(size config.Size, pos *config.Position) error {
	p.writes = append(p.writes, size)
	p.pos = append(p.pos, pos)
	return p.PreferenceStore.RecordGeometry(size, pos)
}

func TestToggle_RoundTripRestoresLastNormalSize(t *testing.T) {
	host := &mockHost{}
	prefs := &recordingPrefs{PreferenceStore: newPrefs(t)}
	m := NewManager(host, prefs, nil)
	require.NoError(t, m.RecordGeometry(1400, 900, 10, 20))

	mode, err := m.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeMini, mode)
	assert.Equal(t, config.Size{Width: MiniWidth, Height: MiniHeight}, host.last())
	assert.True(t, host.pinned, "mini forces pin")
	assert.True(t, m.Pinned())

	// mini geometry is not recorded
	require.NoError(t, m.RecordGeometry(MiniWidth, MiniHeight, 0, 0))
	size, _ := prefs.LastSize()
	assert.Equal(t, config.Size{Width: 1400, Height: 900}, size)

	require.Len(t, prefs.writes, 1, "only the normal-mode record so far")

	mode, err = m.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeNormal, mode)
	assert.Equal(t, config.Size{Width: 1400, Height: 900}, host.last())
	assert.False(t, host.pinned, "user pin preference restored")

	// leaving mini writes the restored normal geometry back
	require.Len(t, prefs.writes, 2)
	assert.Equal(t, config.Size{Width: 1400, Height: 900}, prefs.writes[1])
	require.NotNil(t, prefs.pos[1])
	assert.Equal(t, config.Position{X: 10, Y: 20}, *prefs.pos[1])
	size, _ = prefs.LastSize()
	assert.Equal(t, config.Size{Width: 1400, Height: 900}, size)
}

func TestToggle_FallsBackToDefaultSize(t *testing.T) {
	host := &mockHost{}
	m := NewManager(host, newPrefs(t), nil)
	_, err := m.Toggle(context.Background())
	require.NoError(t, err)
	_, err = m.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.Size{Width: config.DefaultWindowWidth, Height: config.DefaultWindowHeight}, host.last())
}

func TestToggle_FallbackSizeIsPersisted(t *testing.T) {
	host := &mockHost{}
	prefs := newPrefs(t)
	m := NewManager(host, prefs, nil)
	_, err := m.Toggle(context.Background())
	require.NoError(t, err)
	_, ok := prefs.LastSize()
	assert.False(t, ok, "entering mini writes nothing")

	_, err = m.Toggle(context.Background())
	require.NoError(t, err)
	size, ok := prefs.LastSize()
	require.True(t, ok)
	assert.Equal(t, config.Size{Width: config.DefaultWindowWidth, Height: config.DefaultWindowHeight}, size)
}

func TestToggle_MiniScale(t *testing.T) {
	host := &mockHost{}
	prefs := newPrefs(t)
	require.NoError(t, prefs.SetMiniModeScale(1.5))
	m := NewManager(host, prefs, nil)
	_, err := m.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.Size{Width: 450, Height: 570}, host.last())
}

func TestToggle_FailureLeavesModeUnchanged(t *testing.T) {
	host := &mockHost{resizeErr: errors.New("no window")}
	m := NewManager(host, newPrefs(t), nil)
	changed := 0
	m.OnModeChange(func(Mode) { changed++ })

	mode, err := m.Toggle(context.Background())
	require.ErrorIs(t, err, ErrHost)
	assert.Equal(t, ModeNormal, mode)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, 0, changed)

	host.resizeErr = nil
	host.pinErr = errors.New("wm refused")
	_, err = m.Toggle(context.Background())
	require.ErrorIs(t, err, ErrHost)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, config.Size{Width: config.DefaultWindowWidth, Height: config.DefaultWindowHeight}, host.last(), "rolled back")
}

func TestSetPinned(t *testing.T) {
	host := &mockHost{}
	prefs := newPrefs(t)
	m := NewManager(host, prefs, nil)

	require.NoError(t, m.SetPinned(context.Background(), true))
	assert.True(t, host.pinned)
	assert.True(t, prefs.AlwaysOnTop())

	_, err := m.Toggle(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.SetPinned(context.Background(), false))
	assert.True(t, host.pinned, "mini stays pinned")
	assert.False(t, prefs.AlwaysOnTop())
	assert.True(t, m.Pinned())

	_, err = m.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, host.pinned)
}

func TestRestore(t *testing.T) {
	host := &mockHost{}
	prefs := newPrefs(t)
	require.NoError(t, prefs.RecordGeometry(config.Size{Width: 900, Height: 600}, &config.Position{X: 5, Y: 5}))
	m := NewManager(host, prefs, nil)
	require.NoError(t, m.Restore(context.Background()))
	assert.Equal(t, config.Size{Width: 900, Height: 600}, host.last())
}

func TestHostPassThrough(t *testing.T) {
	host := &mockHost{}
	m := NewManager(host, newPrefs(t), nil)
	require.NoError(t, m.Minimize(context.Background()))
	require.NoError(t, m.ToggleMaximize(context.Background()))
	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, 1, host.minimized)
}
