package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func rec(id string, start time.Time, d time.Duration, outcome session.Outcome) session.Record {
	return session.Record{
		ID: id, ImagePath: "/img/" + id + ".png", Method: "contour", Speed: 2,
		Rect:      geometry.Rect{X: 10, Y: 20, Width: 300, Height: 200},
		StartedAt: start, EndedAt: start.Add(d), Outcome: outcome,
	}
}

func TestHistory_RecordAndRecent(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, h.RecordSession(ctx, rec("a", base, time.Minute, session.OutcomeCompleted)))
	require.NoError(t, h.RecordSession(ctx, rec("b", base.Add(time.Hour), 30*time.Second, session.OutcomeEmergency)))
	failed := rec("c", base.Add(2*time.Hour), 0, session.OutcomeFailed)
	failed.Error = "backend command failed"
	require.NoError(t, h.RecordSession(ctx, failed))

	got, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "backend command failed", got[0].Error)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, session.OutcomeEmergency, got[1].Outcome)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 300, Height: 200}, got[1].Rect)
	assert.Equal(t, 30*time.Second, got[1].Duration())

	stats, err := h.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 90*time.Second, stats.Drawing)

	require.NoError(t, h.Clear(ctx))
	got, err = h.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistory_ReopenKeepsDataAndSchema(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "history.db")
	h, err := OpenHistory(p)
	require.NoError(t, err)
	require.NoError(t, h.RecordSession(context.Background(), rec("x", time.Now(), time.Second, session.OutcomeStopped)))
	require.NoError(t, h.Close())

	h, err = OpenHistory(p)
	require.NoError(t, err)
	defer h.Close()
	got, err := h.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, session.OutcomeStopped, got[0].Outcome)
}
