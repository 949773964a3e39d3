package diag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_NeverExceedsCapacityAndEvictsOldest(t *testing.T) {
	l := New(0)
	for i := 1; i <= Capacity; i++ {
		l.Add(LevelInfo, fmt.Sprintf("entry %d", i))
	}
	require.Equal(t, Capacity, l.Len())
	assert.Equal(t, "entry 1", l.Entries()[0].Message)

	l.Add(LevelInfo, "entry 1001")
	require.Equal(t, Capacity, l.Len())
	entries := l.Entries()
	assert.Equal(t, "entry 2", entries[0].Message)
	assert.Equal(t, "entry 1001", entries[len(entries)-1].Message)
}

func TestLog_RecentIsNewestFirst(t *testing.T) {
	l := New(3)
	for i := 1; i <= 5; i++ {
		l.Add(LevelDebug, fmt.Sprintf("%d", i))
	}
	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "5", recent[0].Message)
	assert.Equal(t, "4", recent[1].Message)
	assert.Len(t, l.Recent(0), 3)
}

func TestLog_AppendFillsDefaults(t *testing.T) {
	l := New(10)
	e := l.Failure("BackendCommandFailure", "start failed")
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, SourceFrontend, e.Source)
	assert.Equal(t, LevelError, e.Level)

	b := l.Append(Entry{Level: LevelWarn, Message: "clamped", Source: SourceBackend})
	assert.Equal(t, SourceBackend, b.Source)
	assert.NotEqual(t, e.ID, b.ID)
}

func TestLog_ClearAndSubscribe(t *testing.T) {
	l := New(10)
	ch, cancel := l.Subscribe(4)
	l.Add(LevelInfo, "hello")
	got := <-ch
	assert.Equal(t, "hello", got.Message)
	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	l.Clear()
	assert.Equal(t, 0, l.Len())
	l.Add(LevelInfo, "after clear")
	assert.Equal(t, "after clear", l.Entries()[0].Message)
}
