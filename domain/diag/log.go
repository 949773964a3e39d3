// Package diag keeps the user-visible diagnostics log: a capped, append-only
// ring of timestamped entries shown by the debug console.
package diag

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Capacity is the maximum number of retained entries.
const Capacity = 1000

// Level is the severity of an entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Source tells local entries from those forwarded by the backend.
type Source string

const (
	SourceFrontend Source = "frontend"
	SourceBackend  Source = "backend"
)

// Entry is one diagnostics record. Kind carries the error taxonomy name for
// failure entries and is empty otherwise.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Source    Source    `json:"source"`
	Kind      string    `json:"kind,omitempty"`
}

// Log is safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	buf   []Entry // ring storage, len == capacity once full
	start int     // index of oldest entry
	n     int
	cap   int
	subs  map[chan Entry]struct{}
	now   func() time.Time
}

// New returns a log holding at most capacity entries (Capacity if <= 0).
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Log{cap: capacity, buf: make([]Entry, capacity), subs: make(map[chan Entry]struct{}), now: time.Now}
}

// Add appends a frontend entry.
func (l *Log) Add(level Level, msg string) Entry {
	return l.Append(Entry{Level: level, Message: msg, Source: SourceFrontend})
}

// Failure appends an error entry tagged with kind.
func (l *Log) Failure(kind, msg string) Entry {
	return l.Append(Entry{Level: LevelError, Message: msg, Source: SourceFrontend, Kind: kind})
}

// Append stores e, filling ID, Timestamp and Source when unset. When full
// the oldest entry is evicted.
func (l *Log) Append(e Entry) Entry {
	if l == nil {
		return e
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Source == "" {
		e.Source = SourceFrontend
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	if l.n < l.cap {
		l.buf[(l.start+l.n)%l.cap] = e
		l.n++
	} else {
		l.buf[l.start] = e
		l.start = (l.start + 1) % l.cap
	}
	for ch := range l.subs {
		select {
		case ch <- e:
		default:
			// slow console, drop
		}
	}
	return e
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Entries returns a copy, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, l.n)
	for i := 0; i < l.n; i++ {
		out[i] = l.buf[(l.start+i)%l.cap]
	}
	return out
}

// Recent returns up to n entries, newest first. n <= 0 means all.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > l.n {
		n = l.n
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = l.buf[(l.start+l.n-1-i)%l.cap]
	}
	return out
}

// Count returns how many retained entries match the predicate.
func (l *Log) Count(match func(Entry) bool) int {
	c := 0
	for _, e := range l.Entries() {
		if match(e) {
			c++
		}
	}
	return c
}

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	l.start, l.n = 0, 0
	clear(l.buf)
	l.mu.Unlock()
}

// Subscribe streams new entries. Delivery never blocks Append; a subscriber
// that falls behind misses entries. Call the returned func to unsubscribe.
func (l *Log) Subscribe(buffer int) (<-chan Entry, func()) {
	if buffer <= 0 {
		buffer = 200
	}
	ch := make(chan Entry, buffer)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch, func() {
		l.mu.Lock()
		if _, ok := l.subs[ch]; ok {
			delete(l.subs, ch)
			close(ch)
		}
		l.mu.Unlock()
	}
}
