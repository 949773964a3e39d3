package diag

import (
	"strings"

	"github.com/soocke/sawbot-go/domain/events"
)

// ParseLevel maps a backend level name to a Level. Unknown names are info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "critical", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}

// FollowBackend appends backend log events published on bus to l until the
// returned subscription is closed.
func FollowBackend(bus *events.Bus, l *Log) *events.Subscription {
	return bus.Subscribe(events.TopicBackendLog, func(ev events.Event) {
		p, ok := ev.Payload.(events.BackendLog)
		if !ok {
			return
		}
		l.Append(Entry{Level: ParseLevel(p.Level), Message: p.Message, Source: SourceBackend})
	})
}
