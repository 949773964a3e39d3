package session

import (
	"context"
	"image"
	"time"

	"github.com/soocke/sawbot-go/domain/geometry"
)

// State enumerates drawing session states.
type State int

const (
	StateIdle State = iota
	StateDrawing
	// StateEmergencyStopped is transient; the controller resolves it to idle
	// within the same transition.
	StateEmergencyStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateEmergencyStopped:
		return "emergency_stopped"
	default:
		return "unknown"
	}
}

// StateListener is called after each state transition, outside the
// controller's lock. Concurrent operations may deliver transitions out of
// order; State() is authoritative.
type StateListener func(prev, next State)

// DrawRequest is the payload of the backend start_drawing command.
type DrawRequest struct {
	ImagePath string `json:"imagePath"`
	Method    string `json:"method"`
	Speed     int    `json:"speed"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (r DrawRequest) Rect() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Backend is the command side of the automation engine.
type Backend interface {
	StartDrawing(ctx context.Context, req DrawRequest) error
	StopDrawing(ctx context.Context) error
	MousePosition(ctx context.Context) (image.Point, error)
}

// SpeedSource resolves the persisted per-method speed.
type SpeedSource interface {
	MethodSpeed(method string) (int, bool)
}

// Alerter shows a short visual alert. Implementations must not block.
type Alerter interface {
	Alert(message string)
}

// Outcome is how a recorded session ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeStopped   Outcome = "stopped"
	OutcomeEmergency Outcome = "emergency"
	OutcomeFailed    Outcome = "failed"
)

// Record describes one finished session attempt.
type Record struct {
	ID        string
	ImagePath string
	Method    string
	Speed     int
	Rect      geometry.Rect
	StartedAt time.Time
	EndedAt   time.Time
	Outcome   Outcome
	Error     string
}

func (r Record) Duration() time.Duration { return r.EndedAt.Sub(r.StartedAt) }

// Recorder persists finished sessions.
type Recorder interface {
	RecordSession(ctx context.Context, rec Record) error
}
