// Package backend talks to the drawing automation engine over a JSON
// websocket: request/response commands correlated by id, plus pushed events.
package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command names.
const (
	CmdStartDrawing     = "start_drawing"
	CmdStopDrawing      = "stop_drawing"
	CmdCaptureScreen    = "capture_screen"
	CmdGetMousePosition = "get_mouse_position"
)

// Event names pushed by the engine.
const (
	EventEmergencyStop   = "emergency-stop"
	EventAreaSelected    = "area-selected"
	EventDrawingFinished = "drawing-finished"
	EventLog             = "log"
)

// Message types.
const (
	TypeCommand = "command"
	TypeResult  = "result"
	TypeEvent   = "event"
)

var (
	ErrNotConnected = errors.New("backend not connected")
	ErrTimeout      = errors.New("backend request timed out")
)

// CommandError is a rejection reported by the engine itself.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Command, e.Message)
}

type request struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Command string `json:"command"`
	Params  any    `json:"params,omitempty"`
}

// envelope is any inbound message.
type envelope struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	OK      bool            `json:"ok,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`

	lost bool // synthesized when the connection drops
}

type mousePosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// captureData is the capture_screen result. X and Y give the screen
// position of the image's top-left pixel.
type captureData struct {
	Image string `json:"image"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

type areaPayload struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type logPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
