package session

import "errors"

var (
	ErrMissingInput    = errors.New("missing input")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrBackendCommand  = errors.New("backend command failed")
	ErrSelectionTool   = errors.New("selection tool failed")
	// ErrSessionActive is returned by StartDrawing while a session is running.
	ErrSessionActive = errors.New("drawing session already active")
	// ErrInterrupted is returned by StartDrawing when the backend accepted the
	// command after an emergency stop or explicit stop had already won.
	ErrInterrupted = errors.New("drawing start interrupted")
)

// ErrorKind names a failure class in diagnostics entries.
type ErrorKind string

const (
	KindNone                  ErrorKind = ""
	KindMissingInput          ErrorKind = "MissingInput"
	KindInvalidGeometry       ErrorKind = "InvalidGeometry"
	KindBackendCommandFailure ErrorKind = "BackendCommandFailure"
	KindSelectionToolFailure  ErrorKind = "SelectionToolFailure"
)

// Kind maps err to its failure class.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, ErrInvalidGeometry):
		return KindInvalidGeometry
	case errors.Is(err, ErrBackendCommand):
		return KindBackendCommandFailure
	case errors.Is(err, ErrSelectionTool):
		return KindSelectionToolFailure
	default:
		return KindNone
	}
}
