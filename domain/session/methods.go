package session

// Speed bounds for every drawing method.
const (
	MinSpeed = 0
	MaxSpeed = 50
	// DefaultSpeed is used when no speed is stored for a method.
	DefaultSpeed = 1
)

// Method describes one backend drawing algorithm.
type Method struct {
	ID          string
	Name        string
	Description string
	// Speed is the factory default.
	Speed int
}

var methods = []Method{
	{ID: "matrix", Name: "Matrix Dot", Description: "Row-by-row dot scan of dark pixels", Speed: 1},
	{ID: "dithering", Name: "Floyd Dither", Description: "Error-diffusion dithering drawn as dots", Speed: 2},
	{ID: "continuous", Name: "Continuous", Description: "Connected horizontal strokes", Speed: 2},
	{ID: "spiral", Name: "Spiral", Description: "Spiral raster from the centre outwards", Speed: 1},
	{ID: "stippling", Name: "Stippling", Description: "Density-weighted random dots", Speed: 10},
	{ID: "contour", Name: "Contour", Description: "Traced edge outlines", Speed: 2},
	{ID: "human", Name: "Human Sketch", Description: "Loose strokes with hand jitter", Speed: 2},
}

// DefaultMethod is selected on startup.
const DefaultMethod = "matrix"

// Methods returns the catalogue in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

func LookupMethod(id string) (Method, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// DefaultSpeeds returns a fresh map of factory speeds keyed by method id.
func DefaultSpeeds() map[string]int {
	out := make(map[string]int, len(methods))
	for _, m := range methods {
		out[m.ID] = m.Speed
	}
	return out
}

func ClampSpeed(v int) int {
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}
