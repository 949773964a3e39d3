package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/imagefile"
	"github.com/soocke/sawbot-go/domain/selection"
	"github.com/soocke/sawbot-go/domain/session"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// FormHandlers are invoked on user edits in the form.
type FormHandlers struct {
	Browse        func(path string)
	Method        func(id string)
	Speed         func(text string)
	Corners       func(sel geometry.ManualSelection)
	CaptureCorner func(corner geometry.Corner)
	Select        func(kind selection.Kind)
}

// FormPanel holds the drawing inputs: image, method, speed and target area.
type FormPanel struct {
	h       FormHandlers
	methods []session.Method

	image   *TextWidget
	method  *TComboboxWidget
	speed   *TextWidget
	corners map[string]*TextWidget
	buttons []*ButtonWidget
}

func NewFormPanel(h FormHandlers) *FormPanel {
	return &FormPanel{h: h, methods: session.Methods(), corners: make(map[string]*TextWidget)}
}

// Build grids the form into parent starting at startRow and returns the next free row.
func (v *FormPanel) Build(parent *FrameWidget, startRow int) (row int) {
	row = startRow
	label := func(text string) {
		Grid(Label(Txt(text), Anchor("w")), In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	}
	button := func(text string, col int, fn func()) *ButtonWidget {
		b := Button(Txt(text), Command(fn))
		Grid(b, In(parent), Row(row), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
		v.buttons = append(v.buttons, b)
		return b
	}

	label("Image")
	v.image = Text(Height(1), Width(32))
	Grid(v.image, In(parent), Row(row), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.image.Configure(State("disabled"))
	button("Browse…", 4, v.browse)
	row++

	label("Method")
	names := make([]string, len(v.methods))
	for i, m := range v.methods {
		names[i] = m.Name
	}
	v.method = TCombobox(Values(names), Width(18), State("readonly"))
	Grid(v.method, In(parent), Row(row), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.method.Current(0)
	Bind(v.method, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(v.method.Current(nil))
		if err == nil && idx >= 0 && idx < len(v.methods) && v.h.Method != nil {
			v.h.Method(v.methods[idx].ID)
		}
	}))
	row++

	label(fmt.Sprintf("Speed (%d-%d)", session.MinSpeed, session.MaxSpeed))
	v.speed = Text(Height(1), Width(6))
	Grid(v.speed, In(parent), Row(row), Column(1), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	button("Set", 2, func() {
		if v.h.Speed != nil {
			v.h.Speed(v.text(v.speed))
		}
	})
	row++

	label("Area (x1, y1, x2, y2)")
	for i, id := range []string{"x1", "y1", "x2", "y2"} {
		w := Text(Height(1), Width(7))
		Grid(w, In(parent), Row(row), Column(1+i), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
		v.corners[id] = w
	}
	row++
	button("Apply area", 1, v.applyCorners)
	button("Start corner ⌖", 2, func() { v.captureCorner(geometry.CornerStart) })
	button("End corner ⌖", 3, func() { v.captureCorner(geometry.CornerEnd) })
	row++
	button("Select on screen", 1, func() { v.selectArea(selection.KindOverlay) })
	button("Select on snapshot", 2, func() { v.selectArea(selection.KindSnapshot) })
	row++
	return row
}

// browse opens the file dialog filtered to accepted image types.
func (v *FormPanel) browse() {
	files := GetOpenFile(Title("Select image"), Filetypes([]FileType{
		{TypeName: "Images", Extensions: imagefile.Extensions()},
		{TypeName: "All files", Extensions: []string{"*"}},
	}))
	if len(files) == 0 || v.h.Browse == nil {
		return
	}
	v.h.Browse(files[0])
}

func (v *FormPanel) applyCorners() {
	sel, ok := v.parseCorners()
	if ok && v.h.Corners != nil {
		v.h.Corners(sel)
	}
}

func (v *FormPanel) captureCorner(c geometry.Corner) {
	if v.h.CaptureCorner != nil {
		v.h.CaptureCorner(c)
	}
}

func (v *FormPanel) selectArea(k selection.Kind) {
	if v.h.Select != nil {
		v.h.Select(k)
	}
}

// SetEditable toggles every input and action button.
func (v *FormPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.corners {
		w.Configure(State(state))
	}
	if v.speed != nil {
		v.speed.Configure(State(state))
	}
	if v.method != nil {
		if enabled {
			v.method.Configure(State("readonly"))
		} else {
			v.method.Configure(State("disabled"))
		}
	}
	for _, b := range v.buttons {
		b.Configure(State(state))
	}
}

func (v *FormPanel) SetImage(path string) { setText(v.image, path, true) }

func (v *FormPanel) SetSpeed(speed int) { setText(v.speed, strconv.Itoa(speed), false) }

// SetMethod selects the method id in the dropdown.
func (v *FormPanel) SetMethod(id string) {
	for i, m := range v.methods {
		if m.ID == id && v.method != nil {
			v.method.Current(i)
			return
		}
	}
}

func (v *FormPanel) SetCorners(sel geometry.ManualSelection) {
	for id, val := range map[string]int{"x1": sel.X1, "y1": sel.Y1, "x2": sel.X2, "y2": sel.Y2} {
		setText(v.corners[id], strconv.Itoa(val), false)
	}
}

func (v *FormPanel) parseCorners() (geometry.ManualSelection, bool) {
	var vals [4]int
	for i, id := range []string{"x1", "y1", "x2", "y2"} {
		n, ok := parseIntField(v.text(v.corners[id]))
		if !ok {
			return geometry.ManualSelection{}, false
		}
		vals[i] = n
	}
	return geometry.ManualSelection{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}, true
}

func (v *FormPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

// setText replaces the content of w, keeping a read-only widget read-only.
func setText(w *TextWidget, s string, readOnly bool) {
	if w == nil {
		return
	}
	if readOnly {
		w.Configure(State("normal"))
	}
	w.Delete("1.0", END)
	w.Insert("1.0", s)
	if readOnly {
		w.Configure(State("disabled"))
	}
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
