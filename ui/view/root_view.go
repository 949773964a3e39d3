package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
	"github.com/soocke/sawbot-go/domain/window"
	"github.com/soocke/sawbot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions wired by the app.
type Handlers struct {
	Form          FormHandlers
	Start         func()
	Stop          func()
	ToggleMini    func()
	TogglePin     func()
	ToggleConsole func()
	Minimize      func()
	Maximize      func()
	Exit          func()
	Theme         func(id string)
	Configure     func(w, h, x, y int)
}

// RootView composes the top-level layout. It implements the view contracts
// of the presenters and owns the subviews.
type RootView struct {
	logger *slog.Logger

	Session SessionStats
	Form    *FormPanel
	Preview *ImagePreview

	body        *FrameWidget
	stateLabel  *TLabelWidget
	statusLabel *TLabelWidget
	startBtn    *TButtonWidget
	stopBtn     *TButtonWidget
	miniBtn     *ButtonWidget
	pinBtn      *ButtonWidget
	themeSelect *TComboboxWidget
	history     *TextWidget
	themes      []string
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger, themes: theme.IDs()}
}

// Build constructs the layout and binds handlers.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	App.WmTitle("SawBot")
	GridColumnConfigure(App, 0, Weight(1))

	// Row 0: controls always visible, also in mini mode.
	top := Frame()
	Grid(top, Row(0), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.startBtn = TButton(Txt("Start drawing"), Style(theme.StylePrimaryButton), Command(h.Start))
	Grid(rv.startBtn, In(top), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.stopBtn = TButton(Txt("Stop"), Style(theme.StyleDangerButton), Command(h.Stop), State("disabled"))
	Grid(rv.stopBtn, In(top), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.stateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.stateLabel, In(top), Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.miniBtn = Button(Txt("Mini"), Command(h.ToggleMini))
	Grid(rv.miniBtn, In(top), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.pinBtn = Button(Txt("Pin"), Command(h.TogglePin))
	Grid(rv.pinBtn, In(top), Row(1), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Grid(Button(Txt("Console"), Command(h.ToggleConsole)), In(top), Row(1), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.Session = NewSessionStats(top, 2, 0)
	rv.statusLabel = TLabel(Txt(""), Anchor("w"), Style(theme.StyleMutedLabel))
	Grid(rv.statusLabel, In(top), Row(3), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"))

	// Row 1: form, preview and history; hidden in mini mode.
	rv.body = Frame()
	Grid(rv.body, Row(1), Column(0), Sticky("nsew"), Padx("0.3m"), Pady("0.3m"))
	rv.Form = NewFormPanel(h.Form)
	row := rv.Form.Build(rv.body, 0)
	rv.Preview = NewImagePreview(rv.body, 0, 5, rv.logger)

	Grid(Label(Txt("Recent activity"), Anchor("w")), In(rv.body), Row(row), Column(0), Sticky("w"), Padx("0.4m"))
	row++
	rv.history = Text(Height(8), Width(72), State("disabled"))
	Grid(rv.history, In(rv.body), Row(row), Column(0), Columnspan(6), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++

	win := Frame()
	Grid(win, In(rv.body), Row(row), Column(0), Columnspan(6), Sticky("we"))
	names := make([]string, len(rv.themes))
	for i, id := range rv.themes {
		p, _ := theme.Lookup(id)
		names[i] = p.Name
	}
	rv.themeSelect = TCombobox(Values(names), Width(12), State("readonly"))
	Grid(rv.themeSelect, In(win), Row(0), Column(0), Sticky("w"), Padx("0.2m"))
	Bind(rv.themeSelect, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(rv.themeSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(rv.themes) {
			if rv.logger != nil {
				rv.logger.Error("theme selection parse error", "error", err)
			}
			return
		}
		h.Theme(rv.themes[idx])
	}))
	Grid(Button(Txt("Minimize"), Command(h.Minimize)), In(win), Row(0), Column(1), Padx("0.2m"))
	Grid(Button(Txt("Maximize"), Command(h.Maximize)), In(win), Row(0), Column(2), Padx("0.2m"))
	Grid(Button(Txt("Exit"), Command(h.Exit)), In(win), Row(0), Column(3), Padx("0.2m"))

	Bind(App, "<F10>", Command(h.ToggleConsole))
	Bind(App, "<Configure>", Command(func(e *Event) {
		if e.W != nil && e.W != App {
			return
		}
		if g, ok := rootGeometry(); ok && h.Configure != nil {
			h.Configure(g.Width, g.Height, g.X, g.Y)
		}
	}))
	WmProtocol(App, "WM_DELETE_WINDOW", h.Exit)
}

func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.stateLabel != nil {
		rv.stateLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.statusLabel != nil {
		rv.statusLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetInputsEditable(enabled bool) {
	if rv != nil && rv.Form != nil {
		rv.Form.SetEditable(enabled)
	}
}

// SetDrawing enables Start or Stop to match the session.
func (rv *RootView) SetDrawing(drawing bool) {
	if rv == nil || rv.startBtn == nil {
		return
	}
	start, stop := "normal", "disabled"
	if drawing {
		start, stop = "disabled", "normal"
	}
	rv.startBtn.Configure(State(start))
	rv.stopBtn.Configure(State(stop))
}

func (rv *RootView) SetSession(s, total time.Duration, count int) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetSession(s, total, count)
	}
}

func (rv *RootView) SetCorners(sel geometry.ManualSelection) {
	if rv != nil && rv.Form != nil {
		rv.Form.SetCorners(sel)
	}
}

func (rv *RootView) SetImage(path string) {
	if rv == nil || rv.Form == nil {
		return
	}
	rv.Form.SetImage(path)
	rv.Preview.Show(path)
}

func (rv *RootView) SetSpeed(speed int) {
	if rv != nil && rv.Form != nil {
		rv.Form.SetSpeed(speed)
	}
}

// SetMethod reflects the method chosen at startup.
func (rv *RootView) SetMethod(id string) {
	if rv != nil && rv.Form != nil {
		rv.Form.SetMethod(id)
	}
}

// ApplyTheme activates the palette and marks it in the dropdown.
func (rv *RootView) ApplyTheme(id string) {
	theme.Apply(id)
	if rv == nil || rv.themeSelect == nil {
		return
	}
	for i, t := range rv.themes {
		if t == id {
			rv.themeSelect.Current(i)
		}
	}
}

// SetMode hides the body in mini mode.
func (rv *RootView) SetMode(mode window.Mode) {
	if rv == nil || rv.body == nil {
		return
	}
	if mode == window.ModeMini {
		GridForget(rv.body.Window)
		rv.miniBtn.Configure(Txt("Full"))
		return
	}
	Grid(rv.body, Row(1), Column(0), Sticky("nsew"), Padx("0.3m"), Pady("0.3m"))
	rv.miniBtn.Configure(Txt("Mini"))
}

func (rv *RootView) SetPinned(on bool) {
	if rv == nil || rv.pinBtn == nil {
		return
	}
	if on {
		rv.pinBtn.Configure(Txt("Unpin"))
		return
	}
	rv.pinBtn.Configure(Txt("Pin"))
}

// ShowHistory lists recent sessions, newest first.
func (rv *RootView) ShowHistory(records []session.Record) {
	if rv == nil || rv.history == nil {
		return
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = historyLine(r)
	}
	setText(rv.history, strings.Join(lines, "\n"), true)
}

func historyLine(r session.Record) string {
	line := fmt.Sprintf("%s  %-10s %-16s %-9s %s", r.StartedAt.Format("Jan 02 15:04"), r.Method, r.Rect, r.Outcome, clock(r.Duration()))
	if r.Error != "" {
		line += "  " + r.Error
	}
	return line
}
