package view

import (
	"log/slog"

	"github.com/soocke/sawbot-go/domain/diag"
	"github.com/soocke/sawbot-go/ui/presenter"
	"github.com/soocke/sawbot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// LogConsole is the debug console window listing diagnostics entries,
// newest first.
type LogConsole struct {
	logger  *slog.Logger
	onClear func()
	onCopy  func() error
	onClose func()

	win  *ToplevelWidget
	text *TextWidget
}

// NewLogConsole returns a console; the window is created when first shown.
func NewLogConsole(onClear func(), onCopy func() error, onClose func(), logger *slog.Logger) *LogConsole {
	return &LogConsole{onClear: onClear, onCopy: onCopy, onClose: onClose, logger: logger}
}

// SetConsoleVisible creates or destroys the console window.
func (c *LogConsole) SetConsoleVisible(visible bool) {
	if visible && c.win == nil {
		c.build()
		return
	}
	if !visible && c.win != nil {
		Destroy(c.win)
		c.win, c.text = nil, nil
	}
}

func (c *LogConsole) build() {
	p := theme.Current()
	win := App.Toplevel(Background(p.AppBg))
	win.WmTitle("SawBot console (F10)")
	WmGeometry(win.Window, "720x360")
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))

	c.text = win.Text(Width(100), Height(20), Background(p.Surface), Foreground(p.Text))
	Grid(c.text, Row(0), Column(0), Columnspan(3), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))

	clear := win.Button(Txt("Clear"), Command(func() {
		if c.onClear != nil {
			c.onClear()
		}
	}))
	Grid(clear, Row(1), Column(0), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
	copyBtn := win.Button(Txt("Copy"), Command(func() {
		if c.onCopy == nil {
			return
		}
		if err := c.onCopy(); err != nil && c.logger != nil {
			c.logger.Warn("console copy failed", "error", err)
		}
	}))
	Grid(copyBtn, Row(1), Column(1), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
	closeBtn := win.Button(Txt("Close"), Command(c.close))
	Grid(closeBtn, Row(1), Column(2), Sticky("e"), Padx("0.2m"), Pady("0.2m"))

	Bind(win.Window, "<F10>", Command(c.close))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", c.close)
	c.win = win
}

// close routes through the presenter so its visibility flag stays in sync.
func (c *LogConsole) close() {
	if c.onClose != nil {
		c.onClose()
	}
}

// ShowEntries replaces the console text.
func (c *LogConsole) ShowEntries(entries []diag.Entry) {
	if c.text == nil {
		return
	}
	c.text.Configure(State("normal"))
	c.text.Delete("1.0", END)
	for i, e := range entries {
		line := presenter.FormatEntry(e)
		if i < len(entries)-1 {
			line += "\n"
		}
		c.text.Insert(END, line)
	}
	c.text.Configure(State("disabled"))
}
