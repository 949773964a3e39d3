package view

import (
	"fmt"
	"time"

	"github.com/soocke/sawbot-go/ui/presenter"
	"github.com/soocke/sawbot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Notifier shows a desktop notification without blocking.
type Notifier interface {
	NotifyAsync(title, body string)
}

// AlertFlash is the emergency-stop visual alert: a topmost red banner over
// the main window that disappears after a short time. Alert may be called
// from any goroutine.
type AlertFlash struct {
	queue    *presenter.Queue
	duration time.Duration
	notifier Notifier

	win     *ToplevelWidget
	afterID string
}

// NewAlertFlash returns an alert. notifier may be nil.
func NewAlertFlash(queue *presenter.Queue, duration time.Duration, notifier Notifier) *AlertFlash {
	if duration <= 0 {
		duration = 1500 * time.Millisecond
	}
	return &AlertFlash{queue: queue, duration: duration, notifier: notifier}
}

// Alert implements session.Alerter.
func (a *AlertFlash) Alert(message string) {
	if a.notifier != nil {
		a.notifier.NotifyAsync("SawBot", message)
	}
	a.queue.Post(func() { a.show(message) })
}

func (a *AlertFlash) show(message string) {
	p := theme.Current()
	if a.win != nil {
		TclAfterCancel(a.afterID)
		Destroy(a.win)
	}
	win := App.Toplevel(Background(p.Danger), Borderwidth(0))
	win.WmTitle("Alert")
	WmAttributes(win.Window, "-topmost", 1)
	lbl := win.Label(Txt(message), Background(p.Danger), Foreground("white"), Padx("6m"), Pady("3m"))
	Grid(lbl, Row(0), Column(0), Sticky("nsew"))
	if g, ok := rootGeometry(); ok {
		WmGeometry(win.Window, fmt.Sprintf("+%d+%d", g.X+g.Width/2-120, g.Y+g.Height/3))
	}
	a.win = win
	a.afterID = TclAfter(a.duration, func() {
		if a.win != nil {
			Destroy(a.win)
			a.win = nil
		}
	})
}
