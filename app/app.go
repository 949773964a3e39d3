package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/sawbot-go/config"
	"github.com/soocke/sawbot-go/debug"
	"github.com/soocke/sawbot-go/domain/diag"
	"github.com/soocke/sawbot-go/domain/selection"
	"github.com/soocke/sawbot-go/ui/view"
)

const (
	tick          = 100 * time.Millisecond
	backendRetry  = 2 * time.Second
	debugInterval = 5 * time.Second
)

type app struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfgPath string
	c       *AppContainer
	afterID string
	once    sync.Once
}

// NewApp wires the container. cfgPath is watched for log level changes when
// non-empty.
func NewApp(cfg *config.Config, cfgPath string, logger *slog.Logger, levelVar *slog.LevelVar) *app {
	ctx, cancel := context.WithCancel(context.Background())
	return &app{ctx: ctx, cancel: cancel, cfgPath: cfgPath, c: BuildContainer(ctx, cfg, logger, levelVar)}
}

// Start builds the UI, starts background services and blocks in the Tk
// event loop until the main window is closed.
func (a *app) Start() {
	c := a.c
	c.RootView.Build(a.handlers())
	c.RootView.ApplyTheme(c.Prefs.ThemeID())

	c.Controller.Mount()
	c.ConsolePresenter.Start()
	go c.Backend.Run(a.ctx, backendRetry)
	c.Hotkeys.Start(a.ctx)
	a.watchConfig()
	if c.Config.Debug {
		debug.StartGoroutineLogger(a.ctx, debugInterval, c.Logger)
		debug.StartMemLogger(a.ctx, debugInterval, c.Logger)
	}

	if err := c.Window.Restore(a.ctx); err != nil {
		c.Logger.Warn("restore window", "error", err)
	}
	c.RootView.SetPinned(c.Window.Pinned())
	c.RootView.SetMethod(c.Controller.Method())
	c.InputPresenter.SelectMethod(c.Controller.Method())
	c.HistoryPresenter.Refresh()
	c.Diag.Add(diag.LevelInfo, "SawBot started")
	c.Logger.Info("app started", "backend", c.Config.BackendURL, "snapshot_source", c.Config.SnapshotSource)

	c.Loop.Schedule = a.scheduleUpdate
	a.scheduleUpdate()

	App.Wait()
	a.shutdown()
}

func (a *app) handlers() view.Handlers {
	c := a.c
	return view.Handlers{
		Form: view.FormHandlers{
			Browse:        c.InputPresenter.SelectImage,
			Method:        c.InputPresenter.SelectMethod,
			Speed:         c.InputPresenter.SetSpeed,
			Corners:       c.SelectionPresenter.EditCorners,
			CaptureCorner: c.SelectionPresenter.CaptureCorner,
			Select:        func(k selection.Kind) { c.SelectionPresenter.Begin(k) },
		},
		Start:         c.DrawingPresenter.Start,
		Stop:          c.DrawingPresenter.Stop,
		ToggleMini:    c.WindowPresenter.ToggleMini,
		TogglePin:     c.WindowPresenter.TogglePin,
		ToggleConsole: func() { c.ConsolePresenter.ToggleAt(time.Now()) },
		Minimize: func() {
			if err := c.Window.Minimize(a.ctx); err != nil {
				c.RootView.SetStatus("Minimize failed: " + err.Error())
			}
		},
		Maximize: func() {
			if err := c.Window.ToggleMaximize(a.ctx); err != nil {
				c.RootView.SetStatus("Maximize failed: " + err.Error())
			}
		},
		Exit:  a.exit,
		Theme: c.InputPresenter.SelectTheme,
		Configure: func(w, h, x, y int) {
			c.WindowPresenter.OnConfigure(w, h, x, y, time.Now())
		},
	}
}

// watchConfig follows edits to the config file and applies the log level
// without a restart.
func (a *app) watchConfig() {
	if a.cfgPath == "" || a.c.LevelVar == nil {
		return
	}
	c := a.c
	err := config.Watch(a.ctx, a.cfgPath, func(nc *config.Config) {
		lvl := nc.Level()
		if lvl == c.LevelVar.Level() {
			return
		}
		c.LevelVar.Set(lvl)
		c.Logger.Info("log level changed", "level", lvl.String())
	}, func(err error) {
		c.Logger.Warn("config reload failed", "path", a.cfgPath, "error", err)
	})
	if err != nil {
		c.Logger.Warn("config watch disabled", "path", a.cfgPath, "error", err)
	}
}

func (a *app) exit() {
	a.shutdown()
	if err := a.c.Window.Close(context.Background()); err != nil {
		a.c.Logger.Warn("close window", "error", err)
	}
}

func (a *app) shutdown() {
	a.once.Do(func() {
		if a.afterID != "" {
			TclAfterCancel(a.afterID)
			a.afterID = ""
		}
		a.c.Loop.Schedule = nil
		a.cancel()
		a.c.Close()
		a.c.Logger.Info("app stopped")
	})
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps every tick on the Tk event loop thread.
	a.afterID = TclAfter(tick, a.c.Loop.Tick)
}
