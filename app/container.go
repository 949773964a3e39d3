package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/sawbot-go/backend"
	"github.com/soocke/sawbot-go/config"
	"github.com/soocke/sawbot-go/domain/capture"
	"github.com/soocke/sawbot-go/domain/diag"
	"github.com/soocke/sawbot-go/domain/events"
	"github.com/soocke/sawbot-go/domain/imagefile"
	"github.com/soocke/sawbot-go/domain/selection"
	"github.com/soocke/sawbot-go/domain/session"
	"github.com/soocke/sawbot-go/domain/window"
	"github.com/soocke/sawbot-go/hotkey"
	"github.com/soocke/sawbot-go/notification"
	"github.com/soocke/sawbot-go/store"
	"github.com/soocke/sawbot-go/ui/model"
	"github.com/soocke/sawbot-go/ui/presenter"
	"github.com/soocke/sawbot-go/ui/theme"
	"github.com/soocke/sawbot-go/ui/view"
)

// AppContainer assembles services, models, presenters and views.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	LevelVar *slog.LevelVar

	Bus         *events.Bus
	Diag        *diag.Log
	Prefs       *config.PreferenceStore
	History     *store.History
	Backend     *backend.Client
	Controller  *session.Controller
	Selection   *selection.Coordinator
	Window      *window.Manager
	Hotkeys     *hotkey.Listener
	backendSubs *events.Subscription

	Queue   *presenter.Queue
	Drawing *model.DrawingModel

	RootView *view.RootView
	Overlay  *view.OverlaySurface
	Snapshot *view.SnapshotModal
	Console  *view.LogConsole
	Alert    *view.AlertFlash

	DrawingPresenter   *presenter.DrawingPresenter
	StatePresenter     *presenter.StatePresenter
	SessionPresenter   *presenter.SessionPresenter
	SelectionPresenter *presenter.SelectionPresenter
	WindowPresenter    *presenter.WindowPresenter
	InputPresenter     *presenter.InputPresenter
	HistoryPresenter   *presenter.HistoryPresenter
	ConsolePresenter   *presenter.ConsolePresenter
	Loop               *presenter.Loop
}

// BuildContainer constructs all components. Storage is opened here; no Tk
// widget is created until the app builds the root view.
func BuildContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, levelVar *slog.LevelVar) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger, LevelVar: levelVar}
	c.Bus = events.NewBus(logger)
	c.Diag = diag.New(0)
	c.backendSubs = diag.FollowBackend(c.Bus, c.Diag)

	prefs, err := config.OpenPreferences(cfg.PreferencesPath, logger)
	if err != nil {
		logger.Warn("preferences unavailable, changes may not persist", "path", cfg.PreferencesPath, "error", err)
		c.Diag.Add(diag.LevelWarn, "Preferences could not be loaded: "+err.Error())
	}
	c.Prefs = prefs

	if hist, err := store.OpenHistory(cfg.HistoryPath); err != nil {
		logger.Warn("session history disabled", "path", cfg.HistoryPath, "error", err)
		c.Diag.Add(diag.LevelWarn, "Session history disabled: "+err.Error())
	} else {
		c.History = hist
	}

	c.Backend = backend.New(backend.Options{
		URL:     cfg.BackendURL,
		Secret:  cfg.BackendSecret,
		Timeout: time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
		Bus:     c.Bus,
		Logger:  logger,
	})
	var capturer selection.Capturer = c.Backend
	if cfg.SnapshotSource == config.SnapshotLocal {
		capturer = capture.NewLocalCapturer(logger)
	}

	c.Queue = &presenter.Queue{}
	c.Drawing = &model.DrawingModel{}
	run := presenter.Background(logger)
	c.RootView = view.NewRootView(logger)

	var notifier view.Notifier
	if cfg.DesktopNotify {
		notifier = notification.New("SawBot", logger)
	}
	c.Alert = view.NewAlertFlash(c.Queue, time.Duration(cfg.AlertMillis)*time.Millisecond, notifier)

	var source presenter.HistorySource
	var recorder session.Recorder
	if c.History != nil {
		source = c.History
	}
	c.HistoryPresenter = presenter.NewHistoryPresenter(ctx, source, c.RootView, c.Queue, run, logger)
	if c.History != nil {
		recorder = c.HistoryPresenter.Recorder(c.History)
	}

	bounds := capture.BoundsFunc(logger)
	c.Controller = session.NewController(session.Options{
		Backend:       withLocalPointer(c.Backend),
		Bus:           c.Bus,
		Diag:          c.Diag,
		Speeds:        prefs,
		Alert:         c.Alert,
		History:       recorder,
		Bounds:        bounds,
		ValidateImage: imagefile.Validate,
		Logger:        logger,
	})

	// Selection strategies share one coordinator; Esc and window close cancel
	// through it so the active slot is released.
	c.Overlay = view.NewOverlaySurface(bounds, logger)
	c.Snapshot = view.NewSnapshotModal(logger)
	overlay := selection.NewOverlay(c.Overlay, c.Bus, logger)
	snapshot := selection.NewSnapshot(capturer, c.Snapshot, c.Controller.ApplySelection, logger)
	c.Selection = selection.NewCoordinator(logger, c.Diag, overlay, snapshot)
	cancel := func() { c.Selection.CancelActive() }
	c.Overlay.Attach(overlay, cancel)
	c.Snapshot.Attach(snapshot, cancel)

	c.Window = window.NewManager(view.NewWindowHost(capture.PrimaryBounds, nil, logger), prefs, logger)

	c.StatePresenter = presenter.NewStatePresenter(c.RootView)
	c.Controller.AddListener(c.Drawing.Follow(c.Controller))
	c.Controller.AddListener(c.StatePresenter.OnTransition)
	c.DrawingPresenter = presenter.NewDrawingPresenter(ctx, c.Drawing, c.Controller, c.RootView, c.Queue, run)
	c.SessionPresenter = presenter.NewSessionPresenter(model.NewSessionModel(), c.Drawing, c.RootView)
	c.SelectionPresenter = presenter.NewSelectionPresenter(ctx, c.Selection, c.Controller, c.RootView, c.Queue, run)
	c.WindowPresenter = presenter.NewWindowPresenter(ctx, c.Window, c.RootView)
	c.InputPresenter = presenter.NewInputPresenter(c.Controller, prefs, c.RootView, theme.IDs())

	c.Console = view.NewLogConsole(
		func() { c.ConsolePresenter.Clear() },
		func() error { return c.ConsolePresenter.Copy() },
		func() { c.ConsolePresenter.ToggleAt(time.Now()) },
		logger,
	)
	c.ConsolePresenter = presenter.NewConsolePresenter(c.Diag, c.Console, &view.Clipboard{})

	c.Hotkeys = hotkey.New(logger)
	c.bindHotkey(cfg.ConsoleHotkey, func() {
		c.Queue.Post(func() { c.ConsolePresenter.ToggleAt(time.Now()) })
	})
	c.bindHotkey(cfg.CancelHotkey, func() {
		if _, active := c.Selection.Active(); active {
			c.Selection.CancelActive()
		}
	})

	c.Loop = &presenter.Loop{
		Queue:     c.Queue,
		State:     c.StatePresenter,
		Drawing:   c.DrawingPresenter,
		Session:   c.SessionPresenter,
		Selection: c.SelectionPresenter,
		Window:    c.WindowPresenter,
		Console:   c.ConsolePresenter,
		Surfaces:  []presenter.Syncer{c.Overlay, c.Snapshot},
	}
	return c
}

func (c *AppContainer) bindHotkey(key string, fn func()) {
	if err := c.Hotkeys.Bind(key, fn); err != nil {
		c.Logger.Warn("hotkey not bound", "key", key, "error", err)
		c.Diag.Add(diag.LevelWarn, err.Error())
	}
}

// Close releases services in reverse dependency order. It is safe to call
// more than once.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	c.Selection.CancelActive()
	c.Controller.Close()
	c.ConsolePresenter.Close()
	c.backendSubs.Close()
	if err := c.Backend.Close(); err != nil {
		c.Logger.Debug("backend close", "error", err)
	}
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			c.Logger.Warn("close history", "error", err)
		}
	}
}
