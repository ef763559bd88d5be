// Package app assembles the Strand runtime into one explicitly
// constructed application context.
//
// An [App] owns the event bus, the error-handler chain, the component
// manager, and the router, and wires them together: navigation load
// requests announced by the router are serviced by loading the matched
// component into the configured outlet container, unloading whatever
// occupied it first. Nothing in the runtime reaches for ambient globals;
// the App is passed to whichever code needs a subsystem, and its
// lifecycle is bounded by [App.Start] and [App.Shutdown].
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-strand/strand/pkg/bus"
	"github.com/go-strand/strand/pkg/component"
	strerrors "github.com/go-strand/strand/pkg/errors"
	"github.com/go-strand/strand/pkg/host"
	"github.com/go-strand/strand/pkg/manager"
	"github.com/go-strand/strand/pkg/notify"
	"github.com/go-strand/strand/pkg/router"
)

// DefaultOutlet is the container id routed components render into when
// Config.Outlet is empty.
const DefaultOutlet = "app"

// Config configures an App.
type Config struct {
	// Host is the document, history, and navigation-source boundary.
	// Required.
	Host host.Host

	// Outlet is the container id routed components are loaded into.
	// Defaults to [DefaultOutlet].
	Outlet string

	// Logger is the structured logger shared by all subsystems.
	// Defaults to [slog.Default].
	Logger *slog.Logger

	// Presenter, when set, enables user notifications: reported errors
	// are routed to it by severity ahead of logging.
	Presenter notify.Presenter

	// HistoryCapacity overrides the event bus history size.
	HistoryCapacity int
}

// App is a running Strand application context.
type App struct {
	logger   *slog.Logger
	bus      *bus.Bus
	host     host.Host
	manager  *manager.Manager
	router   *router.Router
	notifier *notify.Notifier
	handler  strerrors.ErrorHandler
	outlet   string

	mu        sync.Mutex
	started   bool
	unsubLoad func()
}

// New assembles an App from cfg. The app is inert until [App.Start].
func New(cfg Config) (*App, error) {
	if cfg.Host == nil {
		return nil, strerrors.E("app.New", strerrors.KindInvalidArgument,
			errors.New("config must supply a host"))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	outlet := cfg.Outlet
	if outlet == "" {
		outlet = DefaultOutlet
	}

	var busOpts []bus.Option
	if cfg.HistoryCapacity > 0 {
		busOpts = append(busOpts, bus.WithHistoryCapacity(cfg.HistoryCapacity))
	}
	b := bus.New(busOpts...)

	a := &App{
		logger:  logger,
		bus:     b,
		host:    cfg.Host,
		manager: manager.New(b, cfg.Host, manager.WithLogger(logger)),
		router:  router.New(b, cfg.Host, router.WithLogger(logger)),
		outlet:  outlet,
	}

	var handler strerrors.ErrorHandler = &strerrors.SlogHandler{Logger: logger}
	if cfg.Presenter != nil {
		a.notifier = notify.New(cfg.Presenter,
			notify.WithLogger(logger),
			notify.WithNext(handler))
		handler = a.notifier
	}
	a.handler = handler
	return a, nil
}

// Bus returns the shared event bus.
func (a *App) Bus() *bus.Bus { return a.bus }

// Router returns the router.
func (a *App) Router() *router.Router { return a.router }

// Manager returns the component manager.
func (a *App) Manager() *manager.Manager { return a.manager }

// Host returns the host boundary.
func (a *App) Host() host.Host { return a.host }

// Logger returns the shared structured logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Notifier returns the notifier, nil when no presenter was configured.
func (a *App) Notifier() *notify.Notifier { return a.notifier }

// Start installs the error-handler chain, wires navigation load requests
// to the component manager, and resolves the host's current path as the
// initial navigation. Starting a started app is a no-op.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		a.logger.Warn("app already started")
		return nil
	}
	a.started = true
	a.mu.Unlock()

	strerrors.SetHandler(a.handler)

	unsub, err := a.bus.Subscribe(router.EventNavigationLoad, a.onNavigationLoad)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.unsubLoad = unsub
	a.mu.Unlock()

	a.router.Start(ctx)
	a.logger.Info("app started", slog.String("outlet", a.outlet))
	return nil
}

// Shutdown stops the router, unloads every active component, clears the
// bus, and restores the default error handler. It is idempotent.
func (a *App) Shutdown() {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return
	}
	a.started = false
	unsub := a.unsubLoad
	a.unsubLoad = nil
	a.mu.Unlock()

	a.router.Stop()
	if unsub != nil {
		unsub()
	}
	a.manager.Cleanup()
	a.bus.RemoveAll()
	strerrors.SetHandler(nil)
	a.logger.Info("app stopped")
}

// onNavigationLoad services a router load request: the outlet's current
// occupant is unloaded first, then the matched component is loaded with
// the route's params, query, and path as props.
func (a *App) onNavigationLoad(ctx context.Context, e bus.Event) (any, error) {
	req, ok := e.Data.(router.LoadRequest)
	if !ok {
		return nil, strerrors.Errorf("app.onNavigationLoad", strerrors.KindInvalidArgument,
			"unexpected load payload %T", e.Data)
	}

	if prev, ok := a.manager.InContainer(a.outlet); ok {
		a.manager.Unload(prev.ID)
	}

	props := component.Props{
		"path":  req.Path,
		"query": req.Query,
	}
	for k, v := range req.Params {
		props[k] = v
	}

	inst, err := a.manager.Load(ctx, req.Component, props, a.outlet)
	if err != nil {
		return nil, err
	}
	return inst.ID, nil
}
