package router

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/go-strand/strand/pkg/bus"
	strerrors "github.com/go-strand/strand/pkg/errors"
	"github.com/go-strand/strand/pkg/host"
)

// Event names announced on the bus by the router.
const (
	// EventNavigationLoad requests a component load for a resolved route.
	// Data is a [LoadRequest]. The component manager (wired by the
	// application context) services it.
	EventNavigationLoad = "navigation:load"
	// EventNavigationComplete announces a finished navigation.
	// Data is the new current [*Match].
	EventNavigationComplete = "navigation:complete"
)

// LoadRequest is the payload of [EventNavigationLoad].
type LoadRequest struct {
	// Component is the component name to load.
	Component string
	// RouteName is the matched route's name.
	RouteName string
	// Path is the navigated path.
	Path string
	// Params holds extracted path parameters.
	Params map[string]string
	// Query holds parsed query parameters.
	Query url.Values
}

// Router resolves paths against registered routes and drives navigation.
//
// At most one navigation is in flight at any instant: a NavigateTo issued
// while another navigation is pending is rejected immediately, never queued,
// and never cancels the in-flight one.
type Router struct {
	bus    *bus.Bus
	host   host.Host
	logger *slog.Logger

	mu       sync.Mutex
	exact    map[string]*Route
	patterns []*Route
	before   []Guard
	after    []Hook
	current  *Match

	navigating bool
	targetPath string

	cancels []func()
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// New creates a Router bound to a bus and a host.
func New(b *bus.Bus, h host.Host, opts ...Option) *Router {
	r := &Router{
		bus:   b,
		host:  h,
		exact: make(map[string]*Route),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// AddRoute registers a route under a path. The path on the route value, if
// set, is overridden by the path argument. At most one entry may exist per
// literal path string; pattern routes are tried in registration order after
// exact lookup fails.
func (r *Router) AddRoute(path string, route Route) error {
	if path == "" {
		return strerrors.E("router.AddRoute", strerrors.KindInvalidArgument,
			errors.New("route path must not be empty"))
	}
	if route.Component == "" {
		return strerrors.Errorf("router.AddRoute", strerrors.KindInvalidArgument,
			"route %q must name a component", path)
	}
	route.Path = path
	if route.Name == "" {
		route.Name = defaultName(path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.exact[path]; dup {
		return strerrors.Errorf("router.AddRoute", strerrors.KindInvalidArgument,
			"route %q already registered", path)
	}
	if isPattern(path) {
		for _, p := range r.patterns {
			if p.Path == path {
				return strerrors.Errorf("router.AddRoute", strerrors.KindInvalidArgument,
					"route %q already registered", path)
			}
		}
		r.patterns = append(r.patterns, &route)
	} else {
		r.exact[path] = &route
	}
	return nil
}

// Handle registers a plain path-to-component route.
func (r *Router) Handle(path, componentName string) error {
	return r.AddRoute(path, Route{Component: componentName})
}

// BeforeEach appends a global before-guard. Guards run in registration
// order, ahead of the matched route's own BeforeEnter.
func (r *Router) BeforeEach(g Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.before = append(r.before, g)
}

// AfterEach appends a global after-hook, run ahead of the matched route's
// own AfterEnter.
func (r *Router) AfterEach(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.after = append(r.after, h)
}

// FindRoute resolves a path: exact string match first, then pattern scan in
// registration order. First match wins.
func (r *Router) FindRoute(path string) (*Match, bool) {
	pathOnly, query := splitPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if route, ok := r.exact[pathOnly]; ok {
		return &Match{Route: route, Path: pathOnly, Params: map[string]string{}, Query: query}, true
	}
	for _, route := range r.patterns {
		if params, ok := matchPattern(route.Path, pathOnly); ok {
			return &Match{Route: route, Path: pathOnly, Params: params, Query: query}, true
		}
	}
	return nil, false
}

// Current returns the current route, nil before the first navigation.
func (r *Router) Current() *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// navigateOptions collects per-navigation settings.
type navigateOptions struct {
	replace     bool
	fromHistory bool
}

// NavigateOption configures one NavigateTo call.
type NavigateOption func(*navigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *navigateOptions) { o.replace = true }
}

// FromHistory marks the navigation as originating from a back/forward
// traversal, suppressing the redundant history push.
func FromHistory() NavigateOption {
	return func(o *navigateOptions) { o.fromHistory = true }
}

// NavigateTo resolves a path and drives the full navigation sequence:
// route resolution (with /404 fallback), before-guards, history update,
// component load request, title update, after-hooks, and the completion
// announcement.
//
// The return value reports whether the navigation took effect. Guard
// rejection and unmatched routes are boolean failures, not errors. A call
// made while another navigation is in flight is rejected immediately.
func (r *Router) NavigateTo(ctx context.Context, path string, opts ...NavigateOption) bool {
	if path == "" {
		strerrors.Report(strerrors.E("router.NavigateTo", strerrors.KindInvalidArgument,
			errors.New("path must not be empty")))
		return false
	}
	var o navigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	if r.navigating {
		target := r.targetPath
		r.mu.Unlock()
		r.logger.Debug("navigation rejected, another in flight",
			slog.String("requested", path),
			slog.String("in_flight", target))
		return false
	}
	r.navigating = true
	r.targetPath = path
	from := r.current
	r.mu.Unlock()

	// The finalizer runs whichever way the navigation ends: success, guard
	// rejection, or error.
	defer func() {
		r.mu.Lock()
		r.navigating = false
		r.targetPath = ""
		r.mu.Unlock()
	}()

	match, ok := r.FindRoute(path)
	if !ok {
		match, ok = r.fallback(path)
		if !ok {
			r.logger.Warn("no route matched", slog.String("path", path))
			return false
		}
	}

	gctx := GuardContext{From: from, To: match}
	if !r.runGuards(ctx, gctx) {
		return false
	}

	if !o.fromHistory {
		if o.replace {
			r.host.Replace(path)
		} else {
			r.host.Push(path)
		}
	}

	r.bus.Emit(EventNavigationLoad, LoadRequest{
		Component: match.Route.Component,
		RouteName: match.Route.Name,
		Path:      match.Path,
		Params:    match.Params,
		Query:     match.Query,
	})

	r.mu.Lock()
	r.current = match
	r.mu.Unlock()

	if match.Route.Title != "" {
		r.host.SetTitle(match.Route.Title)
	}

	r.mu.Lock()
	after := make([]Hook, len(r.after))
	copy(after, r.after)
	r.mu.Unlock()
	for _, h := range after {
		h(ctx, gctx)
	}
	if match.Route.AfterEnter != nil {
		match.Route.AfterEnter(ctx, gctx)
	}

	r.bus.Emit(EventNavigationComplete, match)
	return true
}

// fallback resolves the not-found route for an unmatched path. The requested
// path is preserved on the match; asking for the not-found path itself yields
// no fallback, which guards against infinite recursion.
func (r *Router) fallback(path string) (*Match, bool) {
	pathOnly, query := splitPath(path)
	if pathOnly == NotFoundPath {
		return nil, false
	}
	match, ok := r.FindRoute(NotFoundPath)
	if !ok {
		return nil, false
	}
	match.Path = pathOnly
	match.Query = query
	return match, true
}

// runGuards runs global before-guards in registration order, then the
// route's own BeforeEnter. A false result or an error cancels the
// navigation; a guard error is recorded but surfaces only as the boolean
// outcome.
func (r *Router) runGuards(ctx context.Context, gctx GuardContext) bool {
	r.mu.Lock()
	guards := make([]Guard, len(r.before))
	copy(guards, r.before)
	r.mu.Unlock()
	if gctx.To.Route.BeforeEnter != nil {
		guards = append(guards, gctx.To.Route.BeforeEnter)
	}

	for _, g := range guards {
		allowed, err := func() (allowed bool, err error) {
			defer strerrors.RecoverWithCallback("router.guard", func(any) {
				allowed, err = false, nil
			})
			return g(ctx, gctx)
		}()
		if err != nil {
			strerrors.Report(strerrors.E("router.NavigateTo", strerrors.KindGuardRejected, err))
			return false
		}
		if !allowed {
			r.logger.Debug("navigation cancelled by guard", slog.String("path", gctx.To.Path))
			return false
		}
	}
	return true
}

// Start resolves the host's current path as the initial navigation and
// begins intercepting link activations and back/forward traversal.
func (r *Router) Start(ctx context.Context) {
	cancelLink := r.host.OnLink(func(ev host.LinkEvent) {
		if !ev.Interceptable() {
			return
		}
		r.NavigateTo(context.Background(), ev.Path)
	})
	cancelPop := r.host.OnPopState(func(path string) {
		r.NavigateTo(context.Background(), path, FromHistory())
	})

	r.mu.Lock()
	r.cancels = append(r.cancels, cancelLink, cancelPop)
	r.mu.Unlock()

	if initial := r.host.Current(); initial != "" {
		r.NavigateTo(ctx, initial, FromHistory())
	}
}

// Stop cancels host subscriptions and destroys the route table.
func (r *Router) Stop() {
	r.mu.Lock()
	cancels := r.cancels
	r.cancels = nil
	r.exact = make(map[string]*Route)
	r.patterns = nil
	r.before = nil
	r.after = nil
	r.current = nil
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
