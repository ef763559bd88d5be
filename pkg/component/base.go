package component

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/go-strand/strand/pkg/bus"
	strerrors "github.com/go-strand/strand/pkg/errors"
	"github.com/go-strand/strand/pkg/host"
)

// Config carries everything a component needs from its surroundings.
// The manager populates it during load; tests populate it directly.
type Config struct {
	// Name is the component's registered name.
	Name string
	// Bus is the shared event bus. May be nil, in which case lifecycle
	// announcements are skipped.
	Bus *bus.Bus
	// Document is the host document, used for stylesheet loading. Optional.
	Document host.Document
	// Container is the host subtree this instance owns. Required to render.
	Container host.Container
	// Props is the initial prop set.
	Props Props
	// Logger receives lifecycle warnings. Defaults to slog.Default().
	Logger *slog.Logger
	// SkipInitialRender disables the render normally performed at the end
	// of initialization.
	SkipInitialRender bool
	// SkipStylesheet disables by-convention stylesheet loading.
	SkipStylesheet bool
}

// stateUpdate is one queued SetState application.
type stateUpdate struct {
	partial    State
	autoRender bool
}

// Base provides the lifecycle state machine shared by all components.
// Embed it by value; the embedding struct satisfies [Component].
//
// The lifecycle is Uninitialized → Initialized → Rendered, with re-renders
// allowed, and a terminal Destroyed state: any later lifecycle call fails
// with [strerrors.KindAlreadyDestroyed].
type Base struct {
	mu   sync.Mutex
	self Component
	cfg  Config

	props State // merged prop snapshot; State-typed to share merge helpers
	state State

	initialized bool
	rendered    bool
	destroyed   bool
	renderCount int

	bindings bindingSet
	cleanups []func()

	updates  []stateUpdate
	applying bool
}

func (b *Base) base() *Base { return b }

// Attach binds the Base to its embedding component and its surroundings.
// It must be called exactly once, before any lifecycle method. The manager
// does this automatically during load.
func (b *Base) Attach(self Component, cfg Config) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.self = self
	b.cfg = cfg
	b.props = make(State, len(cfg.Props))
	for k, v := range cfg.Props {
		b.props[k] = v
	}
	b.state = make(State)
}

// Name returns the component's registered name.
func (b *Base) Name() string { return b.cfg.Name }

// Container returns the container this instance is bound to, or nil.
func (b *Base) Container() host.Container { return b.cfg.Container }

// Bus returns the shared event bus, or nil.
func (b *Base) Bus() *bus.Bus { return b.cfg.Bus }

// Prop returns a prop value, or nil if absent.
func (b *Base) Prop(key string) any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.props[key]
}

// Props returns a copy of the current prop set.
func (b *Base) Props() Props {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(Props, len(b.props))
	for k, v := range b.props {
		out[k] = v
	}
	return out
}

// StateValue returns a state value, or nil if absent.
func (b *Base) StateValue(key string) any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state[key]
}

// IsInitialized reports whether initialization has completed.
func (b *Base) IsInitialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// IsRendered reports whether the instance currently has rendered content.
func (b *Base) IsRendered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rendered
}

// IsDestroyed reports whether the instance has been destroyed.
func (b *Base) IsDestroyed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}

// RenderCount returns how many renders have completed.
func (b *Base) RenderCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderCount
}

func (b *Base) logger() *slog.Logger {
	if b.cfg.Logger != nil {
		return b.cfg.Logger
	}
	return slog.Default()
}

// Init runs the initialization sequence: prop validation, by-convention
// stylesheet loading, the subclass [Initializer] hook, and, unless disabled,
// an initial render. Completion is announced as [EventInitialized].
//
// Calling Init on an initialized instance is a warning no-op. Calling it on
// a destroyed instance fails with [strerrors.KindAlreadyDestroyed].
func (b *Base) Init(ctx context.Context) error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return b.destroyedErr("component.Init")
	}
	if b.initialized {
		b.mu.Unlock()
		b.logger().Warn("component already initialized", slog.String("component", b.cfg.Name))
		return nil
	}
	b.mu.Unlock()

	if v, ok := b.self.(PropValidator); ok {
		if err := v.ValidateProps(b.Props()); err != nil {
			return b.fail("component.Init", strerrors.KindInvalidArgument, err)
		}
	}

	if !b.cfg.SkipStylesheet && b.cfg.Document != nil {
		b.loadStylesheet()
	}

	if init, ok := b.self.(Initializer); ok {
		if err := init.OnInit(ctx); err != nil {
			return b.fail("component.Init", strerrors.KindUnknown, err)
		}
	}

	if !b.cfg.SkipInitialRender {
		if err := b.Render(ctx); err != nil {
			return err
		}
	}

	b.mu.Lock()
	b.initialized = true
	b.mu.Unlock()

	b.announce(EventInitialized, LifecycleInfo{Name: b.cfg.Name})
	return nil
}

// loadStylesheet tries the convention-derived candidate paths in order,
// stopping at the first success. Failures are silently skipped.
func (b *Base) loadStylesheet() {
	for _, href := range StylesheetCandidates(b.cfg.Name) {
		if err := b.cfg.Document.LoadStylesheet(href); err == nil {
			return
		}
	}
}

// Render produces markup from the component's single markup source and
// replaces the container's entire content with it, then runs the
// [PostRenderer] hook and rebinds declarative actions. Completion is
// announced as [EventRendered] with timing data.
//
// Render fails with [strerrors.KindAlreadyDestroyed] on a destroyed
// instance and with [strerrors.KindConfiguration] if the component supplies
// neither markup source or has no container.
func (b *Base) Render(ctx context.Context) error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return b.destroyedErr("component.Render")
	}
	wasRendered := b.rendered
	b.mu.Unlock()

	if b.cfg.Container == nil {
		return b.fail("component.Render", strerrors.KindConfiguration,
			errNoContainer)
	}

	if wasRendered {
		b.bindings.clear()
	}

	start := time.Now()
	markup, err := b.markup(ctx)
	if err != nil {
		return err
	}
	b.cfg.Container.SetContent(markup)
	duration := time.Since(start)

	if pr, ok := b.self.(PostRenderer); ok {
		if err := pr.AfterRender(); err != nil {
			// Post-render hook failures are reported but do not abort
			// the render.
			b.report("component.Render", strerrors.KindHandler, err)
		}
	}

	if err := b.bindActions(markup); err != nil {
		return err
	}

	b.mu.Lock()
	b.rendered = true
	b.renderCount++
	count := b.renderCount
	b.mu.Unlock()

	b.announce(EventRendered, RenderInfo{Name: b.cfg.Name, Duration: duration, Count: count})
	return nil
}

// markup obtains markup from exactly one of the two component-supplied
// sources. The synchronous template wins when both exist.
func (b *Base) markup(ctx context.Context) (string, error) {
	if t, ok := b.self.(Templater); ok {
		return t.Template(), nil
	}
	if p, ok := b.self.(HTMLProducer); ok {
		markup, err := p.HTML(ctx)
		if err != nil {
			return "", b.fail("component.Render", strerrors.KindRender, err)
		}
		return markup, nil
	}
	return "", b.fail("component.Render", strerrors.KindConfiguration, errNoMarkupSource)
}

// UpdateProps merges partial into the prop set. A re-render happens only if
// the merged result differs from the prior snapshot or force is set, and
// only while the instance is rendered.
func (b *Base) UpdateProps(ctx context.Context, partial Props, force bool) error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return b.destroyedErr("component.UpdateProps")
	}
	changed := false
	for k, v := range partial {
		if prev, ok := b.props[k]; !ok || !reflect.DeepEqual(prev, v) {
			changed = true
		}
		b.props[k] = v
	}
	rendered := b.rendered
	b.mu.Unlock()

	if (changed || force) && rendered {
		return b.Render(ctx)
	}
	return nil
}

// SetState merges partial into the component state and re-renders if the
// instance is currently rendered.
//
// Updates are applied through a single-consumer FIFO queue: a SetState
// issued while another is being applied is queued and processed after the
// in-flight one completes, never interleaved. A render triggered by one
// update therefore never observes a half-applied concurrent update.
func (b *Base) SetState(partial State) error {
	return b.setState(partial, true)
}

// SetStateQuiet merges partial into the component state without triggering
// a render.
func (b *Base) SetStateQuiet(partial State) error {
	return b.setState(partial, false)
}

func (b *Base) setState(partial State, autoRender bool) error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return b.destroyedErr("component.SetState")
	}
	b.updates = append(b.updates, stateUpdate{partial: partial, autoRender: autoRender})
	if b.applying {
		// An application loop is already draining the queue.
		b.mu.Unlock()
		return nil
	}
	b.applying = true
	b.mu.Unlock()

	for {
		b.mu.Lock()
		if len(b.updates) == 0 || b.destroyed {
			b.applying = false
			b.mu.Unlock()
			return nil
		}
		u := b.updates[0]
		b.updates = b.updates[1:]
		for k, v := range u.partial {
			b.state[k] = v
		}
		render := u.autoRender && b.rendered
		b.mu.Unlock()

		if render {
			if err := b.Render(context.Background()); err != nil {
				b.report("component.SetState", strerrors.KindRender, err)
			}
		}
	}
}

// OnCleanup registers a cleanup function run during Destroy, in LIFO order.
// If the instance is already destroyed the cleanup runs immediately.
func (b *Base) OnCleanup(cleanup func()) {
	if cleanup == nil {
		return
	}
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		cleanup()
		return
	}
	b.cleanups = append(b.cleanups, cleanup)
	b.mu.Unlock()
}

// SubscribeBus subscribes to the shared bus and arranges for the
// subscription to be removed when the instance is destroyed.
func (b *Base) SubscribeBus(event string, h bus.Handler, opts ...bus.SubscribeOption) error {
	if b.cfg.Bus == nil {
		return b.fail("component.SubscribeBus", strerrors.KindConfiguration,
			errNoBus)
	}
	unsubscribe, err := b.cfg.Bus.Subscribe(event, h, opts...)
	if err != nil {
		return err
	}
	b.OnCleanup(unsubscribe)
	return nil
}

// Destroy tears the instance down: the [Destroyer] hook, removal of every
// bound listener (actions and bus subscriptions), container clearing, and
// the terminal state mark. Completion is announced as [EventDestroyed].
//
// Destroy is idempotent: a second call is a warning no-op that re-runs
// nothing.
func (b *Base) Destroy() error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		b.logger().Warn("component already destroyed", slog.String("component", b.cfg.Name))
		return nil
	}
	b.destroyed = true
	cleanups := b.cleanups
	b.cleanups = nil
	b.updates = nil
	b.rendered = false
	b.mu.Unlock()

	if d, ok := b.self.(Destroyer); ok {
		if err := d.OnDestroy(); err != nil {
			b.report("component.Destroy", strerrors.KindHandler, err)
		}
	}

	b.bindings.clear()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	if b.cfg.Container != nil {
		b.cfg.Container.Clear()
	}

	b.announce(EventDestroyed, LifecycleInfo{Name: b.cfg.Name})
	return nil
}

// announce emits a lifecycle event if a bus is attached.
func (b *Base) announce(event string, data any) {
	if b.cfg.Bus != nil {
		b.cfg.Bus.Emit(event, data)
	}
}

func (b *Base) destroyedErr(op string) error {
	err := strerrors.Errorf(op, strerrors.KindAlreadyDestroyed,
		"lifecycle call on destroyed instance")
	err.Component = b.cfg.Name
	return err
}

func (b *Base) fail(op string, kind strerrors.Kind, err error) error {
	se := strerrors.E(op, kind, err)
	se.Component = b.cfg.Name
	return se
}

func (b *Base) report(op string, kind strerrors.Kind, err error) {
	strerrors.Report(b.fail(op, kind, err).(*strerrors.StrandError))
}
