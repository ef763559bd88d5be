// Package manager owns the registry of component constructors and the set of
// currently mounted instances, and orchestrates the component lifecycle
// contract against host containers.
//
// The manager never talks to the router directly; the router requests loads
// by emitting [router.EventNavigationLoad] on the shared bus, and the
// application context binds that event to [Manager.Load].
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-strand/strand/pkg/bus"
	"github.com/go-strand/strand/pkg/component"
	strerrors "github.com/go-strand/strand/pkg/errors"
	"github.com/go-strand/strand/pkg/host"
)

// Constructor creates a fresh, unattached component instance.
type Constructor func() component.Component

// Instance is a live, constructed component bound to exactly one container.
// The registry entry is owned exclusively by the Manager; component code
// mutates only its own props, state, and flags.
type Instance struct {
	// ID is the generated instance id the registry key.
	ID string
	// Name is the component's registered name.
	Name string
	// Component is the live component.
	Component component.Component
	// Container is the host subtree the instance owns while mounted.
	Container host.Container
}

// Base returns the instance's lifecycle base.
func (i *Instance) Base() *component.Base {
	return component.BaseOf(i.Component)
}

// pendingLoad is a load in flight for one (component, container) pair.
// Concurrent identical loads share it instead of constructing twice.
type pendingLoad struct {
	done chan struct{}
	inst *Instance
	err  error
}

// Manager registers component constructors and loads, tracks, and unloads
// component instances.
type Manager struct {
	bus    *bus.Bus
	doc    host.Document
	logger *slog.Logger

	mu          sync.Mutex
	ctors       map[string]Constructor
	active      map[string]*Instance
	byContainer map[string]string
	pending     map[string]*pendingLoad
	nextID      uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New creates a Manager bound to a bus and a host document.
func New(b *bus.Bus, doc host.Document, opts ...Option) *Manager {
	m := &Manager{
		bus:         b,
		doc:         doc,
		ctors:       make(map[string]Constructor),
		active:      make(map[string]*Instance),
		byContainer: make(map[string]string),
		pending:     make(map[string]*pendingLoad),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Register adds a component constructor under a name.
func (m *Manager) Register(name string, ctor Constructor) error {
	if name == "" {
		return strerrors.E("manager.Register", strerrors.KindInvalidArgument,
			errors.New("component name must not be empty"))
	}
	if ctor == nil {
		return strerrors.E("manager.Register", strerrors.KindInvalidArgument,
			fmt.Errorf("constructor for %q must not be nil", name))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.ctors[name]; exists {
		return strerrors.Errorf("manager.Register", strerrors.KindInvalidArgument,
			"component %q already registered", name)
	}
	m.ctors[name] = ctor
	return nil
}

// Registered reports whether a constructor exists under the name.
func (m *Manager) Registered(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ctors[name]
	return ok
}

// Load resolves the named constructor and runs the full load sequence:
// construct, initialize (prop validation, stylesheet, initial render, action
// binding), mount, register. Each step's failure aborts the remainder and
// propagates as the load failure.
//
// Loading the same named component into the same container while an
// identical load is in flight joins the pending load and returns its result,
// so rapid repeated route-load events produce exactly one instance. Loads of
// one component type into different containers are independent.
func (m *Manager) Load(ctx context.Context, name string, props component.Props, containerID string) (*Instance, error) {
	m.mu.Lock()
	ctor, ok := m.ctors[name]
	m.mu.Unlock()
	if !ok {
		return nil, strerrors.Errorf("manager.Load", strerrors.KindNotRegistered,
			"no component registered as %q", name)
	}
	return m.load(ctx, name, ctor, props, containerID)
}

// LoadWith runs the load sequence with a direct constructor reference,
// bypassing the name registry. The name is still used for the stylesheet
// convention, lifecycle announcements, and load deduplication.
func (m *Manager) LoadWith(ctx context.Context, name string, ctor Constructor, props component.Props, containerID string) (*Instance, error) {
	if ctor == nil {
		return nil, strerrors.E("manager.Load", strerrors.KindInvalidArgument,
			errors.New("constructor must not be nil"))
	}
	return m.load(ctx, name, ctor, props, containerID)
}

func (m *Manager) load(ctx context.Context, name string, ctor Constructor, props component.Props, containerID string) (*Instance, error) {
	key := name + "\x00" + containerID

	m.mu.Lock()
	if p, inFlight := m.pending[key]; inFlight {
		m.mu.Unlock()
		<-p.done
		return p.inst, p.err
	}
	p := &pendingLoad{done: make(chan struct{})}
	m.pending[key] = p
	m.mu.Unlock()

	inst, err := m.doLoad(ctx, name, ctor, props, containerID)

	m.mu.Lock()
	p.inst, p.err = inst, err
	delete(m.pending, key)
	m.mu.Unlock()
	close(p.done)

	return inst, err
}

func (m *Manager) doLoad(ctx context.Context, name string, ctor Constructor, props component.Props, containerID string) (*Instance, error) {
	container, ok := m.doc.Container(containerID)
	if !ok {
		return nil, strerrors.Errorf("manager.Load", strerrors.KindInvalidArgument,
			"no container %q in host document", containerID)
	}

	m.mu.Lock()
	if prevID, occupied := m.byContainer[containerID]; occupied {
		// Container ownership is exclusive: the new load evicts the previous
		// instance's rendered content, but its destroy hook only runs on an
		// explicit Unload.
		m.logger.Warn("container occupied, evicting rendered content",
			slog.String("container", containerID),
			slog.String("previous", prevID),
			slog.String("loading", name))
	}
	m.mu.Unlock()

	c := ctor()
	if c == nil {
		return nil, strerrors.Errorf("manager.Load", strerrors.KindConfiguration,
			"constructor for %q returned nil", name)
	}
	base := component.BaseOf(c)
	base.Attach(c, component.Config{
		Name:      name,
		Bus:       m.bus,
		Document:  m.doc,
		Container: container,
		Props:     props,
		Logger:    m.logger,
	})

	if err := base.Init(ctx); err != nil {
		return nil, err
	}

	if mount, ok := c.(component.Mounter); ok {
		if err := mount.OnMount(ctx); err != nil {
			se := strerrors.E("manager.Load", strerrors.KindUnknown, err)
			se.Component = name
			return nil, se
		}
	}

	m.mu.Lock()
	m.nextID++
	inst := &Instance{
		ID:        fmt.Sprintf("%s-%d", name, m.nextID),
		Name:      name,
		Component: c,
		Container: container,
	}
	m.active[inst.ID] = inst
	m.byContainer[containerID] = inst.ID
	m.mu.Unlock()

	m.logger.Debug("component loaded",
		slog.String("instance", inst.ID),
		slog.String("container", containerID))
	return inst, nil
}

// Get returns an active instance by id.
func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.active[id]
	return inst, ok
}

// InContainer returns the active instance mounted in a container, if any.
func (m *Manager) InContainer(containerID string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byContainer[containerID]
	if !ok {
		return nil, false
	}
	inst, ok := m.active[id]
	return inst, ok
}

// ActiveCount returns the number of mounted instances.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Unload tears an instance down and removes it from the registry. The
// sequence mirrors load: unmount hook, then listener removal, destroy hook,
// and subtree detachment via the component's Destroy. Each step is
// failure-isolated: errors are reported, not fatal.
//
// Unload returns false if no instance exists under the id.
func (m *Manager) Unload(id string) bool {
	m.mu.Lock()
	inst, ok := m.active[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.active, id)
	if m.byContainer[inst.Container.ID()] == id {
		delete(m.byContainer, inst.Container.ID())
	}
	m.mu.Unlock()

	if um, ok := inst.Component.(component.Unmounter); ok {
		if err := um.OnUnmount(); err != nil {
			se := strerrors.E("manager.Unload", strerrors.KindHandler, err)
			se.Component = inst.Name
			strerrors.Report(se)
		}
	}

	if err := inst.Base().Destroy(); err != nil {
		se := strerrors.E("manager.Unload", strerrors.KindHandler, err)
		se.Component = inst.Name
		strerrors.Report(se)
	}

	m.logger.Debug("component unloaded", slog.String("instance", id))
	return true
}

// Cleanup unloads every active instance and clears both the instance
// registry and the constructor table. Used at application shutdown.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Unload(id)
	}

	m.mu.Lock()
	m.ctors = make(map[string]Constructor)
	m.active = make(map[string]*Instance)
	m.byContainer = make(map[string]string)
	m.mu.Unlock()
}
