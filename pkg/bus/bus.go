// Package bus provides the process-wide publish/subscribe channel that
// decouples the Strand runtime's subsystems.
//
// Listeners are dispatched in strictly descending priority order, with
// insertion order breaking ties. Each listener invocation is isolated: an
// error or panic in one handler is reported through [errors.Report] and does
// not prevent the remaining handlers from running, nor does it propagate to
// the emitter.
//
//	b := bus.New()
//	unsubscribe, _ := b.Subscribe("navigation:complete", func(ctx context.Context, e bus.Event) (any, error) {
//	    log.Printf("navigated to %v", e.Data)
//	    return nil, nil
//	})
//	defer unsubscribe()
//	b.Emit("navigation:complete", "/home")
package bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	strerrors "github.com/go-strand/strand/pkg/errors"
)

// Event is the value delivered to handlers.
type Event struct {
	// Name is the event name the emission was published under.
	Name string
	// Data is the payload passed to Emit.
	Data any
	// Timestamp is when the emission started.
	Timestamp time.Time
}

// Handler processes a single emission of an event.
//
// The returned value is collected into the emission's [Result] slice in
// dispatch order. Handlers doing deferred work should honor ctx; for
// synchronous emission ctx is context.Background().
type Handler func(ctx context.Context, e Event) (any, error)

// Result records the outcome of one listener invocation.
type Result struct {
	// ListenerID identifies the listener that produced this result.
	ListenerID uint64
	// Value is the handler's return value.
	Value any
	// Err is the handler's error, or the recovered panic wrapped as an error.
	Err error
	// Panicked is true if the handler panicked.
	Panicked bool
	// Duration is how long the handler ran.
	Duration time.Duration
}

// listener is one registered callback under an event name.
type listener struct {
	id       uint64
	event    string
	handler  Handler
	priority int
	once     bool
	seq      uint64
}

// Bus is a publish/subscribe channel with priority-ordered dispatch and a
// bounded emission history. The zero value is not usable; use [New].
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]*listener
	nextID    uint64
	nextSeq   uint64
	history   *ring
}

// Option configures a Bus.
type Option func(*Bus)

// WithHistoryCapacity overrides the emission history capacity.
func WithHistoryCapacity(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.history = newRing(n)
		}
	}
}

// DefaultHistoryCapacity is the number of emissions retained for introspection.
const DefaultHistoryCapacity = 128

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]*listener),
		history:   newRing(DefaultHistoryCapacity),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for an event name and returns an unsubscribe
// function. The unsubscribe function is idempotent.
//
// Subscribe fails with [strerrors.KindInvalidArgument] if the event name is
// empty or the handler is nil.
func (b *Bus) Subscribe(event string, h Handler, opts ...SubscribeOption) (func(), error) {
	if event == "" {
		return nil, strerrors.E("bus.Subscribe", strerrors.KindInvalidArgument,
			errors.New("event name must not be empty"))
	}
	if h == nil {
		return nil, strerrors.E("bus.Subscribe", strerrors.KindInvalidArgument,
			fmt.Errorf("handler for %q must not be nil", event))
	}

	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b.mu.Lock()
	b.nextID++
	b.nextSeq++
	l := &listener{
		id:       b.nextID,
		event:    event,
		handler:  h,
		priority: cfg.priority,
		once:     cfg.once,
		seq:      b.nextSeq,
	}
	entries := append(b.listeners[event], l)
	// Descending priority, insertion order stable among equals.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})
	b.listeners[event] = entries
	id := l.id
	b.mu.Unlock()

	return func() { b.remove(event, id) }, nil
}

// remove deletes a listener by id. Missing listeners are ignored, which makes
// unsubscribe functions and once-listener cleanup idempotent.
func (b *Bus) remove(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.listeners[event]
	for i, l := range entries {
		if l.id == id {
			b.listeners[event] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(b.listeners[event]) == 0 {
		delete(b.listeners, event)
	}
}

// Emit dispatches an event synchronously. Handlers run to completion in-line
// in dispatch order; results are collected in the same order.
//
// Emitting an event with no listeners is a no-op apart from history recording.
func (b *Bus) Emit(event string, data any) []Result {
	return b.dispatch(context.Background(), event, data)
}

// EmitAsync dispatches an event whose handlers may perform deferred work.
// Each handler is awaited in dispatch order before the next one runs, so the
// listener-ordering guarantee is identical to [Bus.Emit]. The context is
// passed through to every handler.
func (b *Bus) EmitAsync(ctx context.Context, event string, data any) []Result {
	if ctx == nil {
		ctx = context.Background()
	}
	return b.dispatch(ctx, event, data)
}

func (b *Bus) dispatch(ctx context.Context, event string, data any) []Result {
	e := Event{Name: event, Data: data, Timestamp: time.Now()}

	b.mu.Lock()
	b.history.push(Record{Event: event, Data: data, Timestamp: e.Timestamp})
	entries := b.listeners[event]
	snapshot := make([]*listener, len(entries))
	copy(snapshot, entries)
	// Once-listeners leave the active set before invocation, so re-entrant
	// emission of the same event from inside the handler never re-invokes them.
	remaining := entries[:0:0]
	for _, l := range entries {
		if !l.once {
			remaining = append(remaining, l)
		}
	}
	if len(remaining) == 0 {
		delete(b.listeners, event)
	} else {
		b.listeners[event] = remaining
	}
	b.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	results := make([]Result, 0, len(snapshot))
	for _, l := range snapshot {
		results = append(results, b.invoke(ctx, l, e))
	}
	return results
}

// invoke runs a single handler with panic recovery. Failures are reported and
// recorded but never propagate to the emitter.
func (b *Bus) invoke(ctx context.Context, l *listener, e Event) (res Result) {
	res.ListenerID = l.id
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Panicked = true
			res.Err = fmt.Errorf("listener panicked: %v", r)
			strerrors.ReportPanic(&strerrors.PanicError{
				Op:         "bus.Emit " + e.Name,
				Value:      r,
				StackTrace: strerrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()

	value, err := l.handler(ctx, e)
	res.Value = value
	res.Err = err
	if err != nil {
		strerrors.Report(strerrors.E("bus.Emit "+e.Name, strerrors.KindHandler, err))
	}
	return res
}

// RemoveAll unsubscribes every listener for the given event names, or every
// listener on the bus when called with no arguments.
func (b *Bus) RemoveAll(events ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(events) == 0 {
		b.listeners = make(map[string][]*listener)
		return
	}
	for _, event := range events {
		delete(b.listeners, event)
	}
}

// ListenerCount returns the number of active listeners for an event name.
func (b *Bus) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}
