// Package component defines the lifecycle contract every Strand UI unit
// satisfies.
//
// There is no required superclass. A component is any struct that embeds
// [Base] and implements the capability interfaces it needs: [Templater] or
// [HTMLProducer] for markup (exactly one is required), and optionally
// [ActionProvider], [PropValidator], and the lifecycle hook interfaces. The
// manager and renderer depend only on these interfaces.
//
//	type Counter struct {
//	    component.Base
//	}
//
//	func (c *Counter) Template() string {
//	    n, _ := c.StateValue("count").(int)
//	    return fmt.Sprintf(`<button data-action="increment">%d</button>`, n)
//	}
//
//	func (c *Counter) Actions() map[string]component.ActionFunc {
//	    return map[string]component.ActionFunc{
//	        "increment": func(e component.ActionEvent) error {
//	            n, _ := c.StateValue("count").(int)
//	            return c.SetState(component.State{"count": n + 1})
//	        },
//	    }
//	}
package component

import "context"

// Props is the configuration passed to a component at load time and merged
// by [Base.UpdateProps].
type Props map[string]any

// State is a component's internal mutable state, merged by [Base.SetState].
type State map[string]any

// Component is satisfied by any struct that embeds [Base]. The manager and
// renderer accept components only through this interface.
type Component interface {
	base() *Base
}

// BaseOf returns the embedded [Base] of a component. The runtime uses this
// to drive the lifecycle without knowing concrete types.
func BaseOf(c Component) *Base {
	return c.base()
}

// Templater supplies synchronous markup. Components implement either this or
// [HTMLProducer]; implementing neither is a configuration error. When both
// are present the synchronous template wins.
type Templater interface {
	Template() string
}

// HTMLProducer supplies markup that requires deferred work (data fetches,
// composition of async fragments). The render call awaits the result.
type HTMLProducer interface {
	HTML(ctx context.Context) (string, error)
}

// ActionEvent carries the payload of a declarative action invocation.
type ActionEvent struct {
	// Action is the bound action name.
	Action string
	// Values holds submitted form values for submit bindings, nil otherwise.
	Values map[string]string
	// Data is an optional host-supplied payload.
	Data any
}

// ActionFunc handles one declarative action. An error is reported through
// the error layer and returned to the host, but never aborts the runtime.
type ActionFunc func(e ActionEvent) error

// ActionProvider exposes a component's action table: an explicit mapping from
// action identifiers appearing in the markup to handler functions. The
// mapping is validated when bindings are scanned, so an unresolvable action
// identifier fails the render instead of becoming a silent no-op.
type ActionProvider interface {
	Actions() map[string]ActionFunc
}

// PropValidator validates props during initialization. A validation error
// aborts initialization and therefore the load.
type PropValidator interface {
	ValidateProps(p Props) error
}

// Initializer is the subclass initialization hook, run during [Base.Init]
// after prop validation and stylesheet loading. An error aborts the
// initialization.
type Initializer interface {
	OnInit(ctx context.Context) error
}

// Mounter runs after the component's markup is in the container and its
// bindings are live. An error aborts the load.
type Mounter interface {
	OnMount(ctx context.Context) error
}

// PostRenderer runs after each markup insertion, before action rebinding.
// An error is reported but does not abort the render.
type PostRenderer interface {
	AfterRender() error
}

// Unmounter runs first during unload, while the rendered subtree is still
// attached. An error is reported but does not abort the unload.
type Unmounter interface {
	OnUnmount() error
}

// Destroyer is the subclass teardown hook, run by [Base.Destroy] before
// bindings are removed. An error is reported but does not abort destruction.
type Destroyer interface {
	OnDestroy() error
}
