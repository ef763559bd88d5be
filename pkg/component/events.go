package component

import "time"

// Event names announced on the bus by the component lifecycle.
const (
	// EventInitialized is emitted after a component finishes initialization.
	// Data is a [LifecycleInfo].
	EventInitialized = "component:initialized"
	// EventRendered is emitted after each successful render.
	// Data is a [RenderInfo].
	EventRendered = "component:rendered"
	// EventDestroyed is emitted after a component is destroyed.
	// Data is a [LifecycleInfo].
	EventDestroyed = "component:destroyed"
)

// LifecycleInfo is the payload of initialization and destruction events.
type LifecycleInfo struct {
	// Name is the component name.
	Name string
}

// RenderInfo is the payload of [EventRendered].
type RenderInfo struct {
	// Name is the component name.
	Name string
	// Duration is how long markup production and insertion took.
	Duration time.Duration
	// Count is the total number of renders so far, including this one.
	Count int
}
