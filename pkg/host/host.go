// Package host defines the narrow interfaces through which the Strand
// runtime talks to its host document and navigation facilities.
//
// The runtime never assumes a browser. A real deployment backs these
// interfaces with the platform's DOM and history APIs; tests and headless
// applications use [MemoryHost]. The interfaces are deliberately small: the
// runtime owns component semantics, the host owns presentation and history
// storage.
package host

// Container is a host-document subtree that a component instance exclusively
// owns while mounted. Content is opaque markup; the runtime always replaces
// it wholesale, never patches it.
type Container interface {
	// ID returns the container's identifier in the host document.
	ID() string
	// SetContent replaces the container's entire content.
	SetContent(markup string)
	// Content returns the current content.
	Content() string
	// Clear removes all content.
	Clear()
}

// Document is the runtime's view of the host document.
type Document interface {
	// Container resolves a container by id.
	Container(id string) (Container, bool)
	// SetTitle sets the document title.
	SetTitle(title string)
	// Title returns the document title.
	Title() string
	// LoadStylesheet requests that the host load a stylesheet by href.
	// A failure means the stylesheet does not exist or could not load;
	// callers following the naming convention treat this as non-fatal.
	LoadStylesheet(href string) error
}

// History is the host-managed navigation history.
type History interface {
	// Push appends a new history entry for the given path.
	Push(path string)
	// Replace replaces the current history entry.
	Replace(path string)
	// Current returns the path of the current entry.
	Current() string
}

// LinkEvent describes an activated link in the host document. The router
// intercepts qualifying events and converts them into navigations instead of
// full page loads.
type LinkEvent struct {
	// Path is the link target path.
	Path string
	// SameOrigin is true if the link targets the application's own origin.
	SameOrigin bool
	// NewTab is true if the link requests a new tab or window.
	NewTab bool
	// Download is true if the link carries a download attribute.
	Download bool
	// Modified is true if a modifier key was held during activation.
	Modified bool
}

// Interceptable reports whether a link activation should become an in-app
// navigation. Links to other origins, new tabs, downloads, and
// modifier-clicks are left to the host.
func (e LinkEvent) Interceptable() bool {
	return e.SameOrigin && !e.NewTab && !e.Download && !e.Modified
}

// NavigationSource delivers host navigation notifications. Both registration
// methods return a cancel function that stops delivery.
type NavigationSource interface {
	// OnPopState registers a callback for back/forward traversal. The
	// callback receives the path of the entry being returned to.
	OnPopState(fn func(path string)) (cancel func())
	// OnLink registers a callback for link activations.
	OnLink(fn func(ev LinkEvent)) (cancel func())
}

// Host combines the full host surface the runtime needs.
type Host interface {
	Document
	History
	NavigationSource
}
