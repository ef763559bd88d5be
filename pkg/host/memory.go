package host

import (
	"fmt"
	"sync"
)

// MemoryContainer is an in-memory Container.
type MemoryContainer struct {
	id string

	mu      sync.Mutex
	content string
}

// ID returns the container id.
func (c *MemoryContainer) ID() string { return c.id }

// SetContent replaces the container content.
func (c *MemoryContainer) SetContent(markup string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = markup
}

// Content returns the container content.
func (c *MemoryContainer) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// Clear removes all content.
func (c *MemoryContainer) Clear() { c.SetContent("") }

// MemoryHost is an in-memory Host for tests and headless applications.
//
// Beyond the [Host] interface it offers simulation helpers: [MemoryHost.Back]
// and [MemoryHost.Forward] traverse history and fire pop-state callbacks the
// way a browser would, and [MemoryHost.ClickLink] delivers a link activation.
type MemoryHost struct {
	mu         sync.Mutex
	containers map[string]*MemoryContainer
	title      string

	stylesheets []string
	// FailStylesheets lists hrefs whose load should fail, for exercising
	// the silent-continue behavior of the stylesheet convention.
	FailStylesheets map[string]bool

	entries []string
	index   int

	popSubs  map[int]func(string)
	linkSubs map[int]func(LinkEvent)
	nextSub  int
}

// NewMemoryHost creates a MemoryHost with the given container ids and an
// initial history entry of "/".
func NewMemoryHost(containerIDs ...string) *MemoryHost {
	h := &MemoryHost{
		containers: make(map[string]*MemoryContainer),
		entries:    []string{"/"},
		popSubs:    make(map[int]func(string)),
		linkSubs:   make(map[int]func(LinkEvent)),
	}
	for _, id := range containerIDs {
		h.containers[id] = &MemoryContainer{id: id}
	}
	return h
}

// AddContainer registers a container id, returning the container.
func (h *MemoryHost) AddContainer(id string) Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.containers[id]
	if !ok {
		c = &MemoryContainer{id: id}
		h.containers[id] = c
	}
	return c
}

// Container resolves a container by id.
func (h *MemoryHost) Container(id string) (Container, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.containers[id]
	return c, ok
}

// SetTitle sets the document title.
func (h *MemoryHost) SetTitle(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.title = title
}

// Title returns the document title.
func (h *MemoryHost) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

// LoadStylesheet records the href, or fails if listed in FailStylesheets.
func (h *MemoryHost) LoadStylesheet(href string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailStylesheets[href] {
		return fmt.Errorf("stylesheet %s not found", href)
	}
	h.stylesheets = append(h.stylesheets, href)
	return nil
}

// Stylesheets returns the hrefs loaded so far, in order.
func (h *MemoryHost) Stylesheets() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.stylesheets))
	copy(out, h.stylesheets)
	return out
}

// Push appends a new history entry, discarding any forward entries.
func (h *MemoryHost) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

// Replace replaces the current history entry.
func (h *MemoryHost) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

// Current returns the current history entry.
func (h *MemoryHost) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Entries returns a copy of the history stack, for assertions.
func (h *MemoryHost) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// OnPopState registers a pop-state callback.
func (h *MemoryHost) OnPopState(fn func(path string)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	id := h.nextSub
	h.popSubs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.popSubs, id)
	}
}

// OnLink registers a link-activation callback.
func (h *MemoryHost) OnLink(fn func(ev LinkEvent)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	id := h.nextSub
	h.linkSubs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.linkSubs, id)
	}
}

// Back traverses one entry backwards and fires pop-state callbacks.
// It is a no-op at the oldest entry.
func (h *MemoryHost) Back() {
	h.mu.Lock()
	if h.index == 0 {
		h.mu.Unlock()
		return
	}
	h.index--
	path := h.entries[h.index]
	subs := h.popSnapshot()
	h.mu.Unlock()

	for _, fn := range subs {
		fn(path)
	}
}

// Forward traverses one entry forwards and fires pop-state callbacks.
// It is a no-op at the newest entry.
func (h *MemoryHost) Forward() {
	h.mu.Lock()
	if h.index >= len(h.entries)-1 {
		h.mu.Unlock()
		return
	}
	h.index++
	path := h.entries[h.index]
	subs := h.popSnapshot()
	h.mu.Unlock()

	for _, fn := range subs {
		fn(path)
	}
}

// ClickLink delivers a link activation to registered callbacks.
func (h *MemoryHost) ClickLink(ev LinkEvent) {
	h.mu.Lock()
	subs := make([]func(LinkEvent), 0, len(h.linkSubs))
	for _, fn := range h.linkSubs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (h *MemoryHost) popSnapshot() []func(string) {
	subs := make([]func(string), 0, len(h.popSubs))
	for _, fn := range h.popSubs {
		subs = append(subs, fn)
	}
	return subs
}

var _ Host = (*MemoryHost)(nil)
