package notify

import "sync"

// MemoryPresenter is an in-memory Presenter for tests and headless
// applications. It records every toast and modal and tracks which modals
// are still open.
type MemoryPresenter struct {
	mu     sync.Mutex
	toasts []Toast
	modals []Modal
	open   int
}

// ShowToast records the toast.
func (p *MemoryPresenter) ShowToast(t Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toasts = append(p.toasts, t)
}

// ShowModal records the modal and returns an idempotent dismiss.
func (p *MemoryPresenter) ShowModal(m Modal) (dismiss func()) {
	p.mu.Lock()
	p.modals = append(p.modals, m)
	p.open++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.open--
			p.mu.Unlock()
		})
	}
}

// Toasts returns the recorded toasts in display order.
func (p *MemoryPresenter) Toasts() []Toast {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Toast, len(p.toasts))
	copy(out, p.toasts)
	return out
}

// Modals returns the recorded modals in display order.
func (p *MemoryPresenter) Modals() []Modal {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Modal, len(p.modals))
	copy(out, p.modals)
	return out
}

// OpenModals returns the number of modals shown but not yet dismissed.
func (p *MemoryPresenter) OpenModals() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

var _ Presenter = (*MemoryPresenter)(nil)
