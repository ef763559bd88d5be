package notify

import (
	"errors"
	"testing"

	strerrors "github.com/go-strand/strand/pkg/errors"
)

func TestNotifier_SeverityRouting(t *testing.T) {
	tests := []struct {
		name      string
		kind      strerrors.Kind
		wantToast bool
	}{
		{"handler failure is a toast", strerrors.KindHandler, true},
		{"not-registered is a toast", strerrors.KindNotRegistered, true},
		{"render failure is a modal", strerrors.KindRender, false},
		{"configuration failure is a modal", strerrors.KindConfiguration, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MemoryPresenter{}
			n := New(p)
			n.HandleError(strerrors.E("test.op", tt.kind, errors.New("boom")))

			toasts, modals := p.Toasts(), p.Modals()
			if tt.wantToast {
				if len(toasts) != 1 || len(modals) != 0 {
					t.Fatalf("toasts=%d modals=%d, want toast only", len(toasts), len(modals))
				}
				if toasts[0].Severity != strerrors.SeverityFor(tt.kind) {
					t.Errorf("severity = %v", toasts[0].Severity)
				}
			} else {
				if len(modals) != 1 || len(toasts) != 0 {
					t.Fatalf("toasts=%d modals=%d, want modal only", len(toasts), len(modals))
				}
			}
		})
	}
}

func TestNotifier_NewModalDismissesPrevious(t *testing.T) {
	p := &MemoryPresenter{}
	n := New(p)

	n.HandleError(strerrors.E("a", strerrors.KindRender, errors.New("first")))
	n.HandleError(strerrors.E("b", strerrors.KindRender, errors.New("second")))

	if got := p.OpenModals(); got != 1 {
		t.Errorf("open modals = %d, want 1", got)
	}
	n.Dismiss()
	if got := p.OpenModals(); got != 0 {
		t.Errorf("open modals after dismiss = %d, want 0", got)
	}
	// Dismiss is idempotent.
	n.Dismiss()
	if got := p.OpenModals(); got != 0 {
		t.Errorf("open modals after second dismiss = %d", got)
	}
}

func TestNotifier_RetryAction(t *testing.T) {
	p := &MemoryPresenter{}
	var retried []string
	n := New(p, WithRetry(func(err *strerrors.StrandError) func() {
		if err.Op != "manager.Load" {
			return nil
		}
		return func() { retried = append(retried, err.Op) }
	}))

	n.HandleError(strerrors.E("manager.Load", strerrors.KindRender, errors.New("boom")))
	n.HandleError(strerrors.E("other.op", strerrors.KindRender, errors.New("boom")))

	modals := p.Modals()
	if len(modals) != 2 {
		t.Fatalf("modals = %d, want 2", len(modals))
	}
	if modals[0].Retry == nil {
		t.Fatal("first modal should carry a retry action")
	}
	if modals[1].Retry != nil {
		t.Error("second modal should carry no retry action")
	}
	modals[0].Retry()
	if len(retried) != 1 || retried[0] != "manager.Load" {
		t.Errorf("retried = %v", retried)
	}
}

func TestNotifier_PanicIsCriticalModal(t *testing.T) {
	p := &MemoryPresenter{}
	n := New(p)

	n.HandlePanic(&strerrors.PanicError{Op: "bus.Emit", Value: "boom"})

	modals := p.Modals()
	if len(modals) != 1 {
		t.Fatalf("modals = %d, want 1", len(modals))
	}
	if modals[0].Severity != strerrors.SeverityCritical {
		t.Errorf("severity = %v, want critical", modals[0].Severity)
	}
}

func TestNotifier_ChainsToNext(t *testing.T) {
	p := &MemoryPresenter{}
	var downstream []error
	n := New(p, WithNext(handlerFunc(func(err error) {
		downstream = append(downstream, err)
	})))

	n.HandleError(strerrors.E("a", strerrors.KindHandler, errors.New("boom")))
	n.HandlePanic(&strerrors.PanicError{Op: "b", Value: "boom"})

	if len(downstream) != 2 {
		t.Errorf("downstream saw %d reports, want 2", len(downstream))
	}
}

func TestNotifier_RecordIsBounded(t *testing.T) {
	p := &MemoryPresenter{}
	n := New(p, WithRecordCapacity(3))

	for i := 0; i < 5; i++ {
		n.HandleError(strerrors.Errorf("op", strerrors.KindHandler, "error %d", i))
	}

	recent := n.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("record holds %d entries, want 3", len(recent))
	}
	// Oldest evicted first: the record holds errors 2, 3, 4.
	if got := recent[0].Err.Error(); got != "op [handler]: error 2" {
		t.Errorf("oldest entry = %q", got)
	}
	if got := recent[2].Err.Error(); got != "op [handler]: error 4" {
		t.Errorf("newest entry = %q", got)
	}

	limited := n.Recent(2)
	if len(limited) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(limited))
	}
	if got := limited[0].Err.Error(); got != "op [handler]: error 3" {
		t.Errorf("Recent(2) oldest = %q", got)
	}
}

// handlerFunc adapts a plain function to strerrors.ErrorHandler.
type handlerFunc func(err error)

func (f handlerFunc) HandleError(err *strerrors.StrandError) { f(err) }
func (f handlerFunc) HandlePanic(err *strerrors.PanicError)  { f(err) }
