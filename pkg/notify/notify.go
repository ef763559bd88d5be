// Package notify surfaces runtime errors to the user.
//
// The error-handling layer grades every reported error by severity:
// low and medium severities become transient toasts, high and critical
// severities become blocking modals with an optional retry action. All
// notifications are additionally recorded to a bounded in-memory history
// for later inspection.
//
// Presentation itself is out of scope here. A [Presenter] implementation
// lives at the host boundary and owns formatting and display; this package
// only decides what gets shown and remembers what was.
package notify

import (
	"log/slog"
	"sync"
	"time"

	strerrors "github.com/go-strand/strand/pkg/errors"
)

// Toast is a transient, non-blocking notification.
type Toast struct {
	Message   string
	Severity  strerrors.Severity
	Timestamp time.Time
}

// Modal is a blocking notification.
//
// Retry, when non-nil, re-runs the operation that failed. Presenters
// surface it as an action; dismissal without retrying is always allowed.
type Modal struct {
	Title    string
	Message  string
	Severity strerrors.Severity
	Retry    func()
}

// Presenter renders notifications at the host boundary.
type Presenter interface {
	// ShowToast displays a transient toast.
	ShowToast(t Toast)
	// ShowModal displays a blocking modal and returns a dismiss function.
	// The returned dismiss must be idempotent: calling it more than once
	// is a safe no-op.
	ShowModal(m Modal) (dismiss func())
}

// DefaultRecordCapacity bounds the in-memory notification record.
const DefaultRecordCapacity = 64

// Entry is one recorded error or panic.
type Entry struct {
	Err       error
	Severity  strerrors.Severity
	Timestamp time.Time
}

// RetryFunc builds a retry action for a reported error. A nil return
// means the error has no meaningful retry and the modal shows none.
type RetryFunc func(err *strerrors.StrandError) func()

// Notifier routes reported errors to a [Presenter] by severity and keeps
// a bounded record of everything it saw. It implements
// [strerrors.ErrorHandler] and chains to a next handler, so it slots into
// the handler chain ahead of logging.
type Notifier struct {
	presenter Presenter
	logger    *slog.Logger
	next      strerrors.ErrorHandler
	retry     RetryFunc

	mu      sync.Mutex
	entries []Entry
	head    int
	count   int
	dismiss func()
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// WithNext chains a downstream handler that receives every error and
// panic after presentation.
func WithNext(next strerrors.ErrorHandler) Option {
	return func(n *Notifier) { n.next = next }
}

// WithRetry sets the retry-action builder for modal notifications.
func WithRetry(fn RetryFunc) Option {
	return func(n *Notifier) { n.retry = fn }
}

// WithRecordCapacity overrides the record size. Values below 1 fall back
// to [DefaultRecordCapacity].
func WithRecordCapacity(capacity int) Option {
	return func(n *Notifier) {
		if capacity > 0 {
			n.entries = make([]Entry, capacity)
		}
	}
}

// New creates a Notifier presenting through p.
func New(p Presenter, opts ...Option) *Notifier {
	n := &Notifier{
		presenter: p,
		entries:   make([]Entry, DefaultRecordCapacity),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	return n
}

// HandleError grades err and presents it: toast for low and medium
// severity, blocking modal for high and critical. Showing a new modal
// dismisses the previous one, so at most one is open at a time.
func (n *Notifier) HandleError(err *strerrors.StrandError) {
	severity := strerrors.SeverityFor(err.Kind)
	n.record(err, severity, err.Timestamp)

	switch severity {
	case strerrors.SeverityLow, strerrors.SeverityMedium:
		n.presenter.ShowToast(Toast{
			Message:   err.Error(),
			Severity:  severity,
			Timestamp: err.Timestamp,
		})
	default:
		var retry func()
		if n.retry != nil {
			retry = n.retry(err)
		}
		n.showModal(Modal{
			Title:    modalTitle(severity),
			Message:  err.Error(),
			Severity: severity,
			Retry:    retry,
		})
	}

	if n.next != nil {
		n.next.HandleError(err)
	}
}

// HandlePanic presents a recovered panic as a critical modal.
func (n *Notifier) HandlePanic(err *strerrors.PanicError) {
	n.record(err, strerrors.SeverityCritical, err.Timestamp)
	n.showModal(Modal{
		Title:    modalTitle(strerrors.SeverityCritical),
		Message:  err.Error(),
		Severity: strerrors.SeverityCritical,
	})

	if n.next != nil {
		n.next.HandlePanic(err)
	}
}

// Dismiss closes the currently open modal, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	dismiss := n.dismiss
	n.dismiss = nil
	n.mu.Unlock()
	if dismiss != nil {
		dismiss()
	}
}

// Recent returns up to limit recorded entries, oldest first. A limit of
// zero or less returns everything recorded.
func (n *Notifier) Recent(limit int) []Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := n.count
	if limit > 0 && limit < count {
		count = limit
	}
	out := make([]Entry, 0, count)
	start := n.count - count
	for i := start; i < n.count; i++ {
		out = append(out, n.entries[(n.head+i)%len(n.entries)])
	}
	return out
}

func (n *Notifier) record(err error, severity strerrors.Severity, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.count < len(n.entries) {
		n.entries[(n.head+n.count)%len(n.entries)] = Entry{Err: err, Severity: severity, Timestamp: at}
		n.count++
		return
	}
	n.entries[n.head] = Entry{Err: err, Severity: severity, Timestamp: at}
	n.head = (n.head + 1) % len(n.entries)
}

func (n *Notifier) showModal(m Modal) {
	n.mu.Lock()
	previous := n.dismiss
	n.mu.Unlock()
	if previous != nil {
		previous()
	}

	dismiss := n.presenter.ShowModal(m)

	n.mu.Lock()
	n.dismiss = dismiss
	n.mu.Unlock()
}

func modalTitle(s strerrors.Severity) string {
	if s == strerrors.SeverityCritical {
		return "Something went wrong"
	}
	return "Error"
}
