// Package errors provides structured error handling for the Strand runtime.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindInvalidArgument indicates a bad subscribe or navigate input.
	KindInvalidArgument
	// KindNotRegistered indicates an unknown component or route name.
	KindNotRegistered
	// KindAlreadyDestroyed indicates a lifecycle call on a destroyed instance.
	KindAlreadyDestroyed
	// KindConfiguration indicates an invalid component configuration,
	// such as supplying neither markup source.
	KindConfiguration
	// KindGuardRejected indicates a navigation cancelled by a guard.
	// Guard rejections are boolean outcomes, not failures; this kind
	// exists so they can still be recorded and inspected.
	KindGuardRejected
	// KindHandler indicates an individual listener or action handler failure.
	KindHandler
	// KindRender indicates a markup production or insertion failure.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid-argument"
	case KindNotRegistered:
		return "not-registered"
	case KindAlreadyDestroyed:
		return "already-destroyed"
	case KindConfiguration:
		return "configuration"
	case KindGuardRejected:
		return "guard-rejected"
	case KindHandler:
		return "handler"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Severity grades an error for presentation purposes.
// Low and Medium surface as transient toasts; High and Critical
// surface as blocking modals.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// SeverityFor returns the default presentation severity for a kind.
func SeverityFor(k Kind) Severity {
	switch k {
	case KindHandler, KindGuardRejected:
		return SeverityLow
	case KindInvalidArgument, KindNotRegistered:
		return SeverityMedium
	case KindAlreadyDestroyed, KindRender:
		return SeverityHigh
	case KindConfiguration, KindPanic:
		return SeverityCritical
	}
	return SeverityMedium
}

// StrandError represents a structured error in the Strand runtime.
type StrandError struct {
	// Op is the operation that failed (e.g., "manager.Load").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Component is the component name, if applicable.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *StrandError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *StrandError) Unwrap() error {
	return e.Err
}

// E constructs a StrandError for the given operation and kind.
func E(op string, kind Kind, err error) *StrandError {
	return &StrandError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// Errorf constructs a StrandError wrapping a formatted message.
func Errorf(op string, kind Kind, format string, args ...any) *StrandError {
	return E(op, kind, fmt.Errorf(format, args...))
}

// KindOf returns the Kind of err if it is (or wraps) a StrandError,
// and KindUnknown otherwise.
func KindOf(err error) Kind {
	for err != nil {
		if se, ok := err.(*StrandError); ok {
			return se.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// IsKind reports whether err is a StrandError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "bus.Emit").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the Strand runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *StrandError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
