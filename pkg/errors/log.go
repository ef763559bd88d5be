package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a StrandError to stderr.
func (h *LogHandler) HandleError(err *StrandError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[strand error] %s [%s]", err.Op, err.Kind)
		if err.Component != "" {
			fmt.Fprintf(os.Stderr, " component=%s", err.Component)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[strand error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		fmt.Fprintf(os.Stderr, "[strand panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(os.Stderr, "[strand panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// SlogHandler is an ErrorHandler that logs through a structured slog.Logger.
type SlogHandler struct {
	Logger *slog.Logger
	// Next, if non-nil, receives every error after logging. This lets the
	// notification layer chain behind structured logging.
	Next ErrorHandler
}

// HandleError logs a StrandError through the logger.
func (h *SlogHandler) HandleError(err *StrandError) {
	if err == nil {
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Component != "" {
		attrs = append(attrs, slog.String("component", err.Component))
	}
	attrs = append(attrs, slog.Any("err", err.Err))

	switch SeverityFor(err.Kind) {
	case SeverityLow:
		logger.Debug("runtime error", attrs...)
	case SeverityMedium:
		logger.Warn("runtime error", attrs...)
	default:
		logger.Error("runtime error", attrs...)
	}

	if h.Next != nil {
		h.Next.HandleError(err)
	}
}

// HandlePanic logs a PanicError through the logger.
func (h *SlogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("recovered panic",
		slog.String("op", err.Op),
		slog.Any("value", err.Value),
	)
	if h.Next != nil {
		h.Next.HandlePanic(err)
	}
}
