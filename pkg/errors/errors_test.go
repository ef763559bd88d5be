package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestStrandErrorString(t *testing.T) {
	err := &StrandError{
		Op:   "test.operation",
		Kind: KindNotRegistered,
		Err:  fmt.Errorf("no component named %q", "UserCard"),
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !contains(got, "not-registered") {
		t.Errorf("error string %q should contain kind", got)
	}
}

func TestStrandErrorWithComponent(t *testing.T) {
	err := &StrandError{
		Op:        "manager.Load",
		Kind:      KindConfiguration,
		Component: "UserCard",
		Err:       errors.New("no markup source"),
	}
	got := err.Error()
	want := "component=UserCard"
	if !contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindInvalidArgument, "invalid-argument"},
		{KindNotRegistered, "not-registered"},
		{KindAlreadyDestroyed, "already-destroyed"},
		{KindConfiguration, "configuration"},
		{KindGuardRejected, "guard-rejected"},
		{KindHandler, "handler"},
		{KindRender, "render"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := E("bus.Subscribe", KindInvalidArgument, errors.New("nil handler"))
	wrapped := fmt.Errorf("startup: %w", inner)

	if got := KindOf(wrapped); got != KindInvalidArgument {
		t.Errorf("KindOf(wrapped) = %v, want KindInvalidArgument", got)
	}
	if !IsKind(wrapped, KindInvalidArgument) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(nil, KindInvalidArgument) {
		t.Error("IsKind(nil) should be false")
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want KindUnknown", got)
	}
}

func TestSeverityFor(t *testing.T) {
	if got := SeverityFor(KindHandler); got != SeverityLow {
		t.Errorf("SeverityFor(KindHandler) = %v, want SeverityLow", got)
	}
	if got := SeverityFor(KindConfiguration); got != SeverityCritical {
		t.Errorf("SeverityFor(KindConfiguration) = %v, want SeverityCritical", got)
	}
	if got := SeverityFor(KindNotRegistered); got != SeverityMedium {
		t.Errorf("SeverityFor(KindNotRegistered) = %v, want SeverityMedium", got)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "bus.Emit",
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in bus.Emit: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

type testHandler struct {
	onError func(err *StrandError)
	onPanic func(err *PanicError)
}

func (h *testHandler) HandleError(err *StrandError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func TestReport(t *testing.T) {
	var captured *StrandError
	handler := &testHandler{
		onError: func(err *StrandError) { captured = err },
	}

	SetHandler(handler)
	defer SetHandler(nil)

	Report(&StrandError{
		Op:   "test.op",
		Kind: KindRender,
		Err:  errors.New("boom"),
	})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReport_NilIsNoop(t *testing.T) {
	called := false
	SetHandler(&testHandler{onError: func(*StrandError) { called = true }})
	defer SetHandler(nil)

	Report(nil)
	if called {
		t.Error("Report(nil) should not invoke the handler")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{
		onPanic: func(err *PanicError) { captured = err },
	})
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("deliberate")
	}()

	if captured == nil {
		t.Fatal("expected panic to be captured")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.Value != "deliberate" {
		t.Errorf("Value = %v, want %q", captured.Value, "deliberate")
	}
	if captured.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	SetHandler(&testHandler{})
	defer SetHandler(nil)

	var got any
	func() {
		defer RecoverWithCallback("test", func(r any) { got = r })
		panic(42)
	}()

	if got != 42 {
		t.Errorf("callback received %v, want 42", got)
	}
}

func TestSetHandler_NilRestoresDefault(t *testing.T) {
	SetHandler(&testHandler{})
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("DefaultHandler = %T, want *LogHandler", DefaultHandler)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
