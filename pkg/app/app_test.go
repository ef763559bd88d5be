package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-strand/strand/pkg/bus"
	"github.com/go-strand/strand/pkg/component"
	strerrors "github.com/go-strand/strand/pkg/errors"
	"github.com/go-strand/strand/pkg/host"
	"github.com/go-strand/strand/pkg/notify"
)

type homePage struct {
	component.Base
	unmounted int
}

func (p *homePage) Template() string { return "<h1>Welcome home</h1>" }
func (p *homePage) OnUnmount() error { p.unmounted++; return nil }

type notFoundPage struct {
	component.Base
}

func (p *notFoundPage) Template() string { return "<h1>Page not found</h1>" }

type userPage struct {
	component.Base
}

func (p *userPage) Template() string {
	id, _ := p.Prop("id").(string)
	return "<h1>User " + id + "</h1>"
}

func newTestApp(t *testing.T, cfg Config) (*App, *host.MemoryHost) {
	t.Helper()
	h := host.NewMemoryHost("app")
	cfg.Host = h
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	a.Manager().Register("Home", func() component.Component { return &homePage{} })
	a.Manager().Register("NotFound", func() component.Component { return &notFoundPage{} })
	a.Manager().Register("User", func() component.Component { return &userPage{} })
	t.Cleanup(a.Shutdown)
	return a, h
}

func outletContent(t *testing.T, h *host.MemoryHost) string {
	t.Helper()
	c, ok := h.Container("app")
	if !ok {
		t.Fatal("outlet container missing")
	}
	return c.Content()
}

func TestApp_New_RequiresHost(t *testing.T) {
	_, err := New(Config{})
	if !strerrors.IsKind(err, strerrors.KindInvalidArgument) {
		t.Errorf("New without host: %v, want KindInvalidArgument", err)
	}
}

func TestApp_Start_LoadsInitialRoute(t *testing.T) {
	a, h := newTestApp(t, Config{})
	a.Router().Handle("/", "Home")

	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := a.Router().Current(); got == nil || got.Route.Name != "home" {
		t.Fatalf("Current() = %+v", got)
	}
	if got := outletContent(t, h); !strings.Contains(got, "Welcome home") {
		t.Errorf("outlet = %q", got)
	}
	if got := a.Manager().ActiveCount(); got != 1 {
		t.Errorf("active = %d, want 1", got)
	}
}

func TestApp_NavigationSwapsOutletOccupant(t *testing.T) {
	a, h := newTestApp(t, Config{})
	a.Router().Handle("/", "Home")
	a.Router().Handle("/users/:id", "User")
	a.Start(context.Background())

	home, ok := a.Manager().InContainer(DefaultOutlet)
	if !ok {
		t.Fatal("home not mounted")
	}

	if !a.Router().NavigateTo(context.Background(), "/users/42") {
		t.Fatal("navigation failed")
	}

	if got := outletContent(t, h); !strings.Contains(got, "User 42") {
		t.Errorf("outlet = %q", got)
	}
	if got := a.Manager().ActiveCount(); got != 1 {
		t.Errorf("active = %d, want 1 (previous occupant unloaded)", got)
	}
	hp := home.Component.(*homePage)
	if hp.unmounted != 1 {
		t.Errorf("home unmount hook ran %d times, want 1", hp.unmounted)
	}
	if !home.Base().IsDestroyed() {
		t.Error("previous occupant should be destroyed, not just evicted")
	}
}

func TestApp_UnmatchedPathFallsBackToNotFound(t *testing.T) {
	a, h := newTestApp(t, Config{})
	a.Router().Handle("/", "Home")
	a.Router().Handle("/404", "NotFound")
	a.Start(context.Background())

	if !a.Router().NavigateTo(context.Background(), "/missing") {
		t.Fatal("fallback navigation failed")
	}
	if got := a.Router().Current(); got.Route.Name != "404" {
		t.Errorf("Current().Route.Name = %q, want 404", got.Route.Name)
	}
	if got := outletContent(t, h); !strings.Contains(got, "Page not found") {
		t.Errorf("outlet = %q", got)
	}
}

func TestApp_LoadFailureIsReported(t *testing.T) {
	p := &notify.MemoryPresenter{}
	a, _ := newTestApp(t, Config{Presenter: p})
	a.Router().Handle("/", "Home")
	a.Router().Handle("/ghost", "Unregistered")
	a.Start(context.Background())

	// The navigation itself succeeds; the load failure surfaces through
	// the error-handler chain.
	if !a.Router().NavigateTo(context.Background(), "/ghost") {
		t.Fatal("navigation failed")
	}
	found := false
	for _, toast := range p.Toasts() {
		if strings.Contains(toast.Message, "Unregistered") {
			found = true
		}
	}
	if !found {
		t.Errorf("no toast mentions the failed load; toasts = %+v", p.Toasts())
	}
}

func TestApp_PresenterReceivesHandlerErrors(t *testing.T) {
	p := &notify.MemoryPresenter{}
	a, _ := newTestApp(t, Config{Presenter: p})
	a.Start(context.Background())

	a.Bus().Subscribe("user:save", func(ctx context.Context, e bus.Event) (any, error) {
		return nil, errors.New("save failed")
	})
	a.Bus().Emit("user:save", nil)

	toasts := p.Toasts()
	if len(toasts) != 1 {
		t.Fatalf("toasts = %d, want 1", len(toasts))
	}
	if toasts[0].Severity != strerrors.SeverityLow {
		t.Errorf("severity = %v, want low", toasts[0].Severity)
	}
	if a.Notifier() == nil {
		t.Fatal("notifier should be wired when a presenter is configured")
	}
	if got := a.Notifier().Recent(0); len(got) != 1 {
		t.Errorf("record = %d entries, want 1", len(got))
	}
}

func TestApp_Shutdown(t *testing.T) {
	a, h := newTestApp(t, Config{})
	a.Router().Handle("/", "Home")
	a.Start(context.Background())

	a.Shutdown()

	if got := a.Manager().ActiveCount(); got != 0 {
		t.Errorf("active = %d, want 0", got)
	}
	if got := a.Router().Current(); got != nil {
		t.Errorf("Current() = %+v, want nil", got)
	}
	if got := outletContent(t, h); got != "" {
		t.Errorf("outlet = %q, want cleared", got)
	}
	if got := a.Bus().ListenerCount("user:save"); got != 0 {
		t.Errorf("listeners = %d", got)
	}
	// Idempotent.
	a.Shutdown()

	// Navigation after shutdown is inert: the route table is gone.
	if a.Router().NavigateTo(context.Background(), "/") {
		t.Error("navigation after shutdown should fail")
	}
}

func TestApp_StartTwiceIsNoOp(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	a.Router().Handle("/", "Home")
	a.Start(context.Background())
	before := a.Manager().ActiveCount()

	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := a.Manager().ActiveCount(); got != before {
		t.Errorf("second Start changed active count: %d -> %d", before, got)
	}
}
