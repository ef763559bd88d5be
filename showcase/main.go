// The showcase walks the Strand runtime through a small application:
// routed pages, a route parameter, a login-guarded dashboard, declarative
// form actions, and the /404 fallback — all against the in-memory host,
// printing the outlet after each step.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-strand/strand/pkg/app"
	"github.com/go-strand/strand/pkg/component"
	"github.com/go-strand/strand/pkg/host"
	"github.com/go-strand/strand/pkg/notify"
	"github.com/go-strand/strand/pkg/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	h := host.NewMemoryHost(app.DefaultOutlet)
	session := &Session{}

	a, err := app.New(app.Config{
		Host:      h,
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		Presenter: &notify.MemoryPresenter{},
	})
	if err != nil {
		return err
	}
	defer a.Shutdown()

	m := a.Manager()
	m.Register("Home", func() component.Component { return &HomePage{} })
	m.Register("User", func() component.Component { return &UserPage{} })
	m.Register("Login", func() component.Component { return &LoginPage{session: session} })
	m.Register("Dashboard", func() component.Component { return &DashboardPage{session: session} })
	m.Register("NotFound", func() component.Component { return &NotFoundPage{} })

	r := a.Router()
	r.AddRoute("/", router.Route{Component: "Home", Title: "Strand Showcase"})
	r.Handle("/users/:id", "User")
	r.AddRoute("/login", router.Route{Component: "Login", Title: "Sign in"})
	r.AddRoute("/dashboard", router.Route{
		Component: "Dashboard",
		Title:     "Dashboard",
		BeforeEnter: func(ctx context.Context, g router.GuardContext) (bool, error) {
			return session.LoggedIn(), nil
		},
	})
	r.Handle("/404", "NotFound")

	ctx := context.Background()
	if err := a.Start(ctx); err != nil {
		return err
	}
	show(h, "Initial navigation")

	// A link click with a route parameter.
	h.ClickLink(host.LinkEvent{Path: "/users/ada", SameOrigin: true})
	show(h, "Clicked /users/ada")

	// The dashboard is guarded; while logged out the navigation is
	// rejected and the current route is unchanged.
	if r.NavigateTo(ctx, "/dashboard") {
		return fmt.Errorf("dashboard should be unreachable while logged out")
	}
	fmt.Printf("== Dashboard rejected, still on %s ==\n\n", r.Current().Path)

	// Sign in through the login form's declarative action.
	r.NavigateTo(ctx, "/login")
	login, _ := m.InContainer(app.DefaultOutlet)
	if err := login.Base().Submit("login", map[string]string{"user": "ada"}); err != nil {
		return err
	}
	show(h, "Signed in as ada")

	if !r.NavigateTo(ctx, "/dashboard") {
		return fmt.Errorf("dashboard should be reachable after login")
	}
	show(h, "Dashboard")

	// An unmatched path falls back to the /404 route.
	r.NavigateTo(ctx, "/no/such/page")
	show(h, "Navigated to /no/such/page")
	fmt.Printf("Current route: %s (path %s)\n", r.Current().Route.Name, r.Current().Path)

	return nil
}

func show(h *host.MemoryHost, label string) {
	outlet, _ := h.Container(app.DefaultOutlet)
	fmt.Printf("== %s ==\n%s\n\n", label, outlet.Content())
}
