package main

import (
	"fmt"

	"github.com/go-strand/strand/pkg/component"
)

// HomePage is the landing page with links into the other routes.
type HomePage struct {
	component.Base
}

func (p *HomePage) Template() string {
	return `<h1>Strand Showcase</h1>
<nav>
  <a href="/users/ada">Ada's profile</a>
  <a href="/dashboard">Dashboard</a>
  <a href="/login">Sign in</a>
</nav>`
}

// UserPage renders a user profile from the :id route parameter.
type UserPage struct {
	component.Base
}

func (p *UserPage) Template() string {
	id, _ := p.Prop("id").(string)
	return fmt.Sprintf(`<h1>User: %s</h1>
<p>Profile for %s, loaded from the route parameter.</p>
<a href="/">Back home</a>`, id, id)
}

// LoginPage signs a user into the shared session through a declarative
// form action.
type LoginPage struct {
	component.Base
	session *Session
}

func (p *LoginPage) Template() string {
	return `<h1>Sign in</h1>
<form data-action="login">
  <input name="user" type="text">
  <button type="submit">Sign in</button>
</form>`
}

func (p *LoginPage) Actions() map[string]component.ActionFunc {
	return map[string]component.ActionFunc{
		"login": func(ev component.ActionEvent) error {
			user := ev.Values["user"]
			if user == "" {
				return fmt.Errorf("user is required")
			}
			p.session.LogIn(user)
			return p.SetState(component.State{"user": user})
		},
	}
}

// DashboardPage is only reachable when the session is logged in; the route
// guard enforces that.
type DashboardPage struct {
	component.Base
	session *Session
}

func (p *DashboardPage) Template() string {
	return fmt.Sprintf(`<h1>Dashboard</h1>
<p>Welcome back, %s.</p>`, p.session.User())
}

// NotFoundPage serves the /404 fallback route.
type NotFoundPage struct {
	component.Base
}

func (p *NotFoundPage) Template() string {
	return `<h1>Page not found</h1>
<a href="/">Back home</a>`
}
