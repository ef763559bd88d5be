// Package router maps URL paths to component entries and drives navigation.
//
// The router never touches the component manager directly: it requests
// component loads by emitting [EventNavigationLoad] on the shared bus, and
// the application context binds that event to the manager. Host history and
// link-activation notifications arrive through the [host.Host] interfaces.
package router

import (
	"context"
	"net/url"
	"strings"
)

// NotFoundPath is the conventional fallback route path for unmatched
// navigations.
const NotFoundPath = "/404"

// Wildcard is the catch-all route path.
const Wildcard = "*"

// Match describes a resolved navigation target.
type Match struct {
	// Route is the matched route entry.
	Route *Route
	// Path is the navigated path, query string excluded. For fallback
	// matches this is the originally requested path, not NotFoundPath.
	Path string
	// Params holds extracted :param segment values, percent-decoded.
	Params map[string]string
	// Query holds parsed query parameters.
	Query url.Values
}

// GuardContext is handed to navigation guards and hooks.
type GuardContext struct {
	// From is the route being left, nil on the first navigation.
	From *Match
	// To is the route being entered.
	To *Match
}

// Guard may veto a navigation before it takes effect. Returning false or an
// error cancels the navigation; cancellation is a boolean outcome for the
// navigation caller, not an error.
type Guard func(ctx context.Context, g GuardContext) (bool, error)

// Hook runs after a navigation has taken effect.
type Hook func(ctx context.Context, g GuardContext)

// Route is one registered path-to-component entry. Routes are immutable
// after registration and destroyed when the router is torn down.
type Route struct {
	// Path is the route pattern: literal segments and :param segments,
	// or the Wildcard catch-all.
	Path string
	// Name identifies the route. Defaults to the trimmed path.
	Name string
	// Component is the component name loaded for this route.
	Component string
	// Protected marks the route as requiring authentication. The router
	// records this metadata; enforcement belongs to application guards.
	Protected bool
	// RequiredRole is the role an authenticated user needs, if any.
	RequiredRole string
	// Title is set as the document title when the route activates.
	Title string
	// BeforeEnter runs after the global before-guards.
	BeforeEnter Guard
	// AfterEnter runs after the global after-hooks.
	AfterEnter Hook
}

// isPattern reports whether the path needs segment matching rather than an
// exact string lookup.
func isPattern(path string) bool {
	return path == Wildcard || strings.Contains(path, ":")
}

// splitPath separates the path proper from its query string.
func splitPath(path string) (string, url.Values) {
	pathOnly, rawQuery, found := strings.Cut(path, "?")
	if !found {
		return pathOnly, nil
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return pathOnly, nil
	}
	return pathOnly, query
}

// segments splits a path on "/", dropping the leading empty segment.
func segments(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// matchPattern matches a concrete path against a route pattern. Segment
// counts must be equal and every non-:param literal must match exactly.
func matchPattern(pattern, path string) (map[string]string, bool) {
	if pattern == Wildcard {
		return map[string]string{}, true
	}
	ps := segments(pattern)
	cs := segments(path)
	if len(ps) != len(cs) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			value, err := url.PathUnescape(cs[i])
			if err != nil {
				value = cs[i]
			}
			params[seg[1:]] = value
			continue
		}
		if seg != cs[i] {
			return nil, false
		}
	}
	return params, true
}

// defaultName derives a route name from its path.
func defaultName(path string) string {
	name := strings.Trim(path, "/")
	if name == "" {
		return "home"
	}
	return name
}
