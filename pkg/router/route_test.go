package router

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    map[string]string
		ok      bool
	}{
		{"/users/:id", "/users/42", map[string]string{"id": "42"}, true},
		{"/users/:id", "/users/99", map[string]string{"id": "99"}, true},
		{"/users/:id", "/users", nil, false},
		{"/users/:id", "/users/42/posts", nil, false},
		{"/users/:id/posts/:postId", "/users/7/posts/12", map[string]string{"id": "7", "postId": "12"}, true},
		{"/products/:id", "/orders/5", nil, false},
		{"/users/:name", "/users/ada%20lovelace", map[string]string{"name": "ada lovelace"}, true},
		{"*", "/anything/at/all", map[string]string{}, true},
		{"/", "/", map[string]string{}, true},
	}
	for _, tt := range tests {
		params, ok := matchPattern(tt.pattern, tt.path)
		if ok != tt.ok {
			t.Errorf("matchPattern(%q, %q) ok = %v, want %v", tt.pattern, tt.path, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if diff := cmp.Diff(tt.want, params); diff != "" {
			t.Errorf("matchPattern(%q, %q) params (-want +got):\n%s", tt.pattern, tt.path, diff)
		}
	}
}

func TestSplitPath(t *testing.T) {
	pathOnly, query := splitPath("/search?q=strand&tag=a&tag=b")
	if pathOnly != "/search" {
		t.Errorf("pathOnly = %q", pathOnly)
	}
	if got := query.Get("q"); got != "strand" {
		t.Errorf("q = %q", got)
	}
	if got := query["tag"]; len(got) != 2 {
		t.Errorf("tag values = %v", got)
	}

	pathOnly, query = splitPath("/plain")
	if pathOnly != "/plain" || query != nil {
		t.Errorf("splitPath(/plain) = %q, %v", pathOnly, query)
	}
}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "home"},
		{"/404", "404"},
		{"/users/:id", "users/:id"},
		{"/about", "about"},
	}
	for _, tt := range tests {
		if got := defaultName(tt.path); got != tt.want {
			t.Errorf("defaultName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
