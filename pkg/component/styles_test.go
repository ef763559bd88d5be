package component

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"UserCard", "usercard-component"},
		{"UserCardComponent", "usercard-component"},
		{"user_card", "user-card-component"},
		{"user_cardComponent", "user-card-component"},
		{"nav.bar", "nav-bar-component"},
		{"", "component"},
		{"Component", "component"},
	}
	for _, tt := range tests {
		if got := Slug(tt.name); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestStylesheetCandidates_Order(t *testing.T) {
	want := []string{
		"/styles/components/user-card-component.css",
		"/styles/user-card-component.css",
		"/css/user-card-component.css",
	}
	got := StylesheetCandidates("user_card")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates (-want +got):\n%s", diff)
	}
}
