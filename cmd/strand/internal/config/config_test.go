package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProject(t *testing.T, modulePath, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+modulePath+"\n\ngo 1.24.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if yaml != "" {
		if err := os.WriteFile(filepath.Join(dir, "strand.yaml"), []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestResolve_Defaults(t *testing.T) {
	dir := writeProject(t, "github.com/user/myapp", "")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModulePath != "github.com/user/myapp" {
		t.Errorf("ModulePath = %q", cfg.ModulePath)
	}
	if cfg.AppName != "myapp" {
		t.Errorf("AppName = %q, want derived from module path", cfg.AppName)
	}
	if cfg.Outlet != "app" {
		t.Errorf("Outlet = %q, want app", cfg.Outlet)
	}
	if len(cfg.Routes) != 0 {
		t.Errorf("Routes = %v, want none", cfg.Routes)
	}
}

func TestResolve_Manifest(t *testing.T) {
	dir := writeProject(t, "github.com/user/shop", `
app:
  name: shop
  outlet: main
routes:
  - path: /
    component: Home
    title: Shop
  - path: /users/:id
    component: UserDetail
    protected: true
  - path: /404
    component: NotFound
    name: "404"
`)

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Outlet != "main" {
		t.Errorf("Outlet = %q", cfg.Outlet)
	}
	if len(cfg.Routes) != 3 {
		t.Fatalf("Routes = %d, want 3", len(cfg.Routes))
	}
	if cfg.Routes[0].Name != "home" {
		t.Errorf("root route name = %q, want home", cfg.Routes[0].Name)
	}
	if cfg.Routes[1].Name != "users/:id" {
		t.Errorf("pattern route name = %q", cfg.Routes[1].Name)
	}
	if !cfg.Routes[1].Protected {
		t.Error("protected flag lost")
	}
	if cfg.Routes[2].Name != "404" {
		t.Errorf("explicit name = %q", cfg.Routes[2].Name)
	}
}

func TestResolve_ManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing component", "routes:\n  - path: /\n"},
		{"missing path", "routes:\n  - component: Home\n"},
		{"relative path", "routes:\n  - path: about\n    component: About\n"},
		{"duplicate path", "routes:\n  - path: /\n    component: A\n  - path: /\n    component: B\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, "example.com/app", tt.yaml)
			if _, err := Resolve(dir); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestResolve_NoGoMod(t *testing.T) {
	if _, err := Resolve(t.TempDir()); err == nil {
		t.Error("expected error without go.mod")
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	dir := writeProject(t, "example.com/app", "routes: [whoops\n")
	if _, err := Resolve(dir); err == nil {
		t.Error("expected parse error")
	}
}
