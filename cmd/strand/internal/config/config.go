package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// Config represents the optional strand.yaml configuration.
type Config struct {
	App    AppConfig     `yaml:"app"`
	Routes []RouteConfig `yaml:"routes"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name   string `yaml:"name,omitempty"`
	Outlet string `yaml:"outlet,omitempty"`
}

// RouteConfig declares one route of the application manifest.
type RouteConfig struct {
	Path      string `yaml:"path"`
	Component string `yaml:"component"`
	Name      string `yaml:"name,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Protected bool   `yaml:"protected,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	Outlet     string
	Routes     []RouteConfig
}

// LoadOptional reads strand.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "strand.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read strand.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse strand.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads strand.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	outlet := strings.TrimSpace(cfg.App.Outlet)
	if outlet == "" {
		outlet = "app"
	}

	routes, err := resolveRoutes(cfg.Routes)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		Outlet:     outlet,
		Routes:     routes,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	modName, _, ok := module.SplitPathVersion(modulePath)
	if ok {
		parts := strings.Split(modName, "/")
		if len(parts) > 0 {
			base = parts[len(parts)-1]
		}
	}
	if base == "" {
		return "strand_app"
	}
	return base
}

// resolveRoutes validates the manifest and fills route-name defaults.
func resolveRoutes(routes []RouteConfig) ([]RouteConfig, error) {
	seen := make(map[string]bool, len(routes))
	out := make([]RouteConfig, 0, len(routes))

	for i, r := range routes {
		path := strings.TrimSpace(r.Path)
		if path == "" {
			return nil, fmt.Errorf("routes[%d]: path is required", i)
		}
		if path != "*" && !strings.HasPrefix(path, "/") {
			return nil, fmt.Errorf("routes[%d]: path %q must start with '/' (or be '*')", i, path)
		}
		if strings.TrimSpace(r.Component) == "" {
			return nil, fmt.Errorf("routes[%d]: component is required for path %q", i, path)
		}
		if seen[path] {
			return nil, fmt.Errorf("routes[%d]: duplicate path %q", i, path)
		}
		seen[path] = true

		r.Path = path
		if strings.TrimSpace(r.Name) == "" {
			r.Name = defaultRouteName(path)
		}
		out = append(out, r)
	}

	return out, nil
}

// defaultRouteName mirrors the router's naming: the trimmed path, with
// the root path named "home".
func defaultRouteName(path string) string {
	name := strings.Trim(path, "/")
	if name == "" {
		return "home"
	}
	return name
}
