package cmd

import (
	"fmt"
	"strings"

	"github.com/go-strand/strand/cmd/strand/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "routes",
		Short: "Print the route manifest",
		Long: `Print the route manifest declared in strand.yaml.

Each route shows its name, path pattern, target component, and flags
(protected routes, document titles). Routes registered under /404 or *
serve as the not-found fallback and are marked as such.`,
		Usage: "strand routes",
		Run:   runRoutes,
	})
}

func runRoutes(args []string) error {
	root, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}

	fmt.Printf("Project: %s (%s)\n", cfg.AppName, cfg.ModulePath)
	fmt.Printf("Outlet:  #%s\n", cfg.Outlet)
	fmt.Println()

	if len(cfg.Routes) == 0 {
		fmt.Println("No routes declared in strand.yaml.")
		return nil
	}

	fmt.Printf("%-16s %-20s %-16s %s\n", "NAME", "PATH", "COMPONENT", "FLAGS")
	for _, r := range cfg.Routes {
		fmt.Printf("%-16s %-20s %-16s %s\n", r.Name, r.Path, r.Component, routeFlags(r))
	}

	return nil
}

func routeFlags(r config.RouteConfig) string {
	var flags []string
	if r.Protected {
		flags = append(flags, "protected")
	}
	if r.Title != "" {
		flags = append(flags, fmt.Sprintf("title=%q", r.Title))
	}
	if r.Path == "/404" || r.Path == "*" {
		flags = append(flags, "not-found fallback")
	}
	return strings.Join(flags, ", ")
}
