// Package main provides the caseforge CLI
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caseforge/caseforge/internal/config"
	"github.com/caseforge/caseforge/internal/store"
	"github.com/caseforge/caseforge/pkg/telemetry"
)

var cfg *config.Config

func main() {
	ctx := context.Background()
	shutdown := telemetry.MustInit(ctx, telemetry.DefaultConfig())
	defer shutdown(context.Background())

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "caseforge",
		Short: "Deterministic QA test-case generation from requirements",
		Long: `caseforge turns requirement descriptions into a fixed-shape battery of
test cases grouped into positive, negative, boundary and edge sections.

Inputs can be free text, user stories, or JSON API specifications with
endpoint and method fields. Generated cases can be persisted, exported to
spreadsheets, and rendered into Playwright code.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		initCmd(),
		generateCmd(),
		runsCmd(),
		exportCmd(),
		codeCmd(),
		statusCmd(),
		serveCmd(),
		dashboardCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// requireProject ensures caseforge is initialized and opens the run store.
func requireProject() (string, *store.Store, error) {
	caseforgeDir := filepath.Dir(cfg.DatabasePath)
	if _, err := os.Stat(caseforgeDir); err != nil {
		return "", nil, fmt.Errorf("not initialized (run 'caseforge init' first): %w", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return "", nil, fmt.Errorf("opening database: %w", err)
	}
	if err := st.InitSchema(); err != nil {
		st.Close()
		return "", nil, fmt.Errorf("initializing schema: %w", err)
	}
	return cfg.ProjectDir, st, nil
}
