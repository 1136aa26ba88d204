package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caseforge/caseforge/internal/dashboard"
	"github.com/caseforge/caseforge/internal/mcpserver"
	"github.com/caseforge/caseforge/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation tools over MCP stdio",
		Long: `Run an MCP server on stdio exposing test-case generation, requirement
scanning, spreadsheet export and automation-code tools. Persistence tools
work when the project is initialized; otherwise they report a failure
result and generation still works.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Store is optional for the MCP transport: generation works
			// without a project, persistence tools degrade gracefully.
			var st *store.Store
			if _, opened, err := requireProject(); err == nil {
				st = opened
				defer st.Close()
			} else {
				fmt.Fprintf(os.Stderr, "Running without persistence: %v\n", err)
			}

			s := mcpserver.New(cfg, st)
			if err := mcpserver.ServeStdio(s); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}

func dashboardCmd() *cobra.Command {
	var addr string

	command := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the web dashboard over saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := requireProject()
			if err != nil {
				return err
			}
			defer st.Close()

			if addr == "" {
				addr = cfg.DashboardAddr
			}

			server, err := dashboard.New(dashboard.Config{
				Addr:  addr,
				Store: st,
			})
			if err != nil {
				return fmt.Errorf("creating dashboard: %w", err)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			fmt.Printf("📊 Dashboard running at http://localhost%s\n", addr)
			fmt.Println("Press Ctrl+C to stop")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				fmt.Println("\nShutting down...")
				ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}

	command.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return command
}
