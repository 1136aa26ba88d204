// Package main provides CLI commands for caseforge
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caseforge/caseforge/internal/automation"
	"github.com/caseforge/caseforge/internal/export"
	"github.com/caseforge/caseforge/internal/requirements"
	"github.com/caseforge/caseforge/internal/store"
	"github.com/caseforge/caseforge/internal/testcase"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize caseforge in the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			caseforgeDir := filepath.Dir(cfg.DatabasePath)
			if _, err := os.Stat(cfg.DatabasePath); err == nil {
				return fmt.Errorf("already initialized in %s", caseforgeDir)
			}

			if err := os.MkdirAll(caseforgeDir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", caseforgeDir, err)
			}

			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("creating database: %w", err)
			}
			defer st.Close()

			if err := st.InitSchema(); err != nil {
				return fmt.Errorf("initializing schema: %w", err)
			}

			fmt.Printf("🧪 Initialized caseforge in %s\n", caseforgeDir)
			fmt.Println("\nNext steps:")
			fmt.Println("  caseforge generate \"As a user I want to login\"")
			fmt.Println("  caseforge generate requirements/ --save")
			fmt.Println("  caseforge serve")

			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var (
		save       bool
		asJSON     bool
		exportPath string
	)

	command := &cobra.Command{
		Use:   "generate <text|path>",
		Short: "Generate test cases from a requirement",
		Long: `Generate a battery of test cases from a requirement description.

The argument is requirement text, or a path to a requirement file or folder
(.md, .markdown, .txt, .json, .jsonl). File content runs through the same
classification as inline text.

Examples:
  caseforge generate "As a user I want to login so that I can access dashboard"
  caseforge generate '{"endpoint":"/login","method":"POST","request":{"username":"string"}}'
  caseforge generate requirements/login.md --save
  caseforge generate requirements/ --export cases.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			source := "inline"

			// Paths are read; anything else is treated as requirement text.
			if _, err := os.Stat(input); err == nil {
				content, files, err := requirements.NewReader().ReadInput(input)
				if err != nil {
					return fmt.Errorf("reading requirements: %w", err)
				}
				fmt.Printf("📄 Read %d file(s)\n", len(files))
				source = input
				input = content
			}

			result := testcase.Generate(input)
			if !result.Success {
				return fmt.Errorf("generation failed: %s", result.Error)
			}

			if save {
				_, st, err := requireProject()
				if err != nil {
					return err
				}
				defer st.Close()

				run, err := st.SaveRun(source, result)
				if err != nil {
					return fmt.Errorf("saving run: %w", err)
				}
				fmt.Printf("💾 Saved run %s\n", run.ID)
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(result); err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
			} else {
				printResult(result)
			}

			if exportPath != "" {
				exportResult, err := export.Write(result.TestCases, exportPath)
				if err != nil {
					// Export failure never discards the generated cases.
					fmt.Fprintf(os.Stderr, "⚠️  Export failed: %v\n", err)
					return nil
				}
				fmt.Printf("📊 Exported %d rows to %s (%d bytes)\n", exportResult.Rows, exportResult.Path, exportResult.Bytes)
			}

			return nil
		},
	}

	command.Flags().BoolVar(&save, "save", false, "Persist the run to the project database")
	command.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	command.Flags().StringVar(&exportPath, "export", "", "Also export cases to this .xlsx or .csv path")

	return command
}

func runsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved generation runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := requireProject()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(50)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("No runs saved yet")
				return nil
			}

			for _, run := range runs {
				valid := "✅"
				if !run.IsValid {
					valid = "⚠️ "
				}
				fmt.Printf("%s %s  %-10s  %-24s  %d cases  (%s)\n",
					valid, run.ID, run.InputType, run.BaseID, run.TotalCases, run.Source)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the cases of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := requireProject()
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(args[0])
			if err != nil {
				return fmt.Errorf("loading run: %w", err)
			}
			set, err := st.CasesForRun(run.ID)
			if err != nil {
				return fmt.Errorf("loading cases: %w", err)
			}

			fmt.Printf("Run %s (%s, base id %s)\n", run.ID, run.InputType, run.BaseID)
			printCases(set)
			return nil
		},
	}

	command.AddCommand(list, show)
	return command
}

func exportCmd() *cobra.Command {
	var out string

	command := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a saved run to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := requireProject()
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(args[0])
			if err != nil {
				return fmt.Errorf("loading run: %w", err)
			}
			set, err := st.CasesForRun(run.ID)
			if err != nil {
				return fmt.Errorf("loading cases: %w", err)
			}

			if out == "" {
				if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
					return fmt.Errorf("creating export dir: %w", err)
				}
				out = filepath.Join(cfg.ExportDir, run.ID+cfg.ExportFormat)
			}

			result, err := export.Write(set, out)
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			fmt.Printf("📊 Exported %d rows to %s (%d bytes)\n", result.Rows, result.Path, result.Bytes)
			return nil
		},
	}

	command.Flags().StringVarP(&out, "out", "o", "", "Output path (.xlsx or .csv)")
	return command
}

func codeCmd() *cobra.Command {
	var (
		framework string
		language  string
		baseURL   string
	)

	command := &cobra.Command{
		Use:   "code <run-id>",
		Short: "Render a saved run into Playwright test code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := requireProject()
			if err != nil {
				return err
			}
			defer st.Close()

			set, err := st.CasesForRun(args[0])
			if err != nil {
				return fmt.Errorf("loading cases: %w", err)
			}

			out, err := automation.Generate(set, automation.Config{
				Framework: framework,
				Language:  language,
				BaseURL:   baseURL,
			})
			if err != nil {
				return fmt.Errorf("generating code: %w", err)
			}

			fmt.Printf("// %s (%s)\n// dependencies: %v\n\n%s\n", out.Framework, out.Language, out.Dependencies, out.Setup)
			for _, section := range testcase.Sections {
				for _, snippet := range out.Sections[section] {
					fmt.Printf("\n%s\n", snippet.Code)
				}
			}
			return nil
		},
	}

	command.Flags().StringVar(&framework, "framework", "", "Automation framework (default from config)")
	command.Flags().StringVar(&language, "language", "", "Output language: typescript or javascript")
	command.Flags().StringVar(&baseURL, "base-url", "", "Base URL for the setup snippet")

	return command
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show saved run statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := requireProject()
			if err != nil {
				return err
			}
			defer st.Close()

			status, err := st.GetStatus()
			if err != nil {
				return fmt.Errorf("querying status: %w", err)
			}
			printStatus(status)
			return nil
		},
	}
}

// printResult displays a generation result in a readable format
func printResult(result *testcase.GenerationResult) {
	fmt.Println("\n🧪 Generated Test Cases")
	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Input type: %s\n", result.InputType)
	fmt.Printf("Base id:    %s\n", result.BaseID)
	fmt.Printf("Total:      %d cases\n", result.Summary.TotalCases)

	printCases(result.TestCases)

	if result.Validation.IsValid {
		fmt.Println("\n✅ Output contract satisfied")
	} else {
		fmt.Printf("\n⚠️  %d validation finding(s):\n", len(result.Validation.Errors))
		for _, e := range result.Validation.Errors {
			fmt.Printf("   - %s\n", e)
		}
	}
}

func printCases(set testcase.TestCaseSet) {
	for _, section := range testcase.Sections {
		cases := set[section]
		fmt.Printf("\n📌 %s (%d)\n", section, len(cases))
		for _, tc := range cases {
			fmt.Printf("   [%s] %s (priority %s)\n", tc.ID, tc.Title, tc.Priority)
		}
	}
}

func printStatus(status *store.Status) {
	fmt.Println("\n🧪 caseforge Status")
	fmt.Println("═══════════════════")
	fmt.Printf("\nRuns:        %d\n", status.Runs)
	fmt.Printf("Cases:       %d\n", status.Cases)
	fmt.Printf("Valid runs:  %d\n", status.ValidRuns)
	fmt.Printf("API:         %d\n", status.APIRuns)
	fmt.Printf("User story:  %d\n", status.StoryRuns)
	fmt.Printf("Raw text:    %d\n", status.RawRuns)

	if status.Runs > 0 {
		progress := float64(status.ValidRuns) / float64(status.Runs) * 100
		fmt.Printf("\nContract conformance: %.1f%%\n", progress)
		printProgressBar(progress)
	}
}

func printProgressBar(percent float64) {
	width := 40
	filled := int(percent / 100 * float64(width))

	fmt.Print("[")
	for i := 0; i < width; i++ {
		if i < filled {
			fmt.Print("█")
		} else {
			fmt.Print("░")
		}
	}
	fmt.Printf("] %.1f%%\n", percent)
}
