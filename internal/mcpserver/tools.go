package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caseforge/caseforge/internal/automation"
	"github.com/caseforge/caseforge/internal/config"
	"github.com/caseforge/caseforge/internal/export"
	"github.com/caseforge/caseforge/internal/requirements"
	"github.com/caseforge/caseforge/internal/store"
	"github.com/caseforge/caseforge/internal/testcase"
	"github.com/caseforge/caseforge/pkg/telemetry"
)

// toolSet carries the collaborators shared by all tool handlers.
type toolSet struct {
	cfg    *config.Config
	store  *store.Store
	reader *requirements.Reader
}

// generateResponse is the wire shape of a generation tool result. The run id
// and export outcome ride alongside the core result, each with its own
// success signal, so a collaborator failure never masks generated cases.
type generateResponse struct {
	*testcase.GenerationResult
	RunID     string         `json:"run_id,omitempty"`
	SaveError string         `json:"save_error,omitempty"`
	Export    *export.Result `json:"export,omitempty"`
}

func generateTool() mcp.Tool {
	return mcp.NewTool("generate_test_cases",
		mcp.WithDescription("Generate a deterministic battery of positive, negative, boundary and edge test cases from a requirement. Input may be free text, a user story, or a JSON API specification with endpoint and method fields."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Requirement text or JSON API specification")),
		mcp.WithBoolean("save", mcp.Description("Persist the run so it can be exported or inspected later")),
		mcp.WithString("export_path", mcp.Description("Also export the cases to this .xlsx or .csv path")),
	)
}

func (t *toolSet) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(input) > t.cfg.MaxInputLength {
		return failure(fmt.Sprintf("input exceeds maximum length of %d characters", t.cfg.MaxInputLength)), nil
	}

	resp := t.generate(ctx, input, "inline", req.GetBool("save", false))

	if path := req.GetString("export_path", ""); path != "" && resp.Success {
		exportResult, err := export.Write(resp.TestCases, path)
		if err != nil {
			// Export is optional: flag the failure, keep the cases.
			resp.Export = &export.Result{Success: false, Error: err.Error()}
			telemetry.RecordExport(ctx, false)
		} else {
			resp.Export = exportResult
			telemetry.RecordExport(ctx, true)
		}
	}

	return jsonResult(resp)
}

func generateFromFileTool() mcp.Tool {
	return mcp.NewTool("generate_from_file",
		mcp.WithDescription("Read a requirement file (or every requirement file in a directory) and generate test cases from its content."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to a requirement file or directory (.md, .markdown, .txt, .json, .jsonl)")),
		mcp.WithBoolean("save", mcp.Description("Persist the run so it can be exported or inspected later")),
	)
}

func (t *toolSet) handleGenerateFromFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, _, err := t.reader.ReadInput(path)
	if err != nil {
		return failure(err.Error()), nil
	}

	// File content runs through the same normalization entry point as
	// direct text input.
	resp := t.generate(ctx, content, path, req.GetBool("save", false))
	return jsonResult(resp)
}

func scanTool() mcp.Tool {
	return mcp.NewTool("scan_requirements",
		mcp.WithDescription("List requirement files in a directory, optionally filtered by extension."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to scan")),
		mcp.WithString("extensions", mcp.Description("Comma-separated extensions to include, e.g. \".md,.txt\"")),
	)
}

func (t *toolSet) handleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var exts []string
	if raw := req.GetString("extensions", ""); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
	}

	files, err := t.reader.ScanDirectory(path, exts)
	if err != nil {
		return failure(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"success": true,
		"files":   files,
		"count":   len(files),
	})
}

func exportTool() mcp.Tool {
	return mcp.NewTool("export_spreadsheet",
		mcp.WithDescription("Export generated test cases to a spreadsheet: a 9-column table with one row per case across all four sections."),
		mcp.WithString("output_path", mcp.Required(), mcp.Description("Destination .xlsx or .csv path")),
		mcp.WithString("input", mcp.Description("Requirement to generate and export")),
		mcp.WithString("run_id", mcp.Description("Previously saved run to export instead of generating")),
	)
}

func (t *toolSet) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outputPath, err := req.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	set, failMsg := t.resolveCases(req)
	if failMsg != "" {
		return failure(failMsg), nil
	}

	ctx, span := telemetry.StartSpan(ctx, "export_spreadsheet")
	defer span.End()

	start := time.Now()
	result, err := export.Write(set, outputPath)
	telemetry.RecordExportDuration(ctx, time.Since(start))
	if err != nil {
		telemetry.RecordExport(ctx, false)
		return failure(err.Error()), nil
	}
	telemetry.RecordExport(ctx, true)
	return jsonResult(result)
}

func automationTool() mcp.Tool {
	return mcp.NewTool("generate_automation_code",
		mcp.WithDescription("Render generated test cases into Playwright test-code snippets with a setup block and dependency list."),
		mcp.WithString("input", mcp.Description("Requirement to generate and render")),
		mcp.WithString("run_id", mcp.Description("Previously saved run to render instead of generating")),
		mcp.WithString("framework", mcp.Description("Automation framework (default playwright)")),
		mcp.WithString("language", mcp.Description("Output language: typescript or javascript")),
		mcp.WithString("base_url", mcp.Description("Base URL baked into the setup snippet")),
	)
}

func (t *toolSet) handleAutomation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set, failMsg := t.resolveCases(req)
	if failMsg != "" {
		return failure(failMsg), nil
	}

	out, err := automation.Generate(set, automation.Config{
		Framework: req.GetString("framework", t.cfg.Framework),
		Language:  req.GetString("language", t.cfg.Language),
		BaseURL:   req.GetString("base_url", t.cfg.BaseURL),
	})
	if err != nil {
		return failure(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"success":      true,
		"framework":    out.Framework,
		"language":     out.Language,
		"setup":        out.Setup,
		"dependencies": out.Dependencies,
		"sections":     out.Sections,
	})
}

// generate runs the pipeline and optionally persists the run.
func (t *toolSet) generate(ctx context.Context, input, source string, save bool) *generateResponse {
	ctx, span := telemetry.StartSpan(ctx, "generate",
		attribute.Bool("save", save),
		attribute.String("source", source),
	)
	defer span.End()

	start := time.Now()
	result := testcase.Generate(input)
	telemetry.RecordGeneration(ctx, string(result.InputType), result.Summary.TotalCases, result.Validation.IsValid)
	telemetry.RecordGenerationDuration(ctx, string(result.InputType), time.Since(start))
	span.SetAttributes(attribute.String("input_type", string(result.InputType)))

	resp := &generateResponse{GenerationResult: result}
	if save && result.Success {
		// Persistence is optional: a store failure is flagged, never fatal.
		if t.store == nil {
			resp.SaveError = "save requested but no store is configured"
		} else if run, err := t.store.SaveRun(source, result); err != nil {
			resp.SaveError = err.Error()
		} else {
			resp.RunID = run.ID
		}
	}
	return resp
}

// resolveCases loads the case set from a saved run when run_id is given,
// otherwise generates it from the input parameter.
func (t *toolSet) resolveCases(req mcp.CallToolRequest) (testcase.TestCaseSet, string) {
	if runID := req.GetString("run_id", ""); runID != "" {
		if t.store == nil {
			return nil, "run_id given but no store is configured"
		}
		set, err := t.store.CasesForRun(runID)
		if err != nil {
			return nil, fmt.Sprintf("loading run %s: %v", runID, err)
		}
		if set.TotalCases() == 0 {
			return nil, fmt.Sprintf("run %s has no cases", runID)
		}
		return set, ""
	}

	input := req.GetString("input", "")
	if input == "" {
		return nil, "either input or run_id is required"
	}
	result := testcase.Generate(input)
	if !result.Success {
		return nil, result.Error
	}
	return result.TestCases, ""
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// failure renders a {success:false} result. Collaborator failures are
// results, not protocol errors: the transport stays healthy.
func failure(msg string) *mcp.CallToolResult {
	b, _ := json.Marshal(map[string]any{"success": false, "error": msg})
	return mcp.NewToolResultText(string(b))
}
