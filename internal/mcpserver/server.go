// Package mcpserver wires the generation pipeline and its collaborators
// into an MCP tool server. This is the composition root: concrete
// implementations are created here and injected into the tool handlers;
// no generation logic lives in this package.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/caseforge/caseforge/internal/config"
	"github.com/caseforge/caseforge/internal/requirements"
	"github.com/caseforge/caseforge/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with all tools registered. The store is
// optional: when nil, tools that persist or load runs report a failure
// result instead of erroring the transport.
func New(cfg *config.Config, st *store.Store) *server.MCPServer {
	s := server.NewMCPServer(
		cfg.ServerName,
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	tools := &toolSet{
		cfg:    cfg,
		store:  st,
		reader: requirements.NewReader(),
	}

	s.AddTool(generateTool(), tools.handleGenerate)
	s.AddTool(generateFromFileTool(), tools.handleGenerateFromFile)
	s.AddTool(scanTool(), tools.handleScan)
	s.AddTool(exportTool(), tools.handleExport)
	s.AddTool(automationTool(), tools.handleAutomation)

	return s
}

// ServeStdio runs the server over stdio until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `caseforge generates deterministic QA test-case batteries from
requirement descriptions. Feed it an API specification (JSON with endpoint and
method), a user story, or free-form requirement text. Every tool returns a JSON
result with an explicit "success" flag; check it, and for generation results
also check "validation.isValid" before treating the battery as complete.`
