package codebase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhamidi/jig/java"
	"github.com/dhamidi/jig/java/lexer"
)

// defaultCompletionLimit bounds java_complete responses so that agent
// clients are not flooded with every keyword and class in scope.
const defaultCompletionLimit = 20

// MCPServer exposes the codebase over the Model Context Protocol so that
// agent clients can ask the same questions an editor would.
type MCPServer struct {
	codebase  *Codebase
	mcpServer *server.MCPServer
}

// NewMCPServer wraps an already-constructed codebase. The caller decides
// when to scan; tools index files on demand if a path is not loaded yet.
func NewMCPServer(c *Codebase, version string) *MCPServer {
	s := &MCPServer{codebase: c}

	s.mcpServer = server.NewMCPServer(
		"jig",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: completeTool(), Handler: s.handleComplete},
		server.ServerTool{Tool: typeAtTool(), Handler: s.handleTypeAt},
		server.ServerTool{Tool: outlineTool(), Handler: s.handleOutline},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *MCPServer) ServeStdio() error {
	log.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}

func completeTool() mcp.Tool {
	return mcp.NewTool("java_complete",
		mcp.WithDescription("Completion candidates for a position in a Java file, best matches first"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the Java source file")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number, 1-based")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Byte column on that line, 1-based")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of candidates (default 20)")),
	)
}

func typeAtTool() mcp.Tool {
	return mcp.NewTool("java_type_at",
		mcp.WithDescription("Type of the expression ending at a position in a Java file"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the Java source file")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number, 1-based")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Byte column on that line, 1-based")),
	)
}

func outlineTool() mcp.Tool {
	return mcp.NewTool("java_outline",
		mcp.WithDescription("Classes, fields and methods declared in a Java file, with line numbers"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the Java source file")),
	)
}

// completionEntry is the java_complete response row. Detail carries the
// signature for members and the qualified name for classes, so agents can
// derive imports without a second call. Doc is the first javadoc sentence.
type completionEntry struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
	Doc    string `json:"doc,omitempty"`
	Insert string `json:"insert,omitempty"`
}

func (s *MCPServer) handleComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, err := stringArg(args, "file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := intArg(args, "line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := optionalIntArg(args, "limit", defaultCompletionLimit)
	if limit <= 0 {
		limit = defaultCompletionLimit
	}

	file, err := s.fileFor(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	src := file.Analysis.Source
	offset := LineColToOffset(src, line, col)
	prefix := PrefixAt(src, offset)

	cands := s.codebase.CompletionsAt(path, offset, prefix)
	if len(cands) > limit {
		cands = cands[:limit]
	}
	entries := make([]completionEntry, 0, len(cands))
	for _, c := range cands {
		entries = append(entries, completionEntry{
			Label:  c.Label,
			Kind:   string(c.Kind),
			Detail: c.Detail,
			Doc:    docSummary(c.Documentation),
			Insert: c.InsertText,
		})
	}
	return jsonResult(entries)
}

func (s *MCPServer) handleTypeAt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, err := stringArg(args, "file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := intArg(args, "line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, err := s.fileFor(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	src := file.Analysis.Source
	offset := LineColToOffset(src, line, col)

	// Snap to the end of the identifier under the cursor, so pointing
	// anywhere inside a name asks about the whole name.
	if i := file.Analysis.TokenContaining(offset); i >= 0 {
		tok := file.Analysis.Tokens[i]
		if tok.Kind == lexer.TokenIdent {
			offset = tok.Span.End.Offset
		}
	}

	display := s.codebase.TypeAt(path, offset)
	if display == "" {
		return mcp.NewToolResultError(fmt.Sprintf("no typed expression at %s:%d:%d", path, line, col)), nil
	}
	return jsonResult(map[string]string{"type": display})
}

func (s *MCPServer) handleOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, err := stringArg(args, "file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.fileFor(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := s.codebase.Outline(path)
	if items == nil {
		items = []OutlineItem{}
	}
	return jsonResult(items)
}

// fileFor returns the indexed file for path, scanning it on demand so that
// tools work on files outside the initial scan.
func (s *MCPServer) fileFor(path string) (*java.SourceFile, error) {
	if f := s.codebase.File(path); f != nil {
		return f, nil
	}
	if err := s.codebase.ScanFile(path); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if f := s.codebase.File(path); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("load %s: no analysis produced", path)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required parameter %q", name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", name)
	}
	return s, nil
}

// intArg reads a JSON number. Decoded JSON numbers arrive as float64.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing required parameter %q", name)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter %q must be a number", name)
	}
	return int(f), nil
}

func optionalIntArg(args map[string]any, name string, fallback int) int {
	f, ok := args[name].(float64)
	if !ok {
		return fallback
	}
	return int(f)
}
