// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Caselink case search for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/caselink-za/caselink/internal/apperr"
	"github.com/caselink-za/caselink/internal/search"
	"github.com/caselink-za/caselink/internal/sources"
)

// Server wraps the MCP server with Caselink tools.
type Server struct {
	mcp  *server.MCPServer
	eng  *search.Engine
	srcs []sources.Source
}

// New creates a new MCP server with all Caselink tools registered.
func New(eng *search.Engine, srcs []sources.Source) *Server {
	s := &Server{eng: eng, srcs: srcs}

	s.mcp = server.NewMCPServer(
		"Caselink",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_cases",
		mcp.WithDescription("Unified case-law search across all configured court sources. "+
			"Serves cached results when available, otherwise crawls the sources live. "+
			"Read the caselink://sources resource for what each source returns."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query (matched against case titles)")),
		mcp.WithNumber("limit", mcp.Description("Max results per page (1-50, default 20)")),
		mcp.WithNumber("offset", mcp.Description("Page offset (default 0)")),
	), s.searchCases)

	s.mcp.AddTool(mcp.NewTool("list_sources",
		mcp.WithDescription("List the configured case-law sources in priority order."),
	), s.listSources)

	s.mcp.AddTool(mcp.NewTool("probe_source",
		mcp.WithDescription("Fetch one source live and report how many cases it currently yields. "+
			"Useful for diagnosing an empty search result."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Source name (e.g. SCA, Concourt)")),
	), s.probeSource)

	// Resource: source catalogue.
	s.mcp.AddResource(
		mcp.NewResource("caselink://sources", "Source Catalogue",
			mcp.WithResourceDescription("The configured case-law sources and their data quirks."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSourceCatalogResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchCases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", search.DefaultLimit)
	offset := req.GetInt("offset", 0)

	resp := s.eng.Search(ctx, query, limit, offset)
	out, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listSources(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var names []string
	for _, src := range s.srcs {
		names = append(names, src.Name())
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) probeSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, src := range s.srcs {
		if !strings.EqualFold(src.Name(), name) {
			continue
		}
		recs, err := src.Fetch(ctx, "")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: fetch failed: %v", src.Name(), err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s: %d cases", src.Name(), len(recs))), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("source %q: %v", name, apperr.ErrNotFound)), nil
}

func (s *Server) readSourceCatalogResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "caselink://sources",
			MIMEType: "text/markdown",
			Text:     SourceCatalog,
		},
	}, nil
}
