package mcpserver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/caselink-za/caselink/internal/models"
	"github.com/caselink-za/caselink/internal/search"
	"github.com/caselink-za/caselink/internal/sources"
	"github.com/caselink-za/caselink/internal/testutil"
)

type fakeSource struct {
	name string
	recs []models.CaseRecord
	err  error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, _ string) ([]models.CaseRecord, error) {
	return f.recs, f.err
}

func testServer(t *testing.T, srcs ...sources.Source) *Server {
	t.Helper()
	eng := search.NewEngine(testutil.TestDB(t), srcs)
	return New(eng, srcs)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct call-tool test helper, so we invoke the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_cases":
		result, err = srv.searchCases(ctx, req)
	case "list_sources":
		result, err = srv.listSources(ctx, req)
	case "probe_source":
		result, err = srv.probeSource(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchCases(t *testing.T) {
	src := &fakeSource{name: "SCA", recs: []models.CaseRecord{
		{Source: "SCA", Court: "Supreme Court of Appeal", Title: "Smith v Jones", URL: "https://x/1", Date: "2024-06-01"},
	}}
	srv := testServer(t, src)

	r := callTool(t, srv, "search_cases", map[string]interface{}{"query": "smith"})
	text := resultText(r)
	if !strings.Contains(text, "Smith v Jones") {
		t.Errorf("search result = %q, want title present", text)
	}
	if !strings.Contains(text, `"fromCache": false`) {
		t.Errorf("search result missing fromCache flag: %q", text)
	}
}

func TestSearchCasesMissingQuery(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_cases", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query")
	}
}

func TestListSources(t *testing.T) {
	srv := testServer(t,
		&fakeSource{name: "Concourt"},
		&fakeSource{name: "SCA"},
	)
	r := callTool(t, srv, "list_sources", map[string]interface{}{})
	text := resultText(r)
	if text != "Concourt\nSCA" {
		t.Errorf("list_sources = %q", text)
	}
}

func TestProbeSource(t *testing.T) {
	srv := testServer(t, &fakeSource{name: "ZACC", recs: make([]models.CaseRecord, 3)})

	r := callTool(t, srv, "probe_source", map[string]interface{}{"name": "zacc"})
	text := resultText(r)
	if text != "ZACC: 3 cases" {
		t.Errorf("probe = %q", text)
	}
}

func TestProbeSourceFetchError(t *testing.T) {
	srv := testServer(t, &fakeSource{name: "SCA", err: errors.New("boom")})
	r := callTool(t, srv, "probe_source", map[string]interface{}{"name": "SCA"})
	if !r.IsError {
		t.Error("expected error result for failing source")
	}
}

func TestProbeSourceUnknown(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "probe_source", map[string]interface{}{"name": "nope"})
	if !r.IsError {
		t.Error("expected error for unknown source")
	}
}

func TestSourceCatalogResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readSourceCatalogResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	if !strings.Contains(tc.Text, "SCA") {
		t.Error("catalogue missing SCA section")
	}
}
