package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkeller/folio/internal/guestbook"
	"github.com/mkeller/folio/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteDoc(t, dir, "projects/folio.md", "---\ntitle: Folio\nsummary: Portfolio backend\nyear: 2025\n---\nThe backend itself.\n")
	testutil.WriteDoc(t, dir, "articles/hello.md", "---\ntitle: Hello\nsummary: First post\ndate: 2025-01-10\n---\nHello world.\n")
	testutil.WriteDoc(t, dir, "articles/wip.md", "---\ntitle: WIP\ndraft: true\n---\nNot yet.\n")

	cs := testutil.ContentService(t, dir)
	if err := cs.Reload(); err != nil {
		t.Fatal(err)
	}

	return New(cs, testutil.GuestbookService(t))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_projects":
		result, err = srv.listProjects(ctx, req)
	case "get_project":
		result, err = srv.getProject(ctx, req)
	case "get_resume":
		result, err = srv.getResume(ctx, req)
	case "list_articles":
		result, err = srv.listArticles(ctx, req)
	case "read_article":
		result, err = srv.readArticle(ctx, req)
	case "list_guestbook":
		result, err = srv.listGuestbook(ctx, req)
	case "get_content_contract":
		result, err = srv.getContentContract(ctx, req)
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

func TestListProjects(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_projects", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "Folio") {
		t.Errorf("projects = %q", text)
	}
}

func TestGetProject(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_project", map[string]interface{}{"slug": "folio"})
	text := resultText(r)
	if !strings.Contains(text, "The backend itself.") {
		t.Errorf("project = %q", text)
	}
}

func TestGetProjectMissing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_project", map[string]interface{}{"slug": "nope"})
	if !r.IsError {
		t.Error("expected error for missing project")
	}
}

func TestListArticlesExcludesDrafts(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_articles", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "hello") {
		t.Errorf("articles missing published entry: %q", text)
	}
	if strings.Contains(text, "wip") {
		t.Errorf("articles include draft: %q", text)
	}
}

func TestReadArticle(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_article", map[string]interface{}{"slug": "hello"})
	text := resultText(r)
	if !strings.Contains(text, "Hello world.") {
		t.Errorf("article = %q", text)
	}
}

func TestGetResumeMissing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_resume", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error when resume.md is absent")
	}
}

func TestListGuestbook(t *testing.T) {
	srv := testServer(t)

	_, err := srv.guestbook.Create(context.Background(), guestbook.CreateRequest{
		Name:    "Ada",
		Message: "Nice site!",
	})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_guestbook", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "Ada") {
		t.Errorf("guestbook = %q", text)
	}
}

func TestContentContract(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_content_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "frontmatter") {
		t.Error("contract text missing frontmatter section")
	}
}
