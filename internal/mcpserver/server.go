// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the portfolio content read-only for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkeller/folio/internal/content"
	"github.com/mkeller/folio/internal/guestbook"
)

// Server wraps the MCP server with portfolio tools. All tools are read-only;
// content is edited through the Markdown files, not through MCP.
type Server struct {
	mcp       *server.MCPServer
	content   *content.Service
	guestbook *guestbook.Service
}

// New creates a new MCP server with all portfolio tools registered.
func New(cs *content.Service, gb *guestbook.Service) *Server {
	s := &Server{content: cs, guestbook: gb}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all portfolio projects with their metadata."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Read a single project including its Markdown body."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Project slug (the filename stem)")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("get_resume",
		mcp.WithDescription("Read the structured resume: experience, education, and skills."),
	), s.getResume)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List published articles with summaries and reading times."),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("read_article",
		mcp.WithDescription("Read the full Markdown body of a published article."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug (the filename stem)")),
	), s.readArticle)

	s.mcp.AddTool(mcp.NewTool("list_guestbook",
		mcp.WithDescription("List the most recent guestbook messages, newest first."),
	), s.listGuestbook)

	s.mcp.AddTool(mcp.NewTool("get_content_contract",
		mcp.WithDescription("Returns the canonical content document format. "+
			"Useful for understanding the frontmatter schema behind the tools."),
	), s.getContentContract)

	// Resource: content format contract.
	s.mcp.AddResource(
		mcp.NewResource("folio://content-format", "Content Format Contract",
			mcp.WithResourceDescription("Canonical Markdown document format for portfolio content."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContentFormatResource,
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

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.content.Projects(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.content.Project(slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resume, err := s.content.Resume()
	if err != nil {
		return mcp.NewToolResultError("resume not available"), nil
	}
	out, _ := json.MarshalIndent(resume, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.content.Articles(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.content.Article(slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	var b strings.Builder
	b.WriteString("# " + a.Title + "\n\n")
	b.WriteString(a.Body)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) listGuestbook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.guestbook == nil {
		return mcp.NewToolResultError("guestbook not available"), nil
	}
	res, err := s.guestbook.List(ctx, 0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getContentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentFormatContract), nil
}

func (s *Server) readContentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "folio://content-format",
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
