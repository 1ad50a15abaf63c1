// Package mcp provides the stdio MCP server exposing catalog tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/library/internal/buildinfo"
	"github.com/go-ports/library/internal/catalog"
	"github.com/go-ports/library/internal/models"
	"github.com/go-ports/library/internal/search"
	"github.com/go-ports/library/internal/service"
)

const searchDescription = `Search the library catalog by exact title, author, or publication year. Only one criterion is applied: title if given, otherwise author, otherwise year. Matching is case-sensitive and exact. Use library_list to see everything.` //nolint:lll

const setStatusDescription = `Set the availability status of a book. The book moves to the end of the catalog listing.`

// NewServer creates and registers all catalog tools on a new MCP server.
// It is separate from Serve so that tests can obtain a configured server
// without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("library", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve runs the stdio MCP server for svc, blocking until stdin closes.
func Serve(svc *service.Service) error {
	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires all catalog tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("library_add",
		mcp.WithDescription("Add a book to the library catalog. The new book is available."),
		mcp.WithString("title", mcp.Description("Book title."), mcp.Required()),
		mcp.WithString("author", mcp.Description("Book author."), mcp.Required()),
		mcp.WithString("year", mcp.Description("Publication year, as an integer."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("library_delete",
		mcp.WithDescription("Delete a book from the catalog by id."),
		mcp.WithNumber("id", mcp.Description("Book id."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("library_search",
		mcp.WithDescription(searchDescription),
		mcp.WithString("title", mcp.Description("Exact title.")),
		mcp.WithString("author", mcp.Description("Exact author.")),
		mcp.WithNumber("year", mcp.Description("Exact publication year.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearch(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("library_list",
		mcp.WithDescription("List every book in catalog order."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("library_set_status",
		mcp.WithDescription(setStatusDescription),
		mcp.WithNumber("id", mcp.Description("Book id."), mcp.Required()),
		mcp.WithString("status",
			mcp.Description("New status."),
			mcp.Required(),
			mcp.Enum(models.StatusValues()...),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSetStatus(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	book, err := svc.Add(
		req.GetString("title", ""),
		req.GetString("author", ""),
		req.GetString("year", ""),
	)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(book.Record())
}

func handleDelete(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireWhole(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	book, found, err := svc.Delete(id)
	if err != nil {
		return toolError(err)
	}
	return foundResult(id, book, found)
}

func handleSearch(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var crit search.Criteria
	if v := req.GetString("title", ""); v != "" {
		crit.Title = &v
	}
	if v := req.GetString("author", ""); v != "" {
		crit.Author = &v
	}
	if _, ok := req.GetArguments()["year"]; ok {
		v, err := requireWhole(req, "year")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		crit.Year = &v
	}
	return jsonResult(models.Records(svc.Search(crit)))
}

func handleList(_ context.Context, svc *service.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(models.Records(svc.List()))
}

func handleSetStatus(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireWhole(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	book, found, err := svc.SetStatus(id, req.GetString("status", ""))
	if err != nil {
		return toolError(err)
	}
	return foundResult(id, book, found)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// toolError reports validation failures as tool errors so the calling agent
// sees the message. Anything else is a server-side failure.
func toolError(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, catalog.ErrInvalidInput) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultErrorFromErr("library operation failed", err), nil
}

// requireWhole reads a numeric argument that must hold an integer. JSON
// numbers arrive as float64, so 1.5 is rejected rather than truncated.
func requireWhole(req mcp.CallToolRequest, key string) (int, error) {
	f, err := req.RequireFloat(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid %s %s: not an integer", key, strconv.FormatFloat(f, 'g', -1, 64))
	}
	return int(f), nil
}

func foundResult(id int, book models.Book, found bool) (*mcp.CallToolResult, error) {
	if !found {
		return jsonResult(map[string]any{"found": false, "id": id})
	}
	return jsonResult(map[string]any{"found": true, "book": book.Record()})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
