// Package e2e_test: MCP server end-to-end tests.
//
// Each test wires the real MCP server in-process via the mcp-go
// InProcessTransport, backed by a fresh service.Service whose catalog lives
// in a temporary directory. The full stack (catalog → service → mcp handler →
// mcp-go server → in-process client) is exercised within a single process.
package e2e_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/library/internal/checkers"
	"github.com/go-ports/library/internal/config"
	internalmcp "github.com/go-ports/library/internal/mcp"
	"github.com/go-ports/library/internal/service"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newMCPClient creates an in-process MCP client backed by a fresh service
// whose catalog file lives in c.TB.TempDir(). The client is started and
// initialized before it is returned; cleanup is registered on c.
func newMCPClient(c *qt.C) (*mcpclient.Client, string) {
	c.TB.Helper()

	file := filepath.Join(c.TB.TempDir(), "library.json")
	svc, err := service.New(&config.Config{File: file})
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = svc.Close() })

	cl, err := mcpclient.NewInProcessClient(internalmcp.NewServer(svc))
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = cl.Close() })

	c.Assert(cl.Start(context.Background()), qt.IsNil)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "e2e-test", Version: "0.0.1"}
	_, err = cl.Initialize(context.Background(), initReq)
	c.Assert(err, qt.IsNil)

	return cl, file
}

// callToolResult invokes the named MCP tool and returns the raw result along
// with the text of its first content item.
func callToolResult(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) (*mcp.CallToolResult, string) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Content, qt.HasLen, 1)

	tc, ok := mcp.AsTextContent(result.Content[0])
	c.Assert(ok, qt.IsTrue)

	return result, tc.Text
}

// callTool invokes a tool that is expected to succeed and returns its text.
func callTool(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) string {
	result, text := callToolResult(c, cl, name, args)
	c.Assert(result.IsError, qt.IsFalse, qt.Commentf("tool error: %s", text))
	return text
}

func addBook(c *qt.C, cl *mcpclient.Client, title, author, year string) string {
	return callTool(c, cl, "library_add", map[string]any{
		"title":  title,
		"author": author,
		"year":   year,
	})
}

func decodeList(c *qt.C, text string) []map[string]any {
	var out []map[string]any
	c.Assert(json.Unmarshal([]byte(text), &out), qt.IsNil)
	return out
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestMCPListTools_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	c.Assert(err, qt.IsNil)
	c.Assert(result.Tools, qt.HasLen, 5)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	for _, want := range []string{"library_add", "library_delete", "library_search", "library_list", "library_set_status"} {
		c.Assert(names, qt.Contains, want)
	}
}

// ---------------------------------------------------------------------------
// library_add
// ---------------------------------------------------------------------------

func TestMCPLibraryAdd_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, file := newMCPClient(c)

	text := addBook(c, cl, "Dune", "Herbert", "1965")
	c.Assert(text, checkers.JSONPathEquals("$.id"), float64(1))
	c.Assert(text, checkers.JSONPathEquals("$.status"), "available")

	text = addBook(c, cl, "Emma", "Austen", "1815")
	c.Assert(text, checkers.JSONPathEquals("$.id"), float64(2))

	data, err := os.ReadFile(file)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, `"title": "Emma"`)
}

func TestMCPLibraryAdd_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, file := newMCPClient(c)

	result, text := callToolResult(c, cl, "library_add", map[string]any{
		"title":  "Dune",
		"author": "Herbert",
		"year":   "nineteen sixty-five",
	})
	c.Assert(result.IsError, qt.IsTrue)
	c.Assert(text, qt.Contains, `invalid year "nineteen sixty-five"`)

	_, err := os.Stat(file)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

// ---------------------------------------------------------------------------
// library_delete
// ---------------------------------------------------------------------------

func TestMCPLibraryDelete_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	addBook(c, cl, "Dune", "Herbert", "1965")

	text := callTool(c, cl, "library_delete", map[string]any{"id": 1})
	c.Assert(text, checkers.JSONPathEquals("$.found"), true)
	c.Assert(text, checkers.JSONPathEquals("$.book.title"), "Dune")

	c.Assert(decodeList(c, callTool(c, cl, "library_list", nil)), qt.HasLen, 0)
}

func TestMCPLibraryDelete_NotFound(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	text := callTool(c, cl, "library_delete", map[string]any{"id": 42})
	c.Assert(text, checkers.JSONPathEquals("$.found"), false)
	c.Assert(text, checkers.JSONPathEquals("$.id"), float64(42))
}

func TestMCPLibraryDelete_FractionalID(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	addBook(c, cl, "Dune", "Herbert", "1965")

	result, text := callToolResult(c, cl, "library_delete", map[string]any{"id": 1.5})
	c.Assert(result.IsError, qt.IsTrue)
	c.Assert(text, qt.Equals, "invalid id 1.5: not an integer")
	c.Assert(decodeList(c, callTool(c, cl, "library_list", nil)), qt.HasLen, 1)

	result, _ = callToolResult(c, cl, "library_set_status", map[string]any{"id": 1.5, "status": "issued"})
	c.Assert(result.IsError, qt.IsTrue)
	result, _ = callToolResult(c, cl, "library_search", map[string]any{"year": 1965.5})
	c.Assert(result.IsError, qt.IsTrue)
}

// ---------------------------------------------------------------------------
// library_search
// ---------------------------------------------------------------------------

func TestMCPLibrarySearch_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	addBook(c, cl, "Dune", "Herbert", "1965")
	addBook(c, cl, "Children of Dune", "Herbert", "1976")
	addBook(c, cl, "Emma", "Austen", "1815")

	cases := []struct {
		name  string
		args  map[string]any
		count int
	}{
		{"by title", map[string]any{"title": "Dune"}, 1},
		{"by author", map[string]any{"author": "Herbert"}, 2},
		{"by year", map[string]any{"year": 1815}, 1},
		{"title wins over author", map[string]any{"title": "Emma", "author": "Herbert"}, 1},
		{"no criteria", map[string]any{}, 0},
		{"no match", map[string]any{"author": "herbert"}, 0},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			got := decodeList(c, callTool(c, cl, "library_search", tc.args))
			c.Assert(got, qt.HasLen, tc.count)
		})
	}
}

// ---------------------------------------------------------------------------
// library_list
// ---------------------------------------------------------------------------

func TestMCPLibraryList_EmptyCatalog(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	c.Assert(callTool(c, cl, "library_list", nil), qt.Equals, "[]")
}

// ---------------------------------------------------------------------------
// library_set_status
// ---------------------------------------------------------------------------

func TestMCPLibrarySetStatus_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	addBook(c, cl, "Dune", "Herbert", "1965")
	addBook(c, cl, "Emma", "Austen", "1815")

	text := callTool(c, cl, "library_set_status", map[string]any{"id": 1, "status": "issued"})
	c.Assert(text, checkers.JSONPathEquals("$.found"), true)
	c.Assert(text, checkers.JSONPathEquals("$.book.status"), "issued")

	books := decodeList(c, callTool(c, cl, "library_list", nil))
	c.Assert(books, qt.HasLen, 2)
	c.Assert(books[0]["title"], qt.Equals, "Emma")
	c.Assert(books[1]["title"], qt.Equals, "Dune")
}

func TestMCPLibrarySetStatus_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	addBook(c, cl, "Dune", "Herbert", "1965")

	c.Run("unknown status is a tool error", func(c *qt.C) {
		result, text := callToolResult(c, cl, "library_set_status", map[string]any{"id": 1, "status": "lost"})
		c.Assert(result.IsError, qt.IsTrue)
		c.Assert(text, qt.Contains, `invalid status "lost"`)
	})

	c.Run("unknown id is not found", func(c *qt.C) {
		text := callTool(c, cl, "library_set_status", map[string]any{"id": 9, "status": "issued"})
		c.Assert(text, checkers.JSONPathEquals("$.found"), false)
	})
}

// ---------------------------------------------------------------------------
// Failure path: unknown tool
// ---------------------------------------------------------------------------

func TestMCPCallTool_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	c.Run("unknown tool name returns error", func(c *qt.C) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "nonexistent_tool"
		req.Params.Arguments = make(map[string]any)

		_, err := cl.CallTool(context.Background(), req)
		c.Assert(err, qt.IsNotNil)
	})
}
