package markdown_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/library/internal/markdown"
	"github.com/go-ports/library/internal/models"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func TestRenderItem(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		book models.Book
		want string
	}{
		{
			name: "plain",
			book: models.NewBook(1, "Dune", "Frank Herbert", 1965),
			want: "- **Dune** by Frank Herbert (1965) - #1",
		},
		{
			name: "markdown characters are escaped",
			book: models.NewBook(2, "*Bold* [link] _x_", "A#B", 2000),
			want: `- **\*Bold\* \[link\] \_x\_** by A\#B (2000) - #2`,
		},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(markdown.RenderItem(tt.book), qt.Equals, tt.want)
		})
	}
}

func TestRender_GroupsByStatus(t *testing.T) {
	c := qt.New(t)

	books := []models.Book{
		models.NewBook(2, "Solaris", "Lem", 1961).WithStatus(models.StatusIssued),
		models.NewBook(1, "Dune", "Herbert", 1965),
		models.NewBook(3, "Ubik", "Dick", 1969),
	}
	got := markdown.Render(books, fixedNow)
	c.Assert(got, qt.Equals, `---
generated: "2024-01-15T10:30:00Z"
total: 3
available: 2
issued: 1
---

# Library

## Available

- **Dune** by Herbert (1965) - #1
- **Ubik** by Dick (1969) - #3

## Issued

- **Solaris** by Lem (1961) - #2
`)
}

func TestRender_OmitsEmptySections(t *testing.T) {
	c := qt.New(t)

	got := markdown.Render([]models.Book{models.NewBook(1, "Dune", "Herbert", 1965)}, fixedNow)
	c.Assert(got, qt.Contains, "## Available")
	c.Assert(got, qt.Not(qt.Contains), "## Issued")
	c.Assert(got, qt.Contains, "issued: 0\n")
}

func TestRender_EmptyCatalog(t *testing.T) {
	c := qt.New(t)

	got := markdown.Render(nil, fixedNow)
	c.Assert(got, qt.Contains, "total: 0\n")
	c.Assert(got, qt.Contains, "_The catalog is empty._")
	c.Assert(got, qt.Not(qt.Contains), "##")
}
