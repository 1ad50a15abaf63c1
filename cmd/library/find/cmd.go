// Package findcmd implements the `library find` command.
package findcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
	"github.com/go-ports/library/internal/db"
)

// Command implements `library find`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit  int
	format string
}

// New creates the find command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "find <query>",
		Short: "Find books whose title or author contains the query (case-insensitive)",
		Long: `Find books whose title or author contains the query, ignoring case.

Uses the SQLite index next to the catalog file, building it when missing or
out of date.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.IntVar(&c.limit, "limit", db.DefaultFindLimit, "Maximum number of results")
	f.StringVar(&c.format, "format", shared.FormatJSON, shared.FormatUsage())

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	if err := shared.CheckFormat(c.format); err != nil {
		return err
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	books, err := svc.Find(args[0], c.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(books) == 0 {
		fmt.Fprintln(out, "Nothing found.")
		return nil
	}
	return shared.WriteBooks(out, c.format, books)
}
