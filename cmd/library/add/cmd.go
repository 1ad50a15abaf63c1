// Package addcmd implements the `library add` command.
package addcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
)

// Command implements `library add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add <title> <author> <year>",
		Short: "Add a book to the catalog",
		Long: `Add a book to the catalog.

The book is assigned the next free id and starts out available.`,
		Args: cobra.ExactArgs(3),
		RunE: c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	book, err := svc.Add(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	line, err := shared.RecordJSON(book)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", line)
	return nil
}
