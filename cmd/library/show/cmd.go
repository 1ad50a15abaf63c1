// Package showcmd implements the `library show` command.
package showcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
	"github.com/go-ports/library/internal/catalog"
	"github.com/go-ports/library/internal/models"
)

// Command implements `library show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	format string
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book by id",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.format, "format", shared.FormatJSON, shared.FormatUsage())
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	if err := shared.CheckFormat(c.format); err != nil {
		return err
	}
	id, err := catalog.ParseID(args[0])
	if err != nil {
		return err
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	book, found := svc.Get(id)
	if !found {
		fmt.Fprintf(out, "No book found with id %d\n", id)
		return nil
	}
	return shared.WriteBooks(out, c.format, []models.Book{book})
}
