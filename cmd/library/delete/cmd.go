// Package deletecmd implements the `library delete` command.
package deletecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
	"github.com/go-ports/library/internal/catalog"
)

// Command implements `library delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book by id",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id, err := catalog.ParseID(args[0])
	if err != nil {
		return err
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	book, found, err := svc.Delete(id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !found {
		fmt.Fprintf(out, "No book found with id %d\n", id)
		return nil
	}

	line, err := shared.RecordJSON(book)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted: %s\n", line)
	return nil
}
