// Package listcmd implements the `library list` command.
package listcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
)

// Command implements `library list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	format string
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List every book in catalog order",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.format, "format", shared.FormatJSON, shared.FormatUsage())
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if err := shared.CheckFormat(c.format); err != nil {
		return err
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	return shared.WriteBooks(cmd.OutOrStdout(), c.format, svc.List())
}
