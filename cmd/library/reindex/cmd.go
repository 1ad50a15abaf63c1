// Package reindexcmd implements the `library reindex` command.
package reindexcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
)

// Command implements `library reindex`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the reindex command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite search index from the catalog",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	count, err := svc.Reindex()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Re-indexed %d books into %s\n", count, svc.Config.IndexPath())
	return nil
}
