// Package exportcmd implements the `library export` command.
package exportcmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
)

// Command implements `library export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	output string
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a Markdown reading list",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write to this file instead of stdout")
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

	if c.output == "" {
		return svc.Export(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := svc.Export(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(c.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(c.output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d books to %s\n", len(svc.List()), c.output)
	return nil
}
