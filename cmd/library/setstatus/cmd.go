// Package setstatuscmd implements the `library set-status` command.
package setstatuscmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
	"github.com/go-ports/library/internal/catalog"
	"github.com/go-ports/library/internal/models"
)

// Command implements `library set-status`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the set-status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set a book's status (" + strings.Join(models.StatusValues(), " | ") + ")",
		Long: `Set a book's status.

The book moves to the end of the catalog listing.`,
		Args: cobra.MatchAll(cobra.ExactArgs(2), statusArg),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return models.StatusValues(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// statusArg restricts the second argument to the canonical status strings.
func statusArg(cmd *cobra.Command, args []string) error {
	values := models.StatusValues()
	if !slices.Contains(values, args[1]) {
		return fmt.Errorf("invalid argument %q for %q: must be one of %s",
			args[1], cmd.CommandPath(), strings.Join(values, ", "))
	}
	return nil
}

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

	book, found, err := svc.SetStatus(id, args[1])
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
	fmt.Fprintf(out, "Status set: %s\n", line)
	return nil
}
