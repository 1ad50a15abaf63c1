// Package searchcmd implements the `library search` command.
package searchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/library/cmd/library/shared"
	"github.com/go-ports/library/internal/catalog"
	"github.com/go-ports/library/internal/search"
)

// Command implements `library search`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title  string
	author string
	year   string
	format string
}

// New creates the search command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "search [-t TITLE] [-a AUTHOR] [-y YEAR]",
		Short: "Search books by exact title, author, or year",
		Long: `Search books by exact title, author, or year.

Only one criterion is applied: the title if given, otherwise the author,
otherwise the year. Matching is exact and case-sensitive.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.title, "title", "t", "", "Exact title")
	f.StringVarP(&c.author, "author", "a", "", "Exact author")
	f.StringVarP(&c.year, "year", "y", "", "Publication year")
	f.StringVar(&c.format, "format", shared.FormatJSON, shared.FormatUsage())

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if err := shared.CheckFormat(c.format); err != nil {
		return err
	}
	crit, err := c.criteria()
	if err != nil {
		return err
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	books := svc.Search(crit)
	if len(books) == 0 {
		fmt.Fprintln(out, "Nothing found.")
		return nil
	}
	return shared.WriteBooks(out, c.format, books)
}

// criteria builds the query from the flags. Empty values count as not given.
func (c *Command) criteria() (search.Criteria, error) {
	var crit search.Criteria
	if c.title != "" {
		crit.Title = &c.title
	}
	if c.author != "" {
		crit.Author = &c.author
	}
	if c.year != "" {
		year, err := catalog.ParseYear(c.year)
		if err != nil {
			return search.Criteria{}, err
		}
		crit.Year = &year
	}
	return crit, nil
}
