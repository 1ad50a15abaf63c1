// Package rootcmd wires the root cobra.Command for the library CLI binary.
package rootcmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/library/cmd/library/add"
	configcmd "github.com/go-ports/library/cmd/library/config"
	deletecmd "github.com/go-ports/library/cmd/library/delete"
	exportcmd "github.com/go-ports/library/cmd/library/export"
	findcmd "github.com/go-ports/library/cmd/library/find"
	listcmd "github.com/go-ports/library/cmd/library/list"
	mcpcmd "github.com/go-ports/library/cmd/library/mcp"
	reindexcmd "github.com/go-ports/library/cmd/library/reindex"
	searchcmd "github.com/go-ports/library/cmd/library/search"
	setstatuscmd "github.com/go-ports/library/cmd/library/setstatus"
	"github.com/go-ports/library/cmd/library/shared"
	showcmd "github.com/go-ports/library/cmd/library/show"
	versioncmd "github.com/go-ports/library/cmd/library/version"
)

// New creates and returns the root cobra.Command for the library CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Personal library catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, ctx)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			slog.Info("library finished", "command", cmd.CommandPath())
		},
	}

	f := root.PersistentFlags()
	f.StringVar(
		&ctx.File, "file", "",
		"Catalog file (default: $LIBRARY_FILE env → persisted config → library.json)",
	)
	f.StringVar(
		&ctx.LogLevel, "log-level", "",
		"Log level: debug | info | warn | error (default: config log.level → info)",
	)

	root.AddCommand(
		addcmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		searchcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		setstatuscmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		findcmd.New(ctx).Cmd(),
		reindexcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}

// setup resolves the configuration and installs the process logger on the
// command's stderr before any subcommand runs.
func setup(cmd *cobra.Command, ctx *shared.Context) error {
	cfg, err := ctx.ResolveConfig()
	if err != nil {
		return err
	}

	name := cfg.Log.Level
	if ctx.LogLevel != "" {
		name = ctx.LogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", name)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	slog.Info("library started", "args", os.Args[1:], "file", cfg.File, "source", ctx.Source)
	return nil
}
