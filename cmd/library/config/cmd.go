// Package configcmd implements the `library config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/library/cmd/library/shared"
	"github.com/go-ports/library/internal/config"
)

const configTemplate = `# Library configuration

# Catalog file. Overridden by --file and the LIBRARY_FILE env var.
# file: ~/books/library.json

# SQLite search index used by "library find".
# Defaults to the catalog path with a .db extension.
# index: ~/books/library.db

log:
  level: info                   # debug | info | warn | error
`

// Command implements `library config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetFile(ctx),
		newClearFile(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	cfg, err := c.ctx.ResolveConfig()
	if err != nil {
		return err
	}
	cfgPath, err := config.GlobalConfigPath()
	if err != nil {
		return err
	}
	data := map[string]any{
		"file":        cfg.File,
		"file_source": c.ctx.Source,
		"index":       cfg.IndexPath(),
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
		"config_path": cfgPath,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(_ *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, err := config.GlobalConfigPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-file
// ---------------------------------------------------------------------------

func newSetFile(_ *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "set-file <path>",
		Short: "Persist the catalog file location (used when LIBRARY_FILE is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted catalog file: %s\n", resolved)
			fmt.Fprintf(out, "Override anytime with %s or --file.\n", config.EnvFile)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-file
// ---------------------------------------------------------------------------

func newClearFile(_ *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-file",
		Short: "Remove the persisted catalog file location from global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedFile()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted catalog file setting.")
			} else {
				fmt.Fprintln(out, "No persisted catalog file setting was found.")
			}
			return nil
		},
	}
}
