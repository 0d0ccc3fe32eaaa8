package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/patchwork/internal/config"
	perrors "github.com/vango-dev/patchwork/internal/errors"
)

// Build information set at link time.
var (
	commit = "none"
	date   = "unknown"
)

// cli holds state shared by every command.
type cli struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var perr *perrors.PatchworkError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, perr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "patchwork",
		Short: "Render and diff virtual-tree fixtures",
		Long: `patchwork renders virtual trees into an in-memory document and shows
exactly which live-tree mutations the reconciler applies.

Fixtures are YAML or JSON files:

  tag: ul
  children:
    - {tag: li, key: a, children: ["A"]}

Configuration is read from patchwork.yaml, patchwork.yml or patchwork.json
in the working directory, or from --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to patchwork.yaml")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		renderCmd(c),
		diffCmd(c),
		serveCmd(c),
		versionCmd(),
	)
	return root
}

func (c *cli) setup(stdout, stderr io.Writer) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		c.cfg.Render.LogLevel = c.logLevel
		if err := c.cfg.Validate(); err != nil {
			return err
		}
	}

	if c.noColor || !isTerminal(stdout) {
		perrors.DisableColors()
	}

	c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: c.cfg.LogLevel()}))
	return nil
}

// isTerminal reports whether w is a terminal, the same check fatih/color
// makes for os.Stdout.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
