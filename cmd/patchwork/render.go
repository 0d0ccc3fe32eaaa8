package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/vango-dev/patchwork/internal/errors"
	"github.com/vango-dev/patchwork/pkg/fixture"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/reconcile"
	"github.com/vango-dev/patchwork/pkg/snapshot"
)

func renderCmd(c *cli) *cobra.Command {
	var (
		store  bool
		name   string
		indent string
	)

	cmd := &cobra.Command{
		Use:   "render <tree.yaml>",
		Short: "Render a fixture and print its HTML",
		Long: `Render a fixture into an empty in-memory document and print the
resulting HTML.

With --snapshot the HTML is also stored in the snapshot store configured in
patchwork.yaml (a directory by default, or an S3 bucket).

Examples:
  patchwork render trees/home.yaml
  patchwork render trees/home.yaml --snapshot --name home
  patchwork render trees/home.yaml --indent "  "`,
		Args: requireArgs(1, "a fixture file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := fixture.Load(args[0])
			if err != nil {
				return err
			}

			doc := memdom.NewDocument()
			if _, err := c.renderer(doc).RenderContext(cmd.Context(), tree, doc.Body()); err != nil {
				return err
			}

			html := memdom.InnerHTML(doc.Body(), memdom.WithIndent(indent))
			out := cmd.OutOrStdout()
			fmt.Fprint(out, html)
			if !strings.HasSuffix(html, "\n") {
				fmt.Fprintln(out)
			}

			if !store {
				return nil
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			snapshots, err := snapshot.FromConfig(c.cfg.Snapshot)
			if err != nil {
				return err
			}
			if err := snapshots.Put(cmd.Context(), name, []byte(html)); err != nil {
				return err
			}
			c.logger.Info("snapshot stored", "name", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&store, "snapshot", false, "Store the HTML in the configured snapshot store")
	cmd.Flags().StringVar(&name, "name", "", "Snapshot name (default: fixture file name)")
	cmd.Flags().StringVar(&indent, "indent", "", "Indent nested elements with this string")
	return cmd
}

// renderer returns a renderer for doc with the configured middleware.
// Metrics are not collected for one-shot commands.
func (c *cli) renderer(doc *memdom.Document) *reconcile.Renderer {
	return reconcile.New(doc,
		reconcile.WithLogger(c.logger),
		reconcile.WithMiddleware(c.renderMiddleware(nil)...),
	)
}

func requireArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return perrors.New("E601").
				WithDetail(cmd.Name() + " needs " + what).
				WithSuggestion("Usage: patchwork " + cmd.Use)
		}
		if len(args) > n {
			return fmt.Errorf("%s takes %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}
