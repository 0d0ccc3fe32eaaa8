package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vango-dev/patchwork/pkg/fixture"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/reconcile"
)

var (
	addColor    = color.New(color.FgGreen).SprintFunc()
	removeColor = color.New(color.FgRed).SprintFunc()
	attrColor   = color.New(color.FgYellow).SprintFunc()
	textColor   = color.New(color.FgCyan).SprintFunc()
	headColor   = color.New(color.Bold).SprintFunc()
)

func diffCmd(c *cli) *cobra.Command {
	var htmlOnly, opsOnly bool

	cmd := &cobra.Command{
		Use:   "diff <old.yaml> <new.yaml>",
		Short: "Show the mutations that turn one fixture into another",
		Long: `Render the old fixture, patch it to the new one, and print every
live-tree mutation the reconciler applied followed by a line diff of the two
HTML serializations.

Examples:
  patchwork diff before.yaml after.yaml
  patchwork diff before.yaml after.yaml --ops`,
		Args: requireArgs(2, "an old and a new fixture file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := fixture.Load(args[0])
			if err != nil {
				return err
			}
			after, err := fixture.Load(args[1])
			if err != nil {
				return err
			}

			doc := memdom.NewDocument()
			r := c.renderer(doc)
			if _, err := r.RenderContext(cmd.Context(), before, doc.Body()); err != nil {
				return err
			}
			oldHTML := memdom.InnerHTML(doc.Body(), memdom.WithIndent("  "))
			doc.Log().Reset()

			stats, err := r.RenderContext(cmd.Context(), after, doc.Body())
			if err != nil {
				return err
			}
			newHTML := memdom.InnerHTML(doc.Body(), memdom.WithIndent("  "))

			out := cmd.OutOrStdout()
			if !htmlOnly {
				writeMutations(out, doc.Log().Entries(), stats)
			}
			if !opsOnly {
				if !htmlOnly {
					fmt.Fprintln(out)
				}
				writeLineDiff(out, oldHTML, newHTML)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opsOnly, "ops", false, "Print only the mutation log")
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "Print only the HTML diff")
	cmd.MarkFlagsMutuallyExclusive("ops", "html")
	return cmd
}

func writeMutations(w io.Writer, ops []memdom.Mutation, stats reconcile.Stats) {
	fmt.Fprintln(w, headColor(fmt.Sprintf("%d mutation(s)", len(ops))))
	for _, m := range ops {
		fmt.Fprintln(w, "  "+colorMutation(m))
	}
	fmt.Fprintf(w, "mounted=%d unmounted=%d replaced=%d moved=%d text=%d attrs=%d/%d\n",
		stats.Mounted, stats.Unmounted, stats.Replaced, stats.Moved,
		stats.TextUpdates, stats.AttrWrites, stats.AttrRemovals)
}

func colorMutation(m memdom.Mutation) string {
	s := m.String()
	switch m.Op {
	case memdom.OpAppend, memdom.OpInsert:
		return addColor(s)
	case memdom.OpRemove, memdom.OpReplace:
		return removeColor(s)
	case memdom.OpSetText:
		return textColor(s)
	default:
		return attrColor(s)
	}
}

// writeLineDiff prints a unified-style line diff of two indented
// serializations. Lines are mapped to runes first so diffmatchpatch
// compares whole lines.
func writeLineDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
		fmt.Fprintln(w, headColor("html unchanged"))
		return
	}

	fmt.Fprintln(w, headColor("html"))
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, addColor("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, removeColor("- "+line))
			default:
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
}
