package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gamepanel.dev/fileview/diff"
	"gamepanel.dev/fileview/highlight"
	"gamepanel.dev/fileview/preview"
	"gamepanel.dev/fileview/site"
)

var (
	diffContext int
	diffHTML    bool
)

var diffCmd = &cobra.Command{
	Use:   "diff A B",
	Short: "Compare two files line by line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := readText(ctx, args[0])
		if err != nil {
			return err
		}
		b, err := readText(ctx, args[1])
		if err != nil {
			return err
		}

		r := newRenderer()
		if !diffHTML {
			return unified(os.Stdout, r, args[0], args[1], a, b)
		}

		rows, stats, err := r.Diff(args[1], a, b)
		if err != nil {
			return err
		}
		page, err := site.StandaloneDiff(args[0]+" vs "+args[1], rows, stats)
		if err != nil {
			return err
		}
		return writeHTML(page)
	},
}

// unified writes the diff between a and b in unified format, declining diffs that exceed the
// renderer's row limit.
func unified(w io.Writer, r *preview.Renderer, aName, bName, a, b string) error {
	edits, err := r.Edits(a, b)
	if err != nil {
		return err
	}
	return diff.Unified(w, aName, bName, diff.Hunks(diff.Lines(edits), diffContext))
}

var (
	highlightKind string
	highlightHTML bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight FILE",
	Short: "Print the tokens of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if highlightHTML {
			if highlightKind != "" {
				return fmt.Errorf("--kind can't be combined with --html")
			}
			lines, err := newRenderer().Highlight(args[0], text)
			if err != nil {
				return err
			}
			page, err := site.StandaloneFile(args[0], lines)
			if err != nil {
				return err
			}
			return writeHTML(page)
		}

		kind, _ := preview.KindFromFilename(args[0])
		if highlightKind != "" {
			if kind, err = highlight.ParseKind(highlightKind); err != nil {
				return err
			}
		}
		for _, l := range highlight.Tokenize(text, kind) {
			for _, t := range l.Tokens {
				fmt.Printf("%d:%d\t%v\t%q\n", l.No, t.Offset, t.Class, t.Text)
			}
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().IntVarP(&diffContext, "context", "U", 3, "number of unchanged lines around changes")
	diffCmd.Flags().BoolVar(&diffHTML, "html", false, "write a minified HTML page instead of a unified diff")
	highlightCmd.Flags().StringVar(&highlightKind, "kind", "", "content kind: text, json, yaml, properties or log (default: from the file name)")
	highlightCmd.Flags().BoolVar(&highlightHTML, "html", false, "write a minified HTML page instead of tokens")
}
