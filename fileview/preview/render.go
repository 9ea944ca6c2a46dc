// Package preview renders file views and diffs as HTML, guarding against inputs that are too
// large to display.
package preview

import (
	"html"
	"html/template"
	"path"
	"strings"
	"unicode/utf8"

	"gamepanel.dev/fileview/diff"
	"gamepanel.dev/fileview/highlight"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// KindFromFilename returns the content kind for a file name. It returns false for files that
// don't have one of the dedicated tokenizers.
func KindFromFilename(name string) (highlight.Kind, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return highlight.JSON, true
	case ".yml", ".yaml":
		return highlight.YAML, true
	case ".properties":
		return highlight.Properties, true
	case ".log", ".txt":
		return highlight.Log, true
	default:
		return highlight.Text, false
	}
}

// Line is a single rendered line of a file.
type Line struct {
	LineNo  int
	Content template.HTML
}

// Row is a single rendered row of a diff. XLineNo and YLineNo are the 1-based line numbers in
// the left and right text, zero if the line is absent on that side.
type Row struct {
	Op      diff.Op
	XLineNo int
	YLineNo int
	Content template.HTML
}

func (r *Row) IsEqual() bool  { return r.Op == diff.Equal }
func (r *Row) IsDelete() bool { return r.Op == diff.Delete }
func (r *Row) IsInsert() bool { return r.Op == diff.Insert }

// Marker returns the gutter marker of the row: "-", "+" or a space.
func (r *Row) Marker() string {
	switch r.Op {
	case diff.Delete:
		return "-"
	case diff.Insert:
		return "+"
	default:
		return " "
	}
}

// Renderer renders files and diffs. It's safe for concurrent use.
type Renderer struct {
	limits Limits
	dmp    *diffmatchpatch.DiffMatchPatch
}

// NewRenderer returns a renderer enforcing limits.
func NewRenderer(limits Limits) *Renderer {
	return &Renderer{
		limits: limits,
		dmp:    diffmatchpatch.New(),
	}
}

// Highlight renders the lines of a file. The name of the file selects the tokenizer. Files with
// more characters than allowed are declined with a [*LimitError].
func (r *Renderer) Highlight(name, text string) ([]Line, error) {
	if n := utf8.RuneCountInString(text); n > r.limits.MaxHighlightChars {
		return nil, &LimitError{What: "file", Size: n, Limit: r.limits.MaxHighlightChars}
	}

	tokens := tokenize(name, text)
	ret := make([]Line, 0, len(tokens))
	for _, line := range tokens {
		ret = append(ret, Line{line.No, highlight.HTML(line)})
	}
	return ret, nil
}

// Edits computes the edit script between the lines of the texts a and b. Scripts that render
// to more rows than allowed are declined with a [*LimitError], without computing them if
// possible.
func (r *Renderer) Edits(a, b string) ([]diff.Edit, error) {
	x, y := diff.Split(a), diff.Split(b)

	limit := r.limits.MaxDiffRows
	if n := diff.MinRows(len(x), len(y)); n > limit {
		return nil, &LimitError{What: "diff", Size: n, Limit: limit}
	}
	edits, ok := diff.EditsWithin(x, y, diff.MaxDistance(len(x), len(y), limit))
	if !ok {
		return nil, &LimitError{What: "diff", Limit: limit}
	}
	if len(edits) > limit {
		return nil, &LimitError{What: "diff", Size: len(edits), Limit: limit}
	}
	return edits, nil
}

// Diff renders the line diff between the texts a and b and counts its operations. The name of
// the file selects the tokenizer. Diffs are declined like in [Renderer.Edits].
//
// If the texts together are too large to be highlighted, the rows contain plain text. Paired
// deleted and inserted rows of files without a dedicated tokenizer get intra-line emphasis
// instead of highlighting: changed characters are wrapped in <span class="chg">.
func (r *Renderer) Diff(name, a, b string) ([]Row, diff.Stats, error) {
	edits, err := r.Edits(a, b)
	if err != nil {
		return nil, diff.Stats{}, err
	}
	lines := diff.Lines(edits)

	// Texts are tokenized as a whole so that tokens spanning lines are classified correctly.
	var tx, ty []highlight.Line
	if utf8.RuneCountInString(a)+utf8.RuneCountInString(b) <= r.limits.MaxHighlightChars {
		tx, ty = tokenize(name, a), tokenize(name, b)
	} else {
		tx, ty = highlight.Tokenize(a, highlight.Text), highlight.Tokenize(b, highlight.Text)
	}

	rows := make([]Row, 0, len(lines))
	for _, l := range lines {
		var content template.HTML
		switch l.Op {
		case diff.Insert:
			content = lineHTML(ty, l.B, l.Text)
		default:
			content = lineHTML(tx, l.A, l.Text)
		}
		rows = append(rows, Row{l.Op, l.A, l.B, content})
	}

	if _, ok := KindFromFilename(name); !ok {
		r.emphasize(rows, lines)
	}
	return rows, diff.Count(edits), nil
}

// emphasize replaces the content of paired deleted and inserted rows with a rendering that
// highlights the changed characters. A run of deletions immediately followed by a run of
// insertions pairs the i-th deletion with the i-th insertion.
func (r *Renderer) emphasize(rows []Row, lines []diff.Line) {
	for i := 0; i < len(lines); {
		if lines[i].Op != diff.Delete {
			i++
			continue
		}
		dels := i
		for i < len(lines) && lines[i].Op == diff.Delete {
			i++
		}
		ins := i
		for i < len(lines) && lines[i].Op == diff.Insert {
			i++
		}
		n := min(ins-dels, i-ins)
		for j := range n {
			before, after := lines[dels+j].Text, lines[ins+j].Text
			if before == "" || after == "" {
				continue
			}
			diffs := r.dmp.DiffCleanupSemantic(r.dmp.DiffMain(before, after, false))
			rows[dels+j].Content = segments(diffs, diffmatchpatch.DiffDelete)
			rows[ins+j].Content = segments(diffs, diffmatchpatch.DiffInsert)
		}
	}
}

// segments renders one side of a character diff. changed is the operation that marks changed
// text on this side.
func segments(diffs []diffmatchpatch.Diff, changed diffmatchpatch.Operation) template.HTML {
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(html.EscapeString(d.Text))
		case changed:
			sb.WriteString(`<span class="chg">`)
			sb.WriteString(html.EscapeString(d.Text))
			sb.WriteString("</span>")
		}
	}
	return template.HTML(sb.String())
}

// Window returns at most limit rows starting at offset, for views that only render the visible
// part of a large diff.
func (r *Renderer) Window(rows []Row, offset, limit int) []Row {
	offset = min(max(offset, 0), len(rows))
	end := min(offset+max(limit, 0), len(rows))
	return rows[offset:end]
}

// lineHTML renders line number no of a tokenized text, falling back to the plain text of the
// line.
func lineHTML(lines []highlight.Line, no int, text string) template.HTML {
	if no < 1 || no > len(lines) || lines[no-1].Text() != text {
		line := highlight.Line{No: no}
		if text != "" {
			line.Tokens = []highlight.Token{{Class: highlight.Plain, Text: text}}
		}
		return highlight.HTML(line)
	}
	return highlight.HTML(lines[no-1])
}

func tokenize(name, text string) []highlight.Line {
	if kind, ok := KindFromFilename(name); ok {
		return highlight.Tokenize(text, kind)
	}
	return highlight.Generic(text, highlight.LangFromFilename(name))
}
