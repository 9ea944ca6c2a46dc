// Package markdown renders Markdown files for the file preview.
package markdown

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gamepanel.dev/fileview/markdown/admonitions"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// The renderer keeps goldmark's default of omitting raw HTML, previewed files are not trusted.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		admonitions.Extension,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Render converts Markdown to HTML.
func Render(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %v", err)
	}
	return buf.Bytes(), nil
}

// IsMarkdown reports whether a file name has a Markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
