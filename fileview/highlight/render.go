package highlight

import (
	"html"
	"html/template"
	"strings"
)

// HTML renders a line as HTML. Every token that isn't plain is wrapped in a span with the class
// "tok-<class>", e.g. <span class="tok-key">. An empty line renders as a non-breaking space so
// that it keeps its height.
func HTML(line Line) template.HTML {
	if len(line.Tokens) == 0 {
		return "&nbsp;"
	}
	var sb strings.Builder
	for _, token := range line.Tokens {
		if token.Class != Plain {
			sb.WriteString(`<span class="tok-`)
			sb.WriteString(token.Class.String())
			sb.WriteString(`">`)
		}
		sb.WriteString(html.EscapeString(token.Text))
		if token.Class != Plain {
			sb.WriteString("</span>")
		}
	}
	return template.HTML(sb.String())
}
