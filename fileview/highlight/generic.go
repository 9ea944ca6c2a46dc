package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

type Option func(*highlighter)

// Lang selects the chroma lexer by language name or alias.
func Lang(lang string) Option {
	return func(o *highlighter) {
		o.lexer = lexers.Get(lang)
	}
}

// LangFromFilename selects the chroma lexer matching the file name.
func LangFromFilename(filename string) Option {
	return func(o *highlighter) {
		o.lexer = lexers.Match(filename)
	}
}

type highlighter struct {
	lexer chroma.Lexer
}

func fromOptions(opts []Option) *highlighter {
	hl := &highlighter{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(hl)
	}

	if hl.lexer == nil {
		hl.lexer = lexers.Fallback
	}
	hl.lexer = chroma.Coalesce(hl.lexer)
	return hl
}

// Generic tokenizes text of any other kind with one of chroma's stock lexers, selected by the
// options. Without a matching lexer, every line is a single plain token. The result has the
// same shape as the result of [Tokenize].
func Generic(text string, opts ...Option) []Line {
	hl := fromOptions(opts)
	text = normalize(text)
	if text == "" {
		return nil
	}
	lines, _ := appendTokens(nil, lex(hl.lexer, text), 0)

	// Some lexers terminate the text with a newline if it's missing.
	if n := strings.Count(text, "\n") + 1; len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
