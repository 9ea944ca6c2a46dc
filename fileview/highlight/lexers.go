package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// The lexers below scan left to right and, at every position, try their rules in order. The
// last rules of every lexer match any character, so that the lexers never produce errors and
// unmatched text ends up as plain text.
//
// regexp2's \b and \w are Unicode aware. Word boundaries are spelled out with ASCII classes so
// that a keyword directly after a non-ASCII letter is still a keyword.

// jsonLexer matches strings (keys when immediately followed by a colon), numbers, the keywords
// true, false and null, and structural punctuation.
var jsonLexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:   "fileview-json",
		DotAll: true,
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{`"(?:\\.|[^"\\])*"(?=:)`, chroma.NameTag, nil},
				{`"(?:\\.|[^"\\])*"`, chroma.LiteralStringDouble, nil},
				{`-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`, chroma.LiteralNumber, nil},
				{`(?<![A-Za-z0-9_])(?:true|false|null)(?![A-Za-z0-9_])`, chroma.KeywordConstant, nil},
				{`[{}\[\],:]`, chroma.Punctuation, nil},
				{`[a-zA-Z_]+`, chroma.Text, nil},
				{`[^"\-0-9a-zA-Z_{}\[\],:]+`, chroma.Text, nil},
				{`.`, chroma.Text, nil},
			},
		}
	},
)

// logLexer matches a timestamp at the start of a line and log levels anywhere.
var logLexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:   "fileview-log",
		DotAll: true,
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{
					`^([ \t]*)([0-9]{4}-[0-9]{2}-[0-9]{2}[ T][0-9]{2}:[0-9]{2}:[0-9]{2}(?:[.,][0-9]+)?)`,
					chroma.ByGroups(chroma.Text, chroma.LiteralDate),
					nil,
				},
				{`(?<![A-Za-z0-9_])(?:INFO|WARN|WARNING|ERROR|DEBUG|TRACE)(?![A-Za-z0-9_])`, chroma.Keyword, nil},
				{`[A-Za-z0-9_]+`, chroma.Text, nil},
				{`[ \t]+`, chroma.Text, nil},
				{`\n`, chroma.Text, nil},
				{`.`, chroma.Text, nil},
			},
		}
	},
)

// yamlInlineLexer matches the literals that can appear in a YAML value: double and single
// quoted strings, numbers, booleans and null (including the YAML 1.1 spellings) and flow
// collection punctuation.
var yamlInlineLexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:   "fileview-yaml-inline",
		DotAll: true,
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{`"(?:\\.|[^"\\])*"`, chroma.LiteralStringDouble, nil},
				{`'(?:''|[^'])*'`, chroma.LiteralStringSingle, nil},
				{`-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`, chroma.LiteralNumber, nil},
				{`(?<![A-Za-z0-9_])(?i:true|false|null|yes|no|on|off)(?![A-Za-z0-9_])`, chroma.KeywordConstant, nil},
				{`(?<![^\s\[{,])~(?![^\s\]},])`, chroma.KeywordConstant, nil},
				{`[{}\[\],]`, chroma.Punctuation, nil},
				{`[a-zA-Z_]+`, chroma.Text, nil},
				{`[^"'\-0-9a-zA-Z_~{}\[\],]+`, chroma.Text, nil},
				{`.`, chroma.Text, nil},
			},
		}
	},
)

var classes = map[chroma.TokenType]Class{
	chroma.Keyword:       Keyword,
	chroma.NameTag:       Key,
	chroma.NameAttribute: Key,
	chroma.NameLabel:     Key,
	chroma.LiteralString: String,
	chroma.LiteralNumber: Number,
	chroma.LiteralDate:   Number,
	chroma.Operator:      Punctuation,
	chroma.Punctuation:   Punctuation,
	chroma.Comment:       Comment,
}

// classOf maps a chroma token type to a class by looking at the type, its subcategory and its
// category, in this order.
func classOf(t chroma.TokenType) Class {
	if c, ok := classes[t]; ok {
		return c
	}
	if c, ok := classes[t.SubCategory()]; ok {
		return c
	}
	if c, ok := classes[t.Category()]; ok {
		return c
	}
	return Plain
}

// lex runs lexer over text and returns the resulting tokens. If the lexer fails, the whole text
// is returned as a single plain token.
func lex(lexer chroma.Lexer, text string) []chroma.Token {
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return []chroma.Token{{Type: chroma.Text, Value: text}}
	}
	return it.Tokens()
}

// appendTokens appends tokens to lines, starting a new line at every newline. The text of the
// tokens starts at offset. It returns the lines and the offset after the last token.
func appendTokens(lines []Line, tokens []chroma.Token, offset int) ([]Line, int) {
	if len(lines) == 0 {
		lines = append(lines, Line{No: 1})
	}
	for _, t := range tokens {
		class := classOf(t.Type)
		value := t.Value
		for {
			i := strings.IndexByte(value, '\n')
			if i < 0 {
				lines[len(lines)-1].add(class, value, offset)
				offset += len(value)
				break
			}
			lines[len(lines)-1].add(class, value[:i], offset)
			offset += i + 1
			lines = append(lines, Line{No: len(lines) + 1})
			value = value[i+1:]
		}
	}
	return lines, offset
}
