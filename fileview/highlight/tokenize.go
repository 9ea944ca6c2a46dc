// Package highlight splits text into classified tokens for syntax highlighting.
//
// The tokenizers are regex based and deliberately simple. They never reject input: whatever
// they don't recognize ends up as plain text, and the texts of the tokens of a line always
// concatenate to the line itself.
package highlight

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/dlclark/regexp2"
)

var (
	// A YAML mapping entry, optionally as a sequence item: prefix, key, colon, rest.
	yamlKeyLine = regexp2.MustCompile(`^([ \t]*(?:-[ \t]+)?)([^\s:#][^:]*)(:)(.*)$`, regexp2.None)

	// A properties entry: indentation, key, separator, whitespace, value. Keys may contain
	// escaped separators.
	propertiesLine = regexp2.MustCompile(`^([ \t]*)((?:\\.|[^\\=:\s])(?:\\.|[^\\=:])*)([=:])([ \t]*)(.*)$`, regexp2.None)
)

// Tokenize splits text into lines and the lines into tokens according to kind.
//
// Line endings are normalized first (CRLF and lone CR become LF) and invalid UTF-8 sequences are
// replaced by U+FFFD. Token offsets refer to this normalized text. A trailing newline results in
// a trailing empty line, the empty text has no lines.
func Tokenize(text string, kind Kind) []Line {
	text = normalize(text)
	if text == "" {
		return nil
	}
	switch kind {
	case JSON:
		lines, _ := appendTokens(nil, lex(jsonLexer, text), 0)
		return lines
	case Log:
		lines, _ := appendTokens(nil, lex(logLexer, text), 0)
		return lines
	case YAML:
		return byLine(text, yamlLine)
	case Properties:
		return byLine(text, propertiesLineTokens)
	default:
		return byLine(text, func(line *Line, text string, offset int) {
			line.add(Plain, text, offset)
		})
	}
}

func normalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if strings.Contains(text, "\r") {
		text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	}
	return text
}

// byLine calls fn for every line of text to fill in the tokens of the line.
func byLine(text string, fn func(line *Line, text string, offset int)) []Line {
	lines := make([]Line, 0, strings.Count(text, "\n")+1)
	offset := 0
	for i, l := range strings.Split(text, "\n") {
		line := Line{No: i + 1}
		fn(&line, l, offset)
		lines = append(lines, line)
		offset += len(l) + 1
	}
	return lines
}

func yamlLine(line *Line, text string, offset int) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		line.add(Plain, text, offset)
		return
	case strings.HasPrefix(trimmed, "#"):
		line.add(Comment, text, offset)
		return
	}

	// A '#' starts a comment even inside of quotes.
	code, comment := text, ""
	if i := strings.IndexByte(text, '#'); i >= 0 {
		code, comment = text[:i], text[i:]
	}

	if groups := match(yamlKeyLine, code); groups != nil {
		prefix, key, colon, rest := groups[1], groups[2], groups[3], groups[4]
		line.add(Plain, prefix, offset)
		offset += len(prefix)
		line.add(Key, key, offset)
		offset += len(key)
		line.add(Punctuation, colon, offset)
		offset += len(colon)
		offset = line.addTokens(lex(yamlInlineLexer, rest), offset)
	} else {
		offset = line.addTokens(lex(yamlInlineLexer, code), offset)
	}
	line.add(Comment, comment, offset)
}

func propertiesLineTokens(line *Line, text string, offset int) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		line.add(Plain, text, offset)
		return
	case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!"):
		line.add(Comment, text, offset)
		return
	}

	groups := match(propertiesLine, text)
	if groups == nil {
		line.add(Plain, text, offset)
		return
	}
	for i, class := range []Class{Plain, Key, Punctuation, Plain, String} {
		line.add(class, groups[i+1], offset)
		offset += len(groups[i+1])
	}
}

// match returns the texts of all groups of the first match of re in text, or nil if there is
// no match.
func match(re *regexp2.Regexp, text string) []string {
	m, err := re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil
	}
	groups := m.Groups()
	ret := make([]string, len(groups))
	for i := range groups {
		ret[i] = groups[i].String()
	}
	return ret
}

// addTokens adds tokens without newlines to l, starting at offset, and returns the offset after
// the last token.
func (l *Line) addTokens(tokens []chroma.Token, offset int) int {
	for _, t := range tokens {
		l.add(classOf(t.Type), t.Value, offset)
		offset += len(t.Value)
	}
	return offset
}
