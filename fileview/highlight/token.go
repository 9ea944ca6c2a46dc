package highlight

import (
	"fmt"
	"strings"
)

// Kind is the declared content kind of a text. It selects the tokenizer.
type Kind int

const (
	Text Kind = iota // No tokenizer, every line is a single plain token
	JSON
	YAML
	Properties
	Log
)

var kindNames = [...]string{
	Text:       "text",
	JSON:       "json",
	YAML:       "yaml",
	Properties: "properties",
	Log:        "log",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name. It accepts the names returned by
// [Kind.String] and "yml" for YAML, ignoring case.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "yml" {
		return YAML, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return Text, fmt.Errorf("unknown content kind %q", name)
}

// Class classifies a token.
type Class int

const (
	Plain Class = iota
	String
	Number
	Keyword
	Punctuation
	Comment
	Key
)

var classNames = [...]string{
	Plain:       "plain",
	String:      "string",
	Number:      "number",
	Keyword:     "keyword",
	Punctuation: "punctuation",
	Comment:     "comment",
	Key:         "key",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// Token is a classified piece of source text. Offset is the byte offset of the token in the
// normalized text.
type Token struct {
	Class  Class
	Text   string
	Offset int
}

// Line is a single line of tokenized text. The texts of its tokens concatenate to the line
// without its line terminator. Adjacent tokens never share a class.
type Line struct {
	No     int // 1-based line number
	Tokens []Token
}

// Text returns the source text of the line.
func (l *Line) Text() string {
	var sb strings.Builder
	for _, t := range l.Tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func (l *Line) add(class Class, text string, offset int) {
	if text == "" {
		return
	}
	if n := len(l.Tokens); n > 0 {
		last := &l.Tokens[n-1]
		if last.Class == class && last.Offset+len(last.Text) == offset {
			last.Text += text
			return
		}
	}
	l.Tokens = append(l.Tokens, Token{class, text, offset})
}
