// Package token provides the lexical layer for the Grove XML dialect.
//
// The tokenizer turns raw document text into a flat, ordered sequence of
// tokens (opening tags, closing tags, self-closing tags, and text runs) in a
// single forward pass. It never aborts on malformed input: problems are
// reported as ParseError values and the lexer resynchronizes at the next '<'.
//
// The dialect is deliberately small: no DTDs, no XSD, no namespaces, no
// entity expansion. Processing instructions (<?...?>) and comments
// (<!--...-->) are recognized only to be skipped.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	// KindInvalid is the zero value and never appears in lexer output.
	KindInvalid Kind = iota

	// KindOpen is an opening tag: <name attr="value">.
	KindOpen

	// KindClose is a closing tag: </name>.
	KindClose

	// KindSelfClose is a self-closing tag: <name attr="value"/>.
	KindSelfClose

	// KindText is a run of character data between tags. Leading and
	// trailing whitespace is trimmed and internal whitespace collapsed;
	// whitespace-only runs are discarded entirely.
	KindText

	// KindEOF marks the end of input. It is always the final token.
	KindEOF
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open tag"
	case KindClose:
		return "closing tag"
	case KindSelfClose:
		return "self-closing tag"
	case KindText:
		return "text"
	case KindEOF:
		return "end of input"
	}
	return "invalid"
}

// Pos is a location in the source text, used for error reporting.
// Line and Col are 1-based; Offset is a 0-based byte offset.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// String formats the position as "line:col".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Attr is a single name="value" attribute pair. Attribute order within a tag
// is significant and preserved for round-trip fidelity.
type Attr struct {
	Name  string
	Value string
}

// Token is one lexical unit of a document. Tokens are immutable once
// produced; the lexer emits them in source order.
type Token struct {
	Kind  Kind
	Name  string // tag name, for KindOpen/KindClose/KindSelfClose
	Attrs []Attr // ordered attributes, for KindOpen/KindSelfClose
	Text  string // normalized content, for KindText
	Pos   Pos    // position of the token's first byte
}

// Attr returns the value of the named attribute and whether it was present.
func (t Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
