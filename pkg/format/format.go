// Package format serializes element trees back to text.
//
// Format produces the canonical indented rendering (4-space indent, 80-column
// text wrapping); Minify produces the same content with all inter-tag
// whitespace removed. Both are pure functions of the tree: structurally equal
// trees produce byte-identical output, and re-parsing formatted output
// reproduces the original tree.
package format

import (
	"strings"

	"github.com/grovekit/grove/pkg/tree"
)

const (
	// Indent is one level of nesting in formatted output.
	Indent = "    "

	// MaxWidth is the column at which text content wraps.
	MaxWidth = 80
)

// Format renders the tree as canonical indented text: one element per line,
// children one level deeper, non-empty text on its own line wrapped at
// MaxWidth columns, and childless empty elements as <name/>. Returns the
// empty string for a nil tree.
func Format(n *tree.Node) string {
	if n == nil {
		return ""
	}
	var lines []string
	formatNode(n, 0, &lines)
	return strings.Join(lines, "\n")
}

// Minify renders the tree with no whitespace outside of text content.
func Minify(n *tree.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	minifyNode(n, &sb)
	return sb.String()
}

func formatNode(n *tree.Node, level int, lines *[]string) {
	indent := strings.Repeat(Indent, level)

	if len(n.Children) == 0 && n.Text == "" {
		*lines = append(*lines, indent+"<"+n.Tag+attrString(n)+"/>")
		return
	}

	*lines = append(*lines, indent+"<"+n.Tag+attrString(n)+">")

	if n.Text != "" {
		inner := strings.Repeat(Indent, level+1)
		for _, line := range wrap(n.Text, MaxWidth) {
			*lines = append(*lines, inner+line)
		}
	}
	for _, c := range n.Children {
		formatNode(c, level+1, lines)
	}

	*lines = append(*lines, indent+"</"+n.Tag+">")
}

func minifyNode(n *tree.Node, sb *strings.Builder) {
	if len(n.Children) == 0 && n.Text == "" {
		sb.WriteString("<" + n.Tag + attrString(n) + "/>")
		return
	}
	sb.WriteString("<" + n.Tag + attrString(n) + ">")
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		minifyNode(c, sb)
	}
	sb.WriteString("</" + n.Tag + ">")
}

// attrString renders attributes in insertion order. Double quotes are the
// canonical style; values containing a double quote fall back to single
// quotes (the dialect has no entity escapes). A value containing both quote
// kinds is not representable in this dialect and will not re-lex: the
// tokenizer can never produce one (a quoted value cannot contain its own
// delimiter), so this only affects trees constructed in code.
func attrString(n *tree.Node) string {
	if len(n.Attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, a := range n.Attrs {
		quote := `"`
		if strings.Contains(a.Value, `"`) {
			quote = "'"
		}
		sb.WriteString(" " + a.Name + "=" + quote + a.Value + quote)
	}
	return sb.String()
}

// wrap splits text into lines of at most width columns using greedy word
// wrapping. Words longer than width are kept whole on their own line.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		cur   strings.Builder
	)
	for _, w := range words {
		if cur.Len() == 0 {
			cur.WriteString(w)
			continue
		}
		if cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			continue
		}
		cur.WriteString(" " + w)
	}
	lines = append(lines, cur.String())
	return lines
}
