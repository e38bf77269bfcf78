// Package tree builds rooted, ordered element trees from token streams.
//
// The builder maintains an explicit stack of open elements rather than
// recursing, so document depth is bounded by memory, not the call stack.
// Structural errors never abort a build: they are accumulated as
// token.ParseError values next to a best-effort tree. Autocorrect applies the
// same recovery rules to synthesize a well-formed tree from damaged input.
package tree

import "github.com/grovekit/grove/pkg/token"

// Node is one element of a document tree. A node owns its children
// exclusively; the parent reference is non-owning and used only for error
// reporting and corrective closing.
//
// Each node carries at most one text slot. When a document interleaves
// several text segments with child elements, the segments are joined with a
// single space, which is also what the binary codec's element layout encodes.
type Node struct {
	Tag      string
	Attrs    []token.Attr
	Text     string
	Children []*Node

	parent *Node
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild appends child to n, setting its parent reference.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first direct child with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given tag.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// appendText merges a text segment into the node's text slot.
func (n *Node) appendText(s string) {
	if n.Text == "" {
		n.Text = s
		return
	}
	n.Text += " " + s
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the current node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Equal reports whether two trees are structurally and textually identical:
// same tag names, same attributes in the same order, same text, and equal
// children in the same order. Parent references are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of elements in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}
