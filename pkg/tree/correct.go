package tree

import (
	"fmt"

	"github.com/grovekit/grove/pkg/token"
)

// CorrectionKind classifies one repair applied during autocorrection.
type CorrectionKind int

const (
	// CorrectionImplicitClose closed an element early because a closing tag
	// for one of its ancestors arrived first.
	CorrectionImplicitClose CorrectionKind = iota

	// CorrectionDroppedStray removed a closing tag that matched no open
	// element. Opening context is never fabricated for strays: synthesizing
	// a plausible parent would be guesswork.
	CorrectionDroppedStray

	// CorrectionForcedClose closed an element that was still open at end of
	// input.
	CorrectionForcedClose

	// CorrectionDroppedRoot removed a second top-level element.
	CorrectionDroppedRoot

	// CorrectionDroppedText removed character data outside the root.
	CorrectionDroppedText
)

// String returns a short description of the correction kind.
func (k CorrectionKind) String() string {
	switch k {
	case CorrectionImplicitClose:
		return "implicitly closed"
	case CorrectionDroppedStray:
		return "dropped stray closing tag"
	case CorrectionForcedClose:
		return "force-closed at end of input"
	case CorrectionDroppedRoot:
		return "dropped extra root element"
	case CorrectionDroppedText:
		return "dropped text outside root"
	}
	return "unknown"
}

// Correction records one repair: what was done, to which tag, and where.
type Correction struct {
	Kind CorrectionKind
	Tag  string
	Pos  token.Pos
}

// String renders the correction with its position for reports.
func (c Correction) String() string {
	if c.Tag == "" {
		return fmt.Sprintf("%s: %s", c.Pos, c.Kind)
	}
	return fmt.Sprintf("%s: %s: <%s>", c.Pos, c.Kind, c.Tag)
}

// Autocorrect builds a well-formed tree from a possibly damaged token
// stream, recording every repair it applies. The recovery matches Build:
// ancestor-matching closing tags implicitly close intervening elements,
// stray closing tags are dropped, and elements still open at end of input
// are force-closed innermost first. The result is nil only when the stream
// contained no elements at all.
//
// Autocorrection is deterministic and idempotent: correcting the formatted
// output of a corrected tree yields no further repairs.
func Autocorrect(tokens []token.Token) (*Node, []Correction) {
	var (
		root  *Node
		stack []frame
		fixes []Correction
	)

	top := func() *Node {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1].node
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case token.KindOpen, token.KindSelfClose:
			n := &Node{Tag: tok.Name, Attrs: tok.Attrs}
			if parent := top(); parent != nil {
				parent.AddChild(n)
			} else if root == nil {
				root = n
			} else {
				fixes = append(fixes, Correction{Kind: CorrectionDroppedRoot, Tag: tok.Name, Pos: tok.Pos})
				if tok.Kind == token.KindSelfClose {
					continue
				}
				// Parse the dropped subtree to stay synchronized, attached
				// to nothing.
				stack = append(stack, frame{node: n, pos: tok.Pos})
				continue
			}
			if tok.Kind == token.KindOpen {
				stack = append(stack, frame{node: n, pos: tok.Pos})
			}

		case token.KindText:
			if parent := top(); parent != nil {
				parent.appendText(tok.Text)
			} else {
				fixes = append(fixes, Correction{Kind: CorrectionDroppedText, Pos: tok.Pos})
			}

		case token.KindClose:
			if t := top(); t != nil && t.Tag == tok.Name {
				stack = stack[:len(stack)-1]
				continue
			}
			match := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].node.Tag == tok.Name {
					match = i
					break
				}
			}
			if match < 0 {
				fixes = append(fixes, Correction{Kind: CorrectionDroppedStray, Tag: tok.Name, Pos: tok.Pos})
				continue
			}
			for i := len(stack) - 1; i > match; i-- {
				fixes = append(fixes, Correction{Kind: CorrectionImplicitClose, Tag: stack[i].node.Tag, Pos: tok.Pos})
			}
			stack = stack[:match]
		}
	}

	// Force-close whatever is left, innermost first.
	for i := len(stack) - 1; i >= 0; i-- {
		fixes = append(fixes, Correction{Kind: CorrectionForcedClose, Tag: stack[i].node.Tag, Pos: stack[i].pos})
	}

	return root, fixes
}
