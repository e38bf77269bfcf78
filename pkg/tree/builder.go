package tree

import "github.com/grovekit/grove/pkg/token"

// frame is one open element on the builder stack, with the position of its
// opening tag for end-of-input error reporting.
type frame struct {
	node *Node
	pos  token.Pos
}

// Build consumes a token stream and produces a rooted tree plus every
// structural error it can find. The returned root is nil only when the stream
// contained no opening or self-closing tag at all.
//
// Recovery rules:
//   - A closing tag matching an ancestor implicitly closes every element
//     above it (one ErrUnclosedTag per popped element, plus one
//     ErrMismatchedClosingTag for the closing tag itself).
//   - A closing tag matching nothing on the stack is reported
//     (ErrUnexpectedClosingTag) and ignored.
//   - A second top-level element is reported (ErrMultipleRoots) and its
//     subtree dropped; text outside the root is reported and dropped.
//   - Elements still open at end of input are ErrUnclosedTag.
func Build(tokens []token.Token) (*Node, []token.ParseError) {
	b := &builder{}
	for _, tok := range tokens {
		b.feed(tok)
	}
	return b.finish()
}

// Validate reports the structural errors in a token stream without returning
// the tree. Zero non-warning errors means the document is well-formed.
func Validate(tokens []token.Token) []token.ParseError {
	_, errs := Build(tokens)
	return errs
}

type builder struct {
	root  *Node
	stack []frame
	errs  []token.ParseError
}

func (b *builder) top() *Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1].node
}

func (b *builder) feed(tok token.Token) {
	switch tok.Kind {
	case token.KindOpen:
		n := &Node{Tag: tok.Name, Attrs: tok.Attrs}
		if parent := b.top(); parent != nil {
			parent.AddChild(n)
		} else if b.root == nil {
			b.root = n
		} else {
			// Second top-level element. The subtree is still parsed so the
			// stream stays synchronized, but nothing references it.
			b.errs = append(b.errs, token.ParseError{Kind: token.ErrMultipleRoots, Tag: tok.Name, Pos: tok.Pos})
		}
		b.stack = append(b.stack, frame{node: n, pos: tok.Pos})

	case token.KindSelfClose:
		n := &Node{Tag: tok.Name, Attrs: tok.Attrs}
		if parent := b.top(); parent != nil {
			parent.AddChild(n)
		} else if b.root == nil {
			b.root = n
		} else {
			b.errs = append(b.errs, token.ParseError{Kind: token.ErrMultipleRoots, Tag: tok.Name, Pos: tok.Pos})
		}

	case token.KindText:
		if parent := b.top(); parent != nil {
			parent.appendText(tok.Text)
		} else {
			b.errs = append(b.errs, token.ParseError{Kind: token.ErrTextOutsideRoot, Pos: tok.Pos})
		}

	case token.KindClose:
		b.close(tok)
	}
}

// close handles a closing tag: exact match pops, an ancestor match implicitly
// closes everything above it, and no match is reported and ignored.
func (b *builder) close(tok token.Token) {
	if top := b.top(); top != nil && top.Tag == tok.Name {
		b.stack = b.stack[:len(b.stack)-1]
		return
	}

	match := -1
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].node.Tag == tok.Name {
			match = i
			break
		}
	}
	if match < 0 {
		b.errs = append(b.errs, token.ParseError{Kind: token.ErrUnexpectedClosingTag, Tag: tok.Name, Pos: tok.Pos})
		return
	}

	b.errs = append(b.errs, token.ParseError{
		Kind:     token.ErrMismatchedClosingTag,
		Tag:      tok.Name,
		Expected: b.top().Tag,
		Pos:      tok.Pos,
	})
	for i := len(b.stack) - 1; i > match; i-- {
		b.errs = append(b.errs, token.ParseError{Kind: token.ErrUnclosedTag, Tag: b.stack[i].node.Tag, Pos: tok.Pos})
	}
	b.stack = b.stack[:match]
}

func (b *builder) finish() (*Node, []token.ParseError) {
	// Anything still open at end of input, innermost first.
	for i := len(b.stack) - 1; i >= 0; i-- {
		b.errs = append(b.errs, token.ParseError{Kind: token.ErrUnclosedTag, Tag: b.stack[i].node.Tag, Pos: b.stack[i].pos})
	}
	b.stack = nil
	return b.root, b.errs
}
