package tree

import (
	"testing"

	"github.com/grovekit/grove/pkg/token"
)

// build is a test helper that lexes and builds in one step.
func build(t *testing.T, input string) (*Node, []token.ParseError) {
	t.Helper()
	tokens, lexErrs := token.Tokenize(input)
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors for %q: %v", input, lexErrs)
	}
	return Build(tokens)
}

func TestBuildSimple(t *testing.T) {
	root, errs := build(t, `<a><b x="1"/><c>text</c></a>`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if root.Tag != "a" {
		t.Errorf("root tag = %q, want a", root.Tag)
	}
	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children))
	}
	b := root.Children[0]
	if b.Tag != "b" {
		t.Errorf("first child = %q, want b", b.Tag)
	}
	if v, ok := b.Attr("x"); !ok || v != "1" {
		t.Errorf("b.x = %q, %v", v, ok)
	}
	if b.Parent() != root {
		t.Error("child's parent should be the root")
	}
	if c := root.Children[1]; c.Text != "text" {
		t.Errorf("c text = %q, want text", c.Text)
	}
}

func TestBuildEmpty(t *testing.T) {
	root, errs := build(t, "")
	if root != nil {
		t.Errorf("empty input root = %+v, want nil", root)
	}
	if len(errs) != 0 {
		t.Errorf("empty input errors = %v, want none", errs)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.ErrorKind
	}{
		{
			name:  "unclosed at end of input",
			input: "<a><b>",
			want:  []token.ErrorKind{token.ErrUnclosedTag, token.ErrUnclosedTag},
		},
		{
			name:  "stray closing tag",
			input: "<a></b></a>",
			want:  []token.ErrorKind{token.ErrUnexpectedClosingTag},
		},
		{
			name:  "mismatch closes intervening",
			input: "<a><b><c></a>",
			want: []token.ErrorKind{
				token.ErrMismatchedClosingTag, // </a> while <c> open
				token.ErrUnclosedTag,          // <c>
				token.ErrUnclosedTag,          // <b>
			},
		},
		{
			name:  "second root",
			input: "<a/><b/>",
			want:  []token.ErrorKind{token.ErrMultipleRoots},
		},
		{
			name:  "text outside root",
			input: "<a/>stray",
			want:  []token.ErrorKind{token.ErrTextOutsideRoot},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := build(t, tt.input)
			if len(errs) != len(tt.want) {
				t.Fatalf("errors = %v, want kinds %v", errs, tt.want)
			}
			for i, e := range errs {
				if e.Kind != tt.want[i] {
					t.Errorf("error %d kind = %v, want %v", i, e.Kind, tt.want[i])
				}
			}
		})
	}
}

func TestBuildMismatchKeepsAncestorContent(t *testing.T) {
	// </a> implicitly closes <b> and <c>; <d/> still lands in <a>.
	root, _ := build(t, "<a><b><c></a>")
	if root.Tag != "a" {
		t.Fatalf("root = %q, want a", root.Tag)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "b" {
		t.Fatalf("a's children = %v", root.Children)
	}
	if len(root.Children[0].Children) != 1 || root.Children[0].Children[0].Tag != "c" {
		t.Error("b should keep its <c> child")
	}
}

func TestBuildUnclosedErrorPosition(t *testing.T) {
	// End-of-input unclosed errors point at the opening tag.
	tokens, _ := token.Tokenize("<a>\n<b>")
	_, errs := Build(tokens)
	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2", errs)
	}
	// Innermost first: <b> at line 2, then <a> at line 1.
	if errs[0].Tag != "b" || errs[0].Pos.Line != 2 {
		t.Errorf("first error = %v, want <b> at line 2", errs[0])
	}
	if errs[1].Tag != "a" || errs[1].Pos.Line != 1 {
		t.Errorf("second error = %v, want <a> at line 1", errs[1])
	}
}

func TestBuildTextJoining(t *testing.T) {
	// Text runs interrupted by children join with a single space.
	root, errs := build(t, "<a>one<b/>two</a>")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if root.Text != "one two" {
		t.Errorf("text = %q, want \"one two\"", root.Text)
	}
}

func TestValidate(t *testing.T) {
	tokens, _ := token.Tokenize("<a><b></a>")
	errs := Validate(tokens)
	if token.CountFatal(errs) == 0 {
		t.Error("Validate should report the unclosed <b>")
	}

	tokens, _ = token.Tokenize("<a><b/></a>")
	errs = Validate(tokens)
	if len(errs) != 0 {
		t.Errorf("valid document errors = %v, want none", errs)
	}
}

func TestWalkAndFind(t *testing.T) {
	// Find and FindAll search direct children only; the <c> nested inside
	// <b> must not be reached.
	root, _ := build(t, `<a><b><c x="deep"/></b><c x="top"/></a>`)

	n := root.Find("c")
	if n == nil {
		t.Fatal("Find(c) should locate the direct child <c>")
	}
	if v, _ := n.Attr("x"); v != "top" {
		t.Errorf("Find(c) returned the %q node, want the direct child", v)
	}
	all := root.FindAll("c")
	if len(all) != 1 {
		t.Errorf("FindAll(c) = %d nodes, want 1 (direct children only)", len(all))
	}
	if Count(root) != 4 {
		t.Errorf("Count = %d, want 4", Count(root))
	}

	// Walk skips subtrees when the visitor returns false.
	visited := 0
	Walk(root, func(n *Node) bool {
		visited++
		return n.Tag != "b"
	})
	if visited != 3 {
		t.Errorf("visited = %d, want 3 (b's subtree skipped)", visited)
	}
}

func TestEqual(t *testing.T) {
	a1, _ := build(t, `<a><b x="1">hi</b></a>`)
	a2, _ := build(t, `<a><b x="1">hi</b></a>`)
	b, _ := build(t, `<a><b x="2">hi</b></a>`)

	if !Equal(a1, a2) {
		t.Error("identical documents should be Equal")
	}
	if Equal(a1, b) {
		t.Error("different attribute values should not be Equal")
	}
	if !Equal(nil, nil) {
		t.Error("two nil trees are Equal")
	}
	if Equal(a1, nil) {
		t.Error("tree vs nil is not Equal")
	}
}
