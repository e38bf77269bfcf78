package extract

import (
	"strings"
	"testing"

	"github.com/grovekit/grove/pkg/token"
	"github.com/grovekit/grove/pkg/tree"
)

// parse builds a tree for extraction tests.
func parse(t *testing.T, input string) *tree.Node {
	t.Helper()
	tokens, lexErrs := token.Tokenize(input)
	if len(lexErrs) != 0 {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	root, buildErrs := tree.Build(tokens)
	if len(buildErrs) != 0 {
		t.Fatalf("build errors: %v", buildErrs)
	}
	return root
}

const networkDoc = `<network>
  <user id="alice">
    <name>Alice</name>
    <post id="p1"><body>first post</body><topic>go</topic><topic>testing</topic></post>
    <post><content>second post</content></post>
    <following id="bob"/>
    <following id="carol"/>
  </user>
  <user id="bob">
    <name>Bob</name>
    <follower id="alice"/>
  </user>
</network>`

func TestExtract(t *testing.T) {
	res := Extract(parse(t, networkDoc), DefaultSchema())

	if len(res.Order) != 2 {
		t.Fatalf("users = %v, want [alice bob]", res.Order)
	}
	if res.Order[0] != "alice" || res.Order[1] != "bob" {
		t.Errorf("document order = %v, want [alice bob]", res.Order)
	}

	alice := res.Users["alice"]
	if alice.Name != "Alice" {
		t.Errorf("alice.Name = %q", alice.Name)
	}
	if len(alice.Follows) != 2 || alice.Follows[0] != "bob" || alice.Follows[1] != "carol" {
		t.Errorf("alice.Follows = %v, want [bob carol]", alice.Follows)
	}

	bob := res.Users["bob"]
	if len(bob.Followers) != 1 || bob.Followers[0] != "alice" {
		t.Errorf("bob.Followers = %v, want [alice]", bob.Followers)
	}

	if len(res.Posts) != 2 {
		t.Fatalf("posts = %v, want 2", res.Posts)
	}
	p1 := res.Posts[0]
	if p1.ID != "p1" || p1.Author != "alice" || p1.Body != "first post" {
		t.Errorf("first post = %+v", p1)
	}
	if len(p1.Topics) != 2 || p1.Topic() != "go" {
		t.Errorf("first post topics = %v", p1.Topics)
	}

	// Missing post id is synthesized from the author.
	p2 := res.Posts[1]
	if p2.ID != "alice-p2" {
		t.Errorf("second post id = %q, want alice-p2", p2.ID)
	}
	if p2.Body != "second post" {
		t.Errorf("second post body = %q (content tag is a body tag)", p2.Body)
	}

	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", res.Warnings)
	}
}

func TestExtractNilRoot(t *testing.T) {
	res := Extract(nil, DefaultSchema())
	if len(res.Users) != 0 || len(res.Posts) != 0 {
		t.Errorf("nil root should yield an empty result: %+v", res)
	}
}

func TestExtractNestedIDElement(t *testing.T) {
	// A nested <id> element is the fallback when the attribute is absent.
	doc := `<network><user><id>alice</id><name>Alice</name></user></network>`
	res := Extract(parse(t, doc), DefaultSchema())
	if len(res.Order) != 1 || res.Order[0] != "alice" {
		t.Errorf("users = %v, want [alice]", res.Order)
	}
}

func TestExtractWarnings(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string // substring of the expected warning
	}{
		{
			name: "user without id skipped",
			doc:  `<network><user><name>Ghost</name></user></network>`,
			want: "without an id",
		},
		{
			name: "duplicate user keeps first",
			doc:  `<network><user id="a"><name>First</name></user><user id="a"><name>Second</name></user></network>`,
			want: "duplicate user",
		},
		{
			name: "follower without id skipped",
			doc:  `<network><user id="a"><follower/></user></network>`,
			want: "without an id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(parse(t, tt.doc), DefaultSchema())
			if len(res.Warnings) == 0 {
				t.Fatal("expected a warning")
			}
			if !strings.Contains(string(res.Warnings[0]), tt.want) {
				t.Errorf("warning = %q, want substring %q", res.Warnings[0], tt.want)
			}
		})
	}
}

func TestExtractDuplicateKeepsFirst(t *testing.T) {
	doc := `<network><user id="a"><name>First</name></user><user id="a"><name>Second</name></user></network>`
	res := Extract(parse(t, doc), DefaultSchema())
	if len(res.Order) != 1 {
		t.Fatalf("users = %v, want one", res.Order)
	}
	if res.Users["a"].Name != "First" {
		t.Errorf("name = %q, want First (first occurrence wins)", res.Users["a"].Name)
	}
}

func TestExtractDeduplicatesRelations(t *testing.T) {
	doc := `<network><user id="a"><following id="b"/><following id="b"/></user></network>`
	res := Extract(parse(t, doc), DefaultSchema())
	if got := res.Users["a"].Follows; len(got) != 1 {
		t.Errorf("follows = %v, want deduplicated [b]", got)
	}
}

func TestPostsByAuthor(t *testing.T) {
	res := Extract(parse(t, networkDoc), DefaultSchema())
	if got := res.PostsByAuthor("alice"); len(got) != 2 {
		t.Errorf("alice posts = %d, want 2", len(got))
	}
	if got := res.PostsByAuthor("bob"); len(got) != 0 {
		t.Errorf("bob posts = %d, want 0", len(got))
	}
}

func TestCustomSchema(t *testing.T) {
	schema := DefaultSchema()
	schema.UserTag = "member"
	schema.FollowingTag = "friend"

	doc := `<group><member id="a"><friend id="b"/></member><member id="b"/></group>`
	res := Extract(parse(t, doc), schema)
	if len(res.Order) != 2 {
		t.Fatalf("users = %v, want 2", res.Order)
	}
	if got := res.Users["a"].Follows; len(got) != 1 || got[0] != "b" {
		t.Errorf("follows = %v, want [b]", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	res := Extract(parse(t, networkDoc), DefaultSchema())
	data, err := MarshalJSON(res)
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		`"users"`, `"id": "alice"`, `"name": "Alice"`,
		`"content": "first post"`, `"topics"`, `"followings"`, `"followers"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s:\n%s", want, out)
		}
	}
}
