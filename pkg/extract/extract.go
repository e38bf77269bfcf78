package extract

import (
	"fmt"

	"github.com/grovekit/grove/pkg/tree"
)

// User is one extracted user record. PostIDs and Follows are ordered sets:
// insertion order preserved, duplicates dropped.
type User struct {
	ID      string
	Name    string
	PostIDs []string

	// Follows are outgoing follow edges (this user follows each id).
	Follows []string

	// Followers are incoming follow references found in the document
	// (each id follows this user).
	Followers []string
}

// Post is one extracted post. ID comes from the id attribute when present,
// otherwise it is synthesized as "<author>-p<n>" in authoring order.
type Post struct {
	ID     string
	Author string
	Body   string
	Topics []string
}

// Topic returns the post's first topic label, or the empty string.
func (p Post) Topic() string {
	if len(p.Topics) == 0 {
		return ""
	}
	return p.Topics[0]
}

// Warning describes a skipped or dubious element. Extraction accumulates
// warnings instead of failing: a partially damaged document still yields
// every entity that can be read.
type Warning string

// Result holds everything extracted from one document.
type Result struct {
	Users    map[string]*User
	Order    []string // user ids in document order
	Posts    []Post
	Warnings []Warning
}

// UsersInOrder returns the users in document order.
func (r *Result) UsersInOrder() []*User {
	out := make([]*User, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.Users[id])
	}
	return out
}

// PostsByAuthor returns the posts authored by the given user id, in order.
func (r *Result) PostsByAuthor(id string) []Post {
	var out []Post
	for _, p := range r.Posts {
		if p.Author == id {
			out = append(out, p)
		}
	}
	return out
}

// Extract walks a tree and materializes every user, post, and follow
// relation the schema recognizes. A nil root yields an empty result.
func Extract(root *tree.Node, schema Schema) *Result {
	x := &extractor{schema: schema, res: &Result{Users: make(map[string]*User)}}
	tree.Walk(root, func(n *tree.Node) bool {
		if n.Tag == x.schema.UserTag {
			x.user(n)
			return false
		}
		return true
	})
	return x.res
}

type extractor struct {
	schema Schema
	res    *Result
}

func (x *extractor) warnf(format string, args ...any) {
	x.res.Warnings = append(x.res.Warnings, Warning(fmt.Sprintf(format, args...)))
}

func (x *extractor) user(n *tree.Node) {
	id := x.entityID(n)
	if id == "" {
		x.warnf("skipped <%s> without an id", x.schema.UserTag)
		return
	}
	if _, exists := x.res.Users[id]; exists {
		x.warnf("duplicate user id %q, keeping first occurrence", id)
		return
	}

	u := &User{ID: id, Name: firstText(n, x.schema.NameTag)}
	x.res.Users[id] = u
	x.res.Order = append(x.res.Order, id)

	for _, pn := range descendants(n, x.schema.PostTag) {
		x.post(pn, u)
	}
	for _, fn := range descendants(n, x.schema.FollowerTag) {
		if fid := x.entityID(fn); fid != "" {
			u.Followers = appendUnique(u.Followers, fid)
		} else {
			x.warnf("skipped <%s> without an id under user %q", x.schema.FollowerTag, id)
		}
	}
	for _, fn := range descendants(n, x.schema.FollowingTag) {
		if fid := x.entityID(fn); fid != "" {
			u.Follows = appendUnique(u.Follows, fid)
		} else {
			x.warnf("skipped <%s> without an id under user %q", x.schema.FollowingTag, id)
		}
	}
}

func (x *extractor) post(n *tree.Node, author *User) {
	id := x.entityID(n)
	if id == "" {
		id = fmt.Sprintf("%s-p%d", author.ID, len(author.PostIDs)+1)
	}

	var body string
	for _, tag := range x.schema.BodyTags {
		if body = firstText(n, tag); body != "" {
			break
		}
	}
	if body == "" {
		body = n.Text
	}

	var topics []string
	for _, tn := range descendants(n, x.schema.TopicTag) {
		if tn.Text != "" {
			topics = append(topics, tn.Text)
		}
	}

	author.PostIDs = appendUnique(author.PostIDs, id)
	x.res.Posts = append(x.res.Posts, Post{ID: id, Author: author.ID, Body: body, Topics: topics})
}

// entityID resolves an element's id: the id attribute wins, a nested id
// element is the fallback.
func (x *extractor) entityID(n *tree.Node) string {
	if v, ok := n.Attr(x.schema.IDAttr); ok && v != "" {
		return v
	}
	if c := n.Find(x.schema.IDTag); c != nil {
		return c.Text
	}
	return ""
}

// firstText returns the text of the first descendant with the given tag,
// in pre-order.
func firstText(n *tree.Node, tag string) string {
	var out string
	tree.Walk(n, func(d *tree.Node) bool {
		if out != "" {
			return false
		}
		if d != n && d.Tag == tag {
			out = d.Text
			return false
		}
		return true
	})
	return out
}

// descendants returns every descendant of n with the given tag, pre-order,
// without descending into matches.
func descendants(n *tree.Node, tag string) []*tree.Node {
	var out []*tree.Node
	tree.Walk(n, func(d *tree.Node) bool {
		if d != n && d.Tag == tag {
			out = append(out, d)
			return false
		}
		return true
	})
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
