// Package graph models the directed social graph and its analytics.
//
// A node is one user; a directed edge (u → v) means "u follows v". Graphs
// are built fresh from an extraction result per analysis request and are not
// persisted. A graph is immutable once handed to the query functions;
// concurrent reads of the same graph are safe as long as no caller mutates
// it, which is enforced by ownership rather than locks.
package graph

import (
	"errors"
	"slices"
	"sort"

	"github.com/grovekit/grove/pkg/extract"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the user id is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("user id must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a user with
	// the same id already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate user id")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// user does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source user")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To
	// user does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target user")
)

// Node is one user in the social graph.
type Node struct {
	ID   string // unique user id
	Name string // display name, may be empty
}

// Edge is one directed follow relation: From follows To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph of users keyed by id, with adjacency sets in
// both directions for degree queries.
type Graph struct {
	nodes map[string]Node
	out   map[string]map[string]struct{}
	in    map[string]map[string]struct{}
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		out:   make(map[string]map[string]struct{}),
		in:    make(map[string]map[string]struct{}),
	}
}

// Build turns an extraction result into a social graph. Every user becomes
// a node; every follow reference that resolves to an existing user becomes
// a directed edge. Dangling references are dropped with a warning, never
// kept as phantom nodes. Duplicate edges collapse silently.
func Build(res *extract.Result) (*Graph, []extract.Warning) {
	g := New()
	var warnings []extract.Warning

	for _, u := range res.UsersInOrder() {
		// Ids were deduplicated during extraction; AddNode cannot fail here.
		_ = g.AddNode(Node{ID: u.ID, Name: u.Name})
	}
	for _, u := range res.UsersInOrder() {
		for _, v := range u.Follows {
			if err := g.AddEdge(Edge{From: u.ID, To: v}); err != nil {
				warnings = append(warnings, extract.Warning("dropped follow edge "+u.ID+" -> "+v+": unknown user "+v))
			}
		}
		for _, f := range u.Followers {
			if err := g.AddEdge(Edge{From: f, To: u.ID}); err != nil {
				warnings = append(warnings, extract.Warning("dropped follower reference "+f+" -> "+u.ID+": unknown user "+f))
			}
		}
	}
	return g, warnings
}

// AddNode adds a user node to the graph.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = n
	g.out[n.ID] = make(map[string]struct{})
	g.in[n.ID] = make(map[string]struct{})
	return nil
}

// AddEdge adds a follow relation between two existing users. Adding an
// edge that already exists is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if _, dup := g.out[e.From][e.To]; dup {
		return nil
	}
	g.out[e.From][e.To] = struct{}{}
	g.in[e.To][e.From] = struct{}{}
	g.edges++
	return nil
}

// HasNode reports whether a user exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the user with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all users sorted by id for deterministic output.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all follow relations sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for from, targets := range g.out {
		for to := range targets {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// NodeCount returns the number of users.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of follow relations.
func (g *Graph) EdgeCount() int { return g.edges }

// InDegree returns a user's follower count.
func (g *Graph) InDegree(id string) int { return len(g.in[id]) }

// OutDegree returns how many users a user follows.
func (g *Graph) OutDegree(id string) int { return len(g.out[id]) }

// Followers returns the ids following the given user, sorted.
func (g *Graph) Followers(id string) []string {
	return sortedKeys(g.in[id])
}

// Following returns the ids the given user follows, sorted.
func (g *Graph) Following(id string) []string {
	return sortedKeys(g.out[id])
}

// follows reports whether from follows to.
func (g *Graph) follows(from, to string) bool {
	_, ok := g.out[from][to]
	return ok
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
