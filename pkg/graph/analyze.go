package graph

import (
	"sort"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/extract"
)

// Queries are pure functions over an immutable graph plus the post
// collection. Empty or unknown ids fail with a QUERY_* error rather than an
// empty success, so "no overlap" stays distinguishable from "bad query".

// Ranked is one entry of a ranked query result.
type Ranked struct {
	UserID string
	Name   string
	Score  int
}

// MostActive returns the id of the user with the most authored posts.
// Ties break toward the lexicographically smallest id. Posts whose author
// is not a node in the graph are ignored.
func MostActive(g *Graph, posts []extract.Post) (string, error) {
	top, err := TopActive(g, posts, 1)
	if err != nil {
		return "", err
	}
	return top[0].UserID, nil
}

// TopActive returns up to n users ranked by authored-post count descending,
// ties toward the smaller id.
func TopActive(g *Graph, posts []extract.Post, n int) ([]Ranked, error) {
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeQueryEmpty, "graph has no users")
	}
	counts := make(map[string]int)
	for _, p := range posts {
		if g.HasNode(p.Author) {
			counts[p.Author]++
		}
	}
	return rank(g, n, func(id string) int { return counts[id] }), nil
}

// MostInfluential returns the id of the user with the highest in-degree
// (follower count). Ties break toward the lexicographically smallest id.
func MostInfluential(g *Graph) (string, error) {
	top, err := TopInfluencers(g, 1)
	if err != nil {
		return "", err
	}
	return top[0].UserID, nil
}

// TopInfluencers returns up to n users ranked by follower count descending,
// ties toward the smaller id.
func TopInfluencers(g *Graph, n int) ([]Ranked, error) {
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeQueryEmpty, "graph has no users")
	}
	return rank(g, n, g.InDegree), nil
}

// MutualFollowers returns the ids that follow every one of the given users,
// sorted. An empty id list or any unknown id is a query error, never an
// empty result.
func MutualFollowers(g *Graph, ids ...string) ([]string, error) {
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeQueryEmpty, "mutual followers query needs at least one user id")
	}
	for _, id := range ids {
		if err := checkUser(g, id); err != nil {
			return nil, err
		}
	}

	mutual := g.Followers(ids[0])
	for _, id := range ids[1:] {
		set := g.in[id]
		kept := mutual[:0]
		for _, f := range mutual {
			if _, ok := set[f]; ok {
				kept = append(kept, f)
			}
		}
		mutual = kept
	}
	return mutual, nil
}

// SuggestFriends recommends users for id to follow: everyone reachable by a
// path of length two through an out-neighbor ("followed by someone I
// follow"), excluding id itself and anyone id already follows. Results are
// ranked by the number of distinct two-step paths descending, ties toward
// the smaller id. An unknown id is a query error.
func SuggestFriends(g *Graph, id string) ([]Ranked, error) {
	if err := checkUser(g, id); err != nil {
		return nil, err
	}

	paths := make(map[string]int)
	for v := range g.out[id] {
		for w := range g.out[v] {
			if w == id || g.follows(id, w) {
				continue
			}
			paths[w]++
		}
	}

	out := make([]Ranked, 0, len(paths))
	for w, count := range paths {
		n, _ := g.Node(w)
		out = append(out, Ranked{UserID: w, Name: n.Name, Score: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// Metrics summarizes a graph for reporting.
type Metrics struct {
	Users        int     `json:"users"`
	Follows      int     `json:"follows"`
	Density      float64 `json:"density"`
	AvgFollowers float64 `json:"avg_followers"`
	AvgFollowing float64 `json:"avg_following"`
}

// Summarize computes basic network metrics. Density is edges over the
// maximum possible directed edges n*(n-1).
func Summarize(g *Graph) Metrics {
	m := Metrics{Users: g.NodeCount(), Follows: g.EdgeCount()}
	if m.Users > 1 {
		m.Density = float64(m.Follows) / float64(m.Users*(m.Users-1))
	}
	if m.Users > 0 {
		m.AvgFollowers = float64(m.Follows) / float64(m.Users)
		m.AvgFollowing = m.AvgFollowers
	}
	return m
}

// rank scores every node and returns the top n, score descending with ties
// toward the smaller id.
func rank(g *Graph, n int, score func(id string) int) []Ranked {
	nodes := g.Nodes()
	out := make([]Ranked, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, Ranked{UserID: node.ID, Name: node.Name, Score: score(node.ID)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func checkUser(g *Graph, id string) error {
	if err := errors.ValidateUserID(id); err != nil {
		return err
	}
	if !g.HasNode(id) {
		return errors.New(errors.ErrCodeQueryUnknownUser, "unknown user id %q", id)
	}
	return nil
}
