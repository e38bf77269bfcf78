package graph

import (
	"bytes"
	"fmt"
)

// ToDOT converts a graph to Graphviz DOT format for external rendering.
// Nodes are labeled with the user's display name over the id; output order
// is deterministic (sorted nodes, then sorted edges).
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph follows {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := n.ID
		if n.Name != "" {
			label = n.Name + "\n" + n.ID
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, label)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}
