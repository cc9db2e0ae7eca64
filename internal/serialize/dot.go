package serialize

import (
	"fmt"
	"strings"

	"deptree/internal/graph"
)

// DOT renders v as a directed graph. Node attributes are keyed by kind:
// Module gets the default ellipse, Script gets shape=box, NamespacePackage
// gets shape=hexagon,style=dashed; highlighted nodes additionally gain
// fillcolor=lightblue,style=filled. Edges carry no attributes.
func DOT(v graph.View) string {
	var b strings.Builder
	b.WriteString("digraph deptree {\n")

	for _, n := range v.Graph.Nodes() {
		attrs := dotAttrs(n, v.Highlighted[n.Name])
		if attrs == "" {
			b.WriteString(fmt.Sprintf("  \"%s\";\n", n.Name))
		} else {
			b.WriteString(fmt.Sprintf("  \"%s\" [%s];\n", n.Name, attrs))
		}
	}

	for _, e := range v.Graph.Edges() {
		b.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n", e.Source, e.Target))
	}

	b.WriteString("}\n")
	return b.String()
}

func dotAttrs(n graph.Node, highlighted bool) string {
	var parts []string
	switch n.Kind {
	case graph.KindScript:
		parts = append(parts, "shape=box")
	case graph.KindNamespacePackage:
		parts = append(parts, "shape=hexagon")
		if !highlighted {
			parts = append(parts, "style=dashed")
		}
	}
	if highlighted {
		parts = append(parts, "fillcolor=lightblue", "style=filled")
	}
	return strings.Join(parts, ", ")
}
