package serialize

import (
	"fmt"
	"strings"

	"deptree/internal/graph"
)

// Mermaid renders v as a flowchart TD. Modules render as name("name"),
// scripts as name[name], namespace packages as name{{"name"}} and also as
// the subgraph containing their children — nesting depth is unbounded and
// follows parent chains; ordering inside a subgraph is canonical.
// Highlighted nodes receive a trailing style line.
func Mermaid(v graph.View) string {
	g := v.Graph
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	childrenOf := make(map[string][]graph.Node)
	var roots []graph.Node
	for _, n := range g.Nodes() {
		// Only a namespace package present in the view renders as a subgraph,
		// so only its children are nested; every other node is declared at
		// the top level.
		if p, ok := g.Node(n.Parent); ok && p.Kind == graph.KindNamespacePackage {
			childrenOf[n.Parent] = append(childrenOf[n.Parent], n)
		} else {
			roots = append(roots, n)
		}
	}

	for _, n := range roots {
		renderMermaidNode(&b, n, childrenOf, 1)
	}

	for _, e := range g.Edges() {
		b.WriteString(fmt.Sprintf("  %s --> %s\n", sanitizeID(e.Source), sanitizeID(e.Target)))
	}

	for _, n := range g.Nodes() {
		if v.Highlighted[n.Name] {
			b.WriteString(fmt.Sprintf("  style %s fill:#bbdefb,stroke:#1976d2,stroke-width:2px\n", sanitizeID(n.Name)))
		}
	}

	return b.String()
}

func renderMermaidNode(b *strings.Builder, n graph.Node, childrenOf map[string][]graph.Node, indent int) {
	pad := strings.Repeat("  ", indent)
	id := sanitizeID(n.Name)

	if n.Kind == graph.KindNamespacePackage {
		b.WriteString(fmt.Sprintf("%ssubgraph ns_%s[\"%s\"]\n", pad, id, n.Name))
		b.WriteString(fmt.Sprintf("%s  %s{{\"%s\"}}\n", pad, id, n.Name))
		for _, child := range childrenOf[n.Name] {
			renderMermaidNode(b, child, childrenOf, indent+1)
		}
		b.WriteString(fmt.Sprintf("%send\n", pad))
		return
	}

	if n.Kind == graph.KindScript {
		b.WriteString(fmt.Sprintf("%s%s[%s]\n", pad, id, n.Name))
		return
	}
	b.WriteString(fmt.Sprintf("%s%s(\"%s\")\n", pad, id, n.Name))
}
