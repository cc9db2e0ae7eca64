package graph

import (
	"sort"

	"deptree/internal/errs"
)

// ElideNamespaces produces a graph containing only Module and Script nodes.
// For every edge path u -> n1 -> n2 -> ... -> v where every ni is a
// NamespacePackage, it introduces a direct edge u -> v. Per the design
// notes this is computed by BFS from each non-namespace node, stopping at
// the first non-namespace successor, never by materializing the full
// transitive closure of the whole graph.
func ElideNamespaces(g *Graph) (*Graph, error) {
	b := NewBuilder()
	for _, n := range g.Nodes() {
		if n.Kind == KindNamespacePackage {
			continue
		}
		nn := n
		if nn.Parent != "" {
			if p, ok := g.Node(nn.Parent); ok && p.Kind == KindNamespacePackage {
				nn.Parent = "" // elided ancestor is no longer a node in this view
			}
		}
		if err := b.AddNode(nn); err != nil {
			return nil, err
		}
	}
	for _, n := range g.Nodes() {
		if n.Kind == KindNamespacePackage {
			continue
		}
		for _, target := range findNonNamespaceTargets(g, n.Name) {
			if target == n.Name {
				continue // elision must never introduce a self-loop
			}
			b.AddEdge(n.Name, target)
		}
	}
	return b.Build()
}

// findNonNamespaceTargets runs a bounded BFS from source over g's forward
// adjacency, stopping expansion the moment it reaches a non-namespace node
// (which becomes a result) rather than continuing through it.
func findNonNamespaceTargets(g *Graph, source string) []string {
	seen := map[string]bool{source: true}
	queue := g.Successors(source)
	for _, s := range queue {
		seen[s] = true
	}
	var results []string
	resultSet := map[string]bool{}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		n, ok := g.Node(cur)
		if !ok {
			continue
		}
		if n.Kind != KindNamespacePackage {
			if !resultSet[cur] {
				resultSet[cur] = true
				results = append(results, cur)
			}
			continue
		}
		for _, next := range g.Successors(cur) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	sort.Strings(results)
	return results
}

// FilterOrphans removes every node whose degree in g is zero.
func FilterOrphans(g *Graph) *Graph {
	b := NewBuilder()
	for _, n := range g.Nodes() {
		if g.IsOrphan(n.Name) {
			continue
		}
		_ = b.AddNode(n)
	}
	for _, e := range g.Edges() {
		if b.HasNode(e.Source) && b.HasNode(e.Target) {
			b.AddEdge(e.Source, e.Target)
		}
	}
	built, _ := b.Build() // endpoints are a subset of g's nodes, already valid
	return built
}

type Direction int

const (
	// DirectionUpstream follows forward edges: the nodes R transitively imports.
	DirectionUpstream Direction = iota
	// DirectionDownstream follows reverse edges: the nodes that transitively import R.
	DirectionDownstream
)

// Reachability performs a bounded multi-source BFS from roots. maxDist of
// nil means unbounded; a non-nil negative value is BadInput. The result
// always includes every root, even isolated ones, and maps each reached
// node to its distance from the nearest root.
func Reachability(g *Graph, roots []string, dir Direction, maxDist *int) (map[string]int, error) {
	if maxDist != nil && *maxDist < 0 {
		return nil, errs.New(errs.CodeBadInput, "max-rank must be >= 0")
	}
	for _, r := range roots {
		if !g.HasNode(r) {
			return nil, errs.BadInput(r, "unknown root name in reachability query")
		}
	}

	adjacency := g.successors
	if dir == DirectionDownstream {
		adjacency = g.predecessors
	}

	result := make(map[string]int, len(roots))
	var queue []string
	for _, r := range roots {
		if _, seen := result[r]; !seen {
			result[r] = 0
			queue = append(queue, r)
		}
	}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		d := result[cur]
		if maxDist != nil && d >= *maxDist {
			continue
		}
		for _, next := range sortedKeys(adjacency[cur]) {
			if _, seen := result[next]; seen {
				continue
			}
			result[next] = d + 1
			queue = append(queue, next)
		}
	}
	return result, nil
}

// Intersect returns the set intersection of a and b's keys.
func Intersect(a, b map[string]int) map[string]int {
	out := make(map[string]int)
	for name, da := range a {
		if db, ok := b[name]; ok {
			out[name] = minInt(da, db)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Induced returns the subgraph containing exactly the nodes in set, and
// every edge of g whose endpoints are both in set.
func Induced(g *Graph, set map[string]int) (*Graph, error) {
	b := NewBuilder()
	for name := range set {
		n, ok := g.Node(name)
		if !ok {
			return nil, errs.BadInput(name, "unknown node in subgraph set")
		}
		if err := b.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if _, ok := set[e.Source]; !ok {
			continue
		}
		if _, ok := set[e.Target]; !ok {
			continue
		}
		b.AddEdge(e.Source, e.Target)
	}
	return b.Build()
}

// View pairs a graph with the highlight set produced by --show-all: when
// active, Graph is the unrestricted full graph and Highlighted marks the
// nodes belonging to the reachability query; otherwise Highlighted is nil
// and Graph is already the restricted reachability subgraph.
type View struct {
	Graph       *Graph
	Highlighted map[string]bool
}
