package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildNamespaceSample is a namespace-heavy variant of the worked-example
// tree: pkg is a namespace package, pkg.a imports pkg.b, pkg.b imports pkg.sub.c (pkg.sub also a
// namespace package), and scripts.run imports pkg.a. pkg.unused has no edges.
func buildNamespaceSample(t *testing.T) *Graph {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "pkg", Kind: KindNamespacePackage}))
	require.NoError(t, b.AddNode(Node{Name: "pkg.sub", Kind: KindNamespacePackage, Parent: "pkg"}))
	require.NoError(t, b.AddNode(Node{Name: "pkg.a", Kind: KindModule, Parent: "pkg"}))
	require.NoError(t, b.AddNode(Node{Name: "pkg.b", Kind: KindModule, Parent: "pkg"}))
	require.NoError(t, b.AddNode(Node{Name: "pkg.sub.c", Kind: KindModule, Parent: "pkg.sub"}))
	require.NoError(t, b.AddNode(Node{Name: "pkg.unused", Kind: KindModule, Parent: "pkg"}))
	require.NoError(t, b.AddNode(Node{Name: "scripts.run", Kind: KindScript}))
	b.AddEdge("pkg.a", "pkg.b")
	b.AddEdge("pkg.b", "pkg.sub.c")
	b.AddEdge("scripts.run", "pkg.a")
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestElideNamespacesDropsNamespaceNodesOnly(t *testing.T) {
	g := buildNamespaceSample(t)
	elided, err := ElideNamespaces(g)
	require.NoError(t, err)

	for _, n := range elided.Nodes() {
		assert.NotEqual(t, KindNamespacePackage, n.Kind)
	}
	assert.False(t, elided.HasNode("pkg"))
	assert.False(t, elided.HasNode("pkg.sub"))
	assert.True(t, elided.HasNode("pkg.a"))
}

func TestElideNamespacesKeepsDirectModuleEdges(t *testing.T) {
	g := buildNamespaceSample(t)
	elided, err := ElideNamespaces(g)
	require.NoError(t, err)
	assert.Contains(t, elided.Successors("pkg.b"), "pkg.sub.c")
}

func TestElideNamespacesThroughNamespaceHop(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "ns", Kind: KindNamespacePackage}))
	require.NoError(t, b.AddNode(Node{Name: "a", Kind: KindModule}))
	require.NoError(t, b.AddNode(Node{Name: "b", Kind: KindModule}))
	b.AddEdge("a", "ns")
	b.AddEdge("ns", "b")
	g, err := b.Build()
	require.NoError(t, err)

	elided, err := ElideNamespaces(g)
	require.NoError(t, err)
	assert.False(t, elided.HasNode("ns"))
	assert.Equal(t, []string{"b"}, elided.Successors("a"))
}

func TestElideNamespacesNeverProducesSelfLoop(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "ns", Kind: KindNamespacePackage}))
	require.NoError(t, b.AddNode(Node{Name: "a", Kind: KindModule}))
	b.AddEdge("a", "ns")
	b.AddEdge("ns", "a")
	g, err := b.Build()
	require.NoError(t, err)

	elided, err := ElideNamespaces(g)
	require.NoError(t, err)
	for _, e := range elided.Edges() {
		assert.NotEqual(t, e.Source, e.Target)
	}
}

func TestFilterOrphansRemovesOnlyZeroDegreeNodes(t *testing.T) {
	g := buildNamespaceSample(t)
	filtered := FilterOrphans(g)
	assert.False(t, filtered.HasNode("pkg.unused"))
	assert.True(t, filtered.HasNode("pkg.a"))
}

func TestReachabilityIncludesIsolatedRoots(t *testing.T) {
	g := buildNamespaceSample(t)
	dists, err := Reachability(g, []string{"pkg.unused"}, DirectionUpstream, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pkg.unused": 0}, dists)
}

func TestReachabilityUpstreamFromScript(t *testing.T) {
	g := buildNamespaceSample(t)
	dists, err := Reachability(g, []string{"scripts.run"}, DirectionUpstream, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, dists["scripts.run"])
	assert.Equal(t, 1, dists["pkg.a"])
	assert.Equal(t, 2, dists["pkg.b"])
	assert.Equal(t, 3, dists["pkg.sub.c"])
}

func TestReachabilityDownstreamOfModule(t *testing.T) {
	g := buildNamespaceSample(t)
	dists, err := Reachability(g, []string{"pkg.b"}, DirectionDownstream, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, dists["pkg.b"])
	assert.Equal(t, 1, dists["pkg.a"])
	assert.Equal(t, 2, dists["scripts.run"])
	_, present := dists["pkg.sub.c"]
	assert.False(t, present)
}

func TestReachabilityMaxRankBound(t *testing.T) {
	g := buildNamespaceSample(t)
	max := 1
	dists, err := Reachability(g, []string{"scripts.run"}, DirectionUpstream, &max)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"scripts.run": 0, "pkg.a": 1}, dists)
}

func TestReachabilityRejectsNegativeMaxRank(t *testing.T) {
	g := buildNamespaceSample(t)
	max := -1
	_, err := Reachability(g, []string{"scripts.run"}, DirectionUpstream, &max)
	assert.Error(t, err)
}

func TestReachabilityRejectsUnknownRoot(t *testing.T) {
	g := buildNamespaceSample(t)
	_, err := Reachability(g, []string{"does.not.exist"}, DirectionUpstream, nil)
	assert.Error(t, err)
}

func TestIntersectTakesMinDistance(t *testing.T) {
	a := map[string]int{"x": 2, "y": 1}
	b := map[string]int{"x": 1, "z": 0}
	out := Intersect(a, b)
	assert.Equal(t, map[string]int{"x": 1}, out)
}

func TestInducedSubgraphKeepsOnlyInternalEdges(t *testing.T) {
	g := buildNamespaceSample(t)
	set := map[string]int{"pkg.a": 0, "pkg.b": 1}
	sub, err := Induced(g, set)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pkg.a", "pkg.b"}, sub.NodeNames())
	assert.Equal(t, []Edge{{Source: "pkg.a", Target: "pkg.b"}}, sub.Edges())
}

func TestInducedRejectsUnknownNode(t *testing.T) {
	g := buildNamespaceSample(t)
	_, err := Induced(g, map[string]int{"nope": 0})
	assert.Error(t, err)
}
