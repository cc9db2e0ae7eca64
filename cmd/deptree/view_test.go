package main

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deptree/internal/astimport/treesitter"
	"deptree/internal/graph"
	"deptree/internal/obs"
	"deptree/internal/pipeline"
	"deptree/internal/serialize"
)

// buildViewFixture lays down the canonical worked-example tree: pkg is a
// real package (has __init__.py), pkg.sub is a bare namespace, and the
// import edges are pkg.a->pkg.b, pkg.sub.c->pkg.a, scripts.run->pkg.a.
func buildViewFixture(t *testing.T) *pipeline.Result {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "pkg", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "src", "pkg", "a.py"), "from .b import X\n")
	writeFile(t, filepath.Join(root, "src", "pkg", "b.py"), "")
	writeFile(t, filepath.Join(root, "src", "pkg", "sub", "c.py"), "from pkg.a import X\n")
	writeFile(t, filepath.Join(root, "scripts", "run.py"), "import pkg.a\n")

	result, err := pipeline.Run(pipeline.Options{
		ProjectRoot: root,
		SourceRoot:  filepath.Join(root, "src"),
		AST:         treesitter.NewPythonProvider(),
		Metrics:     obs.NewMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	return result
}

func TestBuildViewDefaultElidesNamespaceAndKeepsExpectedEdges(t *testing.T) {
	result := buildViewFixture(t)
	v, isReachability, err := buildView(result, viewRequest{})
	require.NoError(t, err)
	assert.False(t, isReachability)

	names := v.Graph.NodeNames()
	assert.NotContains(t, names, "pkg.sub")
	assert.Contains(t, names, "pkg.a")
	assert.Contains(t, names, "pkg.b")
	assert.Contains(t, names, "pkg.sub.c")
	assert.Contains(t, names, "scripts.run")

	assert.Contains(t, v.Graph.Successors("pkg.a"), "pkg.b")
	assert.Contains(t, v.Graph.Successors("pkg.sub.c"), "pkg.a")
	assert.Contains(t, v.Graph.Successors("scripts.run"), "pkg.a")
}

func TestBuildViewIncludeNamespacePackagesKeepsNamespaceNode(t *testing.T) {
	result := buildViewFixture(t)
	v, _, err := buildView(result, viewRequest{includeNamespaces: true, includeOrphans: true})
	require.NoError(t, err)
	assert.Contains(t, v.Graph.NodeNames(), "pkg.sub")
}

// Downstream(R) is a reverse-adjacency query: the nodes that transitively
// import R. Rooted at pkg.b, that includes pkg.a (direct importer) and, one
// hop further back, pkg.sub.c and scripts.run.
func TestBuildViewDownstreamFollowsReverseAdjacency(t *testing.T) {
	result := buildViewFixture(t)
	v, isReachability, err := buildView(result, viewRequest{
		maxRank:       -1,
		downstreamCSV: "pkg.b",
	})
	require.NoError(t, err)
	assert.True(t, isReachability)

	out, err := serialize.List(v, isReachability)
	require.NoError(t, err)
	assert.Equal(t, "pkg.a\npkg.b\npkg.sub.c\nscripts.run\n", out)
}

// Upstream(R) is a forward-adjacency query: the nodes R transitively
// imports. Rooted at scripts.run with max-rank 1, only the direct import
// pkg.a is reached.
func TestBuildViewUpstreamFollowsForwardAdjacencyBoundedByMaxRank(t *testing.T) {
	result := buildViewFixture(t)
	maxRank := 1
	v, isReachability, err := buildView(result, viewRequest{
		maxRank:     maxRank,
		upstreamCSV: "scripts.run",
	})
	require.NoError(t, err)
	assert.True(t, isReachability)

	names := v.Graph.NodeNames()
	assert.ElementsMatch(t, []string{"scripts.run", "pkg.a"}, names)
	assert.Equal(t, []graph.Edge{{Source: "scripts.run", Target: "pkg.a"}}, v.Graph.Edges())
}

// Requesting both directions at once intersects downstream(pkg.b) with
// upstream(scripts.run): pkg.sub.c drops out because it never appears in
// upstream(scripts.run).
func TestBuildViewDownstreamAndUpstreamTogetherIntersect(t *testing.T) {
	result := buildViewFixture(t)
	v, isReachability, err := buildView(result, viewRequest{
		maxRank:       -1,
		downstreamCSV: "pkg.b",
		upstreamCSV:   "scripts.run",
	})
	require.NoError(t, err)
	assert.True(t, isReachability)

	names := v.Graph.NodeNames()
	assert.ElementsMatch(t, []string{"scripts.run", "pkg.a", "pkg.b"}, names)
	assert.ElementsMatch(t, []graph.Edge{
		{Source: "scripts.run", Target: "pkg.a"},
		{Source: "pkg.a", Target: "pkg.b"},
	}, v.Graph.Edges())
}

func TestBuildViewShowAllHighlightsDownstreamSetInsteadOfRestricting(t *testing.T) {
	result := buildViewFixture(t)
	v, isReachability, err := buildView(result, viewRequest{
		maxRank:       -1,
		showAll:       true,
		downstreamCSV: "pkg.b",
	})
	require.NoError(t, err)
	assert.True(t, isReachability)

	baseline, _, err := buildView(result, viewRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, baseline.Graph.NodeNames(), v.Graph.NodeNames())

	require.NotNil(t, v.Highlighted)
	for _, name := range []string{"pkg.a", "pkg.b", "pkg.sub.c", "scripts.run"} {
		assert.True(t, v.Highlighted[name], "%s should be highlighted", name)
	}
}

func TestRenderOutputRejectsListWithoutReachabilityQuery(t *testing.T) {
	result := buildViewFixture(t)
	v, isReachability, err := buildView(result, viewRequest{})
	require.NoError(t, err)

	_, err = renderOutput("list", v, isReachability, serialize.Config{})
	assert.Error(t, err)
}

func TestCytoscapePayloadConfigCarriesOutputFlags(t *testing.T) {
	result := buildViewFixture(t)
	v, _, err := buildView(result, viewRequest{})
	require.NoError(t, err)

	out, err := jsonPayload(v, serialize.Config{IncludeOrphans: false, IncludeNamespaces: false})
	require.NoError(t, err)
	assert.Contains(t, out, `"include_orphans":false`)
	assert.Contains(t, out, `"include_namespaces":false`)
	assert.NotContains(t, out, "highlighted_modules")
}
