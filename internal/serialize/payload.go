package serialize

import (
	"sort"

	"deptree/internal/graph"
)

// GraphNode is one entry of the viewer payload's "nodes" array.
type GraphNode struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	IsOrphan    bool   `json:"is_orphan"`
	Parent      *string `json:"parent,omitempty"`
	Highlighted *bool   `json:"highlighted,omitempty"`
}

type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type GraphConfig struct {
	IncludeOrphans     bool     `json:"include_orphans"`
	IncludeNamespaces  bool     `json:"include_namespaces"`
	HighlightedModules []string `json:"highlighted_modules,omitempty"`
}

type GraphPayload struct {
	Nodes  []GraphNode   `json:"nodes"`
	Edges  []GraphEdge   `json:"edges"`
	Config *GraphConfig `json:"config,omitempty"`
}

// groupSuffix distinguishes a synthetic namespace_group container id from
// the id of the NamespacePackage content node it wraps, per §4.G's "distinct
// from NamespacePackage content nodes" requirement.
const groupSuffix = "$group"

// Payload builds the structured viewer-data record for v. When namespace
// packages are present, a synthetic namespace_group node is emitted for
// every namespace package that has at least one child in the view, and
// every child's parent field points at that group rather than directly at
// the content node.
func Payload(v graph.View, cfg Config) GraphPayload {
	g := v.Graph

	groupNeeded := make(map[string]bool)
	for _, n := range g.Nodes() {
		if n.Parent == "" {
			continue
		}
		if p, ok := g.Node(n.Parent); ok && p.Kind == graph.KindNamespacePackage {
			groupNeeded[n.Parent] = true
		}
	}

	parentFieldFor := func(parentName string) *string {
		if parentName == "" {
			return nil
		}
		if groupNeeded[parentName] {
			id := parentName + groupSuffix
			return &id
		}
		p := parentName
		return &p
	}

	nodes := make([]GraphNode, 0, len(g.Nodes())+len(groupNeeded))
	for _, n := range g.Nodes() {
		gn := GraphNode{
			ID:       n.Name,
			Type:     n.Kind.String(),
			IsOrphan: g.IsOrphan(n.Name),
			Parent:   parentFieldFor(n.Parent),
		}
		if v.Highlighted[n.Name] {
			h := true
			gn.Highlighted = &h
		}
		nodes = append(nodes, gn)
	}

	groupNames := make([]string, 0, len(groupNeeded))
	for name := range groupNeeded {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)
	for _, name := range groupNames {
		ns, _ := g.Node(name)
		nodes = append(nodes, GraphNode{
			ID:       name + groupSuffix,
			Type:     "namespace_group",
			IsOrphan: false,
			Parent:   parentFieldFor(ns.Parent),
		})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]GraphEdge, 0, len(g.Edges()))
	for _, e := range g.Edges() {
		edges = append(edges, GraphEdge{Source: e.Source, Target: e.Target})
	}

	gc := GraphConfig{IncludeOrphans: cfg.IncludeOrphans, IncludeNamespaces: cfg.IncludeNamespaces}
	if v.Highlighted != nil {
		var highlighted []string
		for name, on := range v.Highlighted {
			if on {
				highlighted = append(highlighted, name)
			}
		}
		sort.Strings(highlighted)
		gc.HighlightedModules = highlighted
	}

	return GraphPayload{Nodes: nodes, Edges: edges, Config: &gc}
}
