package main

import (
	"deptree/internal/errs"
	"deptree/internal/graph"
	"deptree/internal/pipeline"
	"deptree/internal/serialize"
)

type viewRequest struct {
	includeOrphans     bool
	includeNamespaces  bool
	maxRank            int // -1 means unbounded
	showAll            bool
	downstreamCSV      string
	downstreamModules  []string
	downstreamFilePath string
	upstreamCSV        string
	upstreamModules    []string
	upstreamFilePath   string
}

// buildView applies the requested graph transforms in the order fixed by
// the design: namespace elision/retention, then orphan filtering, then the
// reachability query (if any), then --show-all's restrict-vs-highlight
// choice. When both a downstream and an upstream root set are given, the
// effective set is their intersection. isReachability reports whether a
// query (as opposed to the raw full graph) was requested, which gates
// --format list.
func buildView(result *pipeline.Result, req viewRequest) (graph.View, bool, error) {
	g := result.Graph
	if !req.includeNamespaces {
		elided, err := graph.ElideNamespaces(g)
		if err != nil {
			return graph.View{}, false, err
		}
		g = elided
	}
	if !req.includeOrphans {
		g = graph.FilterOrphans(g)
	}

	downRoots, err := collectRoots(req.downstreamCSV, req.downstreamModules, req.downstreamFilePath, result)
	if err != nil {
		return graph.View{}, false, err
	}
	upRoots, err := collectRoots(req.upstreamCSV, req.upstreamModules, req.upstreamFilePath, result)
	if err != nil {
		return graph.View{}, false, err
	}

	isReachability := len(downRoots) > 0 || len(upRoots) > 0
	if !isReachability {
		return graph.View{Graph: g}, false, nil
	}

	var maxRank *int
	if req.maxRank >= 0 {
		m := req.maxRank
		maxRank = &m
	}

	var distances map[string]int
	switch {
	case len(downRoots) > 0 && len(upRoots) > 0:
		down, derr := graph.Reachability(g, downRoots, graph.DirectionDownstream, maxRank)
		if derr != nil {
			return graph.View{}, false, derr
		}
		up, uerr := graph.Reachability(g, upRoots, graph.DirectionUpstream, maxRank)
		if uerr != nil {
			return graph.View{}, false, uerr
		}
		distances = graph.Intersect(down, up)
	case len(downRoots) > 0:
		distances, err = graph.Reachability(g, downRoots, graph.DirectionDownstream, maxRank)
	case len(upRoots) > 0:
		distances, err = graph.Reachability(g, upRoots, graph.DirectionUpstream, maxRank)
	}
	if err != nil {
		return graph.View{}, false, err
	}

	if req.showAll {
		highlighted := make(map[string]bool, len(distances))
		for name := range distances {
			highlighted[name] = true
		}
		return graph.View{Graph: g, Highlighted: highlighted}, true, nil
	}

	sub, err := graph.Induced(g, distances)
	if err != nil {
		return graph.View{}, false, err
	}
	return graph.View{Graph: sub}, true, nil
}

func collectRoots(csv string, repeated []string, filePath string, result *pipeline.Result) ([]string, error) {
	var raw []string
	raw = append(raw, splitCSV(csv)...)
	raw = append(raw, repeated...)
	fromFile, err := readRootList(filePath)
	if err != nil {
		return nil, err
	}
	raw = append(raw, fromFile...)
	if len(raw) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, r := range raw {
		name, err := resolveRootInput(r, result.Files, result.Layout.ProjectRoot)
		if err != nil {
			return nil, err
		}
		if !result.Graph.HasNode(name) {
			return nil, errs.BadInput(r, "root does not name a known module or script")
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

func renderOutput(format string, v graph.View, isReachability bool, cfg serialize.Config) (string, error) {
	switch format {
	case "dot":
		return serialize.DOT(v), nil
	case "mermaid":
		return serialize.Mermaid(v), nil
	case "list":
		return serialize.List(v, isReachability)
	case "cytoscape":
		return jsonPayload(v, cfg)
	default:
		return "", errs.BadInput(format, "unknown --format value")
	}
}
