// Package pipeline wires components A through E into the single synchronous
// run described by the concurrency model: layout detection, enumeration,
// per-file AST extraction, resolution, and graph build. Transforms and
// serialization are applied to the built graph by the caller.
package pipeline

import (
	"log/slog"
	"os"

	"deptree/internal/astimport"
	"deptree/internal/enumerate"
	"deptree/internal/errs"
	"deptree/internal/graph"
	"deptree/internal/layout"
	"deptree/internal/obs"
	"deptree/internal/resolve"
)

// Options configures one analysis run. ExcludeScripts and SourceRoot are the
// only inputs carried from the CLI into the core; everything else
// (reachability, format) is applied to the built graph afterward.
type Options struct {
	ProjectRoot    string
	SourceRoot     string
	ExcludeScripts []string
	Logger         *slog.Logger
	Metrics        *obs.Metrics
	AST            astimport.Provider
}

// Result is the built graph plus the enumerated files, kept around so
// resolveRootInput in the CLI layer can map a file path back to a canonical
// node name.
type Result struct {
	Layout layout.Layout
	Files  []enumerate.SourceFile
	Graph  *graph.Graph
}

// Run executes components A-E: layout, enumeration, extraction, resolution,
// and graph construction. Per-file ParseFailure/IoFailure are logged and the
// file is skipped, per the error-handling design; only BadInput (malformed
// CLI input) and Internal (programming-error) surface as returned errors.
func Run(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = obs.NoopLogger()
	}
	metrics := opts.Metrics // a nil *Metrics records nothing
	ast := opts.AST
	if ast == nil {
		return nil, errs.New(errs.CodeInternal, "pipeline.Run requires an AST provider")
	}

	l, err := layout.Detect(opts.ProjectRoot, opts.SourceRoot)
	if err != nil {
		return nil, err
	}

	files, err := enumerate.Enumerate(l, opts.ExcludeScripts, logger, metrics)
	if err != nil {
		return nil, err
	}

	idx := resolve.NewIndex(files)
	b := graph.NewBuilder()
	for _, f := range files {
		if err := b.AddNode(graph.Node{
			Name:   f.Name,
			Kind:   f.Kind,
			Parent: f.Parent,
			Origin: f.Path,
		}); err != nil {
			return nil, err
		}
	}

	for _, f := range files {
		if f.Kind == graph.KindNamespacePackage {
			continue // a namespace package has no single file to extract imports from
		}
		source, err := os.ReadFile(f.Path)
		if err != nil {
			logger.Warn("skipping unreadable source file", "path", f.Path, "err", err)
			metrics.RecordParseFailure()
			continue
		}
		raws, err := astimport.Extract(ast, f.Path, source, f.Name)
		if err != nil {
			logger.Warn("skipping file with unparseable syntax", "path", f.Path, "err", err)
			metrics.RecordParseFailure()
			continue
		}
		for _, raw := range raws {
			for _, e := range resolve.Resolve(raw, idx) {
				b.AddEdge(e.Source, e.Target)
			}
		}
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	metrics.GraphSize(len(g.NodeNames()), len(g.Edges()))

	return &Result{Layout: l, Files: files, Graph: g}, nil
}
