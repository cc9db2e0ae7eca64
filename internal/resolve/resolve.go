// Package resolve turns raw import records into graph edges, honoring
// relative-import levels and the module/submodule candidate rules of
// component D.
package resolve

import (
	"strings"

	"deptree/internal/astimport"
	"deptree/internal/enumerate"
	"deptree/internal/graph"
)

// Index is the lookup table the resolver needs: which canonical names exist,
// and which files are package inits (for relative-import base computation).
type Index struct {
	byName map[string]enumerate.SourceFile
}

func NewIndex(files []enumerate.SourceFile) *Index {
	idx := &Index{byName: make(map[string]enumerate.SourceFile, len(files))}
	for _, f := range files {
		idx.byName[f.Name] = f
	}
	return idx
}

func (idx *Index) Exists(name string) bool {
	_, ok := idx.byName[name]
	return ok
}

// Resolve returns the edge raw resolves to from its From file: zero or one
// edge, the first existing candidate winning.
// Self-imports and unresolved imports are dropped here, never surfaced as
// errors — external dependencies are simply not modeled.
func Resolve(raw astimport.RawImport, idx *Index) []graph.Edge {
	from, ok := idx.byName[raw.From]
	if !ok {
		return nil
	}

	switch raw.Kind {
	case astimport.Absolute:
		target := firstExisting(idx, descendingPrefixes(raw.Prefix))
		return dropSelfAndMissing(raw.From, target)

	case astimport.FromImport:
		base, ok := relativeBase(from, raw.Level, raw.Prefix, idx)
		if !ok {
			return nil // underflowing relative import: ill-formed, ignored, no error
		}
		if raw.Name == "*" {
			return dropSelfAndMissing(raw.From, firstExisting(idx, []string{base}))
		}
		submodule := joinDotted(base, raw.Name)
		target := firstExisting(idx, []string{submodule, base})
		return dropSelfAndMissing(raw.From, target)
	}
	return nil
}

// relativeBase computes the dotted prefix a FromImport record resolves
// against, per §4.D step 1: for level>0, start from F's package (F's parent
// if F is a regular module, F itself if F is a package init), drop the last
// level-1 components, then append the record's own prefix if any.
func relativeBase(from enumerate.SourceFile, level int, recordPrefix string, idx *Index) (string, bool) {
	if level == 0 {
		if recordPrefix == "" {
			return "", false
		}
		return recordPrefix, true
	}

	var pkg []string
	if from.IsPackageInit {
		pkg = splitDotted(from.Name)
	} else if from.Parent != "" {
		pkg = splitDotted(from.Parent)
	} // else: a top-level module or script has no package; pkg stays empty

	drop := level - 1
	if drop > len(pkg) {
		return "", false // underflow
	}
	pkg = pkg[:len(pkg)-drop]

	if recordPrefix != "" {
		pkg = append(pkg, splitDotted(recordPrefix)...)
	}
	if len(pkg) == 0 {
		return "", false
	}
	return strings.Join(pkg, "."), true
}

// descendingPrefixes returns "a.b.c", "a.b", "a" for input "a.b.c".
func descendingPrefixes(dotted string) []string {
	parts := splitDotted(dotted)
	out := make([]string, 0, len(parts))
	for i := len(parts); i > 0; i-- {
		out = append(out, strings.Join(parts[:i], "."))
	}
	return out
}

func firstExisting(idx *Index, candidates []string) string {
	for _, c := range candidates {
		if c != "" && idx.Exists(c) {
			return c
		}
	}
	return ""
}

func dropSelfAndMissing(from, target string) []graph.Edge {
	if target == "" || target == from {
		return nil
	}
	return []graph.Edge{{Source: from, Target: target}}
}

func joinDotted(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func splitDotted(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
