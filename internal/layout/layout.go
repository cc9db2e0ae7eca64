// Package layout implements source-root / script-root discovery: the first
// stage of the pipeline (component A).
package layout

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"deptree/internal/errs"
)

// Layout is the resolved project shape: one source root and the script
// roots (absolute directories; Detect returns just the project root) to
// scan for loose scripts.
type Layout struct {
	ProjectRoot string
	SourceRoot  string
	ScriptRoots []string
}

// Detect resolves the layout per §4.A's stop-at-first-success order.
// explicitSourceRoot, if non-empty, is used verbatim (the --source-root
// flag).
func Detect(projectRoot string, explicitSourceRoot string) (Layout, error) {
	info, err := os.Stat(projectRoot)
	if err != nil || !info.IsDir() {
		return Layout{}, errs.BadInput(projectRoot, "project root does not exist or is not a directory")
	}
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return Layout{}, errs.Wrap(err, errs.CodeBadInput, "could not resolve project root to an absolute path")
	}

	sourceRoot := resolveSourceRoot(absRoot, explicitSourceRoot)

	// A single script root, the project root, covers every sibling of the
	// source root: enumerate.go walks it while skipping the source root's
	// own subtree, which is equivalent to walking each sibling directory.
	return Layout{
		ProjectRoot: absRoot,
		SourceRoot:  sourceRoot,
		ScriptRoots: []string{absRoot},
	}, nil
}

func resolveSourceRoot(projectRoot, explicit string) string {
	if explicit != "" {
		if filepath.IsAbs(explicit) {
			return explicit
		}
		return filepath.Join(projectRoot, explicit)
	}

	if dir, ok := fromProjectMetadata(projectRoot); ok {
		return dir
	}

	for _, candidate := range []string{"src", filepath.Join("lib", "python")} {
		dir := filepath.Join(projectRoot, candidate)
		if hasPythonPackage(dir) {
			return dir
		}
	}

	return projectRoot
}

// fromProjectMetadata consults pyproject.toml's single well-known key,
// tool.setuptools.packages.find.where. Absence, a non-array value, or a
// malformed document all fall through silently.
func fromProjectMetadata(projectRoot string) (string, bool) {
	path := filepath.Join(projectRoot, "pyproject.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var doc struct {
		Tool struct {
			Setuptools struct {
				Packages struct {
					Find struct {
						Where []string `toml:"where"`
					} `toml:"find"`
				} `toml:"packages"`
			} `toml:"setuptools"`
		} `toml:"tool"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return "", false
	}
	if len(doc.Tool.Setuptools.Packages.Find.Where) == 0 {
		return "", false
	}
	dir := filepath.Join(projectRoot, doc.Tool.Setuptools.Packages.Find.Where[0])
	if !hasPythonPackage(dir) {
		return "", false
	}
	return dir, true
}

// hasPythonPackage reports whether dir contains at least one Python package:
// a directory with an init file or a child .py file, searched up to two
// levels deep.
func hasPythonPackage(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	found := false
	depth := map[string]int{dir: 0}
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found {
			return nil
		}
		if path == dir {
			return nil
		}
		parent := filepath.Dir(path)
		level := depth[parent] + 1
		depth[path] = level
		if level > 2 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, err := os.Stat(filepath.Join(path, "__init__.py")); err == nil {
				found = true
			}
			return nil
		}
		if filepath.Ext(path) == ".py" {
			found = true
		}
		return nil
	})
	return found
}
