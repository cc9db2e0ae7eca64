// Package enumerate walks the resolved layout and classifies every file and
// directory into Module, Script, or NamespacePackage records (component B).
package enumerate

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"deptree/internal/errs"
	"deptree/internal/graph"
	"deptree/internal/layout"
	"deptree/internal/obs"
)

// SourceFile is one discovered file, ready to be fed to the import
// extractor. IsPackageInit distinguishes a package's __init__.py (whose
// canonical name already denotes the enclosing package) from a regular
// module file, which the resolver needs for relative-import-level math.
type SourceFile struct {
	Name          string
	Kind          graph.NodeKind
	Parent        string
	Path          string
	IsPackageInit bool
	IsScript      bool
}

var defaultExcludeNames = []string{
	"venv", ".venv", "__pycache__", ".pytest_cache", ".mypy_cache",
	".tox", ".git", "eggs", "build", "dist", "node_modules",
}

func isDefaultExcluded(name string) bool {
	for _, pattern := range defaultExcludeNames {
		if name == pattern {
			return true
		}
	}
	if strings.HasPrefix(name, "venv") {
		return true
	}
	if strings.HasSuffix(name, ".egg-info") || strings.HasSuffix(name, ".egg") {
		return true
	}
	return false
}

// Enumerate walks l.SourceRoot for modules and namespace packages, then
// walks l.ScriptRoots (skipping the source root's own subtree) for loose
// scripts, applying excludeScripts glob patterns to script discovery only.
func Enumerate(l layout.Layout, excludeScripts []string, logger *slog.Logger, metrics *obs.Metrics) ([]SourceFile, error) {
	if logger == nil {
		logger = obs.NoopLogger()
	}

	compiled := make([]glob.Glob, 0, len(excludeScripts))
	for _, pattern := range excludeScripts {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errs.BadInput(pattern, "invalid --exclude-scripts glob pattern")
		}
		compiled = append(compiled, g)
	}

	var files []SourceFile
	indexByName := make(map[string]int)

	addModule := func(sf SourceFile) {
		if idx, ok := indexByName[sf.Name]; ok {
			// __init__.py and a directory-level namespace detection can race
			// to declare the same name; a package init always wins.
			if sf.IsPackageInit && !files[idx].IsPackageInit {
				files[idx] = sf
			}
			return
		}
		files = append(files, sf)
		indexByName[sf.Name] = len(files) - 1
	}

	if err := walkSourceRoot(l.SourceRoot, metrics, addModule); err != nil {
		return nil, err
	}

	for _, root := range l.ScriptRoots {
		if err := walkScripts(root, l.ProjectRoot, l.SourceRoot, compiled, metrics, addModule); err != nil {
			return nil, err
		}
	}

	assignParents(files, indexByName)

	return files, nil
}

func walkSourceRoot(sourceRoot string, metrics *obs.Metrics, add func(SourceFile)) error {
	if _, err := os.Stat(sourceRoot); err != nil {
		return nil // a flat/empty project with no discoverable source root contributes no modules
	}

	return filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != sourceRoot && isDefaultExcluded(d.Name()) {
				return filepath.SkipDir
			}
			if path == sourceRoot {
				return nil
			}
			if hasInitFile(path) {
				return nil // classified via its __init__.py below
			}
			if isNamespacePackage(path) {
				name := dottedFromRoot(path, sourceRoot)
				if name != "" {
					add(SourceFile{Name: name, Kind: graph.KindNamespacePackage, Path: path})
				}
			}
			return nil
		}
		if filepath.Ext(path) != ".py" {
			return nil
		}
		metrics.FileScanned()
		name, isInit := moduleNameFromSourceFile(path, sourceRoot)
		if name == "" {
			return nil
		}
		if isLegacyNamespaceInit(path) {
			add(SourceFile{Name: name, Kind: graph.KindNamespacePackage, Path: filepath.Dir(path)})
			return nil
		}
		add(SourceFile{Name: name, Kind: graph.KindModule, Path: path, IsPackageInit: isInit})
		return nil
	})
}

func walkScripts(root, projectRoot, sourceRoot string, excludes []glob.Glob, metrics *obs.Metrics, add func(SourceFile)) error {
	if _, err := os.Stat(root); err != nil {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == sourceRoot {
			return filepath.SkipDir
		}
		if d.IsDir() {
			if isDefaultExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".py" {
			return nil
		}
		rel, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return nil
		}
		relSlash := filepath.ToSlash(rel)
		for _, g := range excludes {
			if g.Match(relSlash) {
				return nil
			}
		}
		metrics.FileScanned()
		name := dottedFromRoot(path, projectRoot)
		if name == "" {
			return nil
		}
		add(SourceFile{Name: name, Kind: graph.KindScript, Path: path, IsScript: true})
		return nil
	})
}

func hasInitFile(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "__init__.py"))
	return err == nil
}

// isNamespacePackage reports whether dir (which has no __init__.py) has any
// .py descendant, per §4.B's native-namespace-package rule.
func isNamespacePackage(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return nil
		}
		if d.IsDir() {
			if path != dir && isDefaultExcluded(d.Name()) {
				return filepath.SkipDir
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

// isLegacyNamespaceInit reports whether path (an __init__.py) is dominated
// by the legacy pkgutil/pkg_resources namespace-extension idiom.
func isLegacyNamespaceInit(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(data)
	return (strings.Contains(content, "pkgutil") && strings.Contains(content, "extend_path(")) ||
		strings.Contains(content, "pkg_resources.declare_namespace")
}

// moduleNameFromSourceFile computes the dotted name for a .py file under
// sourceRoot, collapsing __init__.py into its containing package's name.
func moduleNameFromSourceFile(path, sourceRoot string) (name string, isInit bool) {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil {
		return "", false
	}
	parts := splitPath(rel)
	if len(parts) == 0 {
		return "", false
	}
	last := len(parts) - 1
	parts[last] = strings.TrimSuffix(parts[last], ".py")
	if parts[last] == "__init__" {
		parts = parts[:last]
		isInit = true
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "."), isInit
}

func dottedFromRoot(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	parts := splitPath(rel)
	if len(parts) == 0 {
		return ""
	}
	last := len(parts) - 1
	parts[last] = strings.TrimSuffix(parts[last], ".py")
	return strings.Join(parts, ".")
}

func splitPath(rel string) []string {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}

// assignParents fills in Parent for every discovered node whose dotted
// prefix is itself a discovered node, per §4.B.
func assignParents(files []SourceFile, indexByName map[string]int) {
	for i := range files {
		name := files[i].Name
		dot := strings.LastIndex(name, ".")
		if dot < 0 {
			continue
		}
		parentName := name[:dot]
		if idx, ok := indexByName[parentName]; ok && files[idx].Kind != graph.KindScript {
			files[i].Parent = parentName
		}
	}
}
