// Package treesitter is the concrete AST provider for Python: it wraps
// github.com/tree-sitter/go-tree-sitter and the Python grammar binding
// behind astimport.Provider.
package treesitter

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"deptree/internal/errs"
)

type PythonProvider struct {
	language *sitter.Language
}

func NewPythonProvider() *PythonProvider {
	return &PythonProvider{language: sitter.NewLanguage(tree_sitter_python.Language())}
}

// Parse implements astimport.Provider. A grammar-level parse failure comes
// back as a ParseFailure; the caller recovers by skipping the file. The
// returned release func closes the underlying tree once the caller is done
// walking root.
func (p *PythonProvider) Parse(path string, source []byte) (*sitter.Node, func(), error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.language); err != nil {
		return nil, nil, errs.Wrap(err, errs.CodeInternal, "failed to set python grammar")
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, errs.New(errs.CodeParseFailure, fmt.Sprintf("tree-sitter returned no tree for %s", path))
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, nil, errs.New(errs.CodeParseFailure, fmt.Sprintf("tree-sitter produced an empty tree for %s", path))
	}
	return root, tree.Close, nil
}
