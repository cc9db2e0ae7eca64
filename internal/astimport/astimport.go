// Package astimport turns a single source file into raw import records by
// delegating parsing to an injected Provider (the external AST seam) and
// walking the resulting tree for Import/ImportFrom statements, including
// ones nested in function, class, conditional, loop, with, try, and match
// bodies.
package astimport

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Kind int

const (
	Absolute Kind = iota
	FromImport
)

// RawImport is one extracted import record, per spec §4.C. From is the
// importing file's canonical name: the caller passes it to Extract (the
// extractor has no notion of the enumerator's canonical names) and the walk
// stamps it on every record.
type RawImport struct {
	Kind   Kind
	Prefix string // dotted prefix; full "a.b.c" for Absolute, the "from" part for FromImport
	Level  int    // leading-dot count for FromImport; always 0 for Absolute
	Name   string // FromImport only; "" for Absolute; may be "*"
	From   string
	Line   int
	Column int
}

// Provider is the abstract AST seam: parse(path, source) -> AST_or_error.
// The core treats the returned node as opaque beyond the tree-sitter
// Kind()/Child()/ChildCount(), StartByte()/EndByte() and StartPosition()
// surface used by Extract. release must be
// called once the node is no longer needed; it may be nil.
type Provider interface {
	Parse(path string, source []byte) (root *sitter.Node, release func(), err error)
}

// Extract parses source with provider and returns every raw import record
// found, tagged with fromName (the importing file's canonical node name).
func Extract(provider Provider, path string, source []byte, fromName string) ([]RawImport, error) {
	root, release, err := provider.Parse(path, source)
	if release != nil {
		defer release()
	}
	if err != nil {
		return nil, err
	}
	var out []RawImport
	walk(root, source, fromName, &out)
	return out, nil
}

// walk recurses into every child unconditionally, so import statements
// nested inside function/class bodies, if/elif/else, while, for/else,
// with, try/except/else/finally, and match/case are all found without
// needing a statement-kind allowlist (mirroring the reference visitor's
// coverage of compound-statement bodies).
func walk(node *sitter.Node, source []byte, fromName string, out *[]RawImport) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "import_statement":
		extractAbsolute(node, source, fromName, out)
	case "import_from_statement":
		extractFrom(node, source, fromName, out)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), source, fromName, out)
	}
}

func extractAbsolute(node *sitter.Node, source []byte, fromName string, out *[]RawImport) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			*out = append(*out, RawImport{
				Kind:   Absolute,
				Prefix: text(child, source),
				From:   fromName,
				Line:   int(child.StartPosition().Row) + 1,
				Column: int(child.StartPosition().Column) + 1,
			})
		case "aliased_import":
			if name := firstChildOfKinds(child, source, "dotted_name", "identifier"); name != "" {
				*out = append(*out, RawImport{
					Kind:   Absolute,
					Prefix: name,
					From:   fromName,
					Line:   int(child.StartPosition().Row) + 1,
					Column: int(child.StartPosition().Column) + 1,
				})
			}
		}
	}
}

func extractFrom(node *sitter.Node, source []byte, fromName string, out *[]RawImport) {
	prefix := ""
	level := 0
	var names []string

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "relative_import":
			level, prefix = parseRelative(child, source)
		case "dotted_name":
			if prefix == "" && level == 0 {
				prefix = text(child, source)
			}
		case "wildcard_import":
			names = append(names, "*")
		case "import_list":
			collectNames(child, source, &names)
		case "aliased_import":
			if n := firstChildOfKinds(child, source, "dotted_name", "identifier"); n != "" {
				names = append(names, n)
			}
		}
	}

	if len(names) == 0 {
		foundImportKw := false
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "import" {
				foundImportKw = true
				continue
			}
			if foundImportKw {
				switch child.Kind() {
				case "identifier", "dotted_name":
					names = append(names, text(child, source))
				case "wildcard_import":
					names = append(names, "*")
				}
			}
		}
	}

	line := int(node.StartPosition().Row) + 1
	col := int(node.StartPosition().Column) + 1
	for _, name := range names {
		*out = append(*out, RawImport{
			Kind:   FromImport,
			Prefix: prefix,
			Level:  level,
			Name:   name,
			From:   fromName,
			Line:   line,
			Column: col,
		})
	}
}

// parseRelative splits a relative_import node's text ("...pkg" or "...")
// into its leading-dot level and the remaining dotted prefix, if any.
func parseRelative(node *sitter.Node, source []byte) (level int, prefix string) {
	raw := text(node, source)
	i := 0
	for i < len(raw) && raw[i] == '.' {
		i++
	}
	return i, raw[i:]
}

func collectNames(node *sitter.Node, source []byte, names *[]string) {
	switch node.Kind() {
	case "identifier":
		*names = append(*names, text(node, source))
		return
	case "aliased_import":
		if n := firstChildOfKinds(node, source, "dotted_name", "identifier"); n != "" {
			*names = append(*names, n)
		}
		return
	case "wildcard_import":
		*names = append(*names, "*")
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectNames(node.Child(i), source, names)
	}
}

func firstChildOfKinds(node *sitter.Node, source []byte, kinds ...string) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		for _, k := range kinds {
			if child.Kind() == k {
				return text(child, source)
			}
		}
	}
	return ""
}

func text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
