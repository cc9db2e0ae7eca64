// Package serialize holds the four deterministic emitters (component G):
// DOT, Mermaid, list, and the structured viewer payload. Every emitter is a
// pure function of (graph, flags): two runs on identical inputs produce
// byte-identical output.
package serialize

import "strings"

// Config travels alongside the graph for the viewer payload, per §3.
type Config struct {
	IncludeOrphans     bool
	IncludeNamespaces  bool
	HighlightedModules []string // not read by Payload, which derives highlighted_modules from View.Highlighted
}

func sanitizeID(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}
