package serialize

import (
	"strings"

	"deptree/internal/errs"
	"deptree/internal/graph"
)

// List renders one node name per line, sorted, newline-terminated. It is
// only valid for reachability queries; requesting it for the raw full graph
// is BadInput, per §4.G.
func List(v graph.View, isReachabilityQuery bool) (string, error) {
	if !isReachabilityQuery {
		return "", errs.New(errs.CodeBadInput, "list format requires --upstream or --downstream")
	}
	names := v.Graph.NodeNames()
	if len(names) == 0 {
		return "", nil
	}
	return strings.Join(names, "\n") + "\n", nil
}
