package main

import (
	"encoding/json"

	"deptree/internal/errs"
	"deptree/internal/graph"
	"deptree/internal/serialize"
)

func jsonPayload(v graph.View, cfg serialize.Config) (string, error) {
	payload := serialize.Payload(v, cfg)
	out, err := json.Marshal(payload)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeInternal, "marshaling viewer payload")
	}
	return string(out) + "\n", nil
}
