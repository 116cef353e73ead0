package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decode converts a flow's input map into a typed input. Unknown keys are
// rejected so a misspelled field surfaces instead of silently dropping.
func decode[T any](input map[string]any) (*T, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	out := new(T)
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return out, nil
}

// toMap is the inverse of decode, used by callers that build inputs in Go.
func toMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
