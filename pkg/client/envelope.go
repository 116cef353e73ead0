package client

import (
	"encoding/json"
	"fmt"
)

type listEnvelope[T any] struct {
	Content struct {
		Entries   []T `json:"entries"`
		TotalData int `json:"totalData"`
	} `json:"content"`
}

type singleEnvelope[T any] struct {
	Content T `json:"content"`
}

// Page is one backend list page.
type Page[T any] struct {
	Entries   []T
	TotalData int
}

// MutationResult is the {message, content} answer to POST, PUT and DELETE.
type MutationResult struct {
	Message string          `json:"message"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Decode unmarshals Content into target.
func (m *MutationResult) Decode(target any) error {
	if len(m.Content) == 0 || string(m.Content) == "null" {
		return fmt.Errorf("mutation result has no content")
	}
	return json.Unmarshal(m.Content, target)
}

func decodeMutation(resp *Response) (*MutationResult, error) {
	var result MutationResult
	if len(resp.Body) == 0 {
		return &result, nil
	}
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("failed to decode mutation response: %w", err)
	}
	return &result, nil
}
