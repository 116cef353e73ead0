package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// maxListPages bounds All when the backend keeps reporting more data.
const maxListPages = 100

// Resource is the typed CRUD surface of one backend collection.
type Resource[T any] struct {
	client *HttpClient
	path   string
}

func NewResource[T any](c *HttpClient, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

func (r *Resource[T]) Path() string { return r.path }

// List fetches one page. The backend counts pages from 1.
func (r *Resource[T]) List(ctx context.Context, page, rows int) (*Page[T], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("rows", strconv.Itoa(rows))

	resp, err := r.client.GET(ctx, r.path, q)
	if err != nil {
		return nil, err
	}

	var env listEnvelope[T]
	if err := resp.DecodeJSON(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", r.path, err)
	}
	return &Page[T]{Entries: env.Content.Entries, TotalData: env.Content.TotalData}, nil
}

// All walks the pages until totalData entries are collected. Short pages do
// not end the walk: the backend may cap rows below what was asked.
func (r *Resource[T]) All(ctx context.Context, rows int) ([]T, error) {
	var all []T
	for page := 1; page <= maxListPages; page++ {
		p, err := r.List(ctx, page, rows)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Entries...)
		if len(p.Entries) == 0 || len(all) >= p.TotalData {
			break
		}
	}
	return all, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	resp, err := r.client.GET(ctx, r.path+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var env singleEnvelope[T]
	if err := resp.DecodeJSON(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	return &env.Content, nil
}

func (r *Resource[T]) Create(ctx context.Context, body any) (*MutationResult, error) {
	resp, err := r.client.POST(ctx, r.path, body)
	if err != nil {
		return nil, err
	}
	return decodeMutation(resp)
}

func (r *Resource[T]) Update(ctx context.Context, id string, body any) (*MutationResult, error) {
	resp, err := r.client.PUT(ctx, r.path+"/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	return decodeMutation(resp)
}

// Delete removes ids in one call; they travel as a JSON array in the query.
func (r *Resource[T]) Delete(ctx context.Context, ids []string) (*MutationResult, error) {
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ids: %w", err)
	}
	q := url.Values{}
	q.Set("ids", string(encoded))

	resp, err := r.client.DELETE(ctx, r.path, q)
	if err != nil {
		return nil, err
	}
	return decodeMutation(resp)
}
