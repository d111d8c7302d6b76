package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Resource is the generic CRUD wrapper for one backend entity path.
type Resource[T any] struct {
	c    *Client
	path string
}

func NewResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{c: c, path: path}
}

func (r Resource[T]) Path() string { return r.path }

// List returns all entities; the backend may answer with an array or a page.
func (r Resource[T]) List(ctx context.Context, token string) ([]T, error) {
	var raw json.RawMessage
	if err := r.c.get(ctx, token, r.path, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("backend GET %s: decode list: %w", r.path, err)
	}
	return items, nil
}

func (r Resource[T]) Page(ctx context.Context, token string, p PageRequest) (Page[T], error) {
	var out Page[T]
	if err := r.c.get(ctx, token, r.path, p.values(), &out); err != nil {
		return Page[T]{}, err
	}
	if out.Content == nil {
		out.Content = []T{}
	}
	return out, nil
}

func (r Resource[T]) Get(ctx context.Context, token string, id int64) (*T, error) {
	out := new(T)
	if err := r.c.get(ctx, token, fmt.Sprintf("%s/%d", r.path, id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r Resource[T]) Create(ctx context.Context, token string, in any) (*T, error) {
	out := new(T)
	if err := r.c.send(ctx, http.MethodPost, token, r.path, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r Resource[T]) Update(ctx context.Context, token string, id int64, in any) (*T, error) {
	out := new(T)
	if err := r.c.send(ctx, http.MethodPut, token, fmt.Sprintf("%s/%d", r.path, id), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r Resource[T]) Delete(ctx context.Context, token string, id int64) error {
	return r.c.send(ctx, http.MethodDelete, token, fmt.Sprintf("%s/%d", r.path, id), nil, nil)
}
