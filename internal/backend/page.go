package backend

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

// PageRequest uses the backend's 0-based page numbers.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) values() url.Values {
	q := url.Values{}
	if p.Page < 0 {
		p.Page = 0
	}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	return q
}

type Page[T any] struct {
	Content          []T `json:"content"`
	TotalPages       int `json:"totalPages"`
	TotalElements    int `json:"totalElements"`
	Size             int `json:"size"`
	Number           int `json:"number"`
	NumberOfElements int `json:"numberOfElements"`
}

// EmptyPage is what list screens fall back to when the backend fails.
func EmptyPage[T any](size int) Page[T] {
	return Page[T]{Content: []T{}, Size: size}
}

// Slice paginates items locally; page is 0-based.
func Slice[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = len(items)
		if size == 0 {
			size = 1
		}
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	pages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	content := make([]T, end-start)
	copy(content, items[start:end])
	return Page[T]{
		Content:          content,
		TotalPages:       pages,
		TotalElements:    total,
		Size:             size,
		Number:           page,
		NumberOfElements: len(content),
	}
}

// decodeList accepts either a bare JSON array or a page object and returns
// the items. null and empty bodies decode to an empty slice.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '{' {
		var p Page[T]
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p.Content == nil {
			return []T{}, nil
		}
		return p.Content, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// decodePage is decodeList for screens that need paging. A page object is
// taken as-is. A bare array that ignored the requested size is paginated
// locally; one that honoured it offers a next page while it comes back full.
func decodePage[T any](raw json.RawMessage, req PageRequest) (Page[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var p Page[T]
		if err := json.Unmarshal(raw, &p); err != nil {
			return Page[T]{}, err
		}
		if p.Content == nil {
			p.Content = []T{}
		}
		return p, nil
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return Page[T]{}, err
	}
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 || len(items) > req.Size {
		return Slice(items, req.Page, req.Size), nil
	}
	pages := req.Page + 1
	if len(items) == req.Size {
		pages++
	}
	return Page[T]{
		Content:          items,
		TotalPages:       pages,
		TotalElements:    req.Page*req.Size + len(items),
		Size:             req.Size,
		Number:           req.Page,
		NumberOfElements: len(items),
	}, nil
}
