package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

func (c *Client) listBooks(ctx context.Context, path string, q url.Values) ([]Book, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "", path, q, &raw); err != nil {
		return nil, err
	}
	return decodeList[Book](raw)
}

func (c *Client) PublicBooks(ctx context.Context) ([]Book, error) {
	return c.listBooks(ctx, "/public/books", nil)
}

func (c *Client) PublicBook(ctx context.Context, id int64) (*Book, error) {
	var b Book
	if err := c.get(ctx, "", pathf("/public/books/%d", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) PublicGenres(ctx context.Context) ([]Genre, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "", "/public/books/genres", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Genre](raw)
}

func (c *Client) BooksByGenre(ctx context.Context, genreID int64) ([]Book, error) {
	return c.listBooks(ctx, pathf("/public/books/genres/%d", genreID), nil)
}

func (c *Client) PublicTags(ctx context.Context) ([]Tag, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "", "/public/books/tags", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Tag](raw)
}

func (c *Client) BooksByTag(ctx context.Context, tagID int64) ([]Book, error) {
	return c.listBooks(ctx, pathf("/public/books/tags/%d", tagID), nil)
}

// BooksByTagName resolves a tag by its display name (case-insensitive).
// An unknown tag yields an empty list, not an error.
func (c *Client) BooksByTagName(ctx context.Context, name string) ([]Book, error) {
	tags, err := c.PublicTags(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(name)
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t.Name), want) {
			return c.BooksByTag(ctx, t.TagID)
		}
	}
	return []Book{}, nil
}

func (c *Client) SearchBooks(ctx context.Context, title string) ([]Book, error) {
	return c.listBooks(ctx, "/public/books/search", url.Values{"title": {title}})
}

func (c *Client) SmartSearch(ctx context.Context, query string) ([]Book, error) {
	return c.listBooks(ctx, "/public/books/smart-search", url.Values{"query": {query}})
}

// DiscountBanners lists active discounts for the home carousel.
func (c *Client) DiscountBanners(ctx context.Context) ([]Discount, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "", "/public/books/discounts", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Discount](raw)
}

// Chatbot nodes are passed through untouched.

func (c *Client) ChatStart(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.get(ctx, "", "/public/chatbot/start", nil, &raw)
	return raw, err
}

func (c *Client) ChatNode(ctx context.Context, id int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.get(ctx, "", pathf("/public/chatbot/node/%d", id), nil, &raw)
	return raw, err
}

func (c *Client) ChatNodes(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.get(ctx, "", "/public/chatbot/all", nil, &raw)
	return raw, err
}
