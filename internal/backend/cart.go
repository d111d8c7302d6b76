package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// enrichLimit bounds the per-request book detail fan-out.
const enrichLimit = 8

func (c *Client) CartItems(ctx context.Context, token string) ([]CartItem, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, "/user/cart/items", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[CartItem](raw)
}

// EnrichedCart fetches the cart, then each line's book details concurrently.
// A failed detail fetch keeps the bare line.
func (c *Client) EnrichedCart(ctx context.Context, token string) ([]CartItem, error) {
	items, err := c.CartItems(ctx, token)
	if err != nil {
		return nil, err
	}
	books := c.bookDetails(ctx, cartBookIDs(items))
	for i := range items {
		if b, ok := books[items[i].BookID]; ok {
			items[i].Merge(b)
		}
	}
	return items, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, bookID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	body := map[string]any{"bookId": bookID, "quantity": quantity}
	return c.send(ctx, http.MethodPost, token, "/user/cart/add", body, nil)
}

func (c *Client) IncreaseCartItem(ctx context.Context, token string, cartItemID int64) error {
	return c.send(ctx, http.MethodPost, token, pathf("/user/cart/increase/%d", cartItemID), nil, nil)
}

func (c *Client) DecreaseCartItem(ctx context.Context, token string, cartItemID int64) error {
	return c.send(ctx, http.MethodPost, token, pathf("/user/cart/decrease/%d", cartItemID), nil, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token string, cartItemID int64) error {
	return c.send(ctx, http.MethodDelete, token, pathf("/user/cart/remove/%d", cartItemID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodDelete, token, "/user/cart/clear", nil, nil)
}

func (c *Client) Wishlist(ctx context.Context, token string) ([]WishlistItem, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, "/user/wishlist", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[WishlistItem](raw)
}

// EnrichedWishlist attaches book details to each entry, like EnrichedCart.
func (c *Client) EnrichedWishlist(ctx context.Context, token string) ([]WishlistItem, error) {
	items, err := c.Wishlist(ctx, token)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it.Book == nil {
			ids = append(ids, it.BookID)
		}
	}
	books := c.bookDetails(ctx, ids)
	for i := range items {
		if b, ok := books[items[i].BookID]; ok {
			items[i].Book = &b
		}
	}
	return items, nil
}

func (c *Client) AddToWishlist(ctx context.Context, token string, bookID int64) error {
	return c.send(ctx, http.MethodPost, token, pathf("/user/wishlist/%d", bookID), nil, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token string, bookID int64) error {
	return c.send(ctx, http.MethodDelete, token, pathf("/user/wishlist/%d", bookID), nil, nil)
}

func (c *Client) ClearWishlist(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodDelete, token, "/user/wishlist/clear", nil, nil)
}

func cartBookIDs(items []CartItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.BookID)
	}
	return ids
}

// bookDetails fetches public book records concurrently, deduplicating ids.
// Failures are logged and skipped.
func (c *Client) bookDetails(ctx context.Context, ids []int64) map[int64]Book {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id <= 0 {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	results := make([]*Book, len(uniq))
	var g errgroup.Group
	g.SetLimit(enrichLimit)
	for i, id := range uniq {
		g.Go(func() error {
			b, err := c.PublicBook(ctx, id)
			if err != nil {
				c.log.Warn("book details unavailable", zap.Int64("book_id", id), zap.Error(err))
				return nil
			}
			results[i] = b
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[int64]Book, len(uniq))
	for i, b := range results {
		if b != nil {
			out[uniq[i]] = *b
		}
	}
	return out
}
