package backend

import (
	"context"
	"net/http"
	"net/url"
)

// CreateOrder starts checkout. idempotencyKey is forwarded so a double
// submit does not open two payment sessions.
func (c *Client) CreateOrder(ctx context.Context, token, idempotencyKey string, in OrderRequest) (*CheckoutSession, error) {
	var out CheckoutSession
	req := request{
		method: http.MethodPost,
		path:   "/user/orders/create",
		token:  token,
		body:   in,
	}
	if idempotencyKey != "" {
		req.header = http.Header{"Idempotency-Key": {idempotencyKey}}
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context, token string, p PageRequest) (Page[Order], error) {
	var out Page[Order]
	if err := c.get(ctx, token, "/user/orders/my-orders", p.values(), &out); err != nil {
		return Page[Order]{}, err
	}
	if out.Content == nil {
		out.Content = []Order{}
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, token string, id int64) (*Order, error) {
	var o Order
	if err := c.get(ctx, token, pathf("/user/orders/%d", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ConfirmDelivery(ctx context.Context, token string, id int64) error {
	return c.send(ctx, http.MethodPut, token, pathf("/user/orders/%d/confirm-delivery", id), nil, nil)
}

// ConfirmPayment resolves a checkout session into the paid order.
func (c *Client) ConfirmPayment(ctx context.Context, token, sessionID string) (*Order, error) {
	var o Order
	q := url.Values{"sessionId": {sessionID}}
	if err := c.get(ctx, token, "/user/payments/confirm", q, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
