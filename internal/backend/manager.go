package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

func (c *Client) listOrders(ctx context.Context, token, path string, q url.Values) ([]Order, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, path, q, &raw); err != nil {
		return nil, err
	}
	return decodeList[Order](raw)
}

func (c *Client) UnassignedOrders(ctx context.Context, token string) ([]Order, error) {
	return c.listOrders(ctx, token, "/manager/orders/unassigned", nil)
}

func (c *Client) ManagerOrdersByStatus(ctx context.Context, token string, status OrderStatus, p PageRequest) ([]Order, error) {
	return c.listOrders(ctx, token, pathf("/manager/orders/status/%s", string(status)), p.values())
}

// ManagerOrdersPage is ManagerOrdersByStatus for the paged status screen.
func (c *Client) ManagerOrdersPage(ctx context.Context, token string, status OrderStatus, p PageRequest) (Page[Order], error) {
	return c.orderPage(ctx, token, pathf("/manager/orders/status/%s", string(status)), p)
}

func (c *Client) orderPage(ctx context.Context, token, path string, p PageRequest) (Page[Order], error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, path, p.values(), &raw); err != nil {
		return Page[Order]{}, err
	}
	return decodePage[Order](raw, p)
}

func (c *Client) ManagerMyOrders(ctx context.Context, token string) ([]Order, error) {
	return c.listOrders(ctx, token, "/manager/orders/my-orders", nil)
}

func (c *Client) ManagerProfile(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.get(ctx, token, "/manager/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ManagerStatistics(ctx context.Context, token string, r StatsRange) (*Statistics, error) {
	var s Statistics
	if err := c.get(ctx, token, "/manager/orders/statistics", r.values(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ManagerUpdateOrderStatus(ctx context.Context, token string, id int64, status OrderStatus) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   pathf("/manager/orders/%d/status", id),
		query:  url.Values{"newStatus": {string(status)}},
		token:  token,
	}, nil)
}

func (c *Client) SetDeliveryCost(ctx context.Context, token string, id int64, cost float64) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   pathf("/manager/orders/%d/delivery-cost", id),
		query:  url.Values{"deliveryCost": {strconv.FormatFloat(cost, 'f', -1, 64)}},
		token:  token,
	}, nil)
}

func (c *Client) AssignOrder(ctx context.Context, token string, id int64) error {
	return c.send(ctx, http.MethodPost, token, pathf("/manager/orders/%d/assign", id), nil, nil)
}

// OrdersByStatusFunc fetches one status bucket.
type OrdersByStatusFunc func(ctx context.Context, token string, status OrderStatus, p PageRequest) ([]Order, error)

// CompletedOrders fetches PICKED_UP and DELIVERED concurrently (size*3 each),
// merges them newest first and paginates locally. page is 0-based.
func CompletedOrders(ctx context.Context, fetch OrdersByStatusFunc, token string, page, size int) (Page[Order], error) {
	if size <= 0 {
		size = 10
	}
	req := PageRequest{Page: 0, Size: size * 3}
	var pickedUp, delivered []Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pickedUp, err = fetch(gctx, token, StatusPickedUp, req)
		return err
	})
	g.Go(func() error {
		var err error
		delivered, err = fetch(gctx, token, StatusDelivered, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[Order]{}, err
	}

	all := make([]Order, 0, len(pickedUp)+len(delivered))
	all = append(all, pickedUp...)
	all = append(all, delivered...)
	sortNewestFirst(all)
	return Slice(all, page, size), nil
}

func sortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i].CreatedAt, orders[j].CreatedAt
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Time.After(b.Time)
	})
}
