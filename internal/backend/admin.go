package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SaveBook creates (id == 0) or updates a book, then attaches the selected
// genres and tags one by one. Attach failures are logged and skipped.
func (c *Client) SaveBook(ctx context.Context, token string, id int64, in BookInput, genreIDs, tagIDs []int64) (*Book, error) {
	var (
		b   *Book
		err error
	)
	if id == 0 {
		b, err = c.Books.Create(ctx, token, in)
	} else {
		b, err = c.Books.Update(ctx, token, id, in)
	}
	if err != nil {
		return nil, err
	}
	bookID := b.BookID
	if bookID == 0 {
		bookID = id
	}
	if bookID == 0 {
		return b, nil
	}
	for _, gid := range genreIDs {
		if err := c.AttachGenre(ctx, token, bookID, gid); err != nil {
			c.log.Warn("attach genre failed", zap.Int64("book_id", bookID), zap.Int64("genre_id", gid), zap.Error(err))
		}
	}
	for _, tid := range tagIDs {
		if err := c.AttachTag(ctx, token, bookID, tid); err != nil {
			c.log.Warn("attach tag failed", zap.Int64("book_id", bookID), zap.Int64("tag_id", tid), zap.Error(err))
		}
	}
	return b, nil
}

func (c *Client) AttachGenre(ctx context.Context, token string, bookID, genreID int64) error {
	return c.send(ctx, http.MethodPost, token, pathf("/admin/books/%d/genre/%d", bookID, genreID), nil, nil)
}

func (c *Client) AttachTag(ctx context.Context, token string, bookID, tagID int64) error {
	return c.send(ctx, http.MethodPost, token, pathf("/admin/books/%d/tag/%d", bookID, tagID), nil, nil)
}

// SaveDiscount creates or updates a discount; the answer must carry an id.
func (c *Client) SaveDiscount(ctx context.Context, token string, id int64, in DiscountInput) (*Discount, error) {
	var (
		d   *Discount
		err error
	)
	if id == 0 {
		d, err = c.Discounts.Create(ctx, token, in)
	} else {
		d, err = c.Discounts.Update(ctx, token, id, in)
	}
	if err != nil {
		return nil, err
	}
	if d.DiscountID == 0 {
		return nil, errors.New("backend: discount saved without discountId")
	}
	return d, nil
}

// Uploads.

func (c *Client) upload(ctx context.Context, token, path, field, filename string, r io.Reader) (*Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("backend: read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	var out Upload
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		token:       token,
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadDiscountBanner(ctx context.Context, token, filename string, r io.Reader) (*Upload, error) {
	return c.upload(ctx, token, "/admin/discount-banners/upload", "file", filename, r)
}

// DiscountBannerInfo describes the current banner.
func (c *Client) DiscountBannerInfo(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.get(ctx, token, "/admin/discount-banners/info", nil, &raw)
	return raw, err
}

func (c *Client) AllDiscountBanners(ctx context.Context, token string) ([]Upload, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, "/admin/discount-banners/all", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Upload](raw)
}

func (c *Client) DeleteDiscountBanner(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodDelete, token, "/admin/discount-banners/delete", nil, nil)
}

func (c *Client) UploadImage(ctx context.Context, token, filename string, r io.Reader) (*Upload, error) {
	return c.upload(ctx, token, "/admin/images/upload", "image", filename, r)
}

func (c *Client) ImageInfo(ctx context.Context, token, publicID string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.get(ctx, token, pathf("/admin/images/info/%s", publicID), nil, &raw)
	return raw, err
}

func (c *Client) AllImages(ctx context.Context, token string) ([]Upload, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, "/admin/images/all", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Upload](raw)
}

func (c *Client) DeleteImage(ctx context.Context, token, publicID string) error {
	return c.send(ctx, http.MethodDelete, token, pathf("/admin/images/delete/%s", publicID), nil, nil)
}

// Users and managers.

func (c *Client) Users(ctx context.Context, token string, p PageRequest) (Page[User], error) {
	var out Page[User]
	if err := c.get(ctx, token, "/admin/users", p.values(), &out); err != nil {
		return Page[User]{}, err
	}
	return out, nil
}

func (c *Client) SetUserBlocked(ctx context.Context, token string, id int64, blocked bool) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   pathf("/admin/users/%d/block-status", id),
		query:  url.Values{"blocked": {strconv.FormatBool(blocked)}},
		token:  token,
	}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.send(ctx, http.MethodDelete, token, pathf("/admin/users/%d", id), nil, nil)
}

func (c *Client) Managers(ctx context.Context, token string, p PageRequest) (Page[User], error) {
	var out Page[User]
	if err := c.get(ctx, token, "/admin/managers", p.values(), &out); err != nil {
		return Page[User]{}, err
	}
	return out, nil
}

// Manager has no single-item endpoint; it scans one large page.
func (c *Client) Manager(ctx context.Context, token string, id int64) (*User, error) {
	page, err := c.Managers(ctx, token, PageRequest{Page: 0, Size: 1000})
	if err != nil {
		return nil, err
	}
	for _, m := range page.Content {
		if m.UserID == id {
			return &m, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Method: http.MethodGet, Path: pathf("/admin/managers/%d", id), Message: "manager not found"}
}

func (c *Client) RegisterManager(ctx context.Context, token string, in ManagerInput) (*User, error) {
	in.Role = RoleManager
	var out User
	if err := c.send(ctx, http.MethodPost, token, "/admin/managers/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateManager(ctx context.Context, token string, id int64, in ManagerInput) (*User, error) {
	in.Password = ""
	var out User
	if err := c.send(ctx, http.MethodPatch, token, pathf("/admin/managers/%d/profile", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetManagerBlocked(ctx context.Context, token string, id int64, blocked bool) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   pathf("/admin/managers/%d/block-status", id),
		query:  url.Values{"blocked": {strconv.FormatBool(blocked)}},
		token:  token,
	}, nil)
}

// ErrManagerReferenced means the manager still owns orders or other rows.
var ErrManagerReferenced = errors.New("backend: manager has related records")

// DeleteManager drops the manager's email tokens first (errors ignored),
// then the manager.
func (c *Client) DeleteManager(ctx context.Context, token string, id int64) error {
	if err := c.send(ctx, http.MethodDelete, token, pathf("/admin/email-tokens/%d", id), nil, nil); err != nil {
		c.log.Debug("email token cleanup failed", zap.Int64("manager_id", id), zap.Error(err))
	}
	err := c.send(ctx, http.MethodDelete, token, pathf("/admin/managers/%d", id), nil, nil)
	if err != nil && strings.Contains(strings.ToLower(MessageOf(err)), "foreign key constraint") {
		return fmt.Errorf("%w: %w", ErrManagerReferenced, err)
	}
	return err
}

// Orders and statistics.

func (c *Client) AllOrders(ctx context.Context, token string, p PageRequest) (Page[Order], error) {
	var out Page[Order]
	if err := c.get(ctx, token, "/admin/orders", p.values(), &out); err != nil {
		return Page[Order]{}, err
	}
	return out, nil
}

func (c *Client) AdminOrdersPage(ctx context.Context, token string, status OrderStatus, p PageRequest) (Page[Order], error) {
	return c.orderPage(ctx, token, pathf("/admin/orders/status/%s", string(status)), p)
}

func (c *Client) AdminOrdersByStatus(ctx context.Context, token string, status OrderStatus, p PageRequest) ([]Order, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, pathf("/admin/orders/status/%s", string(status)), p.values(), &raw); err != nil {
		return nil, err
	}
	return decodeList[Order](raw)
}

func (c *Client) AdminUpdateOrderStatus(ctx context.Context, token string, id int64, status OrderStatus) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   pathf("/admin/orders/%d/status", id),
		query:  url.Values{"newStatus": {string(status)}},
		token:  token,
	}, nil)
}

// StatsRange is an inclusive YYYY-MM-DD window; empty bounds are omitted.
type StatsRange struct {
	StartDate string
	EndDate   string
}

func (r StatsRange) values() url.Values {
	q := url.Values{}
	if r.StartDate != "" {
		q.Set("startDate", r.StartDate)
	}
	if r.EndDate != "" {
		q.Set("endDate", r.EndDate)
	}
	return q
}

func (c *Client) AdminStatistics(ctx context.Context, token string, r StatsRange) (*Statistics, error) {
	var s Statistics
	if err := c.get(ctx, token, "/admin/statistics", r.values(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
