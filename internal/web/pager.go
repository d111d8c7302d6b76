package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/5w1tchy/oku-storefront/internal/validate"
)

// PageParams reads the 1-based page and the page size from the query.
// Sizes outside storefront.PageSizes fall back to def.
func PageParams(r *http.Request, def int) (page, size int) {
	q := r.URL.Query()
	return validate.ClampPage(q.Get("page"), q.Get("size"), def, storefront.PageSizes)
}

// Pager feeds the pagination partial.
type Pager struct {
	Page       int
	TotalPages int
	Size       int
	Sizes      []int
	Links      []storefront.PageLink
	query      url.Values
}

func NewPager(r *http.Request, page, size, totalPages int) Pager {
	q := url.Values{}
	for k, vs := range r.URL.Query() {
		if k == "page" || k == "size" {
			continue
		}
		q[k] = vs
	}
	return Pager{
		Page:       page,
		TotalPages: totalPages,
		Size:       size,
		Sizes:      storefront.PageSizes,
		Links:      storefront.PageWindow(page, totalPages),
		query:      q,
	}
}

// Href is the link for page n with the current size; a different size
// restarts at page 1 through SizeHref.
func (p Pager) Href(n int) string {
	return p.href(n, p.Size)
}

func (p Pager) SizeHref(size int) string {
	return p.href(1, size)
}

func (p Pager) HasPrev() bool {
	_, ok := storefront.MovePage(p.Page, p.Page-1, p.TotalPages)
	return ok
}

func (p Pager) HasNext() bool {
	_, ok := storefront.MovePage(p.Page, p.Page+1, p.TotalPages)
	return ok
}

func (p Pager) href(page, size int) string {
	q := url.Values{}
	for k, vs := range p.query {
		q[k] = vs
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return "?" + q.Encode()
}
