package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

type HPPOptions struct {
	CheckQuery                  bool
	CheckBody                   bool
	CheckBodyOnlyForContentType string
	Whitelist                   []string
	// MultiValue names may repeat (checkbox groups); everything else keeps its first value.
	MultiValue []string
}

func HPP(opts HPPOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.CheckBody && r.Method == http.MethodPost && isCorrectContentType(r, opts.CheckBodyOnlyForContentType) {
				filterBodyParams(r, opts)
			}
			if opts.CheckQuery && r.URL.RawQuery != "" {
				filterQueryParams(r, opts)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isCorrectContentType(r *http.Request, contentType string) bool {
	return strings.Contains(r.Header.Get("Content-Type"), contentType)
}

func filterBodyParams(r *http.Request, opts HPPOptions) {
	if err := r.ParseForm(); err != nil {
		return
	}
	for k, v := range r.PostForm {
		if !slices.Contains(opts.Whitelist, k) && !slices.Contains(opts.MultiValue, k) {
			delete(r.PostForm, k)
			delete(r.Form, k)
			continue
		}
		if len(v) > 1 && !slices.Contains(opts.MultiValue, k) {
			r.PostForm.Set(k, v[0])
			r.Form.Set(k, v[0])
		}
	}
}

func filterQueryParams(r *http.Request, opts HPPOptions) {
	query := r.URL.Query()
	for k, v := range query {
		if !slices.Contains(opts.Whitelist, k) && !slices.Contains(opts.MultiValue, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 && !slices.Contains(opts.MultiValue, k) {
			query.Set(k, v[0])
		}
	}
	r.URL.RawQuery = query.Encode()
}

func DefaultHPPOptions() HPPOptions {
	return HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist: []string{
			// Paging / search
			"page", "size", "q", "query", "limit", "lang", "status", "tag",
			"startDate", "endDate", "session_id", "sessionId", "next",

			// Auth / profile
			"email", "password", "confirmPassword", "username", "birthDate", "gender", "phone",

			// Cart / checkout
			"bookId", "quantity", "phoneNumber", "deliveryAddress", "additionalNotes", "selfPickup",
			"idempotencyKey",

			// Console
			"id", "edit", "action", "name", "biography", "title", "description", "price", "stockQuantity",
			"authorId", "publisherId", "discountId", "imageUrl",
			"discountName", "discountPercentage", "discImage",
			"blocked", "deliveryCost", "newStatus", "publicId", "filename", "contentType",

			"csrf_token",
		},
		MultiValue: []string{"genreIds", "tagIds"},
	}
}
