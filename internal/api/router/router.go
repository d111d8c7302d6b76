package router

import (
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/handlers"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/admin"
	"github.com/5w1tchy/oku-storefront/internal/api/handlers/manager"
	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/web"
)

// Deps is everything the routes are built from. LoginLimit may be nil.
type Deps struct {
	Store      *handlers.Handler
	Admin      *admin.Handler
	Manager    *manager.Handler
	Suggest    http.Handler
	Proxy      http.Handler
	CSRF       middlewares.CSRFOptions
	LoginLimit middlewares.Middleware
}

func Router(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	s := d.Store

	authed := func(h http.HandlerFunc) http.Handler { return middlewares.RequireAuth(h) }
	limited := func(h http.HandlerFunc) http.Handler { return middlewares.ApplyMiddleware(h, d.LoginLimit) }

	// Assets, proxy and JSON helpers
	mux.Handle("GET /static/", web.Static())
	if d.Proxy != nil {
		mux.Handle("/api/", d.Proxy)
	}
	mux.Handle("GET /csrf-token", middlewares.CSRFTokenHandler(d.CSRF))
	mux.Handle("GET /search/suggest", d.Suggest)
	mux.HandleFunc("GET /chatbot/start", s.ChatStart)
	mux.HandleFunc("GET /chatbot/nodes", s.ChatNodes)
	mux.HandleFunc("GET /chatbot/nodes/{id}", s.ChatNode)

	// Catalog
	mux.HandleFunc("GET /{$}", s.Home)
	mux.HandleFunc("GET /books", s.Books)
	mux.HandleFunc("GET /books/{id}", s.Book)
	mux.HandleFunc("GET /genres/{id}", s.Genre)
	mux.HandleFunc("GET /tags/{id}", s.Tag)
	mux.HandleFunc("GET /bestsellers", s.Bestsellers)
	mux.HandleFunc("GET /search", s.Search)
	mux.HandleFunc("GET /aisearch", s.AISearch)
	mux.HandleFunc("GET /lang/{code}", s.Language)

	// Session
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.Handle("POST /login", limited(s.Login))
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.Handle("POST /register", limited(s.Register))
	mux.HandleFunc("POST /logout", s.Logout)
	mux.Handle("GET /profile", authed(s.Profile))
	mux.Handle("POST /profile", authed(s.UpdateProfile))

	// Cart & wishlist
	mux.Handle("GET /cart", authed(s.Cart))
	mux.Handle("POST /cart/add", authed(s.AddToCart))
	mux.Handle("POST /cart/items/{id}/increase", authed(s.IncreaseCartItem))
	mux.Handle("POST /cart/items/{id}/decrease", authed(s.DecreaseCartItem))
	mux.Handle("POST /cart/items/{id}/remove", authed(s.RemoveCartItem))
	mux.Handle("POST /cart/clear", authed(s.ClearCart))
	mux.Handle("POST /cart/checkout", authed(s.Checkout))
	mux.Handle("GET /wishlist", authed(s.Wishlist))
	mux.Handle("POST /wishlist/add", authed(s.AddToWishlist))
	mux.Handle("POST /wishlist/remove", authed(s.RemoveFromWishlist))
	mux.Handle("POST /wishlist/clear", authed(s.ClearWishlist))

	// Payment & orders
	mux.Handle("GET /payment/success", authed(s.PaymentSuccess))
	mux.HandleFunc("GET /payment/cancel", s.PaymentCancel)
	mux.Handle("GET /orders", authed(s.Orders))
	mux.Handle("GET /orders/{id}", authed(s.Order))
	mux.Handle("POST /orders/{id}/confirm-delivery", authed(s.ConfirmDelivery))

	if d.Admin != nil {
		MountAdmin(mux, d.Admin)
	}
	if d.Manager != nil {
		MountManager(mux, d.Manager)
	}

	mux.HandleFunc("/", s.NotFound)
	return mux
}
