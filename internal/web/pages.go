package web

import (
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
)

// Storefront pages.

type HomePage struct {
	NewBooks []backend.Book
	Popular  []backend.Book
	Banners  []backend.Discount
	Tags     []backend.Tag
}

type BookPage struct {
	Book       backend.Book
	InWishlist bool
}

type BookListPage struct {
	Heading string
	Query   string
	Action  string
	Books   []backend.Book
	Genres  []backend.Genre
}

type LoginPage struct {
	Email  string
	Notice string
}

type RegisterPage struct {
	Email string
}

type ProfilePage struct {
	Profile backend.Profile
	Form    storefront.ProfileForm
	Notice  string
}

type CartPage struct {
	Available      []backend.CartItem
	Unavailable    []backend.CartItem
	Total          float64
	Form           storefront.CheckoutForm
	IdempotencyKey string
}

type WishlistPage struct {
	Items []backend.WishlistItem
}

// RedirectPage hands the browser to the payment processor.
type RedirectPage struct {
	PublishableKey string
	SessionID      string
	URL            string
}

type PaymentPage struct {
	Receipt   *storefront.Receipt
	SessionID string
}

type OrdersPage struct {
	Orders []backend.Order
	Pager  Pager
}

type OrderPage struct {
	Order      backend.Order
	CanConfirm bool
}

// Console pages.

type StatsPage struct {
	Console string
	Stats   backend.Statistics
	Start   string
	End     string
}

type BooksAdminPage struct {
	Books []backend.Book
	Pager Pager
}

type BookFormPage struct {
	ID         int64
	Form       storefront.BookForm
	Authors    []backend.Author
	Publishers []backend.Publisher
	Discounts  []backend.Discount
	Genres     []backend.Genre
	Tags       []backend.Tag
}

// EntityRow is one line of the shared authors/genres/tags/publishers screen.
type EntityRow struct {
	ID    int64
	Name  string
	Extra string
}

type EntityPage struct {
	Kind     string
	Heading  string
	Rows     []EntityRow
	HasExtra bool
	Edit     *EntityRow
}

type DiscountsPage struct {
	Discounts []backend.Discount
}

type DiscountFormPage struct {
	ID   int64
	Form storefront.DiscountForm
}

type UploadsPage struct {
	Banners       []backend.Upload
	Images        []backend.Upload
	Uploaded      *backend.Upload
	CoversEnabled bool
}

type UsersPage struct {
	Kind  string
	Users []backend.User
	Pager Pager
}

type ManagerFormPage struct {
	ID   int64
	Form storefront.ManagerForm
}

// OrderRow pairs an order with the action the console may take on it.
type OrderRow struct {
	Order   backend.Order
	Next    backend.OrderStatus
	HasNext bool
}

type ConsoleOrdersPage struct {
	Console  string
	Heading  string
	Status   string
	Statuses []backend.OrderStatus
	Rows     []OrderRow
	Pager    *Pager
	Assign   bool
}

type AuditPage struct {
	Events []ledger.AuditEvent
	Action string
	Pager  Pager
}

type ManagerProfilePage struct {
	User backend.User
}

// Rows builds OrderRows with the manager next-stage rule.
func Rows(orders []backend.Order) []OrderRow {
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		next, ok := storefront.NextStage(o.Status, o.SelfPickup)
		rows = append(rows, OrderRow{Order: o, Next: next, HasNext: ok})
	}
	return rows
}
