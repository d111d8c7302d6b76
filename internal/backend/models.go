package backend

import "encoding/json"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

type OrderStatus string

const (
	StatusPending       OrderStatus = "PENDING"
	StatusProcessing    OrderStatus = "PROCESSING"
	StatusShipped       OrderStatus = "SHIPPED"
	StatusDelivered     OrderStatus = "DELIVERED"
	StatusPickedUp      OrderStatus = "PICKED_UP"
	StatusCompleted     OrderStatus = "COMPLETED"
	StatusCancelled     OrderStatus = "CANCELLED"
	StatusPaymentFailed OrderStatus = "PAYMENT_FAILED"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped, StatusDelivered,
	StatusPickedUp, StatusCompleted, StatusCancelled, StatusPaymentFailed,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Author struct {
	AuthorID int64  `json:"authorId,omitempty"`
	Name     string `json:"name"`
	Bio      string `json:"biography,omitempty"`
}

type Publisher struct {
	PublisherID int64  `json:"publisherId,omitempty"`
	Name        string `json:"name"`
}

type Genre struct {
	GenreID int64  `json:"genreId,omitempty"`
	Name    string `json:"name"`
}

type Tag struct {
	TagID int64  `json:"tagId,omitempty"`
	Name  string `json:"name"`
}

type Discount struct {
	DiscountID         int64    `json:"discountId,omitempty"`
	DiscountName       string   `json:"discountName"`
	DiscountPercentage float64  `json:"discountPercentage"`
	DiscImage          string   `json:"discImage,omitempty"`
	StartDate          FlexTime `json:"startDate"`
	EndDate            FlexTime `json:"endDate"`
}

type Book struct {
	BookID        int64      `json:"bookId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Author        *Author    `json:"author,omitempty"`
	Publisher     *Publisher `json:"publisher,omitempty"`
	Discount      *Discount  `json:"discount,omitempty"`
	Price         float64    `json:"price"`
	DiscountPrice *float64   `json:"discountPrice,omitempty"`
	Available     *bool      `json:"available,omitempty"`
	StockQuantity int        `json:"stockQuantity"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	CoverImage    string     `json:"coverImage,omitempty"`
	Genres        []Genre    `json:"genres,omitempty"`
	Tags          []Tag      `json:"tags,omitempty"`
}

func (b Book) Image() string {
	if b.CoverImage != "" {
		return b.CoverImage
	}
	return b.ImageURL
}

func (b Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}

// BookInput is the admin create/update body.
type BookInput struct {
	Title         string  `json:"title"`
	AuthorID      int64   `json:"authorId,omitempty"`
	PublisherID   int64   `json:"publisherId,omitempty"`
	DiscountID    int64   `json:"discountId,omitempty"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
}

type DiscountInput struct {
	DiscountName       string  `json:"discountName"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscImage          string  `json:"discImage"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
}

type CartItem struct {
	CartItemID    int64    `json:"cartItemId"`
	BookID        int64    `json:"bookId"`
	Quantity      int      `json:"quantity"`
	Title         string   `json:"title,omitempty"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	TotalPrice    *float64 `json:"totalPrice,omitempty"`
	Available     *bool    `json:"available,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	AuthorName    string   `json:"authorName,omitempty"`
}

// IsAvailable treats a missing flag as available.
func (i CartItem) IsAvailable() bool { return i.Available == nil || *i.Available }

// UnitPrice is discountPrice when present, else price.
func (i CartItem) UnitPrice() float64 {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}

// Merge overlays book details onto the cart line. Fields the book record
// leaves empty keep the cart line's value.
func (i *CartItem) Merge(b Book) {
	if b.Title != "" {
		i.Title = b.Title
	}
	i.Price = b.Price
	if b.DiscountPrice != nil {
		i.DiscountPrice = b.DiscountPrice
	}
	if b.Available != nil {
		i.Available = b.Available
	}
	if img := b.Image(); img != "" {
		i.ImageURL = img
	}
	if name := b.AuthorName(); name != "" {
		i.AuthorName = name
	}
}

type WishlistItem struct {
	WishlistID int64 `json:"wishlistId"`
	BookID     int64 `json:"bookId"`
	Book       *Book `json:"book,omitempty"`
}

type OrderItem struct {
	OrderItemID int64   `json:"orderItemId,omitempty"`
	BookID      int64   `json:"bookId"`
	BookTitle   string  `json:"bookTitle,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price,omitempty"`
}

type Order struct {
	OrderID         int64       `json:"orderId"`
	Status          OrderStatus `json:"status"`
	CreatedAt       FlexTime    `json:"createdAt"`
	UpdatedAt       FlexTime    `json:"updatedAt"`
	SelfPickup      bool        `json:"selfPickup"`
	PhoneNumber     string      `json:"phoneNumber,omitempty"`
	DeliveryAddress string      `json:"deliveryAddress,omitempty"`
	AdditionalNotes string      `json:"additionalNotes,omitempty"`
	DeliveryCost    *float64    `json:"deliveryCost,omitempty"`
	TotalAmount     float64     `json:"totalAmount"`
	DiscountedPrice float64     `json:"discountedPrice"`
	UserEmail       string      `json:"userEmail,omitempty"`
	ManagerEmail    string      `json:"managerEmail,omitempty"`
	Received        bool        `json:"received"`
	OrderItems      []OrderItem `json:"orderItems"`
}

type OrderRequest struct {
	SelfPickup      bool        `json:"selfPickup"`
	PhoneNumber     string      `json:"phoneNumber"`
	DeliveryAddress string      `json:"deliveryAddress,omitempty"`
	AdditionalNotes string      `json:"additionalNotes,omitempty"`
	OrderItems      []OrderItem `json:"orderItems"`
	SuccessURL      string      `json:"success_url,omitempty"`
	CancelURL       string      `json:"cancel_url,omitempty"`
}

type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

type User struct {
	UserID          int64  `json:"userId"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Phone           string `json:"phone,omitempty"`
	Role            Role   `json:"role,omitempty"`
	EmailVerified   bool   `json:"emailVerified"`
	IsBlocked       bool   `json:"isBlocked"`
	CompletedOrders int    `json:"completedOrders,omitempty"`
}

type Profile struct {
	UserID    int64    `json:"userId,omitempty"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	BirthDate FlexTime `json:"birthDate"`
	Gender    *bool    `json:"gender"`
	Phone     string   `json:"phone,omitempty"`
}

type ProfileUpdate struct {
	Username  string `json:"username"`
	BirthDate string `json:"birthDate,omitempty"`
	Gender    *bool  `json:"gender"`
}

type ManagerInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Role    Role   `json:"role"`
	Message string `json:"message,omitempty"`
}

type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Name     string `json:"name,omitempty"`
}

type ManagerStat struct {
	ManagerEmail    string `json:"managerEmail"`
	CompletedOrders int    `json:"completedOrders"`
}

type Statistics struct {
	TotalOrders          int            `json:"totalOrders"`
	TotalRevenue         float64        `json:"totalRevenue"`
	TotalUsers           int            `json:"totalUsers"`
	VerifiedUsers        int            `json:"verifiedUsers"`
	NewUsers             int            `json:"newUsers"`
	TotalBooks           int            `json:"totalBooks"`
	OutOfStockBooks      int            `json:"outOfStockBooks"`
	PendingOrders        int            `json:"pendingOrders"`
	ProcessingOrders     int            `json:"processingOrders"`
	ShippedOrders        int            `json:"shippedOrders"`
	DeliveredOrders      int            `json:"deliveredOrders"`
	PickedUpOrders       int            `json:"pickedUpOrders"`
	CancelledOrders      int            `json:"cancelledOrders"`
	DeliveredAndPickedUp int            `json:"deliveredAndPickedUp"`
	OrdersByStatus       map[string]int `json:"ordersByStatus,omitempty"`
	TopManagers          []ManagerStat  `json:"topManagers,omitempty"`
	AvgProcessingHours   float64        `json:"averageProcessingTimeHours"`
}

func (s *Statistics) UnmarshalJSON(b []byte) error {
	type plain Statistics
	var aux struct {
		plain
		AvgInHours *float64 `json:"averageProcessingTimeInHours"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Statistics(aux.plain)
	if aux.AvgInHours != nil && s.AvgProcessingHours == 0 {
		s.AvgProcessingHours = *aux.AvgInHours
	}
	return nil
}
