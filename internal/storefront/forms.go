package storefront

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/validate"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRe   = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{7,18}[0-9]$`)
	kgPhoneRe = regexp.MustCompile(`^\+996\d{9}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("kgphone", func(fl validator.FieldLevel) bool {
		return kgPhoneRe.MatchString(fl.Field().String())
	})
	return v
}

// FormError carries the i18n key of the message to show next to the form.
type FormError struct {
	Field string
	Key   string
}

func (e *FormError) Error() string { return e.Field + ": " + e.Key }

// KeyOf returns the message key for a form error, or "" for anything else.
func KeyOf(err error) string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Key
	}
	return ""
}

// check validates form and maps the first failure to a message key.
// Missing values win over malformed ones.
func check(form any, messages map[string]string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	pick := verrs[0]
	for _, fe := range verrs {
		if strings.HasPrefix(fe.Tag(), "required") {
			pick = fe
			break
		}
	}
	key := messages[pick.Field()+"."+pick.Tag()]
	if key == "" {
		key = messages[pick.Field()]
	}
	if key == "" {
		key = i18n.MsgSomethingWrong
	}
	return &FormError{Field: pick.Field(), Key: key}
}

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func ParseLoginForm(v url.Values) LoginForm {
	return LoginForm{Email: strings.TrimSpace(v.Get("email")), Password: v.Get("password")}
}

func (f LoginForm) Validate() error {
	return check(f, map[string]string{
		"Email.required":    i18n.MsgAllFieldsRequired,
		"Email.email":       i18n.MsgEmailInvalid,
		"Password.required": i18n.MsgAllFieldsRequired,
	})
}

func (f LoginForm) Credentials() backend.Credentials {
	return backend.Credentials{Email: f.Email, Password: f.Password}
}

type RegisterForm struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func ParseRegisterForm(v url.Values) RegisterForm {
	return RegisterForm{
		Email:           strings.TrimSpace(v.Get("email")),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirmPassword"),
	}
}

// Validate runs before any network call: a mismatch never reaches the backend.
func (f RegisterForm) Validate() error {
	return check(f, map[string]string{
		"Email.required":           i18n.MsgAllFieldsRequired,
		"Email.email":              i18n.MsgEmailInvalid,
		"Password.required":        i18n.MsgAllFieldsRequired,
		"ConfirmPassword.required": i18n.MsgAllFieldsRequired,
		"ConfirmPassword.eqfield":  i18n.MsgPasswordsMismatch,
	})
}

func (f RegisterForm) Credentials() backend.Credentials {
	return backend.Credentials{Email: f.Email, Password: f.Password}
}

type CheckoutForm struct {
	SelfPickup      bool
	PhoneNumber     string `validate:"required,phone"`
	DeliveryAddress string `validate:"required_if=SelfPickup false"`
	AdditionalNotes string `validate:"max=1000"`
}

func ParseCheckoutForm(v url.Values) CheckoutForm {
	return CheckoutForm{
		SelfPickup:      validate.ParseBool(v.Get("selfPickup")),
		PhoneNumber:     strings.TrimSpace(v.Get("phoneNumber")),
		DeliveryAddress: strings.TrimSpace(v.Get("deliveryAddress")),
		AdditionalNotes: strings.TrimSpace(v.Get("additionalNotes")),
	}
}

func (f CheckoutForm) Validate() error {
	return check(f, map[string]string{
		"PhoneNumber.required":        i18n.MsgPhoneRequired,
		"PhoneNumber.phone":           i18n.MsgPhoneInvalid,
		"DeliveryAddress.required_if": i18n.MsgAddressRequired,
		"AdditionalNotes.max":         i18n.MsgNotesTooLong,
	})
}

// OrderRequest builds the create-order body; the address is dropped for pickup.
func (f CheckoutForm) OrderRequest(lines []backend.OrderItem, clientURL string) backend.OrderRequest {
	req := backend.OrderRequest{
		SelfPickup:      f.SelfPickup,
		PhoneNumber:     f.PhoneNumber,
		AdditionalNotes: f.AdditionalNotes,
		OrderItems:      lines,
		SuccessURL:      clientURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       clientURL + "/payment/cancel",
	}
	if !f.SelfPickup {
		req.DeliveryAddress = f.DeliveryAddress
	}
	return req
}

type ProfileForm struct {
	Username  string `validate:"required,max=100"`
	BirthDate string `validate:"omitempty,datetime=2006-01-02"`
	Gender    *bool
}

func ParseProfileForm(v url.Values) ProfileForm {
	f := ProfileForm{
		Username:  strings.TrimSpace(v.Get("username")),
		BirthDate: strings.TrimSpace(v.Get("birthDate")),
	}
	switch v.Get("gender") {
	case "male", "true":
		g := true
		f.Gender = &g
	case "female", "false":
		g := false
		f.Gender = &g
	}
	return f
}

func (f ProfileForm) Validate() error {
	return check(f, map[string]string{
		"Username":           i18n.MsgUsernameRequired,
		"BirthDate.datetime": i18n.MsgBirthDateInvalid,
	})
}

func (f ProfileForm) Update() backend.ProfileUpdate {
	return backend.ProfileUpdate{Username: f.Username, BirthDate: f.BirthDate, Gender: f.Gender}
}

// BookForm uses -1 for numbers that did not parse so the range rules reject them.
type BookForm struct {
	Title         string  `validate:"required"`
	Description   string  `validate:"required"`
	Price         float64 `validate:"gt=0"`
	StockQuantity int     `validate:"gte=0"`
	AuthorID      int64
	PublisherID   int64
	DiscountID    int64
	ImageURL      string `validate:"omitempty,url"`
	GenreIDs      []int64
	TagIDs        []int64
}

func ParseBookForm(v url.Values) BookForm {
	return BookForm{
		Title:         strings.TrimSpace(v.Get("title")),
		Description:   strings.TrimSpace(v.Get("description")),
		Price:         parseFloatOr(v.Get("price"), -1),
		StockQuantity: parseIntOr(v.Get("stockQuantity"), -1),
		AuthorID:      parseID(v.Get("authorId")),
		PublisherID:   parseID(v.Get("publisherId")),
		DiscountID:    parseID(v.Get("discountId")),
		ImageURL:      strings.TrimSpace(v.Get("imageUrl")),
		GenreIDs:      parseIDs(v["genreIds"]),
		TagIDs:        parseIDs(v["tagIds"]),
	}
}

func (f BookForm) Validate() error {
	return check(f, map[string]string{
		"Title":         i18n.MsgTitleRequired,
		"Description":   i18n.MsgDescRequired,
		"Price":         i18n.MsgPriceInvalid,
		"StockQuantity": i18n.MsgStockInvalid,
		"ImageURL":      i18n.MsgSomethingWrong,
	})
}

func (f BookForm) Input() backend.BookInput {
	return backend.BookInput{
		Title:         f.Title,
		AuthorID:      f.AuthorID,
		PublisherID:   f.PublisherID,
		DiscountID:    f.DiscountID,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		Price:         f.Price,
		StockQuantity: f.StockQuantity,
	}
}

type DiscountForm struct {
	DiscountName       string  `validate:"required"`
	DiscountPercentage float64 `validate:"gte=0,lte=100"`
	DiscImage          string  `validate:"required"`
	StartDate          string  `validate:"required"`
	EndDate            string  `validate:"required"`
}

func ParseDiscountForm(v url.Values) DiscountForm {
	return DiscountForm{
		DiscountName:       strings.TrimSpace(v.Get("discountName")),
		DiscountPercentage: parseFloatOr(v.Get("discountPercentage"), -1),
		DiscImage:          strings.TrimSpace(v.Get("discImage")),
		StartDate:          strings.TrimSpace(v.Get("startDate")),
		EndDate:            strings.TrimSpace(v.Get("endDate")),
	}
}

func (f DiscountForm) Validate() error {
	err := check(f, map[string]string{
		"DiscountName":       i18n.MsgDiscountName,
		"DiscountPercentage": i18n.MsgDiscountPercent,
		"DiscImage":          i18n.MsgDiscountImage,
		"StartDate":          i18n.MsgDiscountDates,
		"EndDate":            i18n.MsgDiscountDates,
	})
	if err != nil {
		return err
	}
	start, ok1 := parseFormDate(f.StartDate)
	end, ok2 := parseFormDate(f.EndDate)
	if !ok1 || !ok2 {
		return &FormError{Field: "StartDate", Key: i18n.MsgDiscountDates}
	}
	if start.After(end) {
		return &FormError{Field: "StartDate", Key: i18n.MsgDiscountDateOrder}
	}
	return nil
}

func (f DiscountForm) Input() backend.DiscountInput {
	return backend.DiscountInput{
		DiscountName:       f.DiscountName,
		DiscountPercentage: f.DiscountPercentage,
		DiscImage:          f.DiscImage,
		StartDate:          f.StartDate,
		EndDate:            f.EndDate,
	}
}

type ManagerForm struct {
	Creating bool
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
	Password string `validate:"required_if=Creating true,omitempty,min=6"`
	Phone    string `validate:"required,kgphone"`
}

func ParseManagerForm(v url.Values, creating bool) ManagerForm {
	return ManagerForm{
		Creating: creating,
		Email:    strings.TrimSpace(v.Get("email")),
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
		Phone:    strings.TrimSpace(v.Get("phone")),
	}
}

func (f ManagerForm) Validate() error {
	return check(f, map[string]string{
		"Email.required":       i18n.MsgAllFieldsRequired,
		"Email.email":          i18n.MsgEmailInvalid,
		"Username":             i18n.MsgUsernameRequired,
		"Password.required_if": i18n.MsgAllFieldsRequired,
		"Password.min":         i18n.MsgPasswordShort,
		"Phone.required":       i18n.MsgPhoneRequired,
		"Phone.kgphone":        i18n.MsgManagerPhoneInvalid,
	})
}

func (f ManagerForm) Input() backend.ManagerInput {
	return backend.ManagerInput{Email: f.Email, Username: f.Username, Password: f.Password, Phone: f.Phone}
}

// Prefill helpers for the edit screens.

func ProfileFormOf(p backend.Profile) ProfileForm {
	return ProfileForm{Username: p.Username, BirthDate: formDate(p.BirthDate), Gender: p.Gender}
}

func BookFormOf(b backend.Book) BookForm {
	f := BookForm{
		Title:         b.Title,
		Description:   b.Description,
		Price:         b.Price,
		StockQuantity: b.StockQuantity,
		ImageURL:      b.ImageURL,
	}
	if b.Author != nil {
		f.AuthorID = b.Author.AuthorID
	}
	if b.Publisher != nil {
		f.PublisherID = b.Publisher.PublisherID
	}
	if b.Discount != nil {
		f.DiscountID = b.Discount.DiscountID
	}
	for _, g := range b.Genres {
		f.GenreIDs = append(f.GenreIDs, g.GenreID)
	}
	for _, t := range b.Tags {
		f.TagIDs = append(f.TagIDs, t.TagID)
	}
	return f
}

func DiscountFormOf(d backend.Discount) DiscountForm {
	return DiscountForm{
		DiscountName:       d.DiscountName,
		DiscountPercentage: d.DiscountPercentage,
		DiscImage:          d.DiscImage,
		StartDate:          formDate(d.StartDate),
		EndDate:            formDate(d.EndDate),
	}
}

func ManagerFormOf(u backend.User) ManagerForm {
	return ManagerForm{Email: u.Email, Username: u.Username, Phone: u.Phone}
}

func formDate(t backend.FlexTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.In(backend.DisplayLocation).Format(time.DateOnly)
}

// helpers

func parseFloatOr(s string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil || f != f {
		return def
	}
	return f
}

func parseIntOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseIDs(vals []string) []int64 {
	var out []int64
	seen := map[int64]bool{}
	for _, v := range vals {
		if id := parseID(v); id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func parseFormDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, "2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
