package storefront_test

import (
	"net/url"
	"testing"

	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterForm(t *testing.T) {
	tests := []struct {
		name string
		in   url.Values
		want string
	}{
		{"ok", url.Values{"email": {"a@b.kg"}, "password": {"secret1"}, "confirmPassword": {"secret1"}}, ""},
		{"mismatch", url.Values{"email": {"a@b.kg"}, "password": {"secret1"}, "confirmPassword": {"secret2"}}, i18n.MsgPasswordsMismatch},
		{"missing confirm", url.Values{"email": {"a@b.kg"}, "password": {"secret1"}}, i18n.MsgAllFieldsRequired},
		{"missing wins over bad email", url.Values{"email": {"nope"}, "password": {"x"}}, i18n.MsgAllFieldsRequired},
		{"bad email", url.Values{"email": {"nope"}, "password": {"x"}, "confirmPassword": {"x"}}, i18n.MsgEmailInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storefront.ParseRegisterForm(tt.in).Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, storefront.KeyOf(err))
		})
	}
}

func TestLoginForm(t *testing.T) {
	assert.NoError(t, storefront.ParseLoginForm(url.Values{"email": {" a@b.kg "}, "password": {"p"}}).Validate())
	err := storefront.ParseLoginForm(url.Values{"email": {"a@b.kg"}}).Validate()
	assert.Equal(t, i18n.MsgAllFieldsRequired, storefront.KeyOf(err))
}

func TestCheckoutForm(t *testing.T) {
	tests := []struct {
		name string
		in   url.Values
		want string
	}{
		{"delivery ok", url.Values{"phoneNumber": {"+996 555 123 456"}, "deliveryAddress": {"Bishkek, Chui 1"}}, ""},
		{"pickup without address", url.Values{"phoneNumber": {"0555123456"}, "selfPickup": {"true"}}, ""},
		{"no phone", url.Values{"deliveryAddress": {"x"}}, i18n.MsgPhoneRequired},
		{"bad phone", url.Values{"phoneNumber": {"call me"}, "deliveryAddress": {"x"}}, i18n.MsgPhoneInvalid},
		{"delivery needs address", url.Values{"phoneNumber": {"0555123456"}}, i18n.MsgAddressRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storefront.ParseCheckoutForm(tt.in).Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, storefront.KeyOf(err))
		})
	}
}

func TestCheckoutForm_OrderRequest(t *testing.T) {
	f := storefront.ParseCheckoutForm(url.Values{
		"phoneNumber":     {"0555123456"},
		"selfPickup":      {"on"},
		"deliveryAddress": {"ignored"},
	})
	req := f.OrderRequest(nil, "https://oku.kg")
	assert.True(t, req.SelfPickup)
	assert.Empty(t, req.DeliveryAddress)
	assert.Equal(t, "https://oku.kg/payment/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://oku.kg/payment/cancel", req.CancelURL)
}

func TestDiscountForm(t *testing.T) {
	base := func() url.Values {
		return url.Values{
			"discountName":       {" Spring "},
			"discountPercentage": {"15"},
			"discImage":          {"https://img/x.png"},
			"startDate":          {"2025-03-01"},
			"endDate":            {"2025-03-31"},
		}
	}
	f := storefront.ParseDiscountForm(base())
	require.NoError(t, f.Validate())
	assert.Equal(t, "Spring", f.Input().DiscountName)

	cases := map[string]func(v url.Values){
		i18n.MsgDiscountName:      func(v url.Values) { v.Set("discountName", "   ") },
		i18n.MsgDiscountPercent:   func(v url.Values) { v.Set("discountPercentage", "120") },
		i18n.MsgDiscountImage:     func(v url.Values) { v.Del("discImage") },
		i18n.MsgDiscountDates:     func(v url.Values) { v.Del("endDate") },
		i18n.MsgDiscountDateOrder: func(v url.Values) { v.Set("startDate", "2025-04-01") },
	}
	for want, mutate := range cases {
		v := base()
		mutate(v)
		assert.Equal(t, want, storefront.KeyOf(storefront.ParseDiscountForm(v).Validate()), want)
	}

	v := base()
	v.Set("discountPercentage", "abc")
	assert.Equal(t, i18n.MsgDiscountPercent, storefront.KeyOf(storefront.ParseDiscountForm(v).Validate()))

	v = base()
	v.Set("endDate", "2025-03-01")
	assert.NoError(t, storefront.ParseDiscountForm(v).Validate(), "same day is allowed")
}

func TestBookForm(t *testing.T) {
	v := url.Values{
		"title":         {"Жамиля"},
		"description":   {"Повесть"},
		"price":         {"450,50"},
		"stockQuantity": {"3"},
		"authorId":      {"7"},
		"genreIds":      {"1", "2", "2", "x"},
	}
	f := storefront.ParseBookForm(v)
	require.NoError(t, f.Validate())
	assert.InDelta(t, 450.5, f.Input().Price, 0.001)
	assert.Equal(t, []int64{1, 2}, f.GenreIDs)

	v.Set("price", "0")
	assert.Equal(t, i18n.MsgPriceInvalid, storefront.KeyOf(storefront.ParseBookForm(v).Validate()))
	v.Set("price", "10")
	v.Set("stockQuantity", "many")
	assert.Equal(t, i18n.MsgStockInvalid, storefront.KeyOf(storefront.ParseBookForm(v).Validate()))
	v.Del("title")
	assert.Equal(t, i18n.MsgTitleRequired, storefront.KeyOf(storefront.ParseBookForm(v).Validate()))
}

func TestManagerForm(t *testing.T) {
	v := url.Values{
		"email":    {"m@oku.kg"},
		"username": {"manager"},
		"password": {"secret"},
		"phone":    {"+996555123456"},
	}
	require.NoError(t, storefront.ParseManagerForm(v, true).Validate())

	v.Set("phone", "0555123456")
	assert.Equal(t, i18n.MsgManagerPhoneInvalid, storefront.KeyOf(storefront.ParseManagerForm(v, true).Validate()))

	v.Set("phone", "+996555123456")
	v.Set("password", "123")
	assert.Equal(t, i18n.MsgPasswordShort, storefront.KeyOf(storefront.ParseManagerForm(v, true).Validate()))

	v.Del("password")
	assert.Equal(t, i18n.MsgAllFieldsRequired, storefront.KeyOf(storefront.ParseManagerForm(v, true).Validate()))
	assert.NoError(t, storefront.ParseManagerForm(v, false).Validate(), "update keeps the old password")
}

func TestProfileForm(t *testing.T) {
	f := storefront.ParseProfileForm(url.Values{"username": {"aibek"}, "birthDate": {"1999-12-31"}, "gender": {"female"}})
	require.NoError(t, f.Validate())
	require.NotNil(t, f.Gender)
	assert.False(t, *f.Gender)

	f = storefront.ParseProfileForm(url.Values{"username": {"aibek"}, "birthDate": {"31.12.1999"}})
	assert.Equal(t, i18n.MsgBirthDateInvalid, storefront.KeyOf(f.Validate()))
	assert.Nil(t, f.Gender)
}
