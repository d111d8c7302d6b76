package storefront_test

import (
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCartTotal(t *testing.T) {
	items := []backend.CartItem{
		{BookID: 1, Price: 500, Quantity: 2},
		{BookID: 2, Price: 800, DiscountPrice: ptr(600.0), Quantity: 1},
		{BookID: 3, Price: 1000, Quantity: 3, Available: ptr(false)},
		{BookID: 4, Price: 10.10, Quantity: 3, Available: ptr(true)},
		{BookID: 5, Price: 300, DiscountPrice: ptr(0.0), Quantity: 1},
	}
	// 1000 + 600 + 30.30 + 0
	assert.InDelta(t, 1630.30, storefront.CartTotal(items), 0.0001)
	assert.Zero(t, storefront.CartTotal(nil))
}

func TestSplitAvailabilityAndOrderLines(t *testing.T) {
	items := []backend.CartItem{
		{BookID: 1, Quantity: 1},
		{BookID: 2, Quantity: 1, Available: ptr(false)},
		{BookID: 3, Quantity: 0},
		{BookID: 4, Quantity: 2},
	}
	avail, unavail := storefront.SplitAvailability(items)
	require.Len(t, avail, 3)
	require.Len(t, unavail, 1)
	assert.Equal(t, int64(2), unavail[0].BookID)

	lines := storefront.OrderLines(items)
	assert.Equal(t, []backend.OrderItem{{BookID: 1, Quantity: 1}, {BookID: 4, Quantity: 2}}, lines)
}

func numbers(links []storefront.PageLink) []int {
	out := make([]int, 0, len(links))
	for _, l := range links {
		if l.Gap {
			out = append(out, -1)
			continue
		}
		out = append(out, l.Number)
	}
	return out
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []int
	}{
		{"none", 1, 0, []int{}},
		{"small", 2, 4, []int{1, 2, 3, 4}},
		{"exactly five", 5, 5, []int{1, 2, 3, 4, 5}},
		{"start", 1, 10, []int{1, 2, 3, -1, 10}},
		{"middle", 5, 10, []int{1, -1, 3, 4, 5, 6, 7, -1, 10}},
		{"near start no gap", 3, 10, []int{1, 2, 3, 4, 5, -1, 10}},
		{"end", 10, 10, []int{1, -1, 8, 9, 10}},
		{"clamped", 99, 7, []int{1, -1, 5, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := storefront.PageWindow(tt.current, tt.total)
			assert.Equal(t, tt.want, numbers(links))
		})
	}
}

func TestPageWindow_MarksCurrent(t *testing.T) {
	for _, l := range storefront.PageWindow(4, 10) {
		assert.Equal(t, l.Number == 4, l.Current)
	}
}

func TestMovePage(t *testing.T) {
	p, ok := storefront.MovePage(2, 3, 5)
	assert.True(t, ok)
	assert.Equal(t, 3, p)

	for _, target := range []int{0, 6, 2} {
		p, ok = storefront.MovePage(2, target, 5)
		assert.False(t, ok, "target %d", target)
		assert.Equal(t, 2, p)
	}
}

func TestNextStage(t *testing.T) {
	tests := []struct {
		status     backend.OrderStatus
		selfPickup bool
		want       backend.OrderStatus
		ok         bool
	}{
		{backend.StatusPending, false, backend.StatusProcessing, true},
		{backend.StatusProcessing, true, backend.StatusShipped, true},
		{backend.StatusShipped, false, backend.StatusDelivered, true},
		{backend.StatusShipped, true, backend.StatusPickedUp, true},
		{backend.StatusDelivered, false, "", false},
		{backend.StatusCancelled, false, "", false},
	}
	for _, tt := range tests {
		got, ok := storefront.NextStage(tt.status, tt.selfPickup)
		assert.Equal(t, tt.ok, ok, tt.status)
		assert.Equal(t, tt.want, got, tt.status)
	}
}

func TestCanConfirmDelivery(t *testing.T) {
	assert.True(t, storefront.CanConfirmDelivery(backend.Order{Status: backend.StatusDelivered}))
	assert.True(t, storefront.CanConfirmDelivery(backend.Order{Status: backend.StatusPickedUp}))
	assert.False(t, storefront.CanConfirmDelivery(backend.Order{Status: backend.StatusDelivered, Received: true}))
	assert.False(t, storefront.CanConfirmDelivery(backend.Order{Status: backend.StatusShipped}))
}

func TestFormatDate(t *testing.T) {
	loc := i18n.New("ru")
	ft := backend.FlexTime{Time: time.Date(2024, 5, 3, 9, 7, 0, 0, backend.DisplayLocation), Valid: true}
	assert.Equal(t, "03.05.2024 09:07", storefront.FormatDate(loc, ft))
	assert.Equal(t, "Ошибка даты", storefront.FormatDate(loc, backend.FlexTime{}))
	assert.Equal(t, "Date error", storefront.FormatDate(i18n.New("en"), backend.FlexTime{}))
}
