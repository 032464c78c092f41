package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestProductDiscountPercentage(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		oldPrice *float64
		expected int
	}{
		{
			name:     "no old price",
			price:    100,
			oldPrice: nil,
			expected: 0,
		},
		{
			name:     "old price below current price",
			price:    100,
			oldPrice: floatPtr(80),
			expected: 0,
		},
		{
			name:     "old price equal to current price",
			price:    100,
			oldPrice: floatPtr(100),
			expected: 0,
		},
		{
			name:     "half price",
			price:    50,
			oldPrice: floatPtr(100),
			expected: 50,
		},
		{
			name:     "fractional discount rounds down",
			price:    66.67,
			oldPrice: floatPtr(100),
			expected: 33,
		},
		{
			name:     "near-free stays below one hundred",
			price:    0.01,
			oldPrice: floatPtr(1000),
			expected: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.price, OldPrice: tt.oldPrice}
			assert.Equal(t, tt.expected, p.DiscountPercentage())
			assert.GreaterOrEqual(t, p.DiscountPercentage(), 0)
			assert.Less(t, p.DiscountPercentage(), 100)
		})
	}
}

func TestProductSizeList(t *testing.T) {
	tests := []struct {
		name     string
		sizes    string
		expected []string
	}{
		{
			name:     "empty string",
			sizes:    "",
			expected: nil,
		},
		{
			name:     "single size",
			sizes:    "M",
			expected: []string{"M"},
		},
		{
			name:     "spaces around entries",
			sizes:    " S , M , L ",
			expected: []string{"S", "M", "L"},
		},
		{
			name:     "empty entries dropped",
			sizes:    "S,,L,",
			expected: []string{"S", "L"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Sizes: tt.sizes}
			assert.Equal(t, tt.expected, p.SizeList())
		})
	}
}

func TestProductOnSale(t *testing.T) {
	assert.False(t, (&Product{Price: 100}).OnSale())
	assert.True(t, (&Product{Price: 50, OldPrice: floatPtr(100)}).OnSale())
}

func TestOrderCancellable(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPlaced}).Cancellable())
	assert.True(t, (&Order{Status: OrderStatusFailed}).Cancellable())
	assert.False(t, (&Order{Status: OrderStatusPaid}).Cancellable())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).Cancellable())
}

func TestOrderItemTotal(t *testing.T) {
	item := &OrderItem{Price: 49.99, Quantity: 3}
	assert.InDelta(t, 149.97, item.Total(), 0.001)
}

func TestCartItemSubtotal(t *testing.T) {
	item := &CartItem{Quantity: 2, Product: Product{Price: 25.5}}
	assert.InDelta(t, 51.0, item.Subtotal(), 0.001)
}
