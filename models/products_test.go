package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestEffectivePrice(t *testing.T) {
	testCases := []struct {
		name     string
		product  Product
		expected decimal.Decimal
	}{
		{
			name:     "No sale price uses regular price",
			product:  Product{Price: dec(50000)},
			expected: dec(50000),
		},
		{
			name:     "Sale price below regular price wins",
			product:  Product{Price: dec(50000), SalePrice: decPtr(40000)},
			expected: dec(40000),
		},
		{
			name:     "Sale price equal to regular price is ignored",
			product:  Product{Price: dec(50000), SalePrice: decPtr(50000)},
			expected: dec(50000),
		},
		{
			name:     "Sale price above regular price is ignored",
			product:  Product{Price: dec(50000), SalePrice: decPtr(60000)},
			expected: dec(50000),
		},
		{
			name:     "Zero sale price is honored",
			product:  Product{Price: dec(50000), SalePrice: decPtr(0)},
			expected: dec(0),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.expected.Equal(tc.product.EffectivePrice()),
				"expected %s, got %s", tc.expected, tc.product.EffectivePrice())
		})
	}
}

func TestInStock(t *testing.T) {
	testCases := []struct {
		name     string
		product  Product
		expected bool
	}{
		{
			name:     "Unmanaged stock is always in stock",
			product:  Product{ManageStock: false, StockQuantity: 0},
			expected: true,
		},
		{
			name:     "Managed stock with quantity",
			product:  Product{ManageStock: true, StockQuantity: 3},
			expected: true,
		},
		{
			name:     "Managed stock exhausted",
			product:  Product{ManageStock: true, StockQuantity: 0},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.product.InStock())
		})
	}
}

func TestProductStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, ProductStatus("deleted").Valid())
	assert.False(t, ProductStatus("").Valid())
}
