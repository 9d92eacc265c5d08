package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountedProductSellingPrice(t *testing.T) {
	p := stockedProduct(t, "p-1", "Widget", "200", 20)

	discounted, err := NewDiscountedProduct(p, decimal.NewFromInt(25))
	require.NoError(t, err)

	assert.True(t, discounted.SellingPrice().Equal(usd("150")))
	assert.True(t, p.SellingPrice().Equal(usd("200")), "decoration never mutates the product")

	details := discounted.Details()
	assert.Equal(t, true, details["decorated"])
	assert.Equal(t, "DiscountedProduct", details["decorator_type"])
	assert.Equal(t, "USD 200.00", details["original_price"])
	assert.Equal(t, "USD 150.00", details["discounted_price"])
	assert.Equal(t, "USD 50.00", details["savings"])
}

func TestDiscountedProductBounds(t *testing.T) {
	p := stockedProduct(t, "p-1", "Widget", "200", 20)
	_, err := NewDiscountedProduct(p, decimal.NewFromInt(101))
	assert.Error(t, err)
	_, err = NewDiscountedProduct(p, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestDecoratorChainPreservesAllLayers(t *testing.T) {
	p := stockedProduct(t, "p-1", "Widget", "200", 20)

	discounted, err := NewDiscountedProduct(p, decimal.NewFromInt(10))
	require.NoError(t, err)
	featured := NewFeaturedProduct(discounted, "Deal of the week", "")
	limited, err := NewLimitedEditionProduct(featured, 7, 500)
	require.NoError(t, err)

	details := limited.Details()

	// Innermost product fields survive.
	assert.Equal(t, "p-1", details["id"])
	assert.Equal(t, "Widget", details["name"])
	// Each layer's fields survive.
	assert.Equal(t, "USD 180.00", details["discounted_price"])
	assert.Equal(t, true, details["featured"])
	assert.Equal(t, "gold", details["banner_color"])
	assert.Equal(t, "7/500", details["rarity"])
	// The outermost layer wins the decorator_type marker.
	assert.Equal(t, "LimitedEditionProduct", details["decorator_type"])
	assert.Equal(t, true, details["decorated"])
}

func TestDecoratorTransparentDelegation(t *testing.T) {
	p := stockedProduct(t, "p-1", "Widget", "200", 20)
	featured := NewFeaturedProduct(p, "Featured", "blue")

	assert.Equal(t, p.ID(), featured.ID())
	assert.Equal(t, p.Name(), featured.Name())
	assert.Equal(t, p.SKU(), featured.SKU())
	assert.Equal(t, p.Quantity(), featured.Quantity())
	assert.Equal(t, p.StockStatus(), featured.StockStatus())
	assert.True(t, featured.SellingPrice().Equal(p.SellingPrice()))
}

func TestUnwrapProductRecoversBase(t *testing.T) {
	p := stockedProduct(t, "p-1", "Widget", "200", 20)

	discounted, err := NewDiscountedProduct(p, decimal.NewFromInt(10))
	require.NoError(t, err)
	featured := NewFeaturedProduct(discounted, "Featured", "")
	limited, err := NewLimitedEditionProduct(featured, 1, 10)
	require.NoError(t, err)

	base := UnwrapProduct(limited)
	assert.Same(t, p, base)
	assert.Same(t, p, UnwrapProduct(p), "unwrapping a bare product is the identity")
}

func TestDecoratedProductInOrder(t *testing.T) {
	o := testOrder(t)
	p := stockedProduct(t, "p-1", "Widget", "200", 20)
	discounted, err := NewDiscountedProduct(p, decimal.NewFromInt(50))
	require.NoError(t, err)

	require.NoError(t, o.AddItem(discounted, 2))
	item, ok := o.Item("p-1")
	require.True(t, ok)
	assert.True(t, item.UnitPrice().Equal(usd("100")), "cart uses the decorated price")
}

func TestLimitedEditionBounds(t *testing.T) {
	p := stockedProduct(t, "p-1", "Widget", "200", 20)
	_, err := NewLimitedEditionProduct(p, 0, 10)
	assert.Error(t, err)
	_, err = NewLimitedEditionProduct(p, 11, 10)
	assert.Error(t, err)
}
