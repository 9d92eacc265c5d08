package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProductParams(id string) ProductParams {
	return ProductParams{
		ID:            id,
		Name:          "Test Widget",
		Category:      CategoryElectronics,
		PurchasePrice: usd("100"),
		SellingPrice:  usd("150"),
		Quantity:      25,
	}
}

// recordingObserver captures notifications for assertions.
type recordingObserver struct {
	calls []struct {
		productID string
		name      string
		quantity  int
		threshold int
	}
	fail error
}

func (o *recordingObserver) Update(productID, productName string, quantity, threshold int) error {
	o.calls = append(o.calls, struct {
		productID string
		name      string
		quantity  int
		threshold int
	}{productID, productName, quantity, threshold})
	return o.fail
}

func (o *recordingObserver) ObserverType() string { return "Recording Observer" }

func TestNewProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductParams)
	}{
		{"short name", func(p *ProductParams) { p.Name = "X" }},
		{"negative quantity", func(p *ProductParams) { p.Quantity = -1 }},
		{"over max stock", func(p *ProductParams) { p.Quantity = MaxStockLevel + 1 }},
		{"zero selling price", func(p *ProductParams) { p.SellingPrice = usd("0") }},
		{"zero purchase price", func(p *ProductParams) { p.PurchasePrice = usd("0") }},
		{"selling below purchase", func(p *ProductParams) { p.SellingPrice = usd("99") }},
		{"bad category", func(p *ProductParams) { p.Category = "Gadgets" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testProductParams("p-1")
			tt.mutate(&params)
			_, err := NewProduct(params)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestProductSKUGeneration(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.SKU(), "ELE-"), "sku %q should carry the category code", p.SKU())

	params := testProductParams("p-2")
	params.SKU = "CUSTOM-1"
	p2, err := NewProduct(params)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-1", p2.SKU())
}

func TestProductQuantityRoundTrip(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	before := p.Quantity()
	require.NoError(t, p.IncreaseQuantity(100))
	require.NoError(t, p.DecreaseQuantity(100))
	assert.Equal(t, before, p.Quantity())
}

func TestProductQuantityBounds(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	assert.Error(t, p.IncreaseQuantity(-1))
	assert.Error(t, p.DecreaseQuantity(-1))

	err = p.DecreaseQuantity(p.Quantity() + 1)
	assert.Error(t, err)
	assert.Equal(t, 25, p.Quantity(), "failed decrease must leave quantity unchanged")

	err = p.IncreaseQuantity(MaxStockLevel)
	assert.Error(t, err)
	assert.Equal(t, 25, p.Quantity(), "failed increase must leave quantity unchanged")
}

func TestProductLowStockNotification(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	observer := &recordingObserver{}
	p.AttachObserver(observer)
	p.AttachObserver(observer) // duplicate attach is a no-op

	require.NoError(t, p.DecreaseQuantity(20))

	require.Len(t, observer.calls, 1)
	call := observer.calls[0]
	assert.Equal(t, "p-1", call.productID)
	assert.Equal(t, "Test Widget", call.name)
	assert.Equal(t, 5, call.quantity)
	assert.Equal(t, MinStockLevel, call.threshold)
}

func TestProductObserverOrderAndDetach(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	first := &recordingObserver{}
	second := &recordingObserver{}
	p.AttachObserver(first)
	p.AttachObserver(second)
	p.DetachObserver(second)

	require.NoError(t, p.DecreaseQuantity(20))
	assert.Len(t, first.calls, 1)
	assert.Empty(t, second.calls, "detached observer must receive no notifications")
}

func TestProductObserverFailurePropagates(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	boom := errors.New("sink unavailable")
	p.AttachObserver(&recordingObserver{fail: boom})

	err = p.DecreaseQuantity(20)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, p.Quantity(), "quantity change stays committed when an observer fails")
}

func TestProductNoNotificationAboveThreshold(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	observer := &recordingObserver{}
	p.AttachObserver(observer)

	require.NoError(t, p.DecreaseQuantity(5)) // 20 left, above threshold
	assert.Empty(t, observer.calls)
}

func TestProductStockStatus(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	require.NoError(t, p.IncreaseQuantity(100)) // 125
	assert.Equal(t, "IN STOCK", p.StockStatus())

	require.NoError(t, p.DecreaseQuantity(90)) // 35
	assert.Equal(t, "WARNING", p.StockStatus())

	require.NoError(t, p.DecreaseQuantity(30)) // 5
	assert.Equal(t, "LOW STOCK", p.StockStatus())
}

func TestProductTotalValueAndMargin(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	assert.True(t, p.TotalValue().Equal(usd("2500")))
	assert.True(t, p.ProfitMargin().Equal(decimal.NewFromInt(50)))
}

func TestProductPriceInvariants(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	assert.Error(t, p.SetSellingPrice(usd("50")), "selling below purchase")
	assert.Error(t, p.SetPurchasePrice(usd("200")), "purchase above selling")

	require.NoError(t, p.SetSellingPrice(usd("300")))
	require.NoError(t, p.SetPurchasePrice(usd("120")))
	assert.True(t, p.SellingPrice().Equal(usd("300")))
}

func TestProductCanFulfillOrder(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)
	assert.True(t, p.CanFulfillOrder(25))
	assert.False(t, p.CanFulfillOrder(26))
}

func TestProductApplyPricingStrategy(t *testing.T) {
	p, err := NewProduct(testProductParams("p-1"))
	require.NoError(t, err)

	total := p.ApplyPricingStrategy(RegularPricing{}, 3)
	assert.True(t, total.Equal(usd("450")))
	assert.Equal(t, "USD", total.Currency)
}

func TestProductVariantDetails(t *testing.T) {
	params := testProductParams("p-1")
	params.Category = CategoryClothing
	params.Attributes = NewClothingAttributes("L", "Red", "")
	p, err := NewProduct(params)
	require.NoError(t, err)

	details := p.Details()
	assert.Equal(t, "Clothing", details["product_type"])
	assert.Equal(t, "L", details["size"])
	assert.Equal(t, "Red", details["color"])
	assert.Equal(t, "Cotton", details["material"], "material defaults to Cotton")
}

func TestFoodAttributesExpiration(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(72 * time.Hour)

	expired := FoodAttributes{ExpirationDate: &past}
	assert.True(t, expired.IsExpired())
	days, ok := expired.DaysUntilExpiration()
	assert.True(t, ok)
	assert.Equal(t, 0, days)

	fresh := FoodAttributes{ExpirationDate: &future}
	assert.False(t, fresh.IsExpired())
	days, ok = fresh.DaysUntilExpiration()
	assert.True(t, ok)
	assert.Equal(t, 2, days)

	_, ok = FoodAttributes{}.DaysUntilExpiration()
	assert.False(t, ok)
}

func TestRehydrateProductKeepsTimestamps(t *testing.T) {
	createdAt := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	p, err := RehydrateProduct(testProductParams("p-1"), createdAt, updatedAt)
	require.NoError(t, err)
	assert.Equal(t, createdAt, p.CreatedAt())
	assert.Equal(t, updatedAt, p.UpdatedAt())
}
