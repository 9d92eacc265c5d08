package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricingStrategy computes an order-line total from a unit price and a
// quantity. Strategies are stateless with respect to the product: the same
// instance is reusable across calculations without side effects.
type PricingStrategy interface {
	CalculateTotal(price decimal.Decimal, quantity int) decimal.Decimal
	Description() string
}

// RegularPricing charges price multiplied by quantity, no discount.
type RegularPricing struct{}

func (RegularPricing) CalculateTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (RegularPricing) Description() string {
	return "Regular Pricing (No Discount)"
}

// BulkDiscountPricing applies a discount rate once the quantity reaches the
// minimum; below it, regular pricing applies.
type BulkDiscountPricing struct {
	DiscountRate decimal.Decimal
	MinQuantity  int
}

func NewBulkDiscountPricing(discountRate decimal.Decimal, minQuantity int) BulkDiscountPricing {
	return BulkDiscountPricing{DiscountRate: discountRate, MinQuantity: minQuantity}
}

func (p BulkDiscountPricing) CalculateTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	if quantity >= p.MinQuantity {
		return total.Mul(decimal.NewFromInt(1).Sub(p.DiscountRate))
	}
	return total
}

func (p BulkDiscountPricing) Description() string {
	return fmt.Sprintf("Bulk Discount (%s%% off for %d+ items)",
		p.DiscountRate.Mul(decimal.NewFromInt(100)), p.MinQuantity)
}

// SeasonalPricing scales the total by a multiplier: below 1 is a discount,
// above 1 a surcharge.
type SeasonalPricing struct {
	Multiplier decimal.Decimal
}

func NewSeasonalPricing(multiplier decimal.Decimal) SeasonalPricing {
	return SeasonalPricing{Multiplier: multiplier}
}

func (p SeasonalPricing) CalculateTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Mul(p.Multiplier)
}

func (p SeasonalPricing) Description() string {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	if p.Multiplier.GreaterThan(one) {
		return fmt.Sprintf("Seasonal Pricing (+%s%% increase)", p.Multiplier.Sub(one).Mul(hundred))
	}
	return fmt.Sprintf("Seasonal Pricing (%s%% discount)", one.Sub(p.Multiplier).Mul(hundred))
}
