package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock thresholds shared by all products.
const (
	MinStockLevel     = 10
	WarningStockLevel = 50
	MaxStockLevel     = 1000
)

// ProductParams carries everything needed to construct a Product. SKU is
// auto-generated from the category code plus a random suffix when empty.
type ProductParams struct {
	ID            string
	Name          string
	Category      ProductCategory
	PurchasePrice Money
	SellingPrice  Money
	Quantity      int
	SKU           string
	Description   string
	Weight        decimal.Decimal
	Dimensions    map[string]decimal.Decimal
	Attributes    VariantAttributes
}

// Product is the central inventory entity. All invariants are enforced at
// construction and on every mutator; a failed check leaves the product
// unchanged. Attached observers are notified after any quantity mutation
// that leaves the product at or below the low-stock threshold.
type Product struct {
	Entity
	name          string
	category      ProductCategory
	purchasePrice Money
	sellingPrice  Money
	quantity      int
	sku           string
	description   string
	weight        decimal.Decimal
	dimensions    map[string]decimal.Decimal
	attrs         VariantAttributes
	observers     []InventoryObserver
}

// NewProduct constructs a validated Product.
func NewProduct(params ProductParams) (*Product, error) {
	entity, err := newEntity(params.ID)
	if err != nil {
		return nil, err
	}

	dimensions := make(map[string]decimal.Decimal, len(params.Dimensions))
	for k, v := range params.Dimensions {
		dimensions[k] = v
	}

	p := &Product{
		Entity:        entity,
		name:          params.Name,
		category:      params.Category,
		purchasePrice: params.PurchasePrice,
		sellingPrice:  params.SellingPrice,
		quantity:      params.Quantity,
		sku:           params.SKU,
		description:   params.Description,
		weight:        params.Weight,
		dimensions:    dimensions,
		attrs:         params.Attributes,
	}

	if p.sku == "" {
		p.sku = generateSKU(p.category)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// RehydrateProduct reconstructs a persisted product, restoring its original
// timestamps. Invariants are still checked.
func RehydrateProduct(params ProductParams, createdAt, updatedAt time.Time) (*Product, error) {
	p, err := NewProduct(params)
	if err != nil {
		return nil, err
	}
	p.restoreTimestamps(createdAt, updatedAt)
	return p, nil
}

func (p *Product) validate() error {
	if len(p.name) < 2 {
		return newValidationError("product name must be at least 2 characters")
	}
	if !p.category.Valid() {
		return newValidationError("unknown product category: %q", p.category)
	}
	if p.quantity < 0 {
		return newValidationError("quantity cannot be negative")
	}
	if p.quantity > MaxStockLevel {
		return newValidationError("quantity cannot exceed %d", MaxStockLevel)
	}
	if !p.sellingPrice.IsPositive() {
		return newValidationError("selling price must be positive")
	}
	if !p.purchasePrice.IsPositive() {
		return newValidationError("purchase price must be positive")
	}
	if p.sellingPrice.Amount.LessThan(p.purchasePrice.Amount) {
		return newValidationError("selling price cannot be less than purchase price")
	}
	return nil
}

func generateSKU(category ProductCategory) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("%s-%s", category.Code(), suffix)
}

func (p *Product) Name() string                  { return p.name }
func (p *Product) Category() ProductCategory     { return p.category }
func (p *Product) PurchasePrice() Money          { return p.purchasePrice }
func (p *Product) SellingPrice() Money           { return p.sellingPrice }
func (p *Product) Quantity() int                 { return p.quantity }
func (p *Product) SKU() string                   { return p.sku }
func (p *Product) Description() string           { return p.description }
func (p *Product) Weight() decimal.Decimal       { return p.weight }
func (p *Product) Attributes() VariantAttributes { return p.attrs }

// Dimensions returns a copy of the dimensions mapping.
func (p *Product) Dimensions() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.dimensions))
	for k, v := range p.dimensions {
		out[k] = v
	}
	return out
}

// Rename changes the product name.
func (p *Product) Rename(name string) error {
	if len(name) < 2 {
		return newValidationError("product name must be at least 2 characters")
	}
	p.name = name
	p.touch()
	return nil
}

func (p *Product) SetDescription(description string) {
	p.description = description
	p.touch()
}

// SetPurchasePrice changes the purchase price, keeping it positive and not
// above the selling price.
func (p *Product) SetPurchasePrice(price Money) error {
	if !price.IsPositive() {
		return newValidationError("purchase price must be positive")
	}
	if p.sellingPrice.Amount.LessThan(price.Amount) {
		return newValidationError("selling price cannot be less than purchase price")
	}
	p.purchasePrice = price
	p.touch()
	return nil
}

// SetSellingPrice changes the selling price, keeping it positive and at or
// above the purchase price.
func (p *Product) SetSellingPrice(price Money) error {
	if !price.IsPositive() {
		return newValidationError("selling price must be positive")
	}
	if price.Amount.LessThan(p.purchasePrice.Amount) {
		return newValidationError("selling price cannot be less than purchase price")
	}
	p.sellingPrice = price
	p.touch()
	return nil
}

// AttachObserver registers an observer for low-stock notifications.
// Attaching the same observer twice is a no-op.
func (p *Product) AttachObserver(observer InventoryObserver) {
	for _, existing := range p.observers {
		if existing == observer {
			return
		}
	}
	p.observers = append(p.observers, observer)
}

// DetachObserver unregisters an observer; it receives no further
// notifications.
func (p *Product) DetachObserver(observer InventoryObserver) {
	for i, existing := range p.observers {
		if existing == observer {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

// notifyLowStock invokes observers in attachment order when the quantity has
// reached the low-stock threshold. The first observer error stops the chain
// and propagates; the quantity change stays committed.
func (p *Product) notifyLowStock() error {
	if !p.IsLowStock() {
		return nil
	}
	for _, observer := range p.observers {
		if err := observer.Update(p.ID(), p.name, p.quantity, MinStockLevel); err != nil {
			return err
		}
	}
	return nil
}

// IncreaseQuantity adds stock, bounded by MaxStockLevel.
func (p *Product) IncreaseQuantity(amount int) error {
	if amount < 0 {
		return newValidationError("amount must be positive")
	}
	if p.quantity+amount > MaxStockLevel {
		return newValidationError("cannot exceed max stock level of %d", MaxStockLevel)
	}
	p.quantity += amount
	p.touch()
	return p.notifyLowStock()
}

// DecreaseQuantity removes stock; stock cannot go negative.
func (p *Product) DecreaseQuantity(amount int) error {
	if amount < 0 {
		return newValidationError("amount must be positive")
	}
	if p.quantity-amount < 0 {
		return newValidationError("insufficient stock: have %d, want %d", p.quantity, amount)
	}
	p.quantity -= amount
	p.touch()
	return p.notifyLowStock()
}

// TotalValue is the inventory value at purchase price.
func (p *Product) TotalValue() Money {
	return p.purchasePrice.Mul(p.quantity)
}

// ProfitMargin is the percentage margin over the purchase price. Defined as
// zero when the purchase price is zero, though the invariant prevents that.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.purchasePrice.IsZero() {
		return decimal.Zero
	}
	profit := p.sellingPrice.Amount.Sub(p.purchasePrice.Amount)
	return profit.Div(p.purchasePrice.Amount).Mul(decimal.NewFromInt(100))
}

func (p *Product) IsLowStock() bool {
	return p.quantity <= MinStockLevel
}

func (p *Product) IsWarningStock() bool {
	return p.quantity > MinStockLevel && p.quantity <= WarningStockLevel
}

// StockStatus reports LOW STOCK, WARNING or IN STOCK.
func (p *Product) StockStatus() string {
	switch {
	case p.IsLowStock():
		return "LOW STOCK"
	case p.IsWarningStock():
		return "WARNING"
	default:
		return "IN STOCK"
	}
}

func (p *Product) CanFulfillOrder(quantity int) bool {
	return p.quantity >= quantity
}

// ApplyPricingStrategy delegates the total computation to the strategy and
// wraps the result in the product's currency.
func (p *Product) ApplyPricingStrategy(strategy PricingStrategy, quantity int) Money {
	total := strategy.CalculateTotal(p.sellingPrice.Amount, quantity)
	return p.sellingPrice.derive(total)
}

// Details returns the presentation mapping, including variant fields when
// the product carries specialized attributes.
func (p *Product) Details() map[string]interface{} {
	dimensions := make(map[string]string, len(p.dimensions))
	for k, v := range p.dimensions {
		dimensions[k] = v.String()
	}

	details := map[string]interface{}{
		"id":             p.ID(),
		"name":           p.name,
		"category":       string(p.category),
		"sku":            p.sku,
		"description":    p.description,
		"purchase_price": p.purchasePrice.String(),
		"selling_price":  p.sellingPrice.String(),
		"quantity":       p.quantity,
		"stock_status":   p.StockStatus(),
		"total_value":    p.TotalValue().String(),
		"profit_margin":  fmt.Sprintf("%s%%", p.ProfitMargin().StringFixed(2)),
		"weight":         p.weight.String(),
		"dimensions":     dimensions,
		"created_at":     p.CreatedAt().Format(time.RFC3339),
		"updated_at":     p.UpdatedAt().Format(time.RFC3339),
	}

	if p.attrs != nil {
		details["product_type"] = p.attrs.ProductType()
		for k, v := range p.attrs.details() {
			details[k] = v
		}
	}
	return details
}

func (p *Product) String() string {
	return fmt.Sprintf("Product: %s (%s) - Qty: %d - Price: %s",
		p.name, p.category, p.quantity, p.sellingPrice)
}
