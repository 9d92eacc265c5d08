package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductReader enumerates the read accessors a decorator must proxy. A
// *Product satisfies it directly; decorators wrap a ProductReader without
// copying or mutating the underlying product and forward every accessor
// they do not override.
type ProductReader interface {
	ID() string
	Name() string
	Category() ProductCategory
	SKU() string
	Description() string
	Quantity() int
	PurchasePrice() Money
	SellingPrice() Money
	StockStatus() string
	Details() map[string]interface{}
}

// productWrapper is implemented by every decorator; UnwrapProduct uses it
// to walk back to the base product.
type productWrapper interface {
	Wrapped() ProductReader
}

// UnwrapProduct follows the decorator chain to the innermost reader.
func UnwrapProduct(reader ProductReader) ProductReader {
	for {
		wrapper, ok := reader.(productWrapper)
		if !ok {
			return reader
		}
		reader = wrapper.Wrapped()
	}
}

// ProductDecorator forwards all reads to the wrapped reader. Concrete
// decorators embed it and override what they augment.
type ProductDecorator struct {
	wrapped ProductReader
}

func (d ProductDecorator) Wrapped() ProductReader      { return d.wrapped }
func (d ProductDecorator) ID() string                  { return d.wrapped.ID() }
func (d ProductDecorator) Name() string                { return d.wrapped.Name() }
func (d ProductDecorator) Category() ProductCategory   { return d.wrapped.Category() }
func (d ProductDecorator) SKU() string                 { return d.wrapped.SKU() }
func (d ProductDecorator) Description() string         { return d.wrapped.Description() }
func (d ProductDecorator) Quantity() int               { return d.wrapped.Quantity() }
func (d ProductDecorator) PurchasePrice() Money        { return d.wrapped.PurchasePrice() }
func (d ProductDecorator) SellingPrice() Money         { return d.wrapped.SellingPrice() }
func (d ProductDecorator) StockStatus() string         { return d.wrapped.StockStatus() }
func (d ProductDecorator) Details() map[string]interface{} {
	return d.wrapped.Details()
}

// decoratedDetails layers the decoration markers on top of the wrapped
// reader's details, preserving every field contributed by inner layers.
func (d ProductDecorator) decoratedDetails(decoratorType string) map[string]interface{} {
	details := d.wrapped.Details()
	details["decorated"] = true
	details["decorator_type"] = decoratorType
	return details
}

// DiscountedProduct presents the product with a percentage off the selling
// price. SellingPrice returns the adjusted price; Details exposes both the
// original and discounted prices plus the savings.
type DiscountedProduct struct {
	ProductDecorator
	discountPercentage decimal.Decimal
}

func NewDiscountedProduct(wrapped ProductReader, discountPercentage decimal.Decimal) (*DiscountedProduct, error) {
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, newValidationError("discount percentage must be between 0 and 100")
	}
	return &DiscountedProduct{
		ProductDecorator:   ProductDecorator{wrapped: wrapped},
		discountPercentage: discountPercentage,
	}, nil
}

func (d *DiscountedProduct) DiscountPercentage() decimal.Decimal {
	return d.discountPercentage
}

func (d *DiscountedProduct) SellingPrice() Money {
	original := d.wrapped.SellingPrice()
	factor := decimal.NewFromInt(1).Sub(d.discountPercentage.Div(decimal.NewFromInt(100)))
	return original.derive(original.Amount.Mul(factor))
}

func (d *DiscountedProduct) Details() map[string]interface{} {
	details := d.decoratedDetails("DiscountedProduct")
	original := d.wrapped.SellingPrice()
	discounted := d.SellingPrice()
	details["original_price"] = original.String()
	details["discounted_price"] = discounted.String()
	details["discount_percentage"] = fmt.Sprintf("%s%%", d.discountPercentage)
	details["savings"] = original.derive(original.Amount.Sub(discounted.Amount)).String()
	return details
}

// FeaturedProduct marks the product as featured with banner text and color.
type FeaturedProduct struct {
	ProductDecorator
	featureDescription string
	bannerColor        string
	featuredSince      time.Time
}

func NewFeaturedProduct(wrapped ProductReader, featureDescription, bannerColor string) *FeaturedProduct {
	if bannerColor == "" {
		bannerColor = "gold"
	}
	return &FeaturedProduct{
		ProductDecorator:   ProductDecorator{wrapped: wrapped},
		featureDescription: featureDescription,
		bannerColor:        bannerColor,
		featuredSince:      time.Now(),
	}
}

func (d *FeaturedProduct) Details() map[string]interface{} {
	details := d.decoratedDetails("FeaturedProduct")
	details["featured"] = true
	details["feature_description"] = d.featureDescription
	details["banner_color"] = d.bannerColor
	details["featured_since"] = d.featuredSince.Format(time.RFC3339)
	return details
}

// LimitedEditionProduct marks the product as a numbered limited edition.
type LimitedEditionProduct struct {
	ProductDecorator
	editionNumber int
	totalEdition  int
}

func NewLimitedEditionProduct(wrapped ProductReader, editionNumber, totalEdition int) (*LimitedEditionProduct, error) {
	if totalEdition <= 0 || editionNumber <= 0 || editionNumber > totalEdition {
		return nil, newValidationError("edition number must be within 1..%d", totalEdition)
	}
	return &LimitedEditionProduct{
		ProductDecorator: ProductDecorator{wrapped: wrapped},
		editionNumber:    editionNumber,
		totalEdition:     totalEdition,
	}, nil
}

func (d *LimitedEditionProduct) Details() map[string]interface{} {
	details := d.decoratedDetails("LimitedEditionProduct")
	details["limited_edition"] = true
	details["edition_number"] = d.editionNumber
	details["total_edition"] = d.totalEdition
	details["rarity"] = fmt.Sprintf("%d/%d", d.editionNumber, d.totalEdition)
	return details
}
