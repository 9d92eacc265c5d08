package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantAttributes is the closed set of specialized product payloads. A
// plain product carries none; clothing, food and book products each add
// their own fields to the presentation details without touching the base
// invariants. The unexported method keeps the set closed to this package.
type VariantAttributes interface {
	ProductType() string
	details() map[string]interface{}
}

// ClothingAttributes adds size, color and material.
type ClothingAttributes struct {
	Size     string
	Color    string
	Material string
}

// NewClothingAttributes applies the catalog defaults for omitted fields.
func NewClothingAttributes(size, color, material string) ClothingAttributes {
	if size == "" {
		size = "M"
	}
	if color == "" {
		color = "Black"
	}
	if material == "" {
		material = "Cotton"
	}
	return ClothingAttributes{Size: size, Color: color, Material: material}
}

func (ClothingAttributes) ProductType() string { return "Clothing" }

func (a ClothingAttributes) details() map[string]interface{} {
	return map[string]interface{}{
		"size":     a.Size,
		"color":    a.Color,
		"material": a.Material,
	}
}

// FoodAttributes adds an optional expiration date and storage temperature
// in degrees Celsius.
type FoodAttributes struct {
	ExpirationDate     *time.Time
	StorageTemperature decimal.Decimal
}

func (FoodAttributes) ProductType() string { return "Food" }

func (a FoodAttributes) IsExpired() bool {
	if a.ExpirationDate == nil {
		return false
	}
	return time.Now().After(*a.ExpirationDate)
}

// DaysUntilExpiration returns the remaining days, floored at zero. The
// second result is false when no expiration date is set.
func (a FoodAttributes) DaysUntilExpiration() (int, bool) {
	if a.ExpirationDate == nil {
		return 0, false
	}
	days := int(time.Until(*a.ExpirationDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

func (a FoodAttributes) details() map[string]interface{} {
	var expiration interface{}
	if a.ExpirationDate != nil {
		expiration = a.ExpirationDate.Format("2006-01-02")
	}
	var daysLeft interface{}
	if days, ok := a.DaysUntilExpiration(); ok {
		daysLeft = days
	}
	return map[string]interface{}{
		"expiration_date":       expiration,
		"is_expired":            a.IsExpired(),
		"days_until_expiration": daysLeft,
		"storage_temperature":   a.StorageTemperature.String(),
	}
}

// BookAttributes adds author, ISBN, publisher and publication year.
type BookAttributes struct {
	Author          string
	ISBN            string
	Publisher       string
	PublicationYear int
}

func (BookAttributes) ProductType() string { return "Book" }

func (a BookAttributes) details() map[string]interface{} {
	return map[string]interface{}{
		"author":           a.Author,
		"isbn":             a.ISBN,
		"publisher":        a.Publisher,
		"publication_year": a.PublicationYear,
	}
}
