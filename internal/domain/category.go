package domain

import "strings"

// ProductCategory is a closed enumeration of product categories.
type ProductCategory string

const (
	CategoryElectronics ProductCategory = "Electronics"
	CategoryClothing    ProductCategory = "Clothing"
	CategoryFood        ProductCategory = "Food"
	CategoryBooks       ProductCategory = "Books"
	CategoryFurniture   ProductCategory = "Furniture"
	CategorySports      ProductCategory = "Sports"
	CategoryBeauty      ProductCategory = "Beauty"
)

// AllCategories lists every category in declaration order.
func AllCategories() []ProductCategory {
	return []ProductCategory{
		CategoryElectronics,
		CategoryClothing,
		CategoryFood,
		CategoryBooks,
		CategoryFurniture,
		CategorySports,
		CategoryBeauty,
	}
}

func (c ProductCategory) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Code returns the three-letter prefix used when generating SKUs.
func (c ProductCategory) Code() string {
	upper := strings.ToUpper(string(c))
	if len(upper) < 3 {
		return upper
	}
	return upper[:3]
}

// ParseProductCategory parses a category name, case-insensitively.
func ParseProductCategory(s string) (ProductCategory, error) {
	for _, known := range AllCategories() {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", newValidationError("unknown product category: %q", s)
}
