package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"warehouse-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductRepo persists products in SQLite. Domain objects are flattened into
// rows on Save and rehydrated on read; variant attributes travel as a typed
// JSON payload alongside a product_type discriminator.
type ProductRepo struct {
	store *Store
}

func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

type productRow struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Category      string `db:"category"`
	PurchasePrice string `db:"purchase_price"`
	SellingPrice  string `db:"selling_price"`
	Currency      string `db:"currency"`
	Quantity      int    `db:"quantity"`
	SKU           string `db:"sku"`
	Description   string `db:"description"`
	Weight        string `db:"weight"`
	Dimensions    string `db:"dimensions"`
	ProductType   string `db:"product_type"`
	Attributes    string `db:"attributes"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

type clothingPayload struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Material string `json:"material"`
}

type foodPayload struct {
	ExpirationDate     *string `json:"expiration_date"`
	StorageTemperature string  `json:"storage_temperature"`
}

type bookPayload struct {
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
}

func productToRow(p *domain.Product) (productRow, error) {
	dimensions := make(map[string]string)
	for k, v := range p.Dimensions() {
		dimensions[k] = v.String()
	}
	dimsJSON, err := json.Marshal(dimensions)
	if err != nil {
		return productRow{}, err
	}

	productType, attrsJSON, err := marshalAttributes(p.Attributes())
	if err != nil {
		return productRow{}, err
	}

	return productRow{
		ID:            p.ID(),
		Name:          p.Name(),
		Category:      string(p.Category()),
		PurchasePrice: p.PurchasePrice().Amount.String(),
		SellingPrice:  p.SellingPrice().Amount.String(),
		Currency:      p.SellingPrice().Currency,
		Quantity:      p.Quantity(),
		SKU:           p.SKU(),
		Description:   p.Description(),
		Weight:        p.Weight().String(),
		Dimensions:    string(dimsJSON),
		ProductType:   productType,
		Attributes:    string(attrsJSON),
		CreatedAt:     p.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:     p.UpdatedAt().Format(time.RFC3339Nano),
	}, nil
}

func marshalAttributes(attrs domain.VariantAttributes) (string, []byte, error) {
	switch a := attrs.(type) {
	case nil:
		return "", []byte("{}"), nil
	case domain.ClothingAttributes:
		payload, err := json.Marshal(clothingPayload{Size: a.Size, Color: a.Color, Material: a.Material})
		return a.ProductType(), payload, err
	case domain.FoodAttributes:
		var expiration *string
		if a.ExpirationDate != nil {
			formatted := a.ExpirationDate.Format(time.RFC3339Nano)
			expiration = &formatted
		}
		payload, err := json.Marshal(foodPayload{
			ExpirationDate:     expiration,
			StorageTemperature: a.StorageTemperature.String(),
		})
		return a.ProductType(), payload, err
	case domain.BookAttributes:
		payload, err := json.Marshal(bookPayload{
			Author: a.Author, ISBN: a.ISBN, Publisher: a.Publisher, PublicationYear: a.PublicationYear,
		})
		return a.ProductType(), payload, err
	default:
		return "", nil, fmt.Errorf("unknown variant attributes %T", attrs)
	}
}

func unmarshalAttributes(productType, payload string) (domain.VariantAttributes, error) {
	switch productType {
	case "":
		return nil, nil
	case "Clothing":
		var p clothingPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, err
		}
		return domain.ClothingAttributes{Size: p.Size, Color: p.Color, Material: p.Material}, nil
	case "Food":
		var p foodPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, err
		}
		attrs := domain.FoodAttributes{}
		if p.ExpirationDate != nil {
			expiration, err := time.Parse(time.RFC3339Nano, *p.ExpirationDate)
			if err != nil {
				return nil, err
			}
			attrs.ExpirationDate = &expiration
		}
		temperature, err := decimal.NewFromString(p.StorageTemperature)
		if err != nil {
			return nil, err
		}
		attrs.StorageTemperature = temperature
		return attrs, nil
	case "Book":
		var p bookPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, err
		}
		return domain.BookAttributes{
			Author: p.Author, ISBN: p.ISBN, Publisher: p.Publisher, PublicationYear: p.PublicationYear,
		}, nil
	default:
		return nil, fmt.Errorf("unknown product type %q", productType)
	}
}

func rowToProduct(row productRow) (*domain.Product, error) {
	purchase, err := decimal.NewFromString(row.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad purchase price: %w", row.ID, err)
	}
	selling, err := decimal.NewFromString(row.SellingPrice)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad selling price: %w", row.ID, err)
	}
	weight, err := decimal.NewFromString(row.Weight)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad weight: %w", row.ID, err)
	}

	var rawDims map[string]string
	if err := json.Unmarshal([]byte(row.Dimensions), &rawDims); err != nil {
		return nil, fmt.Errorf("product %s: bad dimensions: %w", row.ID, err)
	}
	dimensions := make(map[string]decimal.Decimal, len(rawDims))
	for k, v := range rawDims {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("product %s: bad dimension %s: %w", row.ID, k, err)
		}
		dimensions[k] = d
	}

	attrs, err := unmarshalAttributes(row.ProductType, row.Attributes)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad attributes: %w", row.ID, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad created_at: %w", row.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad updated_at: %w", row.ID, err)
	}

	return domain.RehydrateProduct(domain.ProductParams{
		ID:            row.ID,
		Name:          row.Name,
		Category:      domain.ProductCategory(row.Category),
		PurchasePrice: domain.NewMoney(purchase, row.Currency),
		SellingPrice:  domain.NewMoney(selling, row.Currency),
		Quantity:      row.Quantity,
		SKU:           row.SKU,
		Description:   row.Description,
		Weight:        weight,
		Dimensions:    dimensions,
		Attributes:    attrs,
	}, createdAt, updatedAt)
}

// Save inserts or replaces the product row.
func (r *ProductRepo) Save(ctx context.Context, product *domain.Product) error {
	row, err := productToRow(product)
	if err != nil {
		return err
	}
	_, err = r.store.db.NamedExecContext(ctx, `
		INSERT INTO products (id, name, category, purchase_price, selling_price, currency,
			quantity, sku, description, weight, dimensions, product_type, attributes,
			created_at, updated_at)
		VALUES (:id, :name, :category, :purchase_price, :selling_price, :currency,
			:quantity, :sku, :description, :weight, :dimensions, :product_type, :attributes,
			:created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			purchase_price = excluded.purchase_price,
			selling_price = excluded.selling_price,
			currency = excluded.currency,
			quantity = excluded.quantity,
			sku = excluded.sku,
			description = excluded.description,
			weight = excluded.weight,
			dimensions = excluded.dimensions,
			product_type = excluded.product_type,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at`, row)
	return err
}

// GetByID returns the product, or nil when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	err := r.store.db.GetContext(ctx, &row, "SELECT * FROM products WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToProduct(row)
}

func (r *ProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return r.selectProducts(ctx, "SELECT * FROM products ORDER BY name")
}

// Delete removes the product; false when it was not stored.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.store.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// SearchByName matches case-insensitively on a name substring.
func (r *ProductRepo) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	return r.selectProducts(ctx,
		"SELECT * FROM products WHERE name LIKE ? ORDER BY name", "%"+name+"%")
}

func (r *ProductRepo) GetByCategory(ctx context.Context, category domain.ProductCategory) ([]*domain.Product, error) {
	return r.selectProducts(ctx,
		"SELECT * FROM products WHERE category = ? ORDER BY name", string(category))
}

func (r *ProductRepo) GetLowStockProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.selectProducts(ctx,
		"SELECT * FROM products WHERE quantity <= ? ORDER BY quantity", domain.MinStockLevel)
}

// GetByPriceRange filters on the selling price. Prices are stored as decimal
// strings, so the comparison happens after rehydration rather than in SQL.
func (r *ProductRepo) GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*domain.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		price := p.SellingPrice().Amount
		if price.GreaterThanOrEqual(minPrice) && price.LessThanOrEqual(maxPrice) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *ProductRepo) selectProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	var rows []productRow
	if err := r.store.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := rowToProduct(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
