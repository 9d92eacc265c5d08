package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"warehouse-service/internal/domain"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{
	"id", "name", "category", "purchase_price", "selling_price", "currency",
	"quantity", "sku", "description", "weight", "dimensions", "product_type",
	"attributes", "created_at", "updated_at",
}

// CSVProductRepo keeps products in a CSV file, for exports and small
// deployments without SQLite. Every operation reads or rewrites the whole
// file; a mutex keeps concurrent callers consistent.
type CSVProductRepo struct {
	path string
	mu   sync.Mutex
}

func NewCSVProductRepo(path string) (*CSVProductRepo, error) {
	r := &CSVProductRepo{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := r.writeRows(nil); err != nil {
			return nil, fmt.Errorf("failed to create csv file: %w", err)
		}
	}
	return r, nil
}

func (r *CSVProductRepo) readRows() ([]productRow, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]productRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("malformed csv record: got %d fields, want %d", len(record), len(csvHeader))
		}
		quantity, err := strconv.Atoi(record[6])
		if err != nil {
			return nil, fmt.Errorf("bad quantity %q: %w", record[6], err)
		}
		rows = append(rows, productRow{
			ID:            record[0],
			Name:          record[1],
			Category:      record[2],
			PurchasePrice: record[3],
			SellingPrice:  record[4],
			Currency:      record[5],
			Quantity:      quantity,
			SKU:           record[7],
			Description:   record[8],
			Weight:        record[9],
			Dimensions:    record[10],
			ProductType:   record[11],
			Attributes:    record[12],
			CreatedAt:     record[13],
			UpdatedAt:     record[14],
		})
	}
	return rows, nil
}

func (r *CSVProductRepo) writeRows(rows []productRow) error {
	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ID, row.Name, row.Category, row.PurchasePrice, row.SellingPrice,
			row.Currency, strconv.Itoa(row.Quantity), row.SKU, row.Description,
			row.Weight, row.Dimensions, row.ProductType, row.Attributes,
			row.CreatedAt, row.UpdatedAt,
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// Save inserts or replaces the product's row and rewrites the file.
func (r *CSVProductRepo) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := productToRow(product)
	if err != nil {
		return err
	}
	rows, err := r.readRows()
	if err != nil {
		return err
	}

	replaced := false
	for i := range rows {
		if rows[i].ID == row.ID {
			rows[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, row)
	}
	return r.writeRows(rows)
}

// GetByID returns the product, or nil when absent.
func (r *CSVProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.readRows()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.ID == id {
			return rowToProduct(row)
		}
	}
	return nil, nil
}

func (r *CSVProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadAll()
}

func (r *CSVProductRepo) loadAll() ([]*domain.Product, error) {
	rows, err := r.readRows()
	if err != nil {
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

// Delete removes the product's row; false when it was not stored.
func (r *CSVProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.readRows()
	if err != nil {
		return false, err
	}
	kept := make([]productRow, 0, len(rows))
	removed := false
	for _, row := range rows {
		if row.ID == id {
			removed = true
			continue
		}
		kept = append(kept, row)
	}
	if !removed {
		return false, nil
	}
	return true, r.writeRows(kept)
}

// SearchByName matches case-insensitively on a name substring.
func (r *CSVProductRepo) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name()), strings.ToLower(name))
	})
}

func (r *CSVProductRepo) GetByCategory(ctx context.Context, category domain.ProductCategory) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		return p.Category() == category
	})
}

func (r *CSVProductRepo) GetLowStockProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		return p.IsLowStock()
	})
}

func (r *CSVProductRepo) GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		price := p.SellingPrice().Amount
		return price.GreaterThanOrEqual(minPrice) && price.LessThanOrEqual(maxPrice)
	})
}

func (r *CSVProductRepo) filter(keep func(*domain.Product) bool) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
