package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository contracts consumed by the use cases. Implementations are
// collaborators (SQLite, CSV, in-memory); the domain calls them
// synchronously and treats "not found" as a nil result, not an error.

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	SearchByName(ctx context.Context, name string) ([]*Product, error)
	GetByCategory(ctx context.Context, category ProductCategory) ([]*Product, error)
	GetLowStockProducts(ctx context.Context) ([]*Product, error)
	GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*Product, error)
}

type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
	GetByCustomer(ctx context.Context, customerEmail string) ([]*Order, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*Order, error)
}

type EmployeeRepository interface {
	Save(ctx context.Context, employee *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetAll(ctx context.Context) ([]*Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByRole(ctx context.Context, role EmployeeRole) ([]*Employee, error)
	GetByDepartment(ctx context.Context, department string) ([]*Employee, error)
	GetManagers(ctx context.Context) ([]*Employee, error)
}
