package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"warehouse-service/internal/domain"

	"github.com/shopspring/decimal"
)

// In-memory repository fakes backing the service tests.

type fakeProductRepo struct {
	products map[string]*domain.Product
	saveErr  error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, product *domain.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.products[product.ID()] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetAll(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func (r *fakeProductRepo) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name()), strings.ToLower(name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCategory(ctx context.Context, category domain.ProductCategory) ([]*domain.Product, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Product, 0)
	for _, p := range all {
		if p.Category() == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetLowStockProducts(ctx context.Context) ([]*domain.Product, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Product, 0)
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*domain.Product, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Product, 0)
	for _, p := range all {
		price := p.SellingPrice().Amount
		if price.GreaterThanOrEqual(minPrice) && price.LessThanOrEqual(maxPrice) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Save(_ context.Context, order *domain.Order) error {
	r.orders[order.ID()] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) GetAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.orders[id]; !ok {
		return false, nil
	}
	delete(r.orders, id)
	return true, nil
}

func (r *fakeOrderRepo) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range all {
		if o.Status() == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range all {
		if o.CustomerEmail() == customerEmail {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range all {
		if !o.CreatedAt().Before(start) && !o.CreatedAt().After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*domain.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*domain.Employee)}
}

func (r *fakeEmployeeRepo) Save(_ context.Context, employee *domain.Employee) error {
	r.employees[employee.ID()] = employee
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	return r.employees[id], nil
}

func (r *fakeEmployeeRepo) GetAll(_ context.Context) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.employees[id]; !ok {
		return false, nil
	}
	delete(r.employees, id)
	return true, nil
}

func (r *fakeEmployeeRepo) GetByRole(ctx context.Context, role domain.EmployeeRole) ([]*domain.Employee, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Employee, 0)
	for _, e := range all {
		if e.Role() == role {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetByDepartment(ctx context.Context, department string) ([]*domain.Employee, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Employee, 0)
	for _, e := range all {
		if e.Department() == department {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetManagers(ctx context.Context) ([]*domain.Employee, error) {
	all, _ := r.GetAll(ctx)
	out := make([]*domain.Employee, 0)
	for _, e := range all {
		switch e.Role() {
		case domain.RoleManager, domain.RoleSupervisor, domain.RoleAdmin:
			out = append(out, e)
		}
	}
	return out, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	lowStock    []string
	restocked   []string
	created     []string
	transitions []string
}

func (p *fakePublisher) PublishLowStock(_ context.Context, productID, _ string, _, _ int) error {
	p.lowStock = append(p.lowStock, productID)
	return nil
}

func (p *fakePublisher) PublishProductRestocked(_ context.Context, productID, _ string, _, _ int) error {
	p.restocked = append(p.restocked, productID)
	return nil
}

func (p *fakePublisher) PublishOrderCreated(_ context.Context, orderID, _ string) error {
	p.created = append(p.created, orderID)
	return nil
}

func (p *fakePublisher) PublishOrderStatusChanged(_ context.Context, orderID, from, to string) error {
	p.transitions = append(p.transitions, orderID+":"+from+"->"+to)
	return nil
}

// fakeCache is an in-memory ProductCache.
type fakeCache struct {
	entries map[string]map[string]interface{}
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]map[string]interface{})}
}

func (c *fakeCache) CacheProductDetails(_ context.Context, productID string, details map[string]interface{}) error {
	c.entries[productID] = details
	return nil
}

func (c *fakeCache) GetCachedProductDetails(_ context.Context, productID string) (map[string]interface{}, error) {
	details, ok := c.entries[productID]
	if !ok {
		return nil, nil
	}
	c.hits++
	return details, nil
}

func (c *fakeCache) InvalidateProduct(_ context.Context, productID string) error {
	delete(c.entries, productID)
	return nil
}
