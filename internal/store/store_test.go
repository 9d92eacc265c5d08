package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"warehouse-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "warehouse_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestProduct(t *testing.T, id, name string, quantity int) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.ProductParams{
		ID:            id,
		Name:          name,
		Category:      domain.CategoryElectronics,
		PurchasePrice: domain.NewMoney(decimal.NewFromInt(100), "USD"),
		SellingPrice:  domain.NewMoney(decimal.NewFromInt(150), "USD"),
		Quantity:      quantity,
	})
	require.NoError(t, err)
	return p
}

func TestProductRepoRoundTrip(t *testing.T) {
	repo := NewProductRepo(newTestStore(t))
	ctx := context.Background()

	expiration := time.Now().Add(30 * 24 * time.Hour)
	p, err := domain.NewProduct(domain.ProductParams{
		ID:            "p-1",
		Name:          "Canned Beans",
		Category:      domain.CategoryFood,
		PurchasePrice: domain.NewMoney(decimal.NewFromFloat(1.25), "USD"),
		SellingPrice:  domain.NewMoney(decimal.NewFromFloat(2.50), "USD"),
		Quantity:      120,
		Description:   "400g tin",
		Weight:        decimal.NewFromFloat(0.45),
		Dimensions:    map[string]decimal.Decimal{"height": decimal.NewFromInt(11)},
		Attributes: domain.FoodAttributes{
			ExpirationDate:     &expiration,
			StorageTemperature: decimal.NewFromInt(20),
		},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, p.Name(), got.Name())
	assert.Equal(t, p.SKU(), got.SKU())
	assert.Equal(t, p.Quantity(), got.Quantity())
	assert.True(t, p.SellingPrice().Equal(got.SellingPrice()))
	assert.True(t, p.CreatedAt().Equal(got.CreatedAt()))

	attrs, ok := got.Attributes().(domain.FoodAttributes)
	require.True(t, ok)
	require.NotNil(t, attrs.ExpirationDate)
	assert.True(t, expiration.Equal(*attrs.ExpirationDate))
	assert.True(t, decimal.NewFromInt(20).Equal(attrs.StorageTemperature))
}

func TestProductRepoGetByIDAbsent(t *testing.T) {
	repo := NewProductRepo(newTestStore(t))

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepoSaveIsUpsert(t *testing.T) {
	repo := NewProductRepo(newTestStore(t))
	ctx := context.Background()

	p := newTestProduct(t, "p-1", "Widget", 100)
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, p.DecreaseQuantity(40))
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 60, got.Quantity())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductRepoQueries(t *testing.T) {
	repo := NewProductRepo(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestProduct(t, "p-1", "USB Cable", 5)))
	require.NoError(t, repo.Save(ctx, newTestProduct(t, "p-2", "USB Hub", 80)))

	shirt, err := domain.NewProduct(domain.ProductParams{
		ID:            "p-3",
		Name:          "Shirt",
		Category:      domain.CategoryClothing,
		PurchasePrice: domain.NewMoney(decimal.NewFromInt(10), "USD"),
		SellingPrice:  domain.NewMoney(decimal.NewFromInt(25), "USD"),
		Quantity:      40,
		Attributes:    domain.NewClothingAttributes("L", "", ""),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, shirt))

	found, err := repo.SearchByName(ctx, "usb")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	clothing, err := repo.GetByCategory(ctx, domain.CategoryClothing)
	require.NoError(t, err)
	require.Len(t, clothing, 1)
	assert.Equal(t, "p-3", clothing[0].ID())

	low, err := repo.GetLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p-1", low[0].ID())

	cheap, err := repo.GetByPriceRange(ctx, decimal.NewFromInt(20), decimal.NewFromInt(30))
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "p-3", cheap[0].ID())
}

func TestProductRepoDelete(t *testing.T) {
	repo := NewProductRepo(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestProduct(t, "p-1", "Widget", 10)))

	removed, err := repo.Delete(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestOrderRepoRoundTrip(t *testing.T) {
	s := newTestStore(t)
	orders := NewOrderRepo(s)
	ctx := context.Background()

	shipping := &domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA"}
	order, err := domain.NewOrder("ord-1", "Alice Smith", "alice@example.com", shipping, nil)
	require.NoError(t, err)

	first := newTestProduct(t, "p-1", "Widget", 50)
	second := newTestProduct(t, "p-2", "Gadget", 50)
	require.NoError(t, order.AddItem(first, 2))
	require.NoError(t, order.AddItem(second, 1))
	require.NoError(t, order.ChangeStatus(domain.StatusPending))
	order.SetNotes("leave at door")

	require.NoError(t, orders.Save(ctx, order))

	got, err := orders.GetByID(ctx, "ord-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Alice Smith", got.CustomerName())
	assert.Equal(t, domain.StatusPending, got.Status())
	assert.Equal(t, "leave at door", got.Notes())
	require.NotNil(t, got.ShippingAddress())
	assert.Equal(t, *shipping, *got.ShippingAddress())
	// billing defaulted to shipping at construction
	require.NotNil(t, got.BillingAddress())
	assert.Equal(t, *shipping, *got.BillingAddress())

	items := got.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p-1", items[0].ProductID())
	assert.Equal(t, "p-2", items[1].ProductID())
	assert.Equal(t, 2, items[0].Quantity())

	wantSubtotal, err := order.Subtotal()
	require.NoError(t, err)
	gotSubtotal, err := got.Subtotal()
	require.NoError(t, err)
	assert.True(t, wantSubtotal.Equal(gotSubtotal))
}

func TestOrderRepoSaveReplacesItems(t *testing.T) {
	orders := NewOrderRepo(newTestStore(t))
	ctx := context.Background()

	order, err := domain.NewOrder("ord-1", "Bob Jones", "bob@example.com", nil, nil)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(newTestProduct(t, "p-1", "Widget", 50), 3))
	require.NoError(t, orders.Save(ctx, order))

	removed, err := order.RemoveItem("p-1")
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, order.AddItem(newTestProduct(t, "p-2", "Gadget", 50), 1))
	require.NoError(t, orders.Save(ctx, order))

	got, err := orders.GetByID(ctx, "ord-1")
	require.NoError(t, err)
	items := got.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p-2", items[0].ProductID())
}

func TestOrderRepoQueries(t *testing.T) {
	orders := NewOrderRepo(newTestStore(t))
	ctx := context.Background()

	first, err := domain.NewOrder("ord-1", "Alice Smith", "alice@example.com", nil, nil)
	require.NoError(t, err)
	require.NoError(t, first.ChangeStatus(domain.StatusPending))

	second, err := domain.NewOrder("ord-2", "Bob Jones", "bob@example.com", nil, nil)
	require.NoError(t, err)

	require.NoError(t, orders.Save(ctx, first))
	require.NoError(t, orders.Save(ctx, second))

	pending, err := orders.GetByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ord-1", pending[0].ID())

	byCustomer, err := orders.GetByCustomer(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "ord-2", byCustomer[0].ID())

	inRange, err := orders.GetByDateRange(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	outOfRange, err := orders.GetByDateRange(ctx, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, outOfRange)
}

func TestOrderRepoDelete(t *testing.T) {
	s := newTestStore(t)
	orders := NewOrderRepo(s)
	ctx := context.Background()

	order, err := domain.NewOrder("ord-1", "Alice Smith", "alice@example.com", nil, nil)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(newTestProduct(t, "p-1", "Widget", 50), 1))
	require.NoError(t, orders.Save(ctx, order))

	removed, err := orders.Delete(ctx, "ord-1")
	require.NoError(t, err)
	assert.True(t, removed)

	var itemCount int
	require.NoError(t, s.GetDB().Get(&itemCount, "SELECT COUNT(*) FROM order_items WHERE order_id = ?", "ord-1"))
	assert.Zero(t, itemCount)

	removed, err = orders.Delete(ctx, "ord-1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEmployeeRepoRoundTrip(t *testing.T) {
	repo := NewEmployeeRepo(newTestStore(t))
	ctx := context.Background()

	hireDate := time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)
	e, err := domain.NewEmployee(domain.EmployeeParams{
		ID:         "emp-1",
		Name:       "Carol White",
		Email:      "carol@example.com",
		Role:       domain.RoleSupervisor,
		Salary:     domain.NewMoney(decimal.NewFromInt(60000), "USD"),
		HireDate:   hireDate,
		Department: "Logistics",
	})
	require.NoError(t, err)
	e.AssignTask("inventory audit")
	e.AssignTask("cycle count")
	require.NoError(t, e.SetPerformanceRating(decimal.NewFromFloat(4.5)))

	require.NoError(t, repo.Save(ctx, e))

	got, err := repo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Carol White", got.Name())
	assert.Equal(t, domain.RoleSupervisor, got.Role())
	assert.True(t, hireDate.Equal(got.HireDate()))
	assert.Equal(t, []string{"inventory audit", "cycle count"}, got.Tasks())
	assert.True(t, decimal.NewFromFloat(4.5).Equal(got.PerformanceRating()))
}

func TestEmployeeRepoQueries(t *testing.T) {
	repo := NewEmployeeRepo(newTestStore(t))
	ctx := context.Background()

	save := func(id, name string, role domain.EmployeeRole, department string) {
		e, err := domain.NewEmployee(domain.EmployeeParams{
			ID:         id,
			Name:       name,
			Email:      id + "@example.com",
			Role:       role,
			Salary:     domain.NewMoney(decimal.NewFromInt(50000), "USD"),
			Department: department,
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, e))
	}

	save("emp-1", "Alice Smith", domain.RoleManager, "Operations")
	save("emp-2", "Bob Jones", domain.RoleWarehouseWorker, "Operations")
	save("emp-3", "Carol White", domain.RoleAccountant, "Finance")

	managers, err := repo.GetManagers(ctx)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "emp-1", managers[0].ID())

	operations, err := repo.GetByDepartment(ctx, "Operations")
	require.NoError(t, err)
	assert.Len(t, operations, 2)

	workers, err := repo.GetByRole(ctx, domain.RoleWarehouseWorker)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "emp-2", workers[0].ID())
}

func TestEmployeeRepoDelete(t *testing.T) {
	repo := NewEmployeeRepo(newTestStore(t))
	ctx := context.Background()

	e, err := domain.NewEmployee(domain.EmployeeParams{
		ID:     "emp-1",
		Name:   "Alice Smith",
		Email:  "alice@example.com",
		Role:   domain.RoleManager,
		Salary: domain.NewMoney(decimal.NewFromInt(50000), "USD"),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, e))

	removed, err := repo.Delete(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := repo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
