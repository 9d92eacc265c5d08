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

// OrderRepo persists orders and their line items in SQLite. Saving replaces
// the full item set so the row state always mirrors the aggregate.
type OrderRepo struct {
	store *Store
}

func NewOrderRepo(store *Store) *OrderRepo {
	return &OrderRepo{store: store}
}

type orderRow struct {
	ID              string  `db:"id"`
	CustomerName    string  `db:"customer_name"`
	CustomerEmail   string  `db:"customer_email"`
	ShippingAddress *string `db:"shipping_address"`
	BillingAddress  *string `db:"billing_address"`
	Status          string  `db:"status"`
	Notes           string  `db:"notes"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

type orderItemRow struct {
	OrderID     string `db:"order_id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	UnitPrice   string `db:"unit_price"`
	Currency    string `db:"currency"`
	Quantity    int    `db:"quantity"`
	Position    int    `db:"position"`
}

func addressToJSON(address *domain.Address) (*string, error) {
	if address == nil {
		return nil, nil
	}
	payload, err := json.Marshal(address.ToMap())
	if err != nil {
		return nil, err
	}
	encoded := string(payload)
	return &encoded, nil
}

func addressFromJSON(payload *string) (*domain.Address, error) {
	if payload == nil {
		return nil, nil
	}
	var data map[string]string
	if err := json.Unmarshal([]byte(*payload), &data); err != nil {
		return nil, err
	}
	address := domain.AddressFromMap(data)
	return &address, nil
}

// Save stores the order and replaces its line items in one transaction.
func (r *OrderRepo) Save(ctx context.Context, order *domain.Order) error {
	shipping, err := addressToJSON(order.ShippingAddress())
	if err != nil {
		return err
	}
	billing, err := addressToJSON(order.BillingAddress())
	if err != nil {
		return err
	}

	row := orderRow{
		ID:              order.ID(),
		CustomerName:    order.CustomerName(),
		CustomerEmail:   order.CustomerEmail(),
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Status:          string(order.Status()),
		Notes:           order.Notes(),
		CreatedAt:       order.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:       order.UpdatedAt().Format(time.RFC3339Nano),
	}

	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, shipping_address,
			billing_address, status, notes, created_at, updated_at)
		VALUES (:id, :customer_name, :customer_email, :shipping_address,
			:billing_address, :status, :notes, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			customer_name = excluded.customer_name,
			customer_email = excluded.customer_email,
			shipping_address = excluded.shipping_address,
			billing_address = excluded.billing_address,
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at`, row); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", order.ID()); err != nil {
		return err
	}
	for position, item := range order.Items() {
		itemRow := orderItemRow{
			OrderID:     order.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Amount.String(),
			Currency:    item.UnitPrice().Currency,
			Quantity:    item.Quantity(),
			Position:    position,
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price,
				currency, quantity, position)
			VALUES (:order_id, :product_id, :product_name, :unit_price,
				:currency, :quantity, :position)`, itemRow); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID returns the order with its items, or nil when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := r.store.db.GetContext(ctx, &row, "SELECT * FROM orders WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.rowToOrder(ctx, row)
}

func (r *OrderRepo) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return r.selectOrders(ctx, "SELECT * FROM orders ORDER BY created_at DESC")
}

// Delete removes the order and its items; false when it was not stored.
func (r *OrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, tx.Commit()
}

func (r *OrderRepo) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.selectOrders(ctx,
		"SELECT * FROM orders WHERE status = ? ORDER BY created_at DESC", string(status))
}

func (r *OrderRepo) GetByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	return r.selectOrders(ctx,
		"SELECT * FROM orders WHERE customer_email = ? ORDER BY created_at DESC", customerEmail)
}

func (r *OrderRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return r.selectOrders(ctx,
		"SELECT * FROM orders WHERE created_at >= ? AND created_at <= ? ORDER BY created_at",
		start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
}

func (r *OrderRepo) selectOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	var rows []orderRow
	if err := r.store.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := r.rowToOrder(ctx, row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *OrderRepo) rowToOrder(ctx context.Context, row orderRow) (*domain.Order, error) {
	var itemRows []orderItemRow
	err := r.store.db.SelectContext(ctx, &itemRows,
		"SELECT * FROM order_items WHERE order_id = ? ORDER BY position", row.ID)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.OrderItem, 0, len(itemRows))
	for _, itemRow := range itemRows {
		price, err := decimal.NewFromString(itemRow.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s: bad unit price: %w", row.ID, err)
		}
		item, err := domain.NewOrderItem(itemRow.ProductID, itemRow.ProductName,
			domain.NewMoney(price, itemRow.Currency), itemRow.Quantity)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", row.ID, err)
		}
		items = append(items, item)
	}

	shipping, err := addressFromJSON(row.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad shipping address: %w", row.ID, err)
	}
	billing, err := addressFromJSON(row.BillingAddress)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad billing address: %w", row.ID, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad created_at: %w", row.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad updated_at: %w", row.ID, err)
	}

	return domain.RehydrateOrder(row.ID, row.CustomerName, row.CustomerEmail,
		shipping, billing, domain.OrderStatus(row.Status), items, row.Notes, createdAt, updatedAt)
}
