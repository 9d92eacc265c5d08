package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when the caller supplies no rate.
var DefaultTaxRate = decimal.NewFromFloat(0.1)

// DefaultShippingBase is the base shipping cost before the per-unit charge.
var DefaultShippingBase = decimal.NewFromInt(10)

// OrderItem is a line item owned by exactly one Order. The total price is
// derived from unit price and quantity and recomputed after every change;
// it is never independently settable.
type OrderItem struct {
	productID   string
	productName string
	unitPrice   Money
	quantity    int
	totalPrice  Money
}

func NewOrderItem(productID, productName string, unitPrice Money, quantity int) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, newValidationError("quantity must be positive")
	}
	if !unitPrice.IsPositive() {
		return nil, newValidationError("unit price must be positive")
	}
	item := &OrderItem{
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}
	item.recompute()
	return item, nil
}

func (i *OrderItem) ProductID() string   { return i.productID }
func (i *OrderItem) ProductName() string { return i.productName }
func (i *OrderItem) UnitPrice() Money    { return i.unitPrice }
func (i *OrderItem) Quantity() int       { return i.quantity }
func (i *OrderItem) TotalPrice() Money   { return i.totalPrice }

func (i *OrderItem) recompute() {
	i.totalPrice = i.unitPrice.Mul(i.quantity)
}

// IncreaseQuantity raises the quantity by a positive amount.
func (i *OrderItem) IncreaseQuantity(amount int) error {
	if amount <= 0 {
		return newValidationError("amount must be positive")
	}
	i.quantity += amount
	i.recompute()
	return nil
}

// SetQuantity replaces the quantity; it must stay positive.
func (i *OrderItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return newValidationError("quantity must be positive")
	}
	i.quantity = quantity
	i.recompute()
	return nil
}

// UpdatePrice replaces the unit price; the total is recomputed.
func (i *OrderItem) UpdatePrice(price Money) error {
	if !price.IsPositive() {
		return newValidationError("unit price must be positive")
	}
	i.unitPrice = price
	i.recompute()
	return nil
}

func (i *OrderItem) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"product_id":   i.productID,
		"product_name": i.productName,
		"unit_price":   i.unitPrice.String(),
		"quantity":     i.quantity,
		"total_price":  i.totalPrice.String(),
	}
}

func (i *OrderItem) String() string {
	return fmt.Sprintf("%s x%d @ %s = %s", i.productName, i.quantity, i.unitPrice, i.totalPrice)
}

// Order is a customer order with a status lifecycle. Items may be added,
// removed or resized only while the order is in Draft or Pending; status
// changes follow the legal-transition graph.
type Order struct {
	Entity
	customerName    string
	customerEmail   string
	shippingAddress *Address
	billingAddress  *Address
	status          OrderStatus
	items           map[string]*OrderItem
	itemIDs         []string
	notes           string
}

// NewOrder creates an order in Draft status. The billing address defaults
// to the shipping address when absent.
func NewOrder(id, customerName, customerEmail string, shipping, billing *Address) (*Order, error) {
	entity, err := newEntity(id)
	if err != nil {
		return nil, err
	}
	if len(customerName) < 2 {
		return nil, newValidationError("customer name must be at least 2 characters")
	}
	if !strings.Contains(customerEmail, "@") {
		return nil, newValidationError("invalid email address: %q", customerEmail)
	}
	if billing == nil {
		billing = shipping
	}
	return &Order{
		Entity:          entity,
		customerName:    customerName,
		customerEmail:   customerEmail,
		shippingAddress: shipping,
		billingAddress:  billing,
		status:          StatusDraft,
		items:           make(map[string]*OrderItem),
	}, nil
}

// RehydrateOrder reconstructs a persisted order without replaying the
// status state machine.
func RehydrateOrder(id, customerName, customerEmail string, shipping, billing *Address,
	status OrderStatus, items []*OrderItem, notes string, createdAt, updatedAt time.Time) (*Order, error) {

	o, err := NewOrder(id, customerName, customerEmail, shipping, billing)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, newValidationError("unknown order status: %q", status)
	}
	o.status = status
	o.notes = notes
	for _, item := range items {
		o.items[item.productID] = item
		o.itemIDs = append(o.itemIDs, item.productID)
	}
	o.restoreTimestamps(createdAt, updatedAt)
	return o, nil
}

func (o *Order) CustomerName() string       { return o.customerName }
func (o *Order) CustomerEmail() string      { return o.customerEmail }
func (o *Order) ShippingAddress() *Address  { return o.shippingAddress }
func (o *Order) BillingAddress() *Address   { return o.billingAddress }
func (o *Order) Status() OrderStatus        { return o.status }
func (o *Order) Notes() string              { return o.notes }

func (o *Order) SetNotes(notes string) {
	o.notes = notes
	o.touch()
}

func (o *Order) SetShippingAddress(address *Address) {
	o.shippingAddress = address
	o.touch()
}

func (o *Order) SetBillingAddress(address *Address) {
	o.billingAddress = address
	o.touch()
}

// AddItem adds a product to the order, merging quantities when the product
// is already present. It does not decrement product stock; fulfillment
// commits stock separately. Accepting a ProductReader means a decorated
// product contributes its adjusted selling price.
func (o *Order) AddItem(product ProductReader, quantity int) error {
	if !o.CanBeModified() {
		return newStateError("order %s cannot be modified in status %s", o.ID(), o.status)
	}
	if product.Quantity() < quantity {
		return newValidationError("product %s cannot fulfill order for %d units", product.Name(), quantity)
	}

	if existing, ok := o.items[product.ID()]; ok {
		if err := existing.IncreaseQuantity(quantity); err != nil {
			return err
		}
	} else {
		item, err := NewOrderItem(product.ID(), product.Name(), product.SellingPrice(), quantity)
		if err != nil {
			return err
		}
		o.items[product.ID()] = item
		o.itemIDs = append(o.itemIDs, product.ID())
	}

	o.touch()
	return nil
}

// RemoveItem deletes an item; false when the product was not in the order.
func (o *Order) RemoveItem(productID string) (bool, error) {
	if !o.CanBeModified() {
		return false, newStateError("order %s cannot be modified in status %s", o.ID(), o.status)
	}
	if _, ok := o.items[productID]; !ok {
		return false, nil
	}
	delete(o.items, productID)
	for i, id := range o.itemIDs {
		if id == productID {
			o.itemIDs = append(o.itemIDs[:i], o.itemIDs[i+1:]...)
			break
		}
	}
	o.touch()
	return true, nil
}

// UpdateItemQuantity resizes an item; a quantity of zero or less removes it.
func (o *Order) UpdateItemQuantity(productID string, newQuantity int) (bool, error) {
	if !o.CanBeModified() {
		return false, newStateError("order %s cannot be modified in status %s", o.ID(), o.status)
	}
	item, ok := o.items[productID]
	if !ok {
		return false, nil
	}
	if newQuantity <= 0 {
		return o.RemoveItem(productID)
	}
	if err := item.SetQuantity(newQuantity); err != nil {
		return false, err
	}
	o.touch()
	return true, nil
}

// Items returns the line items in insertion order.
func (o *Order) Items() []*OrderItem {
	out := make([]*OrderItem, 0, len(o.itemIDs))
	for _, id := range o.itemIDs {
		out = append(out, o.items[id])
	}
	return out
}

// Item looks up a line item by product id.
func (o *Order) Item(productID string) (*OrderItem, bool) {
	item, ok := o.items[productID]
	return item, ok
}

// ItemCount is the total unit count across all items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.items {
		count += item.quantity
	}
	return count
}

// Subtotal sums the item totals.
func (o *Order) Subtotal() (Money, error) {
	subtotal := ZeroMoney(DefaultCurrency)
	for i, id := range o.itemIDs {
		item := o.items[id]
		if i == 0 {
			subtotal = ZeroMoney(item.totalPrice.Currency)
		}
		sum, err := subtotal.Add(item.totalPrice)
		if err != nil {
			return Money{}, err
		}
		subtotal = sum
	}
	return subtotal, nil
}

// Tax computes subtotal multiplied by the rate, which must lie in [0, 1].
func (o *Order) Tax(rate decimal.Decimal) (Money, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return Money{}, newValidationError("tax rate must be between 0 and 1")
	}
	subtotal, err := o.Subtotal()
	if err != nil {
		return Money{}, err
	}
	return subtotal.derive(subtotal.Amount.Mul(rate)), nil
}

// ShippingCost is the base cost plus one currency unit per item; an empty
// order ships for free.
func (o *Order) ShippingCost(base Money) Money {
	itemCount := o.ItemCount()
	if itemCount == 0 {
		return ZeroMoney(base.Currency)
	}
	perItem := decimal.NewFromInt(int64(itemCount))
	return base.derive(base.Amount.Add(perItem))
}

// Discount computes the subtotal share for a percentage in [0, 100].
func (o *Order) Discount(percentage decimal.Decimal) (Money, error) {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return Money{}, newValidationError("discount percentage must be between 0 and 100")
	}
	subtotal, err := o.Subtotal()
	if err != nil {
		return Money{}, err
	}
	return subtotal.derive(subtotal.Amount.Mul(percentage).Div(decimal.NewFromInt(100))), nil
}

// Total is subtotal + tax + shipping − discount, floored at zero. A nil
// shipping cost falls back to the default shipping calculation.
func (o *Order) Total(taxRate decimal.Decimal, shippingCost *Money, discountPercentage decimal.Decimal) (Money, error) {
	subtotal, err := o.Subtotal()
	if err != nil {
		return Money{}, err
	}
	tax, err := o.Tax(taxRate)
	if err != nil {
		return Money{}, err
	}
	shipping := o.ShippingCost(NewMoney(DefaultShippingBase, subtotal.Currency))
	if shippingCost != nil {
		shipping = *shippingCost
	}
	discount, err := o.Discount(discountPercentage)
	if err != nil {
		return Money{}, err
	}

	total := subtotal.Amount.Add(tax.Amount).Add(shipping.Amount).Sub(discount.Amount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return subtotal.derive(total), nil
}

// ChangeStatus moves the order along the transition graph.
func (o *Order) ChangeStatus(next OrderStatus) error {
	if !o.status.CanTransitionTo(next) {
		return newValidationError("cannot change status from %s to %s", o.status, next)
	}
	o.status = next
	o.touch()
	return nil
}

func (o *Order) CanBeCancelled() bool {
	switch o.status {
	case StatusDraft, StatusPending, StatusConfirmed, StatusProcessing:
		return true
	}
	return false
}

func (o *Order) CanBeModified() bool {
	return o.status == StatusDraft || o.status == StatusPending
}

func (o *Order) IsCompleted() bool {
	return o.status == StatusDelivered || o.status == StatusRefunded
}

// Summary returns the presentation mapping for the order.
func (o *Order) Summary() map[string]interface{} {
	var shipping, billing interface{}
	if o.shippingAddress != nil {
		shipping = o.shippingAddress.String()
	}
	if o.billingAddress != nil {
		billing = o.billingAddress.String()
	}

	summary := map[string]interface{}{
		"id":               o.ID(),
		"customer_name":    o.customerName,
		"customer_email":   o.customerEmail,
		"shipping_address": shipping,
		"billing_address":  billing,
		"status":           string(o.status),
		"item_count":       o.ItemCount(),
		"notes":            o.notes,
		"created_at":       o.CreatedAt().Format(time.RFC3339),
		"updated_at":       o.UpdatedAt().Format(time.RFC3339),
	}
	if subtotal, err := o.Subtotal(); err == nil {
		summary["subtotal"] = subtotal.String()
	}
	if total, err := o.Total(DefaultTaxRate, nil, decimal.Zero); err == nil {
		summary["total"] = total.String()
	}
	return summary
}

// DetailedSummary extends Summary with the line items.
func (o *Order) DetailedSummary() map[string]interface{} {
	summary := o.Summary()
	items := make([]map[string]interface{}, 0, len(o.itemIDs))
	lines := make([]string, 0, len(o.itemIDs))
	for _, item := range o.Items() {
		items = append(items, item.ToMap())
		lines = append(lines, fmt.Sprintf("%s x%d @ %s", item.productName, item.quantity, item.unitPrice))
	}
	summary["items"] = items
	summary["item_details"] = lines
	return summary
}

func (o *Order) String() string {
	return fmt.Sprintf("Order #%s - %s - %s", o.ID(), o.customerName, o.status)
}
