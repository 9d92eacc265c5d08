package domain

// InventoryObserver receives low-stock notifications from a Product.
// Notification is synchronous and fires inline during a stock mutation: an
// error returned by an observer propagates to the mutator's caller, and the
// quantity change that triggered it has already been committed.
type InventoryObserver interface {
	Update(productID, productName string, quantity, threshold int) error
	ObserverType() string
}
