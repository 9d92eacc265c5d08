package service

import (
	"context"
	"fmt"
	"strings"

	"warehouse-service/internal/domain"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order business logic: the cart lifecycle, the status
// state machine and the stock handshake during fulfillment.
type OrderService struct {
	orders    domain.OrderRepository
	products  domain.ProductRepository
	publisher EventPublisher
	observers []domain.InventoryObserver
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders domain.OrderRepository, products domain.ProductRepository,
	publisher EventPublisher, observers ...domain.InventoryObserver) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		publisher: publisher,
		observers: observers,
		logger:    util.GetLogger(),
	}
}

// AddressRequest mirrors a postal address in API requests
type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

func (r *AddressRequest) toAddress() *domain.Address {
	if r == nil {
		return nil
	}
	return &domain.Address{
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Country: r.Country,
	}
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerName    string          `json:"customer_name" binding:"required"`
	CustomerEmail   string          `json:"customer_email" binding:"required"`
	ShippingAddress *AddressRequest `json:"shipping_address,omitempty"`
	BillingAddress  *AddressRequest `json:"billing_address,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// CreateOrder creates a draft order and publishes an OrderCreated event.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	order, err := domain.NewOrder(newOrderID(), req.CustomerName, req.CustomerEmail,
		req.ShippingAddress.toAddress(), req.BillingAddress.toAddress())
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, err
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("order created",
		zap.String("order_id", order.ID()),
		zap.String("customer", order.CustomerEmail()))

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order.ID(), order.CustomerEmail()); err != nil {
			s.logger.Error("failed to publish OrderCreated event", zap.Error(err))
		}
	}
	return order, nil
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// GetOrder returns the order or a NotFoundError.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFoundError("order", id)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.GetAll(ctx)
}

func (s *OrderService) GetByStatus(ctx context.Context, status string) ([]*domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orders.GetByStatus(ctx, parsed)
}

func (s *OrderService) GetByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	return s.orders.GetByCustomer(ctx, customerEmail)
}

// AddItem puts quantity units of a product into the order. Stock is checked
// but not decremented; fulfillment commits stock in ProcessOrder.
func (s *OrderService) AddItem(ctx context.Context, orderID, productID string, quantity int) (*domain.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AddItem")
	defer span.End()

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("product", productID)
	}

	if err := order.AddItem(product, quantity); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// RemoveItem drops a product from the order.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, productID string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	removed, err := order.RemoveItem(productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, domain.NewNotFoundError("order item", productID)
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// UpdateItemQuantity resizes a line item; zero or less removes it.
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, productID string, quantity int) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	updated, err := order.UpdateItemQuantity(productID, quantity)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.NewNotFoundError("order item", productID)
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// ChangeStatus moves the order along the transition graph and publishes an
// OrderStatusChanged event.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ChangeStatus")
	defer span.End()

	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status()
	if err := order.ChangeStatus(next); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.recordTransition(ctx, order, from, next)
	return order, nil
}

func (s *OrderService) recordTransition(ctx context.Context, order *domain.Order, from, to domain.OrderStatus) {
	util.OrderStatusTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Info("order status changed",
		zap.String("order_id", order.ID()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	if s.publisher != nil {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order.ID(), string(from), string(to)); err != nil {
			s.logger.Error("failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}
}

// ProcessOrder moves a confirmed order into Processing and commits stock:
// each line item's quantity is deducted from its product. Insufficient stock
// for any item aborts before any status change.
func (s *OrderService) ProcessOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ProcessOrder")
	defer span.End()

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items := order.Items()
	products := make([]*domain.Product, 0, len(items))
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID())
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NewNotFoundError("product", item.ProductID())
		}
		if !product.CanFulfillOrder(item.Quantity()) {
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("insufficient stock for product %s: have %d, need %d",
				product.ID(), product.Quantity(), item.Quantity())
		}
		products = append(products, product)
	}

	from := order.Status()
	if err := order.ChangeStatus(domain.StatusProcessing); err != nil {
		return nil, err
	}

	for i, item := range items {
		product := products[i]
		s.attachObservers(product)
		if err := product.DecreaseQuantity(item.Quantity()); err != nil {
			s.logger.Error("stock deduction alert failed",
				zap.String("product_id", product.ID()), zap.Error(err))
		}
		if err := s.products.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to save product %s: %w", product.ID(), err)
		}
		util.StockMovementsTotal.WithLabelValues("out").Inc()
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.recordTransition(ctx, order, from, domain.StatusProcessing)
	return order, nil
}

// CancelOrder cancels a cancellable order. An order already in Processing
// has had its stock committed, so cancellation restocks the items.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CancelOrder")
	defer span.End()

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeCancelled() {
		return nil, fmt.Errorf("order %s cannot be cancelled in status %s", order.ID(), order.Status())
	}

	from := order.Status()
	restock := from == domain.StatusProcessing

	if err := order.ChangeStatus(domain.StatusCancelled); err != nil {
		return nil, err
	}

	if restock {
		for _, item := range order.Items() {
			product, err := s.products.GetByID(ctx, item.ProductID())
			if err != nil || product == nil {
				s.logger.Error("failed to restock cancelled item",
					zap.String("product_id", item.ProductID()), zap.Error(err))
				continue
			}
			if err := product.IncreaseQuantity(item.Quantity()); err != nil {
				s.logger.Error("failed to restock cancelled item",
					zap.String("product_id", item.ProductID()), zap.Error(err))
				continue
			}
			if err := s.products.Save(ctx, product); err != nil {
				return nil, fmt.Errorf("failed to save product %s: %w", product.ID(), err)
			}
			util.StockMovementsTotal.WithLabelValues("in").Inc()
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	util.OrdersCancelledTotal.Inc()
	s.recordTransition(ctx, order, from, domain.StatusCancelled)
	return order, nil
}

// OrderStatistics summarizes order counts by status and total revenue over
// completed orders.
func (s *OrderService) OrderStatistics(ctx context.Context) (map[string]interface{}, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int)
	revenue := domain.ZeroMoney(domain.DefaultCurrency)
	completed := 0
	for _, order := range orders {
		byStatus[string(order.Status())]++
		if order.Status() != domain.StatusDelivered {
			continue
		}
		total, err := order.Total(domain.DefaultTaxRate, nil, decimal.Zero)
		if err != nil {
			return nil, err
		}
		if completed == 0 {
			revenue = domain.ZeroMoney(total.Currency)
		}
		sum, err := revenue.Add(total)
		if err != nil {
			return nil, err
		}
		revenue = sum
		completed++
	}

	return map[string]interface{}{
		"total_orders":     len(orders),
		"by_status":        byStatus,
		"completed_orders": completed,
		"total_revenue":    revenue.String(),
	}, nil
}

func (s *OrderService) attachObservers(product *domain.Product) {
	for _, observer := range s.observers {
		product.AttachObserver(observer)
	}
}
