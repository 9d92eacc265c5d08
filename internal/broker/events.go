package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types
const (
	EventTypeLowStock           = "LOW_STOCK"
	EventTypeProductRestocked   = "PRODUCT_RESTOCKED"
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func newBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// LowStockEvent published when a product falls to the low-stock threshold
type LowStockEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"threshold"`
}

// ProductRestockedEvent published after a restock
type ProductRestockedEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Added       int    `json:"added"`
	Quantity    int    `json:"quantity"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
}

// OrderStatusChangedEvent published on every status transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// EventPublisher handles publishing warehouse events. Inventory events and
// order events go to separate topics.
type EventPublisher struct {
	inventory *Producer
	orders    *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(inventory, orders *Producer) *EventPublisher {
	return &EventPublisher{inventory: inventory, orders: orders}
}

// PublishLowStock publishes a LowStock event
func (ep *EventPublisher) PublishLowStock(ctx context.Context, productID, productName string, quantity, threshold int) error {
	event := &LowStockEvent{
		BaseEvent:   newBaseEvent(EventTypeLowStock),
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		Threshold:   threshold,
	}
	return ep.inventory.PublishEvent(ctx, "product-"+productID, event)
}

// PublishProductRestocked publishes a ProductRestocked event
func (ep *EventPublisher) PublishProductRestocked(ctx context.Context, productID, productName string, added, quantity int) error {
	event := &ProductRestockedEvent{
		BaseEvent:   newBaseEvent(EventTypeProductRestocked),
		ProductID:   productID,
		ProductName: productName,
		Added:       added,
		Quantity:    quantity,
	}
	return ep.inventory.PublishEvent(ctx, "product-"+productID, event)
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, orderID, customerEmail string) error {
	event := &OrderCreatedEvent{
		BaseEvent:     newBaseEvent(EventTypeOrderCreated),
		OrderID:       orderID,
		CustomerEmail: customerEmail,
	}
	return ep.orders.PublishEvent(ctx, "order-"+orderID, event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, orderID, from, to string) error {
	event := &OrderStatusChangedEvent{
		BaseEvent:  newBaseEvent(EventTypeOrderStatusChanged),
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
	}
	return ep.orders.PublishEvent(ctx, "order-"+orderID, event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onLowStock         func(context.Context, *LowStockEvent) error
	onProductRestocked func(context.Context, *ProductRestockedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnLowStock registers a handler for LowStock events
func (eh *EventHandler) OnLowStock(handler func(context.Context, *LowStockEvent) error) {
	eh.onLowStock = handler
}

// OnProductRestocked registers a handler for ProductRestocked events
func (eh *EventHandler) OnProductRestocked(handler func(context.Context, *ProductRestockedEvent) error) {
	eh.onProductRestocked = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	util.GetLogger().Debug("handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case EventTypeLowStock:
		if eh.onLowStock != nil {
			var event LowStockEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LowStock event: %w", err)
			}
			return eh.onLowStock(ctx, &event)
		}

	case EventTypeProductRestocked:
		if eh.onProductRestocked != nil {
			var event ProductRestockedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductRestocked event: %w", err)
			}
			return eh.onProductRestocked(ctx, &event)
		}

	default:
		util.GetLogger().Warn("unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
