package broker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandlerRoutesLowStock(t *testing.T) {
	handler := NewEventHandler()

	var received *LowStockEvent
	handler.OnLowStock(func(_ context.Context, event *LowStockEvent) error {
		received = event
		return nil
	})

	event := &LowStockEvent{
		BaseEvent:   newBaseEvent(EventTypeLowStock),
		ProductID:   "PRD-TEST0001",
		ProductName: "USB Cable",
		Quantity:    3,
		Threshold:   10,
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = handler.HandleMessage(context.Background(), kafka.Message{Value: payload})
	require.NoError(t, err)
	require.NotNil(t, received)
	assert.Equal(t, "PRD-TEST0001", received.ProductID)
	assert.Equal(t, 3, received.Quantity)
}

func TestEventHandlerIgnoresUnregisteredTypes(t *testing.T) {
	handler := NewEventHandler()

	event := &OrderCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeOrderCreated),
		OrderID:   "ORD-TEST0001",
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = handler.HandleMessage(context.Background(), kafka.Message{Value: payload})
	assert.NoError(t, err)
}

func TestEventHandlerRejectsMalformedPayload(t *testing.T) {
	handler := NewEventHandler()
	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestPublishLowStock(t *testing.T) {
	t.Skip("Integration test - requires kafka")

	inventory := NewProducer([]string{"localhost:9092"}, "inventory-events")
	orders := NewProducer([]string{"localhost:9092"}, "order-events")
	defer inventory.Close()
	defer orders.Close()

	publisher := NewEventPublisher(inventory, orders)
	err := publisher.PublishLowStock(context.Background(), "PRD-TEST0001", "USB Cable", 3, 10)
	require.NoError(t, err)
}
