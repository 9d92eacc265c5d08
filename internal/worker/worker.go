package worker

import (
	"context"

	"warehouse-service/internal/broker"
	"warehouse-service/internal/util"

	"go.uber.org/zap"
)

// AlertStore receives alerts produced from inventory events.
type AlertStore interface {
	PushAlert(ctx context.Context, alert map[string]interface{}) error
}

// StockAlertWorker consumes inventory events and feeds the alert dashboard.
// Alerts raised by other service instances land here, so every instance sees
// the full alert stream regardless of which one mutated the stock.
type StockAlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	alerts       AlertStore
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(consumer *broker.Consumer, alerts AlertStore) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer: consumer,
		alerts:   alerts,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnLowStock(w.handleLowStock)
	eventHandler.OnProductRestocked(w.handleProductRestocked)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("starting stock alert worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	util.GetLogger().Info("stopping stock alert worker")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleLowStock(ctx context.Context, event *broker.LowStockEvent) error {
	util.GetLogger().Warn("low stock event received",
		zap.String("product_id", event.ProductID),
		zap.String("product_name", event.ProductName),
		zap.Int("quantity", event.Quantity),
		zap.Int("threshold", event.Threshold))

	return w.alerts.PushAlert(ctx, map[string]interface{}{
		"type":         "low_stock",
		"event_id":     event.EventID,
		"product_id":   event.ProductID,
		"product_name": event.ProductName,
		"quantity":     event.Quantity,
		"threshold":    event.Threshold,
		"raised_at":    event.Timestamp,
	})
}

func (w *StockAlertWorker) handleProductRestocked(ctx context.Context, event *broker.ProductRestockedEvent) error {
	util.GetLogger().Info("product restocked event received",
		zap.String("product_id", event.ProductID),
		zap.String("product_name", event.ProductName),
		zap.Int("added", event.Added),
		zap.Int("quantity", event.Quantity))

	return w.alerts.PushAlert(ctx, map[string]interface{}{
		"type":         "restocked",
		"event_id":     event.EventID,
		"product_id":   event.ProductID,
		"product_name": event.ProductName,
		"added":        event.Added,
		"quantity":     event.Quantity,
		"raised_at":    event.Timestamp,
	})
}
