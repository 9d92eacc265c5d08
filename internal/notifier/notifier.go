// Package notifier provides the inventory observers that react to low-stock
// notifications: operator email, an in-process log, the Redis dashboard feed
// and the Kafka event stream.
package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warehouse-service/internal/util"

	"go.uber.org/zap"
)

// EmailNotifier sends a low-stock notice to a recipient. Delivery is logged
// rather than wired to an SMTP gateway; the send counter backs the tests and
// the admin endpoints.
type EmailNotifier struct {
	recipient string

	mu   sync.Mutex
	sent int
}

func NewEmailNotifier(recipient string) *EmailNotifier {
	return &EmailNotifier{recipient: recipient}
}

func (n *EmailNotifier) Update(productID, productName string, quantity, threshold int) error {
	n.mu.Lock()
	n.sent++
	n.mu.Unlock()

	util.GetLogger().Info("low stock email sent",
		zap.String("recipient", n.recipient),
		zap.String("product_id", productID),
		zap.String("product", productName),
		zap.Int("quantity", quantity),
		zap.Int("threshold", threshold))
	return nil
}

func (n *EmailNotifier) ObserverType() string { return "email" }

// SentCount returns how many notifications have been sent.
func (n *EmailNotifier) SentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent
}

// LogNotifier accumulates alert records in memory.
type LogNotifier struct {
	mu      sync.Mutex
	records []string
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Update(productID, productName string, quantity, threshold int) error {
	record := fmt.Sprintf("[%s] LOW STOCK: %s (%s) at %d units (threshold %d)",
		time.Now().Format(time.RFC3339), productName, productID, quantity, threshold)

	n.mu.Lock()
	n.records = append(n.records, record)
	n.mu.Unlock()

	util.GetLogger().Warn("low stock",
		zap.String("product_id", productID),
		zap.String("product", productName),
		zap.Int("quantity", quantity))
	return nil
}

func (n *LogNotifier) ObserverType() string { return "log" }

// Records returns a copy of the accumulated alert records.
func (n *LogNotifier) Records() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.records))
	copy(out, n.records)
	return out
}

// AlertSink receives dashboard alerts; *redisclient.Client satisfies it.
type AlertSink interface {
	PushAlert(ctx context.Context, alert map[string]interface{}) error
}

// DashboardNotifier pushes alerts onto the operations dashboard feed.
type DashboardNotifier struct {
	sink AlertSink
}

func NewDashboardNotifier(sink AlertSink) *DashboardNotifier {
	return &DashboardNotifier{sink: sink}
}

func (n *DashboardNotifier) Update(productID, productName string, quantity, threshold int) error {
	alert := map[string]interface{}{
		"type":         "low_stock",
		"product_id":   productID,
		"product_name": productName,
		"quantity":     quantity,
		"threshold":    threshold,
		"raised_at":    time.Now().Format(time.RFC3339),
	}
	return n.sink.PushAlert(context.Background(), alert)
}

func (n *DashboardNotifier) ObserverType() string { return "dashboard" }

// LowStockPublisher publishes low-stock events; *broker.EventPublisher
// satisfies it.
type LowStockPublisher interface {
	PublishLowStock(ctx context.Context, productID, productName string, quantity, threshold int) error
}

// KafkaNotifier emits low-stock events onto the inventory topic so that
// downstream consumers (the stock alert worker included) can react.
type KafkaNotifier struct {
	publisher LowStockPublisher
}

func NewKafkaNotifier(publisher LowStockPublisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher}
}

func (n *KafkaNotifier) Update(productID, productName string, quantity, threshold int) error {
	util.LowStockAlertsTotal.Inc()
	return n.publisher.PublishLowStock(context.Background(), productID, productName, quantity, threshold)
}

func (n *KafkaNotifier) ObserverType() string { return "kafka" }
