package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInventoryReport(t *testing.T) {
	products := newFakeProductRepo()
	seedProduct(t, products, "p-1", 5)
	seedProduct(t, products, "p-2", 80)
	svc := NewReportService(products, newFakeOrderRepo(), newFakeEmployeeRepo())

	report, err := svc.GenerateInventoryReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "inventory", report.Type)
	assert.False(t, report.GeneratedAt.IsZero())

	data := report.Data.(map[string]interface{})
	assert.Equal(t, 2, data["product_count"])
	assert.Equal(t, 85, data["total_units"])
	// 5*100 + 80*100
	assert.Equal(t, "USD 8500.00", data["total_value"])

	lowStock := data["low_stock"].([]map[string]interface{})
	require.Len(t, lowStock, 1)
	assert.Equal(t, "p-1", lowStock[0]["product_id"])
}

func TestGenerateSalesReport(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	seedProduct(t, products, "p-1", 100)

	orderSvc := NewOrderService(orders, products, nil)
	order := createTestOrder(t, orderSvc)
	_, err := orderSvc.AddItem(context.Background(), order.ID(), "p-1", 2)
	require.NoError(t, err)
	advanceOrder(t, orderSvc, order.ID(), "Pending", "Confirmed", "Processing", "Shipped", "Delivered")

	svc := NewReportService(products, orders, newFakeEmployeeRepo())

	report, err := svc.GenerateSalesReport(context.Background(),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	data := report.Data.(map[string]interface{})
	assert.Equal(t, 1, data["order_count"])
	assert.Equal(t, 1, data["delivered_orders"])
	assert.NotEqual(t, "USD 0.00", data["revenue"])
}

func TestGenerateSalesReportRejectsInvertedRange(t *testing.T) {
	svc := NewReportService(newFakeProductRepo(), newFakeOrderRepo(), newFakeEmployeeRepo())

	_, err := svc.GenerateSalesReport(context.Background(),
		time.Now(), time.Now().Add(-24*time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report validation failed")
}

func TestGeneratePerformanceReport(t *testing.T) {
	employees := newFakeEmployeeRepo()
	employeeSvc := NewEmployeeService(employees)
	hireTestEmployee(t, employeeSvc, "alice", "Manager")
	hireTestEmployee(t, employeeSvc, "bob", "Warehouse Worker")

	svc := NewReportService(newFakeProductRepo(), newFakeOrderRepo(), employees)

	report, err := svc.GeneratePerformanceReport(context.Background())
	require.NoError(t, err)

	data := report.Data.(map[string]interface{})
	assert.Equal(t, 2, data["headcount"])
	entries := data["employees"].([]map[string]interface{})
	assert.Len(t, entries, 2)
}
