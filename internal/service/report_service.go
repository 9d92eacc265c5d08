package service

import (
	"context"
	"fmt"
	"time"

	"warehouse-service/internal/domain"
	"warehouse-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService generates warehouse reports through the fixed
// domain.GenerateReport pipeline. Each report type is a ReportSource; the
// inventory source additionally validates and saves, the sales source
// validates its date range.
type ReportService struct {
	products  domain.ProductRepository
	orders    domain.OrderRepository
	employees domain.EmployeeRepository
	logger    *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(products domain.ProductRepository, orders domain.OrderRepository,
	employees domain.EmployeeRepository) *ReportService {
	return &ReportService{
		products:  products,
		orders:    orders,
		employees: employees,
		logger:    util.GetLogger(),
	}
}

func (s *ReportService) generate(ctx context.Context, source domain.ReportSource) (*domain.Report, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Generate."+source.Name())
	defer span.End()

	start := time.Now()
	report, err := domain.GenerateReport(ctx, source)
	util.ReportGenerationLatency.WithLabelValues(source.Name()).Observe(time.Since(start).Seconds())
	return report, err
}

// GenerateInventoryReport reports stock levels, valuation and alerts.
func (s *ReportService) GenerateInventoryReport(ctx context.Context) (*domain.Report, error) {
	return s.generate(ctx, &inventoryReportSource{repo: s.products, logger: s.logger})
}

// GenerateSalesReport reports order volume and revenue for a date range.
func (s *ReportService) GenerateSalesReport(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	return s.generate(ctx, &salesReportSource{repo: s.orders, start: start, end: end})
}

// GeneratePerformanceReport reports staff ratings and task load.
func (s *ReportService) GeneratePerformanceReport(ctx context.Context) (*domain.Report, error) {
	return s.generate(ctx, &performanceReportSource{repo: s.employees})
}

type inventoryReportSource struct {
	repo   domain.ProductRepository
	logger *zap.Logger
}

func (r *inventoryReportSource) Name() string { return "inventory" }

func (r *inventoryReportSource) Validate(ctx context.Context) error {
	if r.repo == nil {
		return fmt.Errorf("product repository is not configured")
	}
	return nil
}

func (r *inventoryReportSource) Collect(ctx context.Context) (interface{}, error) {
	return r.repo.GetAll(ctx)
}

func (r *inventoryReportSource) Process(data interface{}) (interface{}, error) {
	products, ok := data.([]*domain.Product)
	if !ok {
		return nil, fmt.Errorf("unexpected inventory data type %T", data)
	}

	totalValue := domain.ZeroMoney(domain.DefaultCurrency)
	totalUnits := 0
	byCategory := make(map[string]int)
	lowStock := make([]map[string]interface{}, 0)

	for i, product := range products {
		if i == 0 {
			totalValue = domain.ZeroMoney(product.PurchasePrice().Currency)
		}
		sum, err := totalValue.Add(product.TotalValue())
		if err != nil {
			return nil, err
		}
		totalValue = sum
		totalUnits += product.Quantity()
		byCategory[string(product.Category())]++

		if product.IsLowStock() {
			lowStock = append(lowStock, map[string]interface{}{
				"product_id": product.ID(),
				"name":       product.Name(),
				"quantity":   product.Quantity(),
			})
		}
	}

	return map[string]interface{}{
		"product_count": len(products),
		"total_units":   totalUnits,
		"total_value":   totalValue.String(),
		"by_category":   byCategory,
		"low_stock":     lowStock,
	}, nil
}

func (r *inventoryReportSource) Save(report *domain.Report) error {
	r.logger.Info("inventory report generated",
		zap.Time("generated_at", report.GeneratedAt))
	return nil
}

type salesReportSource struct {
	repo  domain.OrderRepository
	start time.Time
	end   time.Time
}

func (r *salesReportSource) Name() string { return "sales" }

func (r *salesReportSource) Validate(ctx context.Context) error {
	if r.end.Before(r.start) {
		return fmt.Errorf("report period end %s precedes start %s",
			r.end.Format("2006-01-02"), r.start.Format("2006-01-02"))
	}
	return nil
}

func (r *salesReportSource) Collect(ctx context.Context) (interface{}, error) {
	return r.repo.GetByDateRange(ctx, r.start, r.end)
}

func (r *salesReportSource) Process(data interface{}) (interface{}, error) {
	orders, ok := data.([]*domain.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected sales data type %T", data)
	}

	byStatus := make(map[string]int)
	revenue := domain.ZeroMoney(domain.DefaultCurrency)
	delivered := 0
	for _, order := range orders {
		byStatus[string(order.Status())]++
		if order.Status() != domain.StatusDelivered {
			continue
		}
		total, err := order.Total(domain.DefaultTaxRate, nil, decimal.Zero)
		if err != nil {
			return nil, err
		}
		if delivered == 0 {
			revenue = domain.ZeroMoney(total.Currency)
		}
		sum, err := revenue.Add(total)
		if err != nil {
			return nil, err
		}
		revenue = sum
		delivered++
	}

	return map[string]interface{}{
		"period_start":     r.start.Format("2006-01-02"),
		"period_end":       r.end.Format("2006-01-02"),
		"order_count":      len(orders),
		"by_status":        byStatus,
		"delivered_orders": delivered,
		"revenue":          revenue.String(),
	}, nil
}

type performanceReportSource struct {
	repo domain.EmployeeRepository
}

func (r *performanceReportSource) Name() string { return "performance" }

func (r *performanceReportSource) Collect(ctx context.Context) (interface{}, error) {
	return r.repo.GetAll(ctx)
}

func (r *performanceReportSource) Process(data interface{}) (interface{}, error) {
	employees, ok := data.([]*domain.Employee)
	if !ok {
		return nil, fmt.Errorf("unexpected performance data type %T", data)
	}

	entries := make([]map[string]interface{}, 0, len(employees))
	ratingSum := decimal.Zero
	for _, employee := range employees {
		ratingSum = ratingSum.Add(employee.PerformanceRating())
		entries = append(entries, map[string]interface{}{
			"employee_id":        employee.ID(),
			"name":               employee.Name(),
			"role":               string(employee.Role()),
			"department":         employee.Department(),
			"performance_rating": employee.PerformanceRating().String(),
			"open_tasks":         len(employee.Tasks()),
			"years_of_service":   employee.YearsOfService(),
		})
	}

	average := decimal.Zero
	if len(employees) > 0 {
		average = ratingSum.Div(decimal.NewFromInt(int64(len(employees))))
	}

	return map[string]interface{}{
		"headcount":      len(employees),
		"average_rating": average.StringFixed(2),
		"employees":      entries,
	}, nil
}
