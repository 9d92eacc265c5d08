package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"warehouse-service/internal/domain"
	"warehouse-service/internal/service"
	"warehouse-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// AlertReader reads the dashboard alert feed; *redisclient.Client satisfies it.
type AlertReader interface {
	RecentAlerts(ctx context.Context, limit int) ([]map[string]interface{}, error)
}

// Handler contains HTTP handlers
type Handler struct {
	products  *service.ProductService
	orders    *service.OrderService
	employees *service.EmployeeService
	reports   *service.ReportService
	alerts    AlertReader
}

// NewHandler creates a new HTTP handler
func NewHandler(products *service.ProductService, orders *service.OrderService,
	employees *service.EmployeeService, reports *service.ReportService, alerts AlertReader) *Handler {
	return &Handler{
		products:  products,
		orders:    orders,
		employees: employees,
		reports:   reports,
		alerts:    alerts,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/products", h.createProduct)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/low-stock", h.lowStockProducts)
		v1.GET("/products/inventory-value", h.inventoryValue)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/details", h.getProductDetails)
		v1.DELETE("/products/:id", h.deleteProduct)
		v1.POST("/products/:id/restock", h.restockProduct)
		v1.POST("/products/:id/remove-stock", h.removeStock)
		v1.PUT("/products/:id/prices", h.repriceProduct)
		v1.POST("/products/:id/quote", h.priceQuote)
		v1.POST("/products/:id/showcase", h.showcaseProduct)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/statistics", h.orderStatistics)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/items", h.addOrderItem)
		v1.PUT("/orders/:id/items/:productId", h.updateOrderItem)
		v1.DELETE("/orders/:id/items/:productId", h.removeOrderItem)
		v1.POST("/orders/:id/status", h.changeOrderStatus)
		v1.POST("/orders/:id/process", h.processOrder)
		v1.POST("/orders/:id/cancel", h.cancelOrder)

		v1.POST("/employees", h.hireEmployee)
		v1.GET("/employees", h.listEmployees)
		v1.GET("/employees/payroll", h.payroll)
		v1.GET("/employees/:id", h.getEmployee)
		v1.DELETE("/employees/:id", h.terminateEmployee)
		v1.POST("/employees/:id/promote", h.promoteEmployee)
		v1.PUT("/employees/:id/salary", h.setSalary)
		v1.PUT("/employees/:id/rating", h.setPerformanceRating)
		v1.GET("/employees/:id/can-manage/:reportId", h.canManage)
		v1.POST("/employees/:id/tasks", h.assignTask)
		v1.DELETE("/employees/:id/tasks", h.removeTask)
		v1.GET("/employees/:id/bonus", h.employeeBonus)

		v1.GET("/alerts", h.recentAlerts)

		v1.GET("/reports/inventory", h.inventoryReport)
		v1.GET("/reports/sales", h.salesReport)
		v1.GET("/reports/performance", h.performanceReport)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps domain errors to HTTP statuses: validation failures are
// 400, illegal state transitions 409, missing entities 404.
func respondError(c *gin.Context, err error) {
	var notFound *domain.NotFoundError
	var validationErr *domain.ValidationError
	var stateErr *domain.StateError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product.Details())
}

func (h *Handler) listProducts(c *gin.Context) {
	var (
		products []*domain.Product
		err      error
	)
	switch {
	case c.Query("search") != "":
		products, err = h.products.SearchProducts(c.Request.Context(), c.Query("search"))
	case c.Query("category") != "":
		products, err = h.products.GetByCategory(c.Request.Context(), c.Query("category"))
	case c.Query("min_price") != "" || c.Query("max_price") != "":
		minPrice, perr := decimal.NewFromString(c.DefaultQuery("min_price", "0"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		maxPrice, perr := decimal.NewFromString(c.DefaultQuery("max_price", "999999999"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		products, err = h.products.GetByPriceRange(c.Request.Context(), minPrice, maxPrice)
	default:
		products, err = h.products.ListProducts(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productListResponse(products))
}

func productListResponse(products []*domain.Product) gin.H {
	details := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		details = append(details, p.Details())
	}
	return gin.H{"products": details, "count": len(details)}
}

func (h *Handler) lowStockProducts(c *gin.Context) {
	products, err := h.products.LowStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productListResponse(products))
}

func (h *Handler) inventoryValue(c *gin.Context) {
	value, err := h.products.InventoryValue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory_value": value.String()})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.Details())
}

func (h *Handler) getProductDetails(c *gin.Context) {
	details, err := h.products.GetProductDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type stockRequest struct {
	Amount int `json:"amount" binding:"required,min=1"`
}

func (h *Handler) restockProduct(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	product, err := h.products.Restock(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.Details())
}

func (h *Handler) removeStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	product, err := h.products.RemoveStock(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.Details())
}

func (h *Handler) repriceProduct(c *gin.Context) {
	var req service.RepriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	product, err := h.products.Reprice(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.Details())
}

type quoteRequest struct {
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	Strategy     string `json:"strategy" binding:"required"`
	DiscountRate string `json:"discount_rate,omitempty"`
	MinQuantity  int    `json:"min_quantity,omitempty"`
	Multiplier   string `json:"multiplier,omitempty"`
}

func (req *quoteRequest) pricingStrategy() (domain.PricingStrategy, error) {
	switch req.Strategy {
	case "regular":
		return domain.RegularPricing{}, nil
	case "bulk":
		rate, err := decimal.NewFromString(req.DiscountRate)
		if err != nil {
			return nil, err
		}
		return domain.NewBulkDiscountPricing(rate, req.MinQuantity), nil
	case "seasonal":
		multiplier, err := decimal.NewFromString(req.Multiplier)
		if err != nil {
			return nil, err
		}
		return domain.NewSeasonalPricing(multiplier), nil
	default:
		return nil, errors.New("unknown pricing strategy: " + req.Strategy)
	}
}

func (h *Handler) priceQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	strategy, err := req.pricingStrategy()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	total, description, err := h.products.PriceQuote(c.Request.Context(), c.Param("id"), strategy, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    total.String(),
		"strategy": description,
		"quantity": req.Quantity,
	})
}

func (h *Handler) showcaseProduct(c *gin.Context) {
	var req service.ShowcaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	details, err := h.products.Showcase(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order.Summary())
}

func (h *Handler) listOrders(c *gin.Context) {
	var (
		orders []*domain.Order
		err    error
	)
	switch {
	case c.Query("status") != "":
		orders, err = h.orders.GetByStatus(c.Request.Context(), c.Query("status"))
	case c.Query("customer") != "":
		orders, err = h.orders.GetByCustomer(c.Request.Context(), c.Query("customer"))
	default:
		orders, err = h.orders.ListOrders(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]map[string]interface{}, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, order.Summary())
	}
	c.JSON(http.StatusOK, gin.H{"orders": summaries, "count": len(summaries)})
}

func (h *Handler) orderStatistics(c *gin.Context) {
	stats, err := h.orders.OrderStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.DetailedSummary())
}

type orderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (h *Handler) addOrderItem(c *gin.Context) {
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	order, err := h.orders.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.DetailedSummary())
}

func (h *Handler) updateOrderItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	order, err := h.orders.UpdateItemQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.DetailedSummary())
}

func (h *Handler) removeOrderItem(c *gin.Context) {
	order, err := h.orders.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.DetailedSummary())
}

func (h *Handler) changeOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	order, err := h.orders.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.Summary())
}

func (h *Handler) processOrder(c *gin.Context) {
	order, err := h.orders.ProcessOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.Summary())
}

func (h *Handler) cancelOrder(c *gin.Context) {
	order, err := h.orders.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.Summary())
}

func (h *Handler) hireEmployee(c *gin.Context) {
	var req service.HireEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	employee, err := h.employees.HireEmployee(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee.Info())
}

func (h *Handler) listEmployees(c *gin.Context) {
	var (
		employees []*domain.Employee
		err       error
	)
	switch {
	case c.Query("role") != "":
		employees, err = h.employees.GetByRole(c.Request.Context(), c.Query("role"))
	case c.Query("department") != "":
		employees, err = h.employees.GetByDepartment(c.Request.Context(), c.Query("department"))
	case c.Query("managers") == "true":
		employees, err = h.employees.GetManagers(c.Request.Context())
	default:
		employees, err = h.employees.ListEmployees(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	infos := make([]map[string]interface{}, 0, len(employees))
	for _, employee := range employees {
		infos = append(infos, employee.Info())
	}
	c.JSON(http.StatusOK, gin.H{"employees": infos, "count": len(infos)})
}

func (h *Handler) payroll(c *gin.Context) {
	payroll, err := h.employees.Payroll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payroll)
}

func (h *Handler) getEmployee(c *gin.Context) {
	employee, err := h.employees.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee.Info())
}

func (h *Handler) terminateEmployee(c *gin.Context) {
	if err := h.employees.TerminateEmployee(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) promoteEmployee(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	employee, err := h.employees.Promote(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee.Info())
}

func (h *Handler) setSalary(c *gin.Context) {
	var req struct {
		Salary string `json:"salary" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	employee, err := h.employees.SetSalary(c.Request.Context(), c.Param("id"), req.Salary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee.Info())
}

func (h *Handler) setPerformanceRating(c *gin.Context) {
	var req struct {
		Rating string `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	rating, err := decimal.NewFromString(req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating"})
		return
	}
	employee, err := h.employees.SetPerformanceRating(c.Request.Context(), c.Param("id"), rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee.Info())
}

func (h *Handler) canManage(c *gin.Context) {
	allowed, err := h.employees.CanManage(c.Request.Context(), c.Param("id"), c.Param("reportId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"manager_id": c.Param("id"),
		"report_id":  c.Param("reportId"),
		"can_manage": allowed,
	})
}

func (h *Handler) assignTask(c *gin.Context) {
	var req struct {
		Task string `json:"task" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	employee, err := h.employees.AssignTask(c.Request.Context(), c.Param("id"), req.Task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee.Info())
}

func (h *Handler) removeTask(c *gin.Context) {
	task := c.Query("task")
	if task == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task query parameter is required"})
		return
	}
	employee, err := h.employees.RemoveTask(c.Request.Context(), c.Param("id"), task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee.Info())
}

func (h *Handler) employeeBonus(c *gin.Context) {
	percentage, err := decimal.NewFromString(c.DefaultQuery("percentage", "0.1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid percentage"})
		return
	}
	bonus, err := h.employees.Bonus(c.Request.Context(), c.Param("id"), percentage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bonus": bonus.String(), "percentage": percentage.String()})
}

func (h *Handler) recentAlerts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	alerts, err := h.alerts.RecentAlerts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (h *Handler) inventoryReport(c *gin.Context) {
	report, err := h.reports.GenerateInventoryReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) salesReport(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)

	var err error
	if raw := c.Query("start"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return
		}
	}
	if raw := c.Query("end"); raw != "" {
		end, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}
	}

	report, err := h.reports.GenerateSalesReport(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) performanceReport(c *gin.Context) {
	report, err := h.reports.GeneratePerformanceReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
