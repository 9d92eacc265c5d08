package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warehouse-service/internal/domain"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCache caches product detail views; *redisclient.Client satisfies it.
type ProductCache interface {
	CacheProductDetails(ctx context.Context, productID string, details map[string]interface{}) error
	GetCachedProductDetails(ctx context.Context, productID string) (map[string]interface{}, error)
	InvalidateProduct(ctx context.Context, productID string) error
}

// EventPublisher publishes warehouse events; *broker.EventPublisher
// satisfies it.
type EventPublisher interface {
	PublishLowStock(ctx context.Context, productID, productName string, quantity, threshold int) error
	PublishProductRestocked(ctx context.Context, productID, productName string, added, quantity int) error
	PublishOrderCreated(ctx context.Context, orderID, customerEmail string) error
	PublishOrderStatusChanged(ctx context.Context, orderID, from, to string) error
}

// ProductService handles catalog and stock business logic. Observers are
// attached before any stock mutation so low-stock alerts fire through every
// configured channel. Cache and publisher are optional collaborators.
type ProductService struct {
	repo      domain.ProductRepository
	cache     ProductCache
	publisher EventPublisher
	observers []domain.InventoryObserver
	logger    *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repo domain.ProductRepository, cache ProductCache, publisher EventPublisher,
	observers ...domain.InventoryObserver) *ProductService {
	return &ProductService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		observers: observers,
		logger:    util.GetLogger(),
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string            `json:"name" binding:"required"`
	Category      string            `json:"category" binding:"required"`
	PurchasePrice string            `json:"purchase_price" binding:"required"`
	SellingPrice  string            `json:"selling_price" binding:"required"`
	Currency      string            `json:"currency,omitempty"`
	Quantity      int               `json:"quantity"`
	SKU           string            `json:"sku,omitempty"`
	Description   string            `json:"description,omitempty"`
	Weight        string            `json:"weight,omitempty"`
	Dimensions    map[string]string `json:"dimensions,omitempty"`

	ProductType string `json:"product_type,omitempty"`
	// clothing
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Material string `json:"material,omitempty"`
	// food
	ExpirationDate     string `json:"expiration_date,omitempty"`
	StorageTemperature string `json:"storage_temperature,omitempty"`
	// book
	Author          string `json:"author,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
}

func parseDecimal(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}

func (req *CreateProductRequest) attributes() (domain.VariantAttributes, error) {
	switch strings.ToLower(req.ProductType) {
	case "":
		return nil, nil
	case "clothing":
		return domain.NewClothingAttributes(req.Size, req.Color, req.Material), nil
	case "food":
		attrs := domain.FoodAttributes{}
		if req.ExpirationDate != "" {
			expiration, err := time.Parse("2006-01-02", req.ExpirationDate)
			if err != nil {
				return nil, fmt.Errorf("invalid expiration_date %q: %w", req.ExpirationDate, err)
			}
			attrs.ExpirationDate = &expiration
		}
		temperature, err := parseDecimal(req.StorageTemperature, "storage_temperature")
		if err != nil {
			return nil, err
		}
		attrs.StorageTemperature = temperature
		return attrs, nil
	case "book":
		return domain.BookAttributes{
			Author:          req.Author,
			ISBN:            req.ISBN,
			Publisher:       req.Publisher,
			PublicationYear: req.PublicationYear,
		}, nil
	default:
		return nil, fmt.Errorf("unknown product type %q", req.ProductType)
	}
}

// CreateProduct validates the request, constructs the product and persists it.
func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*domain.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.CreateProduct")
	defer span.End()

	purchase, err := parseDecimal(req.PurchasePrice, "purchase_price")
	if err != nil {
		return nil, err
	}
	selling, err := parseDecimal(req.SellingPrice, "selling_price")
	if err != nil {
		return nil, err
	}
	weight, err := parseDecimal(req.Weight, "weight")
	if err != nil {
		return nil, err
	}

	dimensions := make(map[string]decimal.Decimal, len(req.Dimensions))
	for k, v := range req.Dimensions {
		d, err := parseDecimal(v, "dimension "+k)
		if err != nil {
			return nil, err
		}
		dimensions[k] = d
	}

	attrs, err := req.attributes()
	if err != nil {
		return nil, err
	}

	category, err := domain.ParseProductCategory(req.Category)
	if err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(domain.ProductParams{
		ID:            newProductID(),
		Name:          req.Name,
		Category:      category,
		PurchasePrice: domain.NewMoney(purchase, req.Currency),
		SellingPrice:  domain.NewMoney(selling, req.Currency),
		Quantity:      req.Quantity,
		SKU:           req.SKU,
		Description:   req.Description,
		Weight:        weight,
		Dimensions:    dimensions,
		Attributes:    attrs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("product created",
		zap.String("product_id", product.ID()),
		zap.String("sku", product.SKU()))
	return product, nil
}

func newProductID() string {
	return "PRD-" + strings.ToUpper(uuid.NewString()[:8])
}

// GetProduct returns the product or a NotFoundError.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("product", id)
	}
	return product, nil
}

// GetProductDetails returns the detail view, from cache when possible.
func (s *ProductService) GetProductDetails(ctx context.Context, id string) (map[string]interface{}, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetProductDetails")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetCachedProductDetails(ctx, id)
		if err != nil {
			s.logger.Warn("product details cache lookup failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	details := product.Details()

	if s.cache != nil {
		if err := s.cache.CacheProductDetails(ctx, id, details); err != nil {
			s.logger.Warn("failed to cache product details", zap.Error(err))
		}
	}
	return details, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.repo.SearchByName(ctx, name)
}

func (s *ProductService) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	parsed, err := domain.ParseProductCategory(category)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByCategory(ctx, parsed)
}

func (s *ProductService) LowStockProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetLowStockProducts(ctx)
}

func (s *ProductService) GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*domain.Product, error) {
	return s.repo.GetByPriceRange(ctx, minPrice, maxPrice)
}

// Restock increases the product's stock, persists it and publishes a
// restocked event. Observers see the mutation, so a restock that still
// leaves the product at the threshold keeps alerting.
func (s *ProductService) Restock(ctx context.Context, id string, amount int) (*domain.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Restock")
	defer span.End()

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachObservers(product)

	if err := product.IncreaseQuantity(amount); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	util.StockMovementsTotal.WithLabelValues("in").Inc()
	s.invalidate(ctx, id)

	if s.publisher != nil {
		if err := s.publisher.PublishProductRestocked(ctx, product.ID(), product.Name(), amount, product.Quantity()); err != nil {
			s.logger.Error("failed to publish ProductRestocked event", zap.Error(err))
		}
	}

	s.logger.Info("product restocked",
		zap.String("product_id", id),
		zap.Int("added", amount),
		zap.Int("quantity", product.Quantity()))
	return product, nil
}

// RemoveStock decreases the product's stock and persists it. Low-stock
// observers fire when the mutation lands at or below the threshold.
func (s *ProductService) RemoveStock(ctx context.Context, id string, amount int) (*domain.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.RemoveStock")
	defer span.End()

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachObservers(product)

	notifyErr := product.DecreaseQuantity(amount)
	if notifyErr != nil {
		if _, ok := notifyErr.(*domain.ValidationError); ok {
			return nil, notifyErr
		}
		// observer failure: the quantity change is committed, persist it
		s.logger.Error("low stock notification failed", zap.Error(notifyErr))
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	util.StockMovementsTotal.WithLabelValues("out").Inc()
	s.invalidate(ctx, id)
	return product, notifyErr
}

// RepriceRequest carries optional new prices as decimal strings.
type RepriceRequest struct {
	PurchasePrice string `json:"purchase_price,omitempty"`
	SellingPrice  string `json:"selling_price,omitempty"`
}

// Reprice updates one or both prices, keeping the selling >= purchase
// invariant.
func (s *ProductService) Reprice(ctx context.Context, id string, req *RepriceRequest) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PurchasePrice != "" {
		price, err := parseDecimal(req.PurchasePrice, "purchase_price")
		if err != nil {
			return nil, err
		}
		if err := product.SetPurchasePrice(domain.NewMoney(price, product.PurchasePrice().Currency)); err != nil {
			return nil, err
		}
	}
	if req.SellingPrice != "" {
		price, err := parseDecimal(req.SellingPrice, "selling_price")
		if err != nil {
			return nil, err
		}
		if err := product.SetSellingPrice(domain.NewMoney(price, product.SellingPrice().Currency)); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct removes the product or returns a NotFoundError.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NewNotFoundError("product", id)
	}
	s.invalidate(ctx, id)
	return nil
}

// InventoryValue sums the purchase-price value of all stock.
func (s *ProductService) InventoryValue(ctx context.Context) (domain.Money, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return domain.Money{}, err
	}
	total := domain.ZeroMoney(domain.DefaultCurrency)
	for i, product := range products {
		if i == 0 {
			total = domain.ZeroMoney(product.PurchasePrice().Currency)
		}
		sum, err := total.Add(product.TotalValue())
		if err != nil {
			return domain.Money{}, err
		}
		total = sum
	}
	return total, nil
}

// PriceQuote prices a quantity of the product under the given strategy.
func (s *ProductService) PriceQuote(ctx context.Context, id string, strategy domain.PricingStrategy, quantity int) (domain.Money, string, error) {
	if quantity <= 0 {
		return domain.Money{}, "", fmt.Errorf("quantity must be positive")
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Money{}, "", err
	}
	return product.ApplyPricingStrategy(strategy, quantity), strategy.Description(), nil
}

// ShowcaseRequest selects the presentation layers to apply to a product.
// Layers stack in a fixed order: discount, then featured banner, then
// limited edition. The underlying product is never mutated.
type ShowcaseRequest struct {
	DiscountPercentage string `json:"discount_percentage,omitempty"`
	FeatureDescription string `json:"feature_description,omitempty"`
	BannerColor        string `json:"banner_color,omitempty"`
	EditionNumber      int    `json:"edition_number,omitempty"`
	TotalEdition       int    `json:"total_edition,omitempty"`
}

// Showcase returns the product's details with the requested presentation
// layers applied.
func (s *ProductService) Showcase(ctx context.Context, id string, req *ShowcaseRequest) (map[string]interface{}, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	var reader domain.ProductReader = product
	if req.DiscountPercentage != "" {
		pct, err := parseDecimal(req.DiscountPercentage, "discount percentage")
		if err != nil {
			return nil, err
		}
		reader, err = domain.NewDiscountedProduct(reader, pct)
		if err != nil {
			return nil, err
		}
	}
	if req.FeatureDescription != "" {
		reader = domain.NewFeaturedProduct(reader, req.FeatureDescription, req.BannerColor)
	}
	if req.TotalEdition > 0 {
		reader, err = domain.NewLimitedEditionProduct(reader, req.EditionNumber, req.TotalEdition)
		if err != nil {
			return nil, err
		}
	}
	return reader.Details(), nil
}

func (s *ProductService) attachObservers(product *domain.Product) {
	for _, observer := range s.observers {
		product.AttachObserver(observer)
	}
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.String("product_id", id), zap.Error(err))
	}
}
