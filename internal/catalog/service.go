package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

// Service defines the catalog operations exposed to controllers.
type Service interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryUpdateInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductUpdateInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AttachImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CategoryInput captures the fields for creating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description *string
	ParentID    *uuid.UUID
}

// CategoryUpdateInput carries optional category updates. Nil means unchanged.
type CategoryUpdateInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// ProductInput captures the fields for creating a product.
type ProductInput struct {
	CategoryID    uuid.UUID
	Name          string
	Slug          string
	Description   *string
	ShortDesc     *string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	StockQuantity int
	Brand         *string
	Unit          *string
	SKU           *string
	Barcode       *string
}

// ProductUpdateInput carries optional product updates. Nil means unchanged.
type ProductUpdateInput struct {
	CategoryID    *uuid.UUID
	Name          *string
	Description   *string
	ShortDesc     *string
	Price         *decimal.Decimal
	DiscountPrice *decimal.Decimal
	ClearDiscount bool
	StockQuantity *int
	Brand         *string
	Unit          *string
	SKU           *string
	Barcode       *string
	IsActive      *bool
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	if input.ParentID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.ParentID); err != nil {
			return nil, mapNotFound(err, "parent category not found", "load parent category")
		}
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{
		ParentID:    input.ParentID,
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		IsActive:    true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_categories_slug", "categories.slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists").WithDetails(map[string]any{"slug": slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryUpdateInput) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return nil, mapNotFound(err, "category not found", "load category")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name must not be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}
	}
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload category")
	}
	return category, nil
}

// DeleteCategory deactivates the category. Products keep their reference;
// public listings stop showing the category once is_active is cleared.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return mapNotFound(err, "category not found", "load category")
	}
	if err := s.repo.UpdateCategory(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price must not exceed max_price")
	}
	if sort := strings.TrimSpace(filters.Sort); sort != "" {
		if _, ok := productSortColumns[strings.TrimPrefix(sort, "-")]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort field").
				WithDetails(map[string]any{"sort": sort})
		}
	}
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product not found", "load product")
	}
	return product, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err, "product not found", "load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if err := validatePricing(input.Price, input.DiscountPrice); err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must not be negative")
	}

	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, mapNotFound(err, "category not found", "load category")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	product, err := s.repo.CreateProduct(ctx, &models.Product{
		CategoryID:    input.CategoryID,
		Name:          name,
		Slug:          slug,
		Description:   input.Description,
		ShortDesc:     input.ShortDesc,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		StockQuantity: input.StockQuantity,
		Brand:         input.Brand,
		Unit:          input.Unit,
		SKU:           input.SKU,
		Barcode:       input.Barcode,
		IsActive:      true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_products_slug", "products.slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists").WithDetails(map[string]any{"slug": slug})
		}
		if db.IsUniqueViolation(err, "uq_products_sku", "products.sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product sku already exists")
		}
		if db.IsUniqueViolation(err, "uq_products_barcode", "products.barcode") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product barcode already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductUpdateInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	existing, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product not found", "load product")
	}

	price := existing.Price
	if input.Price != nil {
		price = *input.Price
	}
	discount := existing.DiscountPrice
	if input.ClearDiscount {
		discount = nil
	} else if input.DiscountPrice != nil {
		discount = input.DiscountPrice
	}
	if err := validatePricing(price, discount); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			return nil, mapNotFound(err, "category not found", "load category")
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name must not be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ShortDesc != nil {
		updates["short_description"] = *input.ShortDesc
	}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Unit != nil {
		updates["unit"] = *input.Unit
	}
	if input.SKU != nil {
		updates["sku"] = *input.SKU
	}
	if input.Barcode != nil {
		updates["barcode"] = *input.Barcode
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.ClearDiscount {
		updates["discount_price"] = nil
	} else if input.DiscountPrice != nil {
		updates["discount_price"] = *input.DiscountPrice
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must not be negative")
		}
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err, "uq_products_sku", "products.sku") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "product sku already exists")
			}
			if db.IsUniqueViolation(err, "uq_products_barcode", "products.barcode") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "product barcode already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
	}

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		return mapNotFound(err, "product not found", "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ImageInput captures the fields for attaching a product image.
type ImageInput struct {
	URL      string
	AltText  *string
	IsMain   bool
	Position int
}

func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url required")
	}
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		return nil, mapNotFound(err, "product not found", "load product")
	}
	image, err := s.repo.CreateProductImage(ctx, &models.ProductImage{
		ProductID: productID,
		URL:       input.URL,
		AltText:   input.AltText,
		IsMain:    input.IsMain,
		Position:  input.Position,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product image")
	}
	return image, nil
}

func validatePricing(price decimal.Decimal, discount *decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if discount != nil {
		if discount.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount price must not be negative")
		}
		if discount.GreaterThanOrEqual(price) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount price must be lower than price")
		}
	}
	return nil
}

func mapNotFound(err error, notFoundMsg, wrapMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMsg)
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses non-alphanumeric runs into dashes.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
