package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

type stubRepo struct {
	categories map[uuid.UUID]*models.Category
	products   map[uuid.UUID]*models.Product
	createErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		categories: map[uuid.UUID]*models.Category{},
		products:   map[uuid.UUID]*models.Product{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if category, ok := s.categories[id]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, category := range s.categories {
		if category.Slug == slug {
			return category, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	out := []models.Category{}
	for _, category := range s.categories {
		if includeInactive || category.IsActive {
			out = append(out, *category)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	category, ok := s.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		category.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		category.IsActive = active
	}
	return nil
}

func (s *stubRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for _, product := range s.products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	items := []models.Product{}
	for _, product := range s.products {
		items = append(items, *product)
	}
	return &ProductList{Items: items, Page: pagination.NewPage(params, int64(len(items)))}, nil
}

func (s *stubRepo) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		product.Name = v.(string)
	}
	if v, ok := updates["price"]; ok {
		product.Price = v.(decimal.Decimal)
	}
	if v, ok := updates["discount_price"]; ok {
		if v == nil {
			product.DiscountPrice = nil
		} else {
			d := v.(decimal.Decimal)
			product.DiscountPrice = &d
		}
	}
	if v, ok := updates["stock_quantity"]; ok {
		product.StockQuantity = v.(int)
	}
	if v, ok := updates["is_active"]; ok {
		product.IsActive = v.(bool)
	}
	return nil
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

func (s *stubRepo) CreateProductImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	return image, nil
}

func (s *stubRepo) ReserveStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	product, ok := s.products[productID]
	if !ok || product.StockQuantity < qty {
		return false, nil
	}
	product.StockQuantity -= qty
	return true, nil
}

func (s *stubRepo) ReleaseStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if product, ok := s.products[productID]; ok {
		product.StockQuantity += qty
	}
	return nil
}

func seedStubCategory(repo *stubRepo) *models.Category {
	category := &models.Category{ID: uuid.New(), Name: "Grains", Slug: "grains", IsActive: true}
	repo.categories[category.ID] = category
	return category
}

func TestServiceDeleteCategoryDeactivates(t *testing.T) {
	repo := newStubRepo()
	category := seedStubCategory(repo)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	assert.False(t, repo.categories[category.ID].IsActive)

	err = svc.DeleteCategory(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceCreateProductValidation(t *testing.T) {
	repo := newStubRepo()
	category := seedStubCategory(repo)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CreateProduct(ctx, ProductInput{CategoryID: category.ID, Name: "", Price: decimal.New(10, 0)})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(ctx, ProductInput{CategoryID: category.ID, Name: "Rice", Price: decimal.New(-1, 0)})
	assertCode(t, err, pkgerrors.CodeValidation)

	discount := decimal.RequireFromString("15.00")
	_, err = svc.CreateProduct(ctx, ProductInput{
		CategoryID:    category.ID,
		Name:          "Rice",
		Price:         decimal.RequireFromString("10.00"),
		DiscountPrice: &discount,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(ctx, ProductInput{CategoryID: uuid.New(), Name: "Rice", Price: decimal.RequireFromString("10.00")})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceCreateProductGeneratesSlug(t *testing.T) {
	repo := newStubRepo()
	category := seedStubCategory(repo)
	svc, err := NewService(repo)
	require.NoError(t, err)

	product, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID:    category.ID,
		Name:          "Basmati Rice 5kg",
		Price:         decimal.RequireFromString("45.00"),
		StockQuantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "basmati-rice-5kg", product.Slug)
	assert.True(t, product.IsActive)
}

func TestServiceUpdateProductClearDiscount(t *testing.T) {
	repo := newStubRepo()
	category := seedStubCategory(repo)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	discount := decimal.RequireFromString("8.00")
	product, err := svc.CreateProduct(ctx, ProductInput{
		CategoryID:    category.ID,
		Name:          "Green Tea",
		Price:         decimal.RequireFromString("10.00"),
		DiscountPrice: &discount,
	})
	require.NoError(t, err)
	require.NotNil(t, product.DiscountPrice)

	updated, err := svc.UpdateProduct(ctx, product.ID, ProductUpdateInput{ClearDiscount: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DiscountPrice)
}

func TestServiceGetProductNotFound(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceListProductsRejectsUnknownSort(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.ListProducts(context.Background(), pagination.Params{}, ProductFilters{Sort: "stock_quantity"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.ListProducts(context.Background(), pagination.Params{}, ProductFilters{Sort: "-price"})
	require.NoError(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "basmati-rice-5kg", Slugify("Basmati Rice 5kg"))
	assert.Equal(t, "dried-pepper-mix", Slugify("  Dried Pepper  Mix! "))
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
