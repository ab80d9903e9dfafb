package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  parent_id TEXT,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  short_description TEXT,
  price NUMERIC NOT NULL,
  discount_price NUMERIC,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  brand TEXT,
  unit TEXT,
  sku TEXT,
  barcode TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  alt_text TEXT,
  is_main INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`}

	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type cartFixture struct {
	svc      Service
	repo     Repository
	products catalog.Repository
	category *models.Category
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	db := setupCartTestDB(t)
	products := catalog.NewRepository(db)
	repo := NewRepository(db)
	svc, err := NewService(repo, products)
	require.NoError(t, err)

	category, err := products.CreateCategory(context.Background(), &models.Category{
		Name: "Grains", Slug: "grains", IsActive: true,
	})
	require.NoError(t, err)

	return &cartFixture{svc: svc, repo: repo, products: products, category: category}
}

func (f *cartFixture) seedProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product, err := f.products.CreateProduct(context.Background(), &models.Product{
		CategoryID:    f.category.ID,
		Name:          name,
		Slug:          catalog.Slugify(name),
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	})
	require.NoError(t, err)
	return product
}

func TestAddItemCreatesCartAndMerges(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "Basmati Rice 5kg", "45.00", 20)

	view, err := f.svc.AddItem(ctx, userID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("90.00")))

	// adding the same product merges quantities into one line
	view, err = f.svc.AddItem(ctx, userID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("225.00")))
}

// conflictingRepo simulates a unique violation on every item insert that the
// follow-up find never observes, as a misbehaving driver would.
type conflictingRepo struct {
	Repository
	createCalls int
}

func (r *conflictingRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *conflictingRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	r.createCalls++
	return nil, fmt.Errorf("UNIQUE constraint failed: cart_items.cart_id, cart_items.product_id")
}

func TestAddItemConflictRetryIsBounded(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "Palm Oil 1L", "12.00", 10)

	repo := &conflictingRepo{Repository: f.repo}
	svc, err := NewService(repo, f.products)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, userID, product.ID, 1)
	assertCartErrCode(t, err, pkgerrors.CodeConflict)
	assert.Equal(t, addItemAttempts, repo.createCalls)
}

func TestAddItemUsesDiscountPrice(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "Green Tea", "10.00", 50)
	discount := decimal.RequireFromString("8.00")
	require.NoError(t, f.products.UpdateProduct(ctx, product.ID, map[string]any{"discount_price": discount}))

	view, err := f.svc.AddItem(ctx, userID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].UnitPrice.Equal(discount))
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("24.00")))
}

func TestAddItemRejectsOverPerItemLimit(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "Millet 2kg", "12.50", 500)

	_, err := f.svc.AddItem(ctx, userID, product.ID, MaxQuantityPerItem+1)
	assertCartErrCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.AddItem(ctx, userID, product.ID, MaxQuantityPerItem)
	require.NoError(t, err)

	// merge that would exceed the cap is rejected
	_, err = f.svc.AddItem(ctx, userID, product.ID, 1)
	assertCartErrCode(t, err, pkgerrors.CodeValidation)
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "Yam Tubers", "20.00", 3)

	_, err := f.svc.AddItem(ctx, userID, product.ID, 4)
	assertCartErrCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "Hidden Juice", "5.00", 10)
	require.NoError(t, f.products.UpdateProduct(ctx, product.ID, map[string]any{"is_active": false}))

	_, err := f.svc.AddItem(ctx, userID, product.ID, 1)
	assertCartErrCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAddItemEnforcesDistinctItemLimit(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < MaxCartItems; i++ {
		product := f.seedProduct(t, fmt.Sprintf("Bulk Item %03d", i), "1.00", 10)
		_, err := f.svc.AddItem(ctx, userID, product.ID, 1)
		require.NoError(t, err)
	}

	extra := f.seedProduct(t, "One Too Many", "1.00", 10)
	_, err := f.svc.AddItem(ctx, userID, extra.ID, 1)
	assertCartErrCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateItemQuantityOwnership(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	product := f.seedProduct(t, "Dried Pepper Mix", "6.50", 40)

	view, err := f.svc.AddItem(ctx, owner, product.ID, 2)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	_, err = f.svc.UpdateItemQuantity(ctx, stranger, itemID, 5)
	assertCartErrCode(t, err, pkgerrors.CodeNotFound)

	view, err = f.svc.UpdateItemQuantity(ctx, owner, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestRemoveItemAndClear(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	first := f.seedProduct(t, "Item A", "2.00", 10)
	second := f.seedProduct(t, "Item B", "3.00", 10)

	view, err := f.svc.AddItem(ctx, userID, first.ID, 1)
	require.NoError(t, err)
	view, err = f.svc.AddItem(ctx, userID, second.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	view, err = f.svc.RemoveItem(ctx, userID, view.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	require.NoError(t, f.svc.Clear(ctx, userID))
	view, err = f.svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
}

func assertCartErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
