package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogsvc "github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

type stubCatalogService struct {
	catalogsvc.Service

	list       *catalogsvc.ProductList
	product    *models.Product
	created    *models.Product
	lastInput  catalogsvc.ProductInput
	lastFilter catalogsvc.ProductFilters
	err        error
}

func (s *stubCatalogService) ListProducts(ctx context.Context, params pagination.Params, filters catalogsvc.ProductFilters) (*catalogsvc.ProductList, error) {
	s.lastFilter = filters
	return s.list, s.err
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalogsvc.ProductInput) (*models.Product, error) {
	s.lastInput = input
	return s.created, s.err
}

func TestProductListBuildsFilters(t *testing.T) {
	stub := &stubCatalogService{list: &catalogsvc.ProductList{Page: pagination.NewPage(pagination.Params{}, 0)}}
	handler := ProductList(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=rice&min_price=10&max_price=50&in_stock=true&sort=-price", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastFilter.Search != "rice" {
		t.Fatalf("unexpected search filter: %q", stub.lastFilter.Search)
	}
	if stub.lastFilter.Sort != "-price" {
		t.Fatalf("unexpected sort: %q", stub.lastFilter.Sort)
	}
	if !stub.lastFilter.InStockOnly {
		t.Fatal("expected in-stock filter")
	}
	if stub.lastFilter.MinPrice == nil || !stub.lastFilter.MinPrice.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("unexpected min price: %v", stub.lastFilter.MinPrice)
	}
	if stub.lastFilter.IncludeInactive {
		t.Fatal("anonymous caller must not see inactive products")
	}
}

func TestProductListRejectsBadPage(t *testing.T) {
	handler := ProductList(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=abc", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductDetailServesEffectivePrice(t *testing.T) {
	discount := decimal.RequireFromString("80.00")
	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Garri",
		Slug:          "garri",
		Price:         decimal.RequireFromString("100.00"),
		DiscountPrice: &discount,
	}
	handler := ProductDetail(&stubCatalogService{product: product}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.ID.String(), nil), "productId", product.ID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data catalogsvc.ProductView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.EffectivePrice.Equal(discount) {
		t.Fatalf("expected effective price %s got %s", discount, envelope.Data.EffectivePrice)
	}
}

func TestProductCreateParsesMoney(t *testing.T) {
	created := &models.Product{ID: uuid.New(), Name: "Rice 5kg", Price: decimal.RequireFromString("1200.00")}
	stub := &stubCatalogService{created: created}
	handler := ProductCreate(stub, nil)

	body := `{"category_id":"` + uuid.NewString() + `","name":"Rice 5kg","price":"1200.00","discount_price":"999.99","stock_quantity":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if !stub.lastInput.Price.Equal(decimal.RequireFromString("1200.00")) {
		t.Fatalf("unexpected price: %s", stub.lastInput.Price)
	}
	if stub.lastInput.DiscountPrice == nil || !stub.lastInput.DiscountPrice.Equal(decimal.RequireFromString("999.99")) {
		t.Fatalf("unexpected discount: %v", stub.lastInput.DiscountPrice)
	}
}

func TestProductCreateRejectsMalformedPrice(t *testing.T) {
	handler := ProductCreate(&stubCatalogService{}, nil)

	body := `{"category_id":"` + uuid.NewString() + `","name":"Rice 5kg","price":"12,00","stock_quantity":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
