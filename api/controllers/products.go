package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasuwa-dev/kasuwa-backend/api/middleware"
	"github.com/kasuwa-dev/kasuwa-backend/api/responses"
	"github.com/kasuwa-dev/kasuwa-backend/api/validators"
	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/logger"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

func parsePageParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: pageSize}, nil
}

func parseProductFilters(r *http.Request) (catalog.ProductFilters, error) {
	filters := catalog.ProductFilters{
		CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
		Search:       strings.TrimSpace(r.URL.Query().Get("q")),
		InStockOnly:  strings.EqualFold(r.URL.Query().Get("in_stock"), "true"),
		Sort:         strings.TrimSpace(r.URL.Query().Get("sort")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return catalog.ProductFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		filters.CategoryID = &categoryID
	}

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return catalog.ProductFilters{}, err
	}
	filters.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return catalog.ProductFilters{}, err
	}
	filters.MaxPrice = maxPrice

	// Only staff may browse inactive listings.
	if strings.EqualFold(r.URL.Query().Get("include_inactive"), "true") {
		role := enums.UserRole(middleware.RoleFromContext(r.Context()))
		filters.IncludeInactive = role.IsStaff()
	}

	return filters, nil
}

// ProductList returns one page of the public catalog.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalog.BuildProductListView(list))
	}
}

// ProductDetail resolves a product by id, falling back to slug lookup when
// the path segment is not a uuid.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		key := chi.URLParam(r, "productId")

		var product *models.Product
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			found, err := svc.GetProduct(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			product = found
		} else {
			found, err := svc.GetProductBySlug(r.Context(), key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			product = found
		}

		responses.WriteSuccess(w, catalog.BuildProductView(product))
	}
}

type createProductRequest struct {
	CategoryID    string  `json:"category_id" validate:"required,uuid"`
	Name          string  `json:"name" validate:"required,max=200"`
	Slug          string  `json:"slug,omitempty" validate:"omitempty,max=220"`
	Description   *string `json:"description,omitempty"`
	ShortDesc     *string `json:"short_description,omitempty" validate:"omitempty,max=500"`
	Price         string  `json:"price" validate:"required"`
	DiscountPrice *string `json:"discount_price,omitempty"`
	StockQuantity int     `json:"stock_quantity" validate:"min=0"`
	Brand         *string `json:"brand,omitempty" validate:"omitempty,max=120"`
	Unit          *string `json:"unit,omitempty" validate:"omitempty,max=32"`
	SKU           *string `json:"sku,omitempty" validate:"omitempty,max=64"`
	Barcode       *string `json:"barcode,omitempty" validate:"omitempty,max=64"`
}

func parseMoney(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "must be a decimal number").
			WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

func (r createProductRequest) toInput() (catalog.ProductInput, error) {
	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}

	price, err := parseMoney(r.Price, "price")
	if err != nil {
		return catalog.ProductInput{}, err
	}

	input := catalog.ProductInput{
		CategoryID:    categoryID,
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		ShortDesc:     r.ShortDesc,
		Price:         price,
		StockQuantity: r.StockQuantity,
		Brand:         r.Brand,
		Unit:          r.Unit,
		SKU:           r.SKU,
		Barcode:       r.Barcode,
	}

	if r.DiscountPrice != nil {
		discount, err := parseMoney(*r.DiscountPrice, "discount_price")
		if err != nil {
			return catalog.ProductInput{}, err
		}
		input.DiscountPrice = &discount
	}

	return input, nil
}

// ProductCreate adds a catalog listing.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.BuildProductView(product))
	}
}

type updateProductRequest struct {
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name          *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string `json:"description,omitempty"`
	ShortDesc     *string `json:"short_description,omitempty" validate:"omitempty,max=500"`
	Price         *string `json:"price,omitempty"`
	DiscountPrice *string `json:"discount_price,omitempty"`
	ClearDiscount bool    `json:"clear_discount,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Brand         *string `json:"brand,omitempty" validate:"omitempty,max=120"`
	Unit          *string `json:"unit,omitempty" validate:"omitempty,max=32"`
	SKU           *string `json:"sku,omitempty" validate:"omitempty,max=64"`
	Barcode       *string `json:"barcode,omitempty" validate:"omitempty,max=64"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r updateProductRequest) toInput() (catalog.ProductUpdateInput, error) {
	input := catalog.ProductUpdateInput{
		Name:          r.Name,
		Description:   r.Description,
		ShortDesc:     r.ShortDesc,
		ClearDiscount: r.ClearDiscount,
		StockQuantity: r.StockQuantity,
		Brand:         r.Brand,
		Unit:          r.Unit,
		SKU:           r.SKU,
		Barcode:       r.Barcode,
		IsActive:      r.IsActive,
	}

	if r.CategoryID != nil {
		categoryID, err := uuid.Parse(strings.TrimSpace(*r.CategoryID))
		if err != nil {
			return catalog.ProductUpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}
	if r.Price != nil {
		price, err := parseMoney(*r.Price, "price")
		if err != nil {
			return catalog.ProductUpdateInput{}, err
		}
		input.Price = &price
	}
	if r.DiscountPrice != nil {
		discount, err := parseMoney(*r.DiscountPrice, "discount_price")
		if err != nil {
			return catalog.ProductUpdateInput{}, err
		}
		input.DiscountPrice = &discount
	}

	return input, nil
}

// ProductUpdate patches a listing. Absent fields stay unchanged.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalog.BuildProductView(product))
	}
}

// ProductDelete removes a listing and its images.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
