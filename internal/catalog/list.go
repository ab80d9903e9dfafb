package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

// ProductFilters narrows a product listing.
type ProductFilters struct {
	CategoryID      *uuid.UUID
	CategorySlug    string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InStockOnly     bool
	IncludeInactive bool
	Sort            string
}

// productSortColumns whitelists the sortable fields. A leading "-" on the
// request value flips the direction.
var productSortColumns = map[string]string{
	"price":      "COALESCE(products.discount_price, products.price)",
	"created_at": "products.created_at",
	"name":       "products.name",
}

// ProductList is one page of catalog results.
type ProductList struct {
	Items []models.Product
	Page  pagination.Page
}
