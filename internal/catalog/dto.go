package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

// CategoryView is the JSON shape of a category.
type CategoryView struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ImageView is the JSON shape of a product image.
type ImageView struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	AltText  *string   `json:"alt_text,omitempty"`
	IsMain   bool      `json:"is_main"`
	Position int       `json:"position"`
}

// ProductView is the JSON shape of a catalog listing. EffectivePrice is the
// price a buyer pays right now.
type ProductView struct {
	ID             uuid.UUID        `json:"id"`
	CategoryID     uuid.UUID        `json:"category_id"`
	Category       *CategoryView    `json:"category,omitempty"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    *string          `json:"description,omitempty"`
	ShortDesc      *string          `json:"short_description,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	StockQuantity  int              `json:"stock_quantity"`
	Brand          *string          `json:"brand,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	SKU            *string          `json:"sku,omitempty"`
	Barcode        *string          `json:"barcode,omitempty"`
	IsActive       bool             `json:"is_active"`
	Images         []ImageView      `json:"images"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ProductListView is one page of products in response shape.
type ProductListView struct {
	Items []ProductView   `json:"items"`
	Page  pagination.Page `json:"page"`
}

// BuildCategoryView converts a category into its response shape.
func BuildCategoryView(category *models.Category) CategoryView {
	return CategoryView{
		ID:          category.ID,
		ParentID:    category.ParentID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
	}
}

// BuildCategoryViews converts a category slice into response shape.
func BuildCategoryViews(categories []models.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, BuildCategoryView(&categories[i]))
	}
	return views
}

// BuildProductView converts a product into its response shape.
func BuildProductView(product *models.Product) ProductView {
	view := ProductView{
		ID:             product.ID,
		CategoryID:     product.CategoryID,
		Name:           product.Name,
		Slug:           product.Slug,
		Description:    product.Description,
		ShortDesc:      product.ShortDesc,
		Price:          product.Price,
		DiscountPrice:  product.DiscountPrice,
		EffectivePrice: product.EffectivePrice(),
		StockQuantity:  product.StockQuantity,
		Brand:          product.Brand,
		Unit:           product.Unit,
		SKU:            product.SKU,
		Barcode:        product.Barcode,
		IsActive:       product.IsActive,
		Images:         make([]ImageView, 0, len(product.Images)),
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
	if product.Category != nil {
		category := BuildCategoryView(product.Category)
		view.Category = &category
	}
	for _, image := range product.Images {
		view.Images = append(view.Images, ImageView{
			ID:       image.ID,
			URL:      image.URL,
			AltText:  image.AltText,
			IsMain:   image.IsMain,
			Position: image.Position,
		})
	}
	return view
}

// BuildProductListView converts a page of products into response shape.
func BuildProductListView(list *ProductList) ProductListView {
	out := ProductListView{
		Items: make([]ProductView, 0, len(list.Items)),
		Page:  list.Page,
	}
	for i := range list.Items {
		out.Items = append(out.Items, BuildProductView(&list.Items[i]))
	}
	return out
}
