package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents the canonical catalog listing.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Category      *Category        `gorm:"foreignKey:CategoryID"`
	Name          string           `gorm:"column:name;not null"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex:uq_products_slug"`
	Description   *string          `gorm:"column:description"`
	ShortDesc     *string          `gorm:"column:short_description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2)"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	Brand         *string          `gorm:"column:brand"`
	Unit          *string          `gorm:"column:unit"`
	SKU           *string          `gorm:"column:sku;uniqueIndex:uq_products_sku"`
	Barcode       *string          `gorm:"column:barcode;uniqueIndex:uq_products_barcode"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the discount price when set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// InStock reports whether the requested quantity can currently be fulfilled.
func (p Product) InStock(quantity int) bool {
	return quantity > 0 && p.StockQuantity >= quantity
}
