package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
)

// Order is an immutable snapshot of a checkout. Prices, totals, and addresses
// are copied at placement time and never re-read from the catalog.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string              `gorm:"column:order_number;not null;uniqueIndex:uq_orders_number"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'pending_payment'"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	OrderTotal     decimal.Decimal     `gorm:"column:order_total;type:numeric(10,2);not null"`
	ShippingFee    decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	DiscountAmount decimal.Decimal     `gorm:"column:discount_amount;type:numeric(10,2);not null"`
	FinalTotal     decimal.Decimal     `gorm:"column:final_total;type:numeric(10,2);not null"`
	Notes          *string             `gorm:"column:notes"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Addresses      []OrderAddress      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusLogs     []OrderStatusLog    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt         *time.Time          `gorm:"column:paid_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// AddressOfKind returns the snapshot address of the given kind, if present.
func (o Order) AddressOfKind(kind enums.AddressKind) *OrderAddress {
	for i := range o.Addresses {
		if o.Addresses[i].Kind == kind {
			return &o.Addresses[i]
		}
	}
	return nil
}
