package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
)

// OrderAddress is the frozen copy of a shipping or billing address taken when
// the order was placed. Later edits to the address book do not touch it.
type OrderAddress struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID         `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_order_addresses_order_kind"`
	Kind       enums.AddressKind `gorm:"column:kind;not null;uniqueIndex:uq_order_addresses_order_kind"`
	FullName   string            `gorm:"column:full_name;not null"`
	Phone      string            `gorm:"column:phone;not null"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      *string           `gorm:"column:line2"`
	City       string            `gorm:"column:city;not null"`
	State      string            `gorm:"column:state;not null"`
	PostalCode string            `gorm:"column:postal_code;not null"`
	Country    string            `gorm:"column:country;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
