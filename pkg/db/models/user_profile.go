package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
)

// UserProfile carries the optional attributes attached to a User.
type UserProfile struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_profiles_user"`
	Role        enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	Gender      *enums.Gender  `gorm:"column:gender"`
	DateOfBirth *time.Time     `gorm:"column:date_of_birth;type:date"`
	Phone       *string        `gorm:"column:phone;uniqueIndex:uq_user_profiles_phone"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
