package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
)

// Repository is the persistence surface for users and their profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// CreateUser persists the user together with its profile association.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error
}
