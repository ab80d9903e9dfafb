package addresses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
)

// Repository is the persistence surface for the user address book.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID, kind *enums.AddressKind) ([]models.Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID, kind enums.AddressKind) (*models.Address, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDefault(ctx context.Context, userID uuid.UUID, kind enums.AddressKind) error
}
