package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

// Repository is the persistence surface for orders and their snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// CreateOrder persists the order header together with its item, address,
	// and status-log associations.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateStatusLog(ctx context.Context, log *models.OrderStatusLog) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (*List, error)
	ListAll(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
