package addresses

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
)

// View is the JSON shape of an address book entry.
type View struct {
	ID         uuid.UUID         `json:"id"`
	Kind       enums.AddressKind `json:"kind"`
	FullName   string            `json:"full_name"`
	Phone      string            `json:"phone"`
	Line1      string            `json:"line1"`
	Line2      *string           `json:"line2,omitempty"`
	City       string            `json:"city"`
	State      string            `json:"state"`
	PostalCode string            `json:"postal_code"`
	Country    string            `json:"country"`
	IsDefault  bool              `json:"is_default"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BuildView converts an address into its response shape.
func BuildView(address *models.Address) View {
	return View{
		ID:         address.ID,
		Kind:       address.Kind,
		FullName:   address.FullName,
		Phone:      address.Phone,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		IsDefault:  address.IsDefault,
		CreatedAt:  address.CreatedAt,
		UpdatedAt:  address.UpdatedAt,
	}
}

// BuildViews converts an address slice into response shape.
func BuildViews(items []models.Address) []View {
	views := make([]View, 0, len(items))
	for i := range items {
		views = append(views, BuildView(&items[i]))
	}
	return views
}
