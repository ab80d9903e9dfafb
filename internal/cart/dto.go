package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
)

// ItemView is one cart line with its price snapshot computed on read.
type ItemView struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	ImageURL  *string         `json:"image_url,omitempty"`
	InStock   bool            `json:"in_stock"`
}

// View is the assembled cart the API returns.
type View struct {
	ID        uuid.UUID       `json:"id"`
	Items     []ItemView      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// BuildView projects a cart model into its API shape, pricing each line at the
// product's current effective price.
func BuildView(cart *models.Cart) *View {
	view := &View{
		ID:       cart.ID,
		Items:    make([]ItemView, 0, len(cart.Items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		unitPrice := item.Product.EffectivePrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		itemView := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Slug:      item.Product.Slug,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			InStock:   item.Product.InStock(item.Quantity),
		}
		if len(item.Product.Images) > 0 {
			itemView.ImageURL = &item.Product.Images[0].URL
		}

		view.Items = append(view.Items, itemView)
		view.ItemCount += item.Quantity
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}

	return view
}
