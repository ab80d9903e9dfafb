package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

// Filters narrows order listings.
type Filters struct {
	Status *enums.OrderStatus
	Sort   string
}

// sortColumns whitelists the sortable fields. The map value is the column
// expression used in the ORDER BY clause.
var sortColumns = map[string]string{
	"ordered_at":  "created_at",
	"final_total": "final_total",
}

// List is one page of orders.
type List struct {
	Items []models.Order
	Page  pagination.Page
}

// ItemView is the JSON shape of a frozen order line.
type ItemView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// AddressView is the JSON shape of a snapshot address.
type AddressView struct {
	Kind       enums.AddressKind `json:"kind"`
	FullName   string            `json:"full_name"`
	Phone      string            `json:"phone"`
	Line1      string            `json:"line1"`
	Line2      *string           `json:"line2,omitempty"`
	City       string            `json:"city"`
	State      string            `json:"state"`
	PostalCode string            `json:"postal_code"`
	Country    string            `json:"country"`
}

// StatusLogView is the JSON shape of one transition record.
type StatusLogView struct {
	FromStatus *enums.OrderStatus `json:"from_status,omitempty"`
	ToStatus   enums.OrderStatus  `json:"to_status"`
	ActorID    *uuid.UUID         `json:"actor_id,omitempty"`
	Note       *string            `json:"note,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// View is the JSON shape of an order. Items, addresses, and status logs are
// present only when they were loaded.
type View struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
	OrderTotal     decimal.Decimal     `json:"order_total"`
	ShippingFee    decimal.Decimal     `json:"shipping_fee"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	FinalTotal     decimal.Decimal     `json:"final_total"`
	Notes          *string             `json:"notes,omitempty"`
	Items          []ItemView          `json:"items,omitempty"`
	Addresses      []AddressView       `json:"addresses,omitempty"`
	StatusLogs     []StatusLogView     `json:"status_logs,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	OrderedAt      time.Time           `json:"ordered_at"`
}

// ListView is the JSON shape of one page of orders.
type ListView struct {
	Items []View          `json:"items"`
	Page  pagination.Page `json:"page"`
}

// BuildView converts an order into its response shape.
func BuildView(order *models.Order) View {
	view := View{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		OrderTotal:     order.OrderTotal,
		ShippingFee:    order.ShippingFee,
		DiscountAmount: order.DiscountAmount,
		FinalTotal:     order.FinalTotal,
		Notes:          order.Notes,
		PaidAt:         order.PaidAt,
		OrderedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, ItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	for _, address := range order.Addresses {
		view.Addresses = append(view.Addresses, AddressView{
			Kind:       address.Kind,
			FullName:   address.FullName,
			Phone:      address.Phone,
			Line1:      address.Line1,
			Line2:      address.Line2,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		})
	}
	for _, log := range order.StatusLogs {
		view.StatusLogs = append(view.StatusLogs, StatusLogView{
			FromStatus: log.FromStatus,
			ToStatus:   log.ToStatus,
			ActorID:    log.ActorID,
			Note:       log.Note,
			CreatedAt:  log.CreatedAt,
		})
	}
	return view
}

// BuildListView converts a page of orders into its response shape.
func BuildListView(list *List) ListView {
	out := ListView{Items: make([]View, 0, len(list.Items)), Page: list.Page}
	for i := range list.Items {
		out.Items = append(out.Items, BuildView(&list.Items[i]))
	}
	return out
}
