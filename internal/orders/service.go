package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/internal/cart"
	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/pagination"
)

// orderNumberAttempts bounds the regenerate-and-retry loop on order number
// collisions before the conflict is surfaced.
const orderNumberAttempts = 3

// Service defines the order operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (*List, error)
	ListAll(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, target enums.OrderStatus, note *string) (*models.Order, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	carts   cart.Repository
	tx      db.TxRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, catalogRepo catalog.Repository, cartRepo cart.Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, catalog: catalogRepo, carts: cartRepo, tx: tx}, nil
}

// ItemInput is one explicit order line.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// AddressInput is the address payload copied into the order snapshot.
type AddressInput struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
}

// CreateInput captures a checkout request. Items come either from the
// explicit list or, when FromCart is set, from the caller's cart.
type CreateInput struct {
	FromCart        bool
	Items           []ItemInput
	ShippingAddress AddressInput
	BillingAddress  *AddressInput
	PaymentMethod   enums.PaymentMethod
	ShippingFee     *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	Notes           *string
}

// errOrderNumberCollision signals that the generated order number already
// exists; the whole transaction is retried with a fresh number.
var errOrderNumberCollision = errors.New("order number collision")

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.FromCart && len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires items or from_cart")
	}
	if input.FromCart && len(input.Items) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items and from_cart are mutually exclusive")
	}
	if err := validateAddressInput(input.ShippingAddress); err != nil {
		return nil, err
	}
	billing := input.ShippingAddress
	if input.BillingAddress != nil {
		if err := validateAddressInput(*input.BillingAddress); err != nil {
			return nil, err
		}
		billing = *input.BillingAddress
	}

	shippingFee := decimal.Zero
	if input.ShippingFee != nil {
		shippingFee = *input.ShippingFee
	}
	discountAmount := decimal.Zero
	if input.DiscountAmount != nil {
		discountAmount = *input.DiscountAmount
	}
	if shippingFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping fee must not be negative")
	}
	if discountAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount amount must not be negative")
	}

	lines, err := normalizeLines(input)
	if err != nil {
		return nil, err
	}

	var orderID uuid.UUID
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		orderID, err = s.createOnce(ctx, userID, input, lines, billing, shippingFee, discountAmount)
		if errors.Is(err, errOrderNumberCollision) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, errOrderNumberCollision) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate an order number")
		}
		return nil, err
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return order, nil
}

// createOnce runs one full checkout attempt inside a transaction. It returns
// errOrderNumberCollision when the generated number is already taken so the
// caller can retry with a fresh one.
func (s *service) createOnce(
	ctx context.Context,
	userID uuid.UUID,
	input CreateInput,
	lines []ItemInput,
	billing AddressInput,
	shippingFee, discountAmount decimal.Decimal,
) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)

		resolved := lines
		var userCart *models.Cart
		if input.FromCart {
			var err error
			userCart, err = cartRepo.FindCartByUser(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
			}
			if len(userCart.Items) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			resolved = make([]ItemInput, 0, len(userCart.Items))
			for _, item := range userCart.Items {
				resolved = append(resolved, ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
			}
		}

		orderTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(resolved))
		for _, line := range resolved {
			product, err := catalogRepo.FindProductByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
					WithDetails(map[string]any{"product_id": product.ID})
			}

			reserved, err := catalogRepo.ReserveStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
			if !reserved {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": product.ID,
						"requested":  line.Quantity,
					})
			}

			unitPrice := product.EffectivePrice()
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			orderTotal = orderTotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   unitPrice,
				Quantity:    line.Quantity,
				LineTotal:   lineTotal,
			})
		}

		finalTotal := orderTotal.Add(shippingFee).Sub(discountAmount)
		if finalTotal.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount amount exceeds order total")
		}

		initialStatus := enums.OrderStatusPendingPayment
		order := &models.Order{
			OrderNumber:    GenerateOrderNumber(),
			UserID:         userID,
			Status:         initialStatus,
			PaymentMethod:  input.PaymentMethod,
			PaymentStatus:  enums.PaymentStatusPending,
			OrderTotal:     orderTotal,
			ShippingFee:    shippingFee,
			DiscountAmount: discountAmount,
			FinalTotal:     finalTotal,
			Notes:          input.Notes,
			Items:          items,
			Addresses: []models.OrderAddress{
				snapshotAddress(enums.AddressKindShipping, input.ShippingAddress),
				snapshotAddress(enums.AddressKindBilling, billing),
			},
			StatusLogs: []models.OrderStatusLog{{
				ToStatus: initialStatus,
				ActorID:  &userID,
			}},
		}

		if _, err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "uq_orders_number", "orders.order_number") {
				return errOrderNumberCollision
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if input.FromCart {
			if err := cartRepo.DeleteItemsByCart(ctx, userCart.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
			}
		}

		orderID = order.ID
		return nil
	})
	return orderID, err
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != actorID && !actorRole.IsStaff() {
		// Existence must not leak to other customers.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (*List, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByUser(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	list, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, target enums.OrderStatus, note *string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{
				"from": order.Status,
				"to":   target,
			})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		updates := map[string]any{"status": target}
		switch target {
		case enums.OrderStatusProcessing:
			updates["payment_status"] = enums.PaymentStatusPaid
			if order.PaidAt == nil {
				updates["paid_at"] = time.Now().UTC()
			}
		case enums.OrderStatusCancelled:
			for _, item := range order.Items {
				if err := catalogRepo.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release stock")
				}
			}
		case enums.OrderStatusRefundRequested:
			updates["payment_status"] = enums.PaymentStatusRefunding
		case enums.OrderStatusRefunded:
			updates["payment_status"] = enums.PaymentStatusRefunded
		}

		if err := repo.UpdateOrder(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		from := order.Status
		logEntry := &models.OrderStatusLog{
			OrderID:    orderID,
			FromStatus: &from,
			ToStatus:   target,
			Note:       note,
		}
		if actorID != uuid.Nil {
			logEntry.ActorID = &actorID
		}
		if err := repo.CreateStatusLog(ctx, logEntry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status log")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err = s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return order, nil
}

// normalizeLines validates explicit order lines and merges duplicate
// products by summing their quantities.
func normalizeLines(input CreateInput) ([]ItemInput, error) {
	if input.FromCart {
		return nil, nil
	}
	index := map[uuid.UUID]int{}
	merged := make([]ItemInput, 0, len(input.Items))
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		if at, ok := index[line.ProductID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

func snapshotAddress(kind enums.AddressKind, input AddressInput) models.OrderAddress {
	return models.OrderAddress{
		Kind:       kind,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
	}
}

func validateAddressInput(input AddressInput) error {
	checks := []struct {
		value string
		label string
	}{
		{input.FullName, "full name"},
		{input.Phone, "phone"},
		{input.Line1, "address line"},
		{input.City, "city"},
		{input.State, "state"},
		{input.PostalCode, "postal code"},
		{input.Country, "country"},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, c.label+" required")
		}
	}
	return nil
}

func validateFilters(filters Filters) error {
	if filters.Status != nil && !filters.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	if sort := strings.TrimSpace(filters.Sort); sort != "" {
		key := strings.TrimPrefix(sort, "-")
		if _, ok := sortColumns[key]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid sort field").
				WithDetails(map[string]any{"sort": filters.Sort})
		}
	}
	return nil
}
