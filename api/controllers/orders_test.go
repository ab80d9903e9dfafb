package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	ordersvc "github.com/kasuwa-dev/kasuwa-backend/internal/orders"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

type stubOrderService struct {
	ordersvc.Service

	order      *models.Order
	err        error
	lastInput  ordersvc.CreateInput
	lastTarget enums.OrderStatus
}

func (s *stubOrderService) Create(ctx context.Context, userID uuid.UUID, input ordersvc.CreateInput) (*models.Order, error) {
	s.lastInput = input
	return s.order, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, target enums.OrderStatus, note *string) (*models.Order, error) {
	s.lastTarget = target
	return s.order, s.err
}

const shippingAddressJSON = `{"full_name":"Amina Bello","phone":"+2348012345678","line1":"12 Market Rd","city":"Kano","state":"Kano","postal_code":"700001","country":"NG"}`

func TestOrderCreateFromCart(t *testing.T) {
	stub := &stubOrderService{order: &models.Order{ID: uuid.New(), Status: enums.OrderStatusPendingPayment}}
	handler := OrderCreate(stub, nil)

	body := `{"from_cart":true,"shipping_address":` + shippingAddressJSON + `,"payment_method":"mobile_money"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if !stub.lastInput.FromCart {
		t.Fatal("expected from_cart input")
	}
	if stub.lastInput.PaymentMethod != enums.PaymentMethodMobileMoney {
		t.Fatalf("unexpected payment method: %s", stub.lastInput.PaymentMethod)
	}
}

func TestOrderCreateRejectsUnknownPaymentMethod(t *testing.T) {
	handler := OrderCreate(&stubOrderService{}, nil)

	body := `{"from_cart":true,"shipping_address":` + shippingAddressJSON + `,"payment_method":"barter"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderCreateRejectsMissingShippingAddress(t *testing.T) {
	handler := OrderCreate(&stubOrderService{}, nil)

	body := `{"from_cart":true,"payment_method":"mobile_money"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderUpdateStatusParsesTarget(t *testing.T) {
	stub := &stubOrderService{order: &models.Order{ID: uuid.New(), Status: enums.OrderStatusProcessing}}
	handler := OrderUpdateStatus(stub, nil)

	req := authedRequest(http.MethodPatch, "/api/v1/orders/x/status", `{"status":"processing"}`)
	req = withURLParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastTarget != enums.OrderStatusProcessing {
		t.Fatalf("unexpected target status: %s", stub.lastTarget)
	}
}

func TestOrderUpdateStatusSurfacesStateConflict(t *testing.T) {
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed")}
	handler := OrderUpdateStatus(stub, nil)

	req := authedRequest(http.MethodPatch, "/api/v1/orders/x/status", `{"status":"completed"}`)
	req = withURLParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
