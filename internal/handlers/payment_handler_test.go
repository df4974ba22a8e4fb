package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"storefront/internal/mocks"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/repository"
)

const testSecret = "test_secret"

func newPaymentRouter(t *testing.T, gateway payment.Gateway) (*gin.Engine, repository.Store[models.Order]) {
	t.Helper()
	orders := newFileStore[models.Order](t, "orders")
	h := NewPaymentHandler(gateway, testSecret, orders, false)
	r := gin.New()
	r.POST("/razorpay/create-order", h.CreateOrder)
	r.POST("/razorpay/verify-payment", h.VerifyPayment)
	r.GET("/razorpay/payment/:paymentId", h.GetPayment)
	return r, orders
}

func TestCreatePaymentOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req payment.OrderRequest) (map[string]any, error) {
		if !req.Amount.Equal(decimal.RequireFromString("499.50")) || req.Receipt != "ORD1" {
			t.Errorf("unexpected request %+v", req)
		}
		return map[string]any{"id": "order_RZP1", "amount": float64(payment.ToPaise(req.Amount)), "currency": payment.Currency}, nil
	})

	r, _ := newPaymentRouter(t, gateway)
	code, body := doRequest(t, r, http.MethodPost, "/razorpay/create-order", `{"amount":499.50,"orderId":" ORD1 ","customer":"Asha"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	order := body["order"].(map[string]any)
	if order["id"] != "order_RZP1" || order["amount"] != float64(49950) {
		t.Errorf("unexpected order %v", order)
	}
}

func TestCreatePaymentOrderErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("razorpay: bad key"))

	r, _ := newPaymentRouter(t, gateway)

	code, body := doRequest(t, r, http.MethodPost, "/razorpay/create-order", `{"amount":0}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if got := details(body); len(got) != 2 {
		t.Errorf("expected amount and orderId problems, got %v", got)
	}

	code, body = doRequest(t, r, http.MethodPost, "/razorpay/create-order", `{"amount":10,"orderId":"ORD1"}`)
	if code != http.StatusInternalServerError || body["error"] != "Failed to create payment order" {
		t.Errorf("expected gateway failure, got %d %v", code, body)
	}

	unconfigured, _ := newPaymentRouter(t, nil)
	code, body = doRequest(t, unconfigured, http.MethodPost, "/razorpay/create-order", `{"amount":10,"orderId":"ORD1"}`)
	if code != http.StatusInternalServerError || body["error"] != "Payment gateway not configured" {
		t.Errorf("expected not configured error, got %d %v", code, body)
	}
}

func verifyBody(orderID, paymentID, signature, ownOrder string) string {
	return fmt.Sprintf(`{"razorpay_order_id":%q,"razorpay_payment_id":%q,"razorpay_signature":%q,"orderId":%q}`,
		orderID, paymentID, signature, ownOrder)
}

func TestVerifyPayment(t *testing.T) {
	r, orders := newPaymentRouter(t, nil)
	o := validOrder()
	o.ApplyDefaults(o.OrderDate)
	if err := orders.Create(context.Background(), &o); err != nil {
		t.Fatal(err)
	}

	sig := payment.Signature("order_ABC123", "pay_XYZ789", testSecret)

	code, body := doRequest(t, r, http.MethodPost, "/razorpay/verify-payment", verifyBody("order_ABC123", "pay_XYZ789", sig, ""))
	if code != http.StatusOK || body["paymentId"] != "pay_XYZ789" {
		t.Fatalf("expected verified payment, got %d %v", code, body)
	}
	if _, ok := body["orderUpdated"]; ok {
		t.Error("orderUpdated is only reported when an orderId is sent")
	}

	code, body = doRequest(t, r, http.MethodPost, "/razorpay/verify-payment", verifyBody("order_ABC123", "pay_XYZ789", sig, "ORD1001"))
	if code != http.StatusOK || body["orderUpdated"] != true {
		t.Fatalf("expected order update, got %d %v", code, body)
	}
	stored, err := orders.Get(context.Background(), "ORD1001")
	if err != nil {
		t.Fatal(err)
	}
	if stored.PaymentStatus != models.PaymentPaid || stored.PaymentID != "pay_XYZ789" || stored.RazorpayOrderID != "order_ABC123" {
		t.Errorf("order not marked as paid: %+v", stored)
	}

	_, body = doRequest(t, r, http.MethodPost, "/razorpay/verify-payment", verifyBody("order_ABC123", "pay_XYZ789", sig, "MISSING"))
	if body["orderUpdated"] != false {
		t.Errorf("a missing order is reported, not failed: %v", body)
	}

	code, body = doRequest(t, r, http.MethodPost, "/razorpay/verify-payment", verifyBody("order_ABC123", "pay_OTHER", sig, ""))
	if code != http.StatusBadRequest || body["error"] != "Payment verification failed" {
		t.Errorf("expected signature mismatch, got %d %v", code, body)
	}

	code, _ = doRequest(t, r, http.MethodPost, "/razorpay/verify-payment", `{"razorpay_order_id":"order_ABC123"}`)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", code)
	}
}

func TestGetPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	gateway.EXPECT().FetchPayment(gomock.Any(), "pay_1").Return(map[string]any{"id": "pay_1", "status": "captured"}, nil)

	r, _ := newPaymentRouter(t, gateway)
	code, body := doRequest(t, r, http.MethodGet, "/razorpay/payment/pay_1", "")
	if code != http.StatusOK || body["payment"].(map[string]any)["status"] != "captured" {
		t.Errorf("unexpected response %d %v", code, body)
	}
}
