package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/repository"
)

type PaymentHandler struct {
	responder
	gateway payment.Gateway
	secret  string
	orders  repository.Store[models.Order]
}

// NewPaymentHandler acepta un gateway nil: las rutas que lo usan responden 500.
func NewPaymentHandler(gateway payment.Gateway, secret string, orders repository.Store[models.Order], production bool) *PaymentHandler {
	return &PaymentHandler{
		responder: responder{production: production},
		gateway:   gateway,
		secret:    secret,
		orders:    orders,
	}
}

type createOrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	OrderID  string          `json:"orderId"`
	Customer string          `json:"customer"`
}

// POST /api/razorpay/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if _, ok := readBody(c, &req); !ok {
		return
	}
	var problems []string
	if !req.Amount.IsPositive() {
		problems = append(problems, "amount must be greater than 0")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		problems = append(problems, "orderId is required")
	}
	if len(problems) > 0 {
		validationFailed(c, problems)
		return
	}
	if h.gateway == nil {
		h.fail(c, payment.ErrNotConfigured, "Payment", "")
		return
	}

	order, err := h.gateway.CreateOrder(c.Request.Context(), payment.OrderRequest{
		Amount:   req.Amount,
		Receipt:  strings.TrimSpace(req.OrderID),
		Customer: req.Customer,
	})
	if err != nil {
		h.fail(c, err, "Payment", "Failed to create payment order")
		return
	}
	respond(c, http.StatusOK, gin.H{"order": order})
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	// Pedido propio a marcar como pagado, opcional.
	OrderID string `json:"orderId"`
}

// POST /api/razorpay/verify-payment y /api/razorpay/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}

	if !payment.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, h.secret) {
		log.Printf("⚠️ Payment verification failed for %s", req.RazorpayOrderID)
		abort(c, http.StatusBadRequest, "Payment verification failed")
		return
	}

	payload := gin.H{
		"message":   "Payment verified successfully",
		"paymentId": req.RazorpayPaymentID,
	}
	if orderID := strings.TrimSpace(req.OrderID); orderID != "" {
		_, err := h.orders.Update(c.Request.Context(), orderID, map[string]any{
			"paymentId":       req.RazorpayPaymentID,
			"razorpayOrderId": req.RazorpayOrderID,
			"paymentStatus":   string(models.PaymentPaid),
		})
		switch {
		case err == nil:
			payload["orderId"] = orderID
			payload["orderUpdated"] = true
		case errors.Is(err, repository.ErrNotFound):
			// El pedido puede guardarse después del pago
			payload["orderUpdated"] = false
		default:
			h.fail(c, err, "Order", "Failed to update order payment")
			return
		}
	}
	respond(c, http.StatusOK, payload)
}

// GET /api/razorpay/payment/:paymentId
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	if h.gateway == nil {
		h.fail(c, payment.ErrNotConfigured, "Payment", "")
		return
	}
	p, err := h.gateway.FetchPayment(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		h.fail(c, err, "Payment", "Failed to fetch payment details")
		return
	}
	respond(c, http.StatusOK, gin.H{"payment": p})
}
