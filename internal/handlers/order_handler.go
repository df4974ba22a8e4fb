package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/mail"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const confirmationTimeout = 30 * time.Second

type OrderHandler struct {
	responder
	store       repository.Store[models.Order]
	notifier    *mail.Notifier
	allowDelete bool
	now         func() time.Time
}

func NewOrderHandler(store repository.Store[models.Order], notifier *mail.Notifier, allowDelete, production bool) *OrderHandler {
	return &OrderHandler{
		responder:   responder{production: production},
		store:       store,
		notifier:    notifier,
		allowDelete: allowDelete,
		now:         time.Now,
	}
}

// GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := pageParams(c)

	q := repository.Query{
		Sort:  orderSort(c.Query("sortBy")),
		Page:  page,
		Limit: limit,
	}
	if status := strings.ToLower(c.Query("status")); status != "" && status != "all" {
		q = q.Where("status", status)
	}
	if method := strings.ToLower(c.Query("paymentMethod")); method != "" && method != "all" {
		q = q.Where("paymentMethod", method)
	}
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		q.Contains = map[string]string{"email": email}
	}

	orders, total, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Order", "Failed to fetch orders")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"orders":     orders,
		"count":      len(orders),
		"pagination": newPagination(page, limit, total),
	})
}

func orderSort(sortBy string) []repository.SortField {
	switch sortBy {
	case "amount_asc":
		return []repository.SortField{{Field: "amount"}}
	case "amount_desc":
		return []repository.SortField{{Field: "amount", Desc: true}}
	case "customer":
		return []repository.SortField{{Field: "customer"}}
	}
	// Por defecto, los más recientes primero
	return []repository.SortField{{Field: "createdAt", Desc: true}}
}

// GET /api/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.store.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.fail(c, err, "Order", "Failed to fetch order")
		return
	}
	respond(c, http.StatusOK, gin.H{"order": order})
}

// POST /api/save-order
func (h *OrderHandler) SaveOrder(c *gin.Context) {
	var order models.Order
	problems, ok := readBody(c, &order)
	if !ok {
		return
	}
	if order.ID == "" {
		problems = append([]string{"id is required"}, problems...)
	}
	if len(problems) > 0 {
		validationFailed(c, problems)
		return
	}

	order.ApplyDefaults(h.now())
	if err := h.store.Create(c.Request.Context(), &order); err != nil {
		h.fail(c, err, "Order", "Failed to save order")
		return
	}

	if h.notifier != nil {
		go h.sendConfirmation(order)
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "Order saved successfully",
		"orderId": order.ID,
	})
}

// sendConfirmation corre fuera de la petición; un fallo solo se registra.
func (h *OrderHandler) sendConfirmation(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), confirmationTimeout)
	defer cancel()

	if err := h.notifier.OrderConfirmation(ctx, order); err != nil {
		log.Printf("⚠️ Failed to send confirmation for order %s: %v", order.ID, err)
		return
	}
	log.Printf("📧 Confirmation sent for order %s", order.ID)
}

// PUT /api/update-order
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var update models.OrderUpdate
	if !bind(c, &update) {
		return
	}

	ctx := c.Request.Context()
	var current *models.Order
	if update.Status != nil {
		var err error
		if current, err = h.store.Get(ctx, update.OrderID); err != nil {
			h.fail(c, err, "Order", "Failed to update order")
			return
		}
	}

	fields := update.Fields(h.now(), current)
	if len(fields) == 0 {
		abort(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	order, err := h.store.Update(ctx, update.OrderID, fields)
	if err != nil {
		h.fail(c, err, "Order", "Failed to update order")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// DELETE /api/delete-order
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if !h.allowDelete {
		abort(c, http.StatusForbidden, "Order deletion is disabled")
		return
	}

	var body struct {
		OrderID string `json:"orderId" binding:"required"`
	}
	if !bind(c, &body) {
		return
	}

	if err := h.store.Delete(c.Request.Context(), strings.TrimSpace(body.OrderID)); err != nil {
		h.fail(c, err, "Order", "Failed to delete order")
		return
	}

	log.Printf("🗑️ Order %s deleted", body.OrderID)
	respond(c, http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
