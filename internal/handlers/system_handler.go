package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/repository"
)

// SystemHandler agrupa salud, analítica y las respuestas por defecto.
type SystemHandler struct {
	responder
	stores *repository.Stores
	port   string
	env    string
}

func NewSystemHandler(stores *repository.Stores, port, env string, production bool) *SystemHandler {
	return &SystemHandler{
		responder: responder{production: production},
		stores:    stores,
		port:      port,
		env:       env,
	}
}

// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.stores.Ping(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"status":    "Backend running but storage error",
			"database":  "Disconnected",
			"storage":   h.stores.Driver,
			"error":     err.Error(),
			"timestamp": timestamp(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"status":      "Backend is running",
		"database":    "Connected",
		"storage":     h.stores.Driver,
		"port":        h.port,
		"environment": h.env,
		"timestamp":   timestamp(),
	})
}

// GET /api/test-connection
func (h *SystemHandler) TestConnection(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"message":   "Connection successful",
		"origin":    c.GetHeader("Origin"),
		"userAgent": c.Request.UserAgent(),
	})
}

// GET /api/analytics/orders
func (h *SystemHandler) OrderAnalytics(c *gin.Context) {
	stats, err := h.stores.Analytics.OrderStats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Order", "Failed to fetch analytics")
		return
	}
	respond(c, http.StatusOK, gin.H{"analytics": stats})
}

func (h *SystemHandler) NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, "Endpoint not found")
}

// Recovery convierte un panic en el mismo 500 que un error inesperado.
func (h *SystemHandler) Recovery(c *gin.Context, recovered any) {
	log.Printf("❌ Panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	body := gin.H{"success": false, "error": "Internal server error"}
	if !h.production {
		body["message"] = fmt.Sprint(recovered)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
