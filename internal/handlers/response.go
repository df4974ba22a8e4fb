package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/payment"
	"storefront/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 500
	// (maxPage-1)*maxLimit no desborda int
	maxPage = math.MaxInt / maxLimit
)

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// respond escribe el sobre {success: true, ...payload, timestamp}.
func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	body["timestamp"] = timestamp()
	c.JSON(status, body)
}

// abort escribe {success: false, error}.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

func validationFailed(c *gin.Context, details []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Validation failed",
		"details": details,
	})
}

// responder traduce errores de almacenamiento y servicios a respuestas HTTP.
type responder struct {
	production bool
}

// fail usa entity para 404/duplicados y action como mensaje genérico del 500.
func (r responder) fail(c *gin.Context, err error, entity, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		abort(c, http.StatusNotFound, entity+" not found")
		return
	case errors.Is(err, repository.ErrDuplicateID):
		abort(c, http.StatusBadRequest, entity+" already exists")
		return
	case errors.Is(err, payment.ErrNotConfigured):
		abort(c, http.StatusInternalServerError, "Payment gateway not configured")
		return
	}

	log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	body := gin.H{"success": false, "error": action}
	if !r.production {
		body["message"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// Pagination es el bloque de paginación de los listados.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.Pages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}

// pageParams lee page y limit; valores inválidos caen a los defaults.
func pageParams(c *gin.Context) (page, limit int) {
	page = min(positiveInt(c.Query("page"), defaultPage), maxPage)
	limit = min(positiveInt(c.Query("limit"), defaultLimit), maxLimit)
	return page, limit
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
