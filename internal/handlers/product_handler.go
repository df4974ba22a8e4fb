package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const (
	productKeyPrefix  = "product:"
	productListPrefix = "products:list:"
)

type ProductHandler struct {
	responder
	store repository.Store[models.Product]
	cache *cache.Cache
	ttl   time.Duration
}

func NewProductHandler(store repository.Store[models.Product], c *cache.Cache, ttl time.Duration, production bool) *ProductHandler {
	return &ProductHandler{
		responder: responder{production: production},
		store:     store,
		cache:     c,
		ttl:       ttl,
	}
}

// GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := pageParams(c)
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	featured := c.Query("featured") == "true"
	onSale := c.Query("onSale") == "true"
	search := strings.TrimSpace(c.Query("search"))

	cacheKey := fmt.Sprintf("%sp%d_l%d_cat:%s_f:%v_s:%v_q:%s",
		productListPrefix, page, limit, category, featured, onSale, search)

	// Buscar en caché
	if cached, found := h.cache.GetValue(cacheKey); found {
		respond(c, http.StatusOK, cached.(gin.H))
		return
	}

	q := repository.Query{
		Sort: []repository.SortField{
			{Field: "featured", Desc: true},
			{Field: "createdAt", Desc: true},
		},
		Page:  page,
		Limit: limit,
	}.WhereNot("isActive", false)
	if category != "" && category != "all" {
		q = q.Where("category", category)
	}
	if featured {
		q = q.Where("featured", true)
	}
	if onSale {
		q = q.Where("onSale", true)
	}
	if search != "" {
		q.Search = search
		q.SearchFields = []string{"name", "description", "category", "tags"}
	}

	products, total, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Product", "Failed to fetch products")
		return
	}

	payload := gin.H{
		"products":   products,
		"pagination": newPagination(page, limit, total),
	}
	h.cache.Set(cacheKey, payload, h.ttl)
	respond(c, http.StatusOK, payload)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	cacheKey := productKeyPrefix + id

	if data, found := h.cache.GetBytes(cacheKey); found {
		respond(c, http.StatusOK, gin.H{"product": json.RawMessage(data)})
		return
	}

	product, err := h.store.Get(c.Request.Context(), id)
	if err == nil && !product.Active() {
		err = repository.ErrNotFound
	}
	if err != nil {
		h.fail(c, err, "Product", "Failed to fetch product")
		return
	}

	data, err := h.cache.Marshal(cacheKey, product, h.ttl)
	if err != nil {
		h.fail(c, err, "Product", "Failed to fetch product")
		return
	}
	respond(c, http.StatusOK, gin.H{"product": json.RawMessage(data)})
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if !bind(c, &product) {
		return
	}
	if product.ID == "" {
		product.ID = models.NewID("PROD")
	}

	if err := h.store.Create(c.Request.Context(), &product); err != nil {
		h.fail(c, err, "Product", "Failed to create product")
		return
	}

	h.invalidate(product.ID)
	respond(c, http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

type productUpdateBody struct {
	ID string `json:"id"`
	models.ProductUpdate
}

// PUT /api/products/:id y PUT /api/products (id en el cuerpo)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var body productUpdateBody
	if !bind(c, &body) {
		return
	}
	id := c.Param("id")
	if id == "" {
		id = strings.TrimSpace(body.ID)
	}
	if id == "" {
		validationFailed(c, []string{"id is required"})
		return
	}

	fields := body.Fields()
	if len(fields) == 0 {
		abort(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	product, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.fail(c, err, "Product", "Failed to update product")
		return
	}

	h.invalidate(id)
	respond(c, http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DELETE /api/products/:id y DELETE /api/products (id en el cuerpo)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		var body struct {
			ID string `json:"id"`
		}
		if _, ok := readBody(c, &body); !ok {
			return
		}
		id = strings.TrimSpace(body.ID)
	}
	if id == "" {
		validationFailed(c, []string{"id is required"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Product", "Failed to delete product")
		return
	}

	h.invalidate(id)
	respond(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// invalidate borra el detalle y todos los listados cacheados.
func (h *ProductHandler) invalidate(id string) {
	h.cache.Delete(productKeyPrefix + id)
	h.cache.DeleteByPrefix(productListPrefix)
}
