package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/repository"
)

type BannerHandler struct {
	responder
	store repository.Store[models.Banner]
}

func NewBannerHandler(store repository.Store[models.Banner], production bool) *BannerHandler {
	return &BannerHandler{responder: responder{production: production}, store: store}
}

// GET /api/banners?active=true
func (h *BannerHandler) ListBanners(c *gin.Context) {
	q := repository.Query{Sort: []repository.SortField{{Field: "order"}, {Field: "createdAt", Desc: true}}}
	if c.Query("active") == "true" {
		q = q.WhereNot("active", false)
	}

	banners, _, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Banner", "Failed to fetch banners")
		return
	}
	respond(c, http.StatusOK, gin.H{"banners": banners, "count": len(banners)})
}

func (h *BannerHandler) GetBanner(c *gin.Context) {
	banner, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Banner", "Failed to fetch banner")
		return
	}
	respond(c, http.StatusOK, gin.H{"banner": banner})
}

func (h *BannerHandler) CreateBanner(c *gin.Context) {
	var banner models.Banner
	if !bind(c, &banner) {
		return
	}
	if banner.ID == "" {
		banner.ID = models.NewID("BNR")
	}

	if err := h.store.Create(c.Request.Context(), &banner); err != nil {
		h.fail(c, err, "Banner", "Failed to create banner")
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Banner created successfully", "banner": banner})
}

func (h *BannerHandler) UpdateBanner(c *gin.Context) {
	var update models.BannerUpdate
	if !bind(c, &update) {
		return
	}
	fields := update.Fields()
	if len(fields) == 0 {
		abort(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	banner, err := h.store.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, "Banner", "Failed to update banner")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Banner updated successfully", "banner": banner})
}

func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Banner", "Failed to delete banner")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Banner deleted successfully"})
}
