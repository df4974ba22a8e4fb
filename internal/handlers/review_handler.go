package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type ReviewHandler struct {
	responder
	reviews  repository.Store[models.Review]
	products repository.Store[models.Product]
	cache    *cache.Cache
}

func NewReviewHandler(reviews repository.Store[models.Review], products repository.Store[models.Product], c *cache.Cache, production bool) *ReviewHandler {
	return &ReviewHandler{
		responder: responder{production: production},
		reviews:   reviews,
		products:  products,
		cache:     c,
	}
}

// GET /api/reviews?productId=&all=true
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, limit := pageParams(c)
	q := repository.Query{
		Sort:  []repository.SortField{{Field: "createdAt", Desc: true}},
		Page:  page,
		Limit: limit,
	}
	if productID := c.Query("productId"); productID != "" {
		q = q.Where("productId", productID)
	}
	if c.Query("all") != "true" {
		q = q.WhereNot("isApproved", false)
	}

	reviews, total, err := h.reviews.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Review", "Failed to fetch reviews")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"reviews":    reviews,
		"count":      len(reviews),
		"pagination": newPagination(page, limit, total),
	})
}

// GET /api/products/:id/reviews
func (h *ReviewHandler) ProductReviews(c *gin.Context) {
	productID := c.Param("id")
	reviews, err := h.approved(c.Request.Context(), productID)
	if err != nil {
		h.fail(c, err, "Review", "Failed to fetch reviews")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"productId":     productID,
		"reviews":       reviews,
		"count":         len(reviews),
		"averageRating": averageRating(reviews),
	})
}

// POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var review models.Review
	if !bind(c, &review) {
		return
	}
	if review.ID == "" {
		review.ID = models.NewID("REV")
	}

	if err := h.reviews.Create(c.Request.Context(), &review); err != nil {
		h.fail(c, err, "Review", "Failed to create review")
		return
	}
	h.refreshRating(c.Request.Context(), review.ProductID)

	respond(c, http.StatusCreated, gin.H{"message": "Review submitted successfully", "review": review})
}

// PUT /api/reviews/:id/helpful
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	review, err := h.reviews.Increment(c.Request.Context(), c.Param("id"), "helpful", 1)
	if err != nil {
		h.fail(c, err, "Review", "Failed to update review")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Review marked as helpful", "review": review})
}

// PUT /api/reviews/:id/approve
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	review, err := h.reviews.Update(c.Request.Context(), c.Param("id"), map[string]any{"isApproved": true})
	if err != nil {
		h.fail(c, err, "Review", "Failed to approve review")
		return
	}
	h.refreshRating(c.Request.Context(), review.ProductID)
	respond(c, http.StatusOK, gin.H{"message": "Review approved", "review": review})
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	ctx := c.Request.Context()
	review, err := h.reviews.Get(ctx, c.Param("id"))
	if err == nil {
		err = h.reviews.Delete(ctx, review.ID)
	}
	if err != nil {
		h.fail(c, err, "Review", "Failed to delete review")
		return
	}
	h.refreshRating(ctx, review.ProductID)
	respond(c, http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (h *ReviewHandler) approved(ctx context.Context, productID string) ([]models.Review, error) {
	q := repository.Query{Sort: []repository.SortField{{Field: "createdAt", Desc: true}}}.
		Where("productId", productID).
		WhereNot("isApproved", false)
	reviews, _, err := h.reviews.List(ctx, q)
	return reviews, err
}

// refreshRating recalcula rating y reviews del producto a partir de las reseñas aprobadas.
// El producto puede no existir: productId no es una referencia forzada.
func (h *ReviewHandler) refreshRating(ctx context.Context, productID string) {
	reviews, err := h.approved(ctx, productID)
	if err != nil {
		log.Printf("⚠️ Failed to load reviews for product %s: %v", productID, err)
		return
	}

	_, err = h.products.Update(ctx, productID, map[string]any{
		"rating":  averageRating(reviews),
		"reviews": len(reviews),
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return
	case err != nil:
		log.Printf("⚠️ Failed to update rating for product %s: %v", productID, err)
		return
	}
	h.cache.Delete(productKeyPrefix + productID)
	h.cache.DeleteByPrefix(productListPrefix)
}

// averageRating redondea a un decimal; sin reseñas es 0.
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}
