package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/mail"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type EnquiryHandler struct {
	responder
	store    repository.Store[models.Enquiry]
	notifier *mail.Notifier
}

func NewEnquiryHandler(store repository.Store[models.Enquiry], notifier *mail.Notifier, production bool) *EnquiryHandler {
	return &EnquiryHandler{responder: responder{production: production}, store: store, notifier: notifier}
}

// POST /api/contact
// La consulta se guarda aunque el correo falle; emailSent lo indica.
func (h *EnquiryHandler) Contact(c *gin.Context) {
	var enquiry models.Enquiry
	if !bind(c, &enquiry) {
		return
	}
	enquiry.ID = models.NewID("ENQ")

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, &enquiry); err != nil {
		h.fail(c, err, "Enquiry", "Failed to submit enquiry")
		return
	}

	sent := false
	if h.notifier != nil {
		if err := h.notifier.ContactForm(ctx, enquiry); err != nil {
			log.Printf("⚠️ Failed to send contact email for %s: %v", enquiry.ID, err)
		} else {
			sent = true
		}
	}

	respond(c, http.StatusCreated, gin.H{
		"message":   "Thank you for contacting us. We will get back to you soon.",
		"enquiryId": enquiry.ID,
		"emailSent": sent,
	})
}

// GET /api/enquiries?status=new
func (h *EnquiryHandler) ListEnquiries(c *gin.Context) {
	page, limit := pageParams(c)
	q := repository.Query{
		Sort:  []repository.SortField{{Field: "createdAt", Desc: true}},
		Page:  page,
		Limit: limit,
	}
	if status := c.Query("status"); status != "" && status != "all" {
		q = q.Where("status", status)
	}
	if t := c.Query("enquiryType"); t != "" && t != "all" {
		q = q.Where("enquiryType", t)
	}

	enquiries, total, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Enquiry", "Failed to fetch enquiries")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"enquiries":  enquiries,
		"count":      len(enquiries),
		"pagination": newPagination(page, limit, total),
	})
}

// PUT /api/enquiries/:id
func (h *EnquiryHandler) UpdateEnquiry(c *gin.Context) {
	var update models.EnquiryUpdate
	if !bind(c, &update) {
		return
	}
	fields := update.Fields()
	if len(fields) == 0 {
		abort(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	enquiry, err := h.store.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, "Enquiry", "Failed to update enquiry")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Enquiry updated successfully", "enquiry": enquiry})
}

// DELETE /api/enquiries/:id
func (h *EnquiryHandler) DeleteEnquiry(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Enquiry", "Failed to delete enquiry")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Enquiry deleted successfully"})
}
