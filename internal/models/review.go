package models

import "strings"

// Review es una reseña de producto; productId no se valida contra el catálogo.
type Review struct {
	Base         `bson:",inline"`
	ProductID    string `json:"productId" bson:"productId" binding:"required"`
	CustomerName string `json:"customerName" bson:"customerName" binding:"required"`
	Email        string `json:"email" bson:"email" binding:"required,email"`
	Rating       int    `json:"rating" bson:"rating" binding:"required,min=1,max=5"`
	Title        string `json:"title" bson:"title" binding:"required"`
	Comment      string `json:"comment" bson:"comment" binding:"required"`
	Verified     bool   `json:"verified" bson:"verified"`
	Helpful      int    `json:"helpful" bson:"helpful"`
	IsApproved   *bool  `json:"isApproved,omitempty" bson:"isApproved,omitempty"`
}

func (r *Review) Normalize() {
	r.ProductID = strings.TrimSpace(r.ProductID)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Title = strings.TrimSpace(r.Title)
	r.Helpful = 0
	// Aprobación automática por ahora
	if r.IsApproved == nil {
		approved := true
		r.IsApproved = &approved
	}
}

// Approved indica si la reseña se muestra públicamente.
func (r *Review) Approved() bool {
	return r.IsApproved == nil || *r.IsApproved
}
