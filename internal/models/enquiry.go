package models

import "strings"

type EnquiryStatus string

const (
	EnquiryNew      EnquiryStatus = "new"
	EnquiryResolved EnquiryStatus = "resolved"
)

// EnquiryTypeLabels son las etiquetas del asunto del correo de contacto.
var EnquiryTypeLabels = map[string]string{
	"general":         "General Inquiry",
	"distributorship": "Enquiry for Distributorship",
	"orders":          "Contact for Orders Query",
	"technical":       "Technical Support",
	"bulk":            "Bulk Orders",
}

// Enquiry es un envío del formulario de contacto.
type Enquiry struct {
	Base        `bson:",inline"`
	Name        string        `json:"name" bson:"name" binding:"required,min=2"`
	Email       string        `json:"email" bson:"email" binding:"required,email"`
	Phone       string        `json:"phone,omitempty" bson:"phone,omitempty" binding:"omitempty,phone"`
	EnquiryType string        `json:"enquiryType" bson:"enquiryType" binding:"omitempty,oneof=general distributorship orders technical bulk"`
	Subject     string        `json:"subject" bson:"subject"`
	Message     string        `json:"message" bson:"message" binding:"required,min=10"`
	Status      EnquiryStatus `json:"status" bson:"status"`
}

func (e *Enquiry) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	e.Phone = CleanPhone(e.Phone)
	e.Message = strings.TrimSpace(e.Message)
	e.EnquiryType = strings.ToLower(strings.TrimSpace(e.EnquiryType))
	if e.EnquiryType == "" {
		e.EnquiryType = "general"
	}
	if e.Subject == "" {
		e.Subject = "Contact Form"
	}
	e.Status = EnquiryNew
}

// TypeLabel devuelve la etiqueta legible del tipo de consulta.
func (e *Enquiry) TypeLabel() string {
	if l, ok := EnquiryTypeLabels[e.EnquiryType]; ok {
		return l
	}
	return "General Inquiry"
}

type EnquiryUpdate struct {
	Status *EnquiryStatus `json:"status,omitempty" binding:"omitempty,oneof=new resolved"`
}

func (u *EnquiryUpdate) Normalize() {}

func (u *EnquiryUpdate) Fields() map[string]any {
	f := map[string]any{}
	if u.Status != nil {
		f["status"] = string(*u.Status)
	}
	return f
}
