package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderItem es una línea del pedido; productId es un string sin relación forzada.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId" binding:"required"`
	Name      string  `json:"name" bson:"name" binding:"required"`
	Variant   string  `json:"variant,omitempty" bson:"variant,omitempty"`
	Price     float64 `json:"price" bson:"price" binding:"gte=0"`
	Quantity  int     `json:"quantity" bson:"quantity" binding:"gte=1"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

// Order es un pedido de cliente
type Order struct {
	Base            `bson:",inline"`
	Customer        string        `json:"customer" bson:"customer" binding:"required,min=2"`
	Email           string        `json:"email" bson:"email" binding:"required,email"`
	Phone           string        `json:"phone" bson:"phone" binding:"required,phone"`
	Address         string        `json:"address" bson:"address" binding:"required,min=10"`
	City            string        `json:"city" bson:"city" binding:"required"`
	State           string        `json:"state" bson:"state" binding:"required"`
	Pincode         string        `json:"pincode" bson:"pincode" binding:"required,pincode"`
	Amount          float64       `json:"amount" bson:"amount" binding:"gt=0"`
	ShippingCharges float64       `json:"shippingCharges" bson:"shippingCharges" binding:"gte=0"`
	PaymentMethod   string        `json:"paymentMethod" bson:"paymentMethod" binding:"required,oneof=cod card upi netbanking"`
	PaymentID       string        `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	RazorpayOrderID string        `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" bson:"paymentStatus" binding:"omitempty,oneof=pending paid failed refunded"`
	Status          OrderStatus   `json:"status" bson:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Items           []OrderItem   `json:"items" bson:"items" binding:"required,min=1,dive"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	TrackingNumber  string        `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	CourierPartner  string        `json:"courierPartner,omitempty" bson:"courierPartner,omitempty"`
	OrderDate       time.Time     `json:"orderDate" bson:"orderDate"`
	ProcessingDate  *time.Time    `json:"processingDate,omitempty" bson:"processingDate,omitempty"`
	ShippedDate     *time.Time    `json:"shippedDate,omitempty" bson:"shippedDate,omitempty"`
	DeliveredDate   *time.Time    `json:"deliveredDate,omitempty" bson:"deliveredDate,omitempty"`
	CancelledDate   *time.Time    `json:"cancelledDate,omitempty" bson:"cancelledDate,omitempty"`
	CancelReason    string        `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
}

// Normalize deja email y método de pago en minúsculas y limpia el teléfono.
func (o *Order) Normalize() {
	o.ID = strings.TrimSpace(o.ID)
	o.Customer = strings.TrimSpace(o.Customer)
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	o.Phone = CleanPhone(o.Phone)
	o.Address = strings.TrimSpace(o.Address)
	o.Pincode = strings.TrimSpace(o.Pincode)
	o.PaymentMethod = strings.ToLower(strings.TrimSpace(o.PaymentMethod))
}

// ApplyDefaults completa los valores que el cliente no envía.
// Un pedido con paymentId llega ya pagado.
func (o *Order) ApplyDefaults(now time.Time) {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PaymentID != "" {
		o.PaymentStatus = PaymentPaid
	} else if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
}

// OrderTotal suma precio por cantidad de cada línea.
func (o *Order) OrderTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// OrderUpdate son los campos que admite PUT /update-order.
type OrderUpdate struct {
	OrderID         string         `json:"orderId" binding:"required"`
	Customer        *string        `json:"customer,omitempty" binding:"omitempty,min=2"`
	Phone           *string        `json:"phone,omitempty" binding:"omitempty,phone"`
	Address         *string        `json:"address,omitempty" binding:"omitempty,min=10"`
	City            *string        `json:"city,omitempty"`
	State           *string        `json:"state,omitempty"`
	Pincode         *string        `json:"pincode,omitempty" binding:"omitempty,pincode"`
	ShippingCharges *float64       `json:"shippingCharges,omitempty" binding:"omitempty,gte=0"`
	PaymentID       *string        `json:"paymentId,omitempty"`
	RazorpayOrderID *string        `json:"razorpayOrderId,omitempty"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus,omitempty" binding:"omitempty,oneof=pending paid failed refunded"`
	Status          *OrderStatus   `json:"status,omitempty" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Notes           *string        `json:"notes,omitempty"`
	TrackingNumber  *string        `json:"trackingNumber,omitempty"`
	CourierPartner  *string        `json:"courierPartner,omitempty"`
	CancelReason    *string        `json:"cancelReason,omitempty"`
}

func (u *OrderUpdate) Normalize() {
	u.OrderID = strings.TrimSpace(u.OrderID)
	if u.Phone != nil {
		p := CleanPhone(*u.Phone)
		u.Phone = &p
	}
	if u.Status != nil {
		s := OrderStatus(strings.ToLower(string(*u.Status)))
		u.Status = &s
	}
	if u.PaymentStatus != nil {
		s := PaymentStatus(strings.ToLower(string(*u.PaymentStatus)))
		u.PaymentStatus = &s
	}
}

// Fields convierte la actualización en un mapa. Entrar en un estado registra
// su fecha; repetir el estado actual conserva la fecha ya guardada.
// current puede ser nil.
func (u *OrderUpdate) Fields(now time.Time, current *Order) map[string]any {
	f := map[string]any{}
	setString(f, "customer", u.Customer)
	setString(f, "phone", u.Phone)
	setString(f, "address", u.Address)
	setString(f, "city", u.City)
	setString(f, "state", u.State)
	setString(f, "pincode", u.Pincode)
	setFloat(f, "shippingCharges", u.ShippingCharges)
	setString(f, "paymentId", u.PaymentID)
	setString(f, "razorpayOrderId", u.RazorpayOrderID)
	setString(f, "notes", u.Notes)
	setString(f, "trackingNumber", u.TrackingNumber)
	setString(f, "courierPartner", u.CourierPartner)
	setString(f, "cancelReason", u.CancelReason)
	if u.PaymentStatus != nil {
		f["paymentStatus"] = string(*u.PaymentStatus)
	}
	if u.Status != nil {
		f["status"] = string(*u.Status)
		field := StatusDateField(*u.Status)
		repeated := current != nil && current.Status == *u.Status && current.StatusDate(*u.Status) != nil
		if field != "" && !repeated {
			f[field] = now
		}
	}
	return f
}

// StatusDateField devuelve el campo de fecha que se marca al entrar en un estado.
func StatusDateField(s OrderStatus) string {
	switch s {
	case StatusProcessing:
		return "processingDate"
	case StatusShipped:
		return "shippedDate"
	case StatusDelivered:
		return "deliveredDate"
	case StatusCancelled:
		return "cancelledDate"
	}
	return ""
}

// StatusDate devuelve la fecha registrada al entrar en s, o nil.
func (o *Order) StatusDate(s OrderStatus) *time.Time {
	switch s {
	case StatusProcessing:
		return o.ProcessingDate
	case StatusShipped:
		return o.ShippedDate
	case StatusDelivered:
		return o.DeliveredDate
	case StatusCancelled:
		return o.CancelledDate
	}
	return nil
}

// CleanPhone quita espacios, guiones y paréntesis.
func CleanPhone(p string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(p))
}
