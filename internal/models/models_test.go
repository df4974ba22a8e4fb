package models

import (
	"regexp"
	"testing"
	"time"
)

func TestOrderApplyDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	o := Order{}
	o.ApplyDefaults(now)
	if o.Status != StatusPending {
		t.Errorf("expected status pending, got %s", o.Status)
	}
	if o.PaymentStatus != PaymentPending {
		t.Errorf("expected payment pending, got %s", o.PaymentStatus)
	}
	if !o.OrderDate.Equal(now) {
		t.Errorf("expected orderDate %v, got %v", now, o.OrderDate)
	}
	if o.Items == nil {
		t.Error("expected items to be an empty slice")
	}

	paid := Order{PaymentID: "pay_1", PaymentStatus: PaymentFailed}
	paid.ApplyDefaults(now)
	if paid.PaymentStatus != PaymentPaid {
		t.Errorf("an order with paymentId must be paid, got %s", paid.PaymentStatus)
	}
}

func TestOrderUpdateFieldsStampsStatusDate(t *testing.T) {
	now := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	shipped := StatusShipped
	tracking := "TRK1"

	u := OrderUpdate{OrderID: "ORD1", Status: &shipped, TrackingNumber: &tracking}
	f := u.Fields(now, nil)

	if f["status"] != "shipped" {
		t.Errorf("expected status shipped, got %v", f["status"])
	}
	if f["shippedDate"] != now {
		t.Errorf("expected shippedDate %v, got %v", now, f["shippedDate"])
	}
	if f["trackingNumber"] != "TRK1" {
		t.Errorf("expected trackingNumber, got %v", f["trackingNumber"])
	}
	if _, ok := f["orderId"]; ok {
		t.Error("orderId must not be part of the update")
	}

	pending := StatusPending
	u = OrderUpdate{OrderID: "ORD1", Status: &pending}
	if len(u.Fields(now, nil)) != 1 {
		t.Errorf("pending has no date field, got %v", u.Fields(now, nil))
	}
}

func TestOrderUpdateFieldsKeepsDateOnRepeatedStatus(t *testing.T) {
	first := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)
	shipped := StatusShipped
	u := OrderUpdate{OrderID: "ORD1", Status: &shipped}

	current := &Order{Base: Base{ID: "ORD1"}, Status: StatusShipped, ShippedDate: &first}
	if _, ok := u.Fields(later, current)["shippedDate"]; ok {
		t.Error("re-sending the current status must not move shippedDate")
	}

	current.ShippedDate = nil
	if got := u.Fields(later, current)["shippedDate"]; got != later {
		t.Errorf("a missing shippedDate must be stamped, got %v", got)
	}

	current = &Order{Base: Base{ID: "ORD1"}, Status: StatusProcessing, ShippedDate: &first}
	if got := u.Fields(later, current)["shippedDate"]; got != later {
		t.Errorf("entering shipped again must stamp it, got %v", got)
	}
}

func TestOrderUpdateNormalizeLowercasesStatus(t *testing.T) {
	s := OrderStatus("Delivered")
	u := OrderUpdate{OrderID: " ORD1 ", Status: &s}
	u.Normalize()
	if u.OrderID != "ORD1" || *u.Status != StatusDelivered {
		t.Errorf("unexpected normalized update: %q %q", u.OrderID, *u.Status)
	}
}

func TestOrderTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 49.5, Quantity: 1},
	}}
	if got := o.OrderTotal(); got != 249.5 {
		t.Errorf("expected 249.5, got %v", got)
	}
}

func TestCleanPhone(t *testing.T) {
	if got := CleanPhone(" +91 98765-43210 "); got != "+919876543210" {
		t.Errorf("unexpected phone %q", got)
	}
	if got := CleanPhone("(022) 1234"); got != "0221234" {
		t.Errorf("unexpected phone %q", got)
	}
}

func TestProductNormalize(t *testing.T) {
	p := Product{Name: "  Herbal Oil ", Category: " Hair-Care ", Image: "/img/oil.png"}
	p.Normalize()

	if p.Name != "Herbal Oil" || p.Category != "hair-care" {
		t.Errorf("unexpected normalized product: %q %q", p.Name, p.Category)
	}
	if len(p.Images) != 1 || p.Images[0] != "/img/oil.png" {
		t.Errorf("expected images from image, got %v", p.Images)
	}
	if !p.Active() {
		t.Error("new products are active by default")
	}

	inactive := false
	p = Product{IsActive: &inactive}
	p.Normalize()
	if p.Active() {
		t.Error("explicit isActive=false must be kept")
	}
}

func TestUserPublicHidesHash(t *testing.T) {
	u := User{FirstName: "Asha", LastName: "Rao", PasswordHash: "$2a$hash"}
	pub := u.Public()
	if pub.PasswordHash != "" {
		t.Error("public user must not carry the password hash")
	}
	if pub.Name != "Asha Rao" {
		t.Errorf("expected name Asha Rao, got %q", pub.Name)
	}
	if u.PasswordHash == "" {
		t.Error("Public must not modify the original")
	}
}

func TestEnquiryDefaults(t *testing.T) {
	e := Enquiry{EnquiryType: " BULK "}
	e.Normalize()
	if e.EnquiryType != "bulk" || e.TypeLabel() != "Bulk Orders" {
		t.Errorf("unexpected type %q / %q", e.EnquiryType, e.TypeLabel())
	}
	if e.Subject != "Contact Form" || e.Status != EnquiryNew {
		t.Errorf("unexpected defaults %q %q", e.Subject, e.Status)
	}

	e = Enquiry{}
	e.Normalize()
	if e.TypeLabel() != "General Inquiry" {
		t.Errorf("expected general label, got %q", e.TypeLabel())
	}
}

func TestNewIDAndStamp(t *testing.T) {
	id := NewID("PROD")
	if !regexp.MustCompile(`^PROD_[0-9A-F]{12}$`).MatchString(id) {
		t.Errorf("unexpected id %q", id)
	}
	if NewID("PROD") == id {
		t.Error("ids must be unique")
	}

	var b Base
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)
	b.Stamp(first)
	b.Stamp(later)
	if !b.CreatedAt.Equal(first) || !b.UpdatedAt.Equal(later) {
		t.Errorf("unexpected stamps %v %v", b.CreatedAt, b.UpdatedAt)
	}
}

func TestStripProtected(t *testing.T) {
	f := map[string]any{"id": "x", "_id": "y", "createdAt": 1, "updatedAt": 2, "name": "n"}
	StripProtected(f)
	if len(f) != 1 || f["name"] != "n" {
		t.Errorf("unexpected fields %v", f)
	}
}
