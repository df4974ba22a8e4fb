package mail_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"storefront/internal/mail"
	"storefront/internal/mocks"
	"storefront/internal/models"
)

func testOrder() models.Order {
	o := models.Order{
		Customer: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 MG Road, Indiranagar",
		City:     "Bengaluru",
		State:    "KA",
		Pincode:  "560038",
		Amount:   598,
		Items: []models.OrderItem{
			{ProductID: "P1", Name: "Amla <Oil>", Variant: "200ml", Price: 299, Quantity: 2},
		},
	}
	o.ID = "ORD123"
	return o
}

func TestOrderConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)
	n := mail.NewNotifier(mailer, "Herbal Store", "orders@shop.in", "inbox@shop.in")

	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mail.Message) error {
		if len(msg.To) != 1 || msg.To[0] != "asha@example.com" {
			t.Errorf("unexpected recipients %v", msg.To)
		}
		if len(msg.Cc) != 1 || msg.Cc[0] != "inbox@shop.in" {
			t.Errorf("unexpected cc %v", msg.Cc)
		}
		if msg.Subject != "Order Confirmation - ORD123 | Herbal Store" {
			t.Errorf("unexpected subject %q", msg.Subject)
		}
		if msg.From != "orders@shop.in" {
			t.Errorf("unexpected from %q", msg.From)
		}
		for _, want := range []string{"#ORD123", "₹598.00", "₹299.00", "(200ml)", "560038"} {
			if !strings.Contains(msg.HTML, want) {
				t.Errorf("body does not contain %q", want)
			}
		}
		if strings.Contains(msg.HTML, "<Oil>") {
			t.Error("item names must be HTML-escaped")
		}
		return nil
	})

	if err := n.OrderConfirmation(context.Background(), testOrder()); err != nil {
		t.Fatal(err)
	}
}

func TestOrderConfirmationPropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)
	n := mail.NewNotifier(mailer, "Shop", "orders@shop.in", "")

	boom := errors.New("smtp down")
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(boom)

	if err := n.OrderConfirmation(context.Background(), testOrder()); !errors.Is(err, boom) {
		t.Errorf("expected smtp error, got %v", err)
	}
}

func TestContactForm(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)
	n := mail.NewNotifier(mailer, "Herbal Store", "info@shop.in", "")

	e := models.Enquiry{
		Name:        "Ravi",
		Email:       "ravi@example.com",
		EnquiryType: "distributorship",
		Subject:     "Partnership",
		Message:     "I would like to distribute your products.",
	}
	e.Normalize()

	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mail.Message) error {
		if len(msg.To) != 1 || msg.To[0] != "info@shop.in" {
			t.Errorf("without inbox the sender address receives it, got %v", msg.To)
		}
		if len(msg.Cc) != 0 {
			t.Errorf("no cc expected, got %v", msg.Cc)
		}
		if msg.ReplyTo != "ravi@example.com" {
			t.Errorf("reply-to must be the customer, got %q", msg.ReplyTo)
		}
		if msg.Subject != "[Enquiry for Distributorship] Partnership" {
			t.Errorf("unexpected subject %q", msg.Subject)
		}
		if !strings.Contains(msg.HTML, "I would like to distribute your products.") {
			t.Error("body must include the message")
		}
		return nil
	})

	if err := n.ContactForm(context.Background(), e); err != nil {
		t.Fatal(err)
	}
}
