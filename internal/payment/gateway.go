package payment

//go:generate mockgen -source=gateway.go -destination=../mocks/mock_gateway.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

const Currency = "INR"

var ErrNotConfigured = errors.New("payment gateway not configured")

// OrderRequest es lo necesario para abrir un pedido en la pasarela.
type OrderRequest struct {
	Amount   decimal.Decimal
	Receipt  string
	Customer string
}

// Gateway es la pasarela de pagos.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (map[string]any, error)
	FetchPayment(ctx context.Context, paymentID string) (map[string]any, error)
}

// ToPaise convierte rupias a paise, redondeando al entero más cercano.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// RazorpayGateway usa el SDK oficial de Razorpay.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrNotConfigured
	}
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}, nil
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"amount":   ToPaise(req.Amount),
		"currency": Currency,
		"receipt":  req.Receipt,
		"notes": map[string]interface{}{
			"orderId":  req.Receipt,
			"customer": req.Customer,
		},
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return order, nil
}

func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}
	return p, nil
}
