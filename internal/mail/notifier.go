package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"storefront/internal/models"
)

// Notifier arma y envía los correos de la tienda.
type Notifier struct {
	mailer   Mailer
	shopName string
	from     string
	// Bandeja que recibe copia de los pedidos y los mensajes de contacto.
	inbox string
	now   func() time.Time
}

func NewNotifier(mailer Mailer, shopName, from, inbox string) *Notifier {
	return &Notifier{
		mailer:   mailer,
		shopName: shopName,
		from:     from,
		inbox:    inbox,
		now:      time.Now,
	}
}

// OrderConfirmation envía la confirmación al cliente con copia a la tienda.
func (n *Notifier) OrderConfirmation(ctx context.Context, order models.Order) error {
	html, err := render(orderTemplate, orderView{Shop: n.shopName, Order: order})
	if err != nil {
		return err
	}
	msg := Message{
		FromName: n.shopName + " Orders",
		From:     n.from,
		To:       []string{order.Email},
		ReplyTo:  n.from,
		Subject:  fmt.Sprintf("Order Confirmation - %s | %s", order.ID, n.shopName),
		HTML:     html,
	}
	if n.inbox != "" {
		msg.Cc = []string{n.inbox}
	}
	return n.mailer.Send(ctx, msg)
}

// ContactForm reenvía una consulta del formulario de contacto a la tienda.
func (n *Notifier) ContactForm(ctx context.Context, e models.Enquiry) error {
	html, err := render(contactTemplate, contactView{
		Shop:       n.shopName,
		Enquiry:    e,
		Label:      e.TypeLabel(),
		ReceivedAt: n.now().Format("02 Jan 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}
	to := n.inbox
	if to == "" {
		to = n.from
	}
	msg := Message{
		FromName: n.shopName + " Contact",
		From:     n.from,
		To:       []string{to},
		ReplyTo:  e.Email,
		Subject:  fmt.Sprintf("[%s] %s", e.TypeLabel(), e.Subject),
		HTML:     html,
	}
	if n.from != "" && n.from != to {
		msg.Cc = []string{n.from}
	}
	return n.mailer.Send(ctx, msg)
}

type orderView struct {
	Shop  string
	Order models.Order
}

type contactView struct {
	Shop       string
	Enquiry    models.Enquiry
	Label      string
	ReceivedAt string
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
	"lineTotal": func(it models.OrderItem) float64 {
		return it.Price * float64(it.Quantity)
	},
	"variant": func(v string) string {
		if v == "" {
			return "Default"
		}
		return v
	},
}

var orderTemplate = template.Must(template.New("order").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><body>
<h1>Order Confirmed!</h1>
<p>Hi <strong>{{.Order.Customer}}</strong>, thank you for choosing {{.Shop}}. Your order has been placed and is being processed.</p>
<p>Order ID: <strong>#{{.Order.ID}}</strong><br>Total Amount: <strong>{{money .Order.Amount}}</strong></p>
<table>
<tr><th>Product</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{range .Order.Items}}<tr><td>{{.Name}} ({{variant .Variant}})</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{money (lineTotal .)}}</td></tr>
{{end}}</table>
<p>Delivery address:<br>{{.Order.Address}}<br>{{.Order.City}}, {{.Order.State}} - {{.Order.Pincode}}<br>Phone: {{.Order.Phone}}</p>
</body></html>`))

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html><body>
<h2>New contact form submission</h2>
<p><strong>Name:</strong> {{.Enquiry.Name}}</p>
<p><strong>Email:</strong> {{.Enquiry.Email}}</p>
{{if .Enquiry.Phone}}<p><strong>Phone:</strong> {{.Enquiry.Phone}}</p>{{end}}
<p><strong>Enquiry Type:</strong> {{.Label}}</p>
<p><strong>Subject:</strong> {{.Enquiry.Subject}}</p>
<p><strong>Message:</strong><br>{{.Enquiry.Message}}</p>
<p>Sent from the {{.Shop}} contact form. Received on: {{.ReceivedAt}}</p>
</body></html>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
