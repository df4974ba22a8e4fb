// Package mail envía los correos transaccionales: confirmación de pedido y formulario de contacto.
package mail

//go:generate mockgen -source=mailer.go -destination=../mocks/mock_mailer.go -package=mocks

import (
	"context"
	"errors"
	"log"
	"strings"
)

var ErrNotConfigured = errors.New("no email credentials configured")

// Message es un correo listo para enviar.
type Message struct {
	FromName string   `json:"fromName,omitempty"`
	From     string   `json:"from"`
	To       []string `json:"to"`
	Cc       []string `json:"cc,omitempty"`
	ReplyTo  string   `json:"replyTo,omitempty"`
	Subject  string   `json:"subject"`
	HTML     string   `json:"html"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Settings son las credenciales de los proveedores.
type Settings struct {
	GmailUser         string
	GmailAppPassword  string
	HostingerEmail    string
	HostingerPassword string
	RelayURL          string
	RelayToken        string
}

// New elige el proveedor: Gmail si hay credenciales, luego Hostinger, luego el relay HTTP.
func New(s Settings) (Mailer, error) {
	switch {
	case present(s.GmailUser, s.GmailAppPassword):
		log.Println("📧 Using Gmail SMTP")
		return NewSMTPMailer(GmailSMTP(s.GmailUser, s.GmailAppPassword)), nil
	case present(s.HostingerEmail, s.HostingerPassword):
		log.Println("📧 Using Hostinger SMTP")
		return NewSMTPMailer(HostingerSMTP(s.HostingerEmail, s.HostingerPassword)), nil
	case present(s.RelayURL):
		log.Println("📧 Using HTTP mail relay")
		return NewRelayMailer(s.RelayURL, s.RelayToken, nil), nil
	}
	return nil, ErrNotConfigured
}

func present(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
