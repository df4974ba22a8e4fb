package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig describe un servidor SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// SSL implícito (465); si es false se exige STARTTLS.
	SSL bool
}

func GmailSMTP(user, appPassword string) SMTPConfig {
	return SMTPConfig{Host: "smtp.gmail.com", Port: 587, Username: user, Password: appPassword}
}

func HostingerSMTP(email, password string) SMTPConfig {
	return SMTPConfig{Host: "smtp.hostinger.com", Port: 465, Username: email, Password: password, SSL: true}
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email, err := buildMessage(msg)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	}
	if m.cfg.SSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", m.cfg.Host, err)
	}
	return nil
}

func buildMessage(msg Message) (*gomail.Msg, error) {
	email := gomail.NewMsg()
	if msg.FromName != "" {
		if err := email.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := email.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := email.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := email.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("invalid cc: %w", err)
		}
	}
	if msg.ReplyTo != "" {
		if err := email.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	email.Subject(msg.Subject)
	email.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return email, nil
}
