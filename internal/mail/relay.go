package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// RelayMailer envía el correo a la API HTTP del proveedor de hosting.
type RelayMailer struct {
	url    string
	token  string
	client *http.Client
}

func NewRelayMailer(url, token string, client *http.Client) *RelayMailer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RelayMailer{url: url, token: token, client: client}
}

func (m *RelayMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail relay unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
