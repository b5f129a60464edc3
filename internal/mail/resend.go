// Package mail kirim receipt lewat Resend HTTP API. Gagal kirim di-log
// oleh caller, tidak di-retry, dan tidak pernah membatalkan transisi paid.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/orders"
)

var ErrNotConfigured = errors.New("resend api key not configured")

type ReceiptSender interface {
	SendReceipt(ctx context.Context, toEmail, orderID string, items []orders.ReceiptItem) error
}

type Resend struct {
	APIKey  string
	From    string
	BaseURL string
	HTTP    *http.Client
}

func NewResend(apiKey, from string) *Resend {
	return &Resend{
		APIKey:  apiKey,
		From:    from,
		BaseURL: "https://api.resend.com",
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<h1>Thanks for your order!</h1>
<p>Order <strong>{{.OrderID}}</strong> &mdash; {{.Date}}</p>
<ul>
{{range .Items}}<li>{{.ProductName}} &mdash; ${{.Price}}</li>
{{end}}</ul>`))

func (r *Resend) SendReceipt(ctx context.Context, toEmail, orderID string, items []orders.ReceiptItem) error {
	if r.APIKey == "" {
		return ErrNotConfigured
	}

	var html bytes.Buffer
	err := receiptTmpl.Execute(&html, map[string]any{
		"OrderID": orderID,
		"Date":    time.Now().UTC().Format("Jan 2, 2006"),
		"Items":   items,
	})
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"from":    r.From,
		"to":      []string{toEmail},
		"subject": "Thanks for your order! This is your receipt.",
		"html":    html.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend: status %d", resp.StatusCode)
	}
	return nil
}
