package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quillpost/newsletter-service/internal/core/port"
	"github.com/quillpost/newsletter-service/internal/infra/config"
)

const serverTokenHeader = "X-Postmark-Server-Token"

// Client delivers transactional email through a Postmark-compatible HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sender     string
	authToken  string
}

// NewClient constructs an email client from configuration. The configured
// send timeout bounds every delivery attempt.
func NewClient(cfg config.EmailSettings) *Client {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sender:     cfg.Sender,
		authToken:  cfg.AuthorizationToken,
	}
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// Send performs a single delivery attempt. Both 4xx and 5xx responses are
// failures; the client never retries.
func (c *Client) Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error {
	payload := sendEmailRequest{
		From:     c.sender,
		To:       recipient,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(serverTokenHeader, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute email request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("email provider responded with %s", resp.Status)
	}

	return nil
}

var _ port.EmailSender = (*Client)(nil)
