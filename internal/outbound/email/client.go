// Package email sends transactional notifications through the email
// provider's HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/timeouts"
)

const defaultBaseURL = "https://api.resend.com"

// Config defines the email provider client.
type Config struct {
	APIKey string
	From   string
	// BaseURL overrides the provider endpoint. Used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client is an immutable email provider client.
type Client struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

// Message is one outbound notification email. HTML is assumed to already be
// escaped for safe embedding.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// New validates credentials and constructs the client. A missing API key is
// a configuration failure, not a crash.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, apperrors.E(apperrors.KindConfig, "email provider api key is required")
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, apperrors.E(apperrors.KindConfig, "email from address is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.Provider}
	}
	return &Client{apiKey: apiKey, from: from, baseURL: baseURL, httpClient: httpClient}, nil
}

// Send dispatches one message. Provider failures return an unavailable error
// carrying the provider detail for server-side logging; callers must not
// forward that detail to end users.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil {
		return apperrors.E(apperrors.KindConfig, "email client is not configured")
	}
	if len(msg.To) == 0 {
		return apperrors.E(apperrors.KindInvalidInput, "recipient is required")
	}

	payload := struct {
		From string `json:"from"`
		Message
	}{From: c.from, Message: msg}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w: %w", apperrors.E(apperrors.KindUnavailable, "email provider unreachable"), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send email: %w: status %d: %s",
			apperrors.E(apperrors.KindUnavailable, "email provider rejected message"),
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
