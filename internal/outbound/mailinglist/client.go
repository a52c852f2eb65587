// Package mailinglist upserts subscribers into the mailing-list provider.
package mailinglist

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/timeouts"
)

// Config defines the mailing-list provider client.
type Config struct {
	APIKey       string
	ServerPrefix string
	ListID       string
	// BaseURL overrides the provider endpoint. Used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client is an immutable mailing-list provider client.
type Client struct {
	apiKey     string
	listID     string
	baseURL    string
	httpClient *http.Client
}

// Member is one subscriber upsert.
type Member struct {
	Email     string
	FirstName string
	LastName  string
}

// New validates credentials and constructs the client.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, apperrors.E(apperrors.KindConfig, "mailing list api key is required")
	}
	listID := strings.TrimSpace(cfg.ListID)
	if listID == "" {
		return nil, apperrors.E(apperrors.KindConfig, "mailing list id is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		prefix := strings.TrimSpace(cfg.ServerPrefix)
		if prefix == "" {
			return nil, apperrors.E(apperrors.KindConfig, "mailing list server prefix is required")
		}
		baseURL = fmt.Sprintf("https://%s.api.mailchimp.com", prefix)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.Provider}
	}
	return &Client{apiKey: apiKey, listID: listID, baseURL: baseURL, httpClient: httpClient}, nil
}

// SubscriberHash computes the stable upsert key for an email address: the
// MD5 of the lowercased address. Case variants of one address therefore
// update the same subscriber instead of creating duplicates.
func SubscriberHash(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Upsert creates or updates the subscriber and returns the provider's
// membership status.
func (c *Client) Upsert(ctx context.Context, member Member) (string, error) {
	if c == nil {
		return "", apperrors.E(apperrors.KindConfig, "mailing list client is not configured")
	}
	email := strings.TrimSpace(member.Email)
	if email == "" {
		return "", apperrors.E(apperrors.KindInvalidInput, "email is required")
	}

	payload := map[string]any{
		"email_address": email,
		"status_if_new": "subscribed",
		"merge_fields": map[string]string{
			"FNAME": strings.TrimSpace(member.FirstName),
			"LNAME": strings.TrimSpace(member.LastName),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode member payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/3.0/lists/%s/members/%s", c.baseURL, c.listID, SubscriberHash(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build member request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("anystring", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upsert member: %w: %w", apperrors.E(apperrors.KindUnavailable, "mailing list provider unreachable"), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("upsert member: %w: status %d: %s",
			apperrors.E(apperrors.KindUnavailable, "mailing list provider rejected upsert"),
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode member response: %w", err)
	}
	return result.Status, nil
}
