// Package revalidate handles signed content-change notifications and maps
// them to cache invalidation.
package revalidate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/futureworld/futureworld.site/internal/cache"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

const maxBodyBytes = 1 << 20

// Notification is the change event posted by the document store.
type Notification struct {
	Type string `json:"_type"`
	ID   string `json:"_id"`
	Slug *struct {
		Current string `json:"current"`
	} `json:"slug"`
}

// Handler verifies, classifies, and applies one notification per request.
// It is stateless; replays are harmless because invalidation is idempotent.
type Handler struct {
	invalidator cache.Invalidator
	secret      string
	production  bool
	logger      *zap.Logger
}

// NewHandler builds the webhook handler. In production an invalid or missing
// signature is rejected; elsewhere it is logged and tolerated so local
// senders need no secret.
func NewHandler(invalidator cache.Invalidator, secret string, production bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		invalidator: invalidator,
		secret:      strings.TrimSpace(secret),
		production:  production,
		logger:      logger,
	}
}

// Sign computes the signature for a body. Exported for senders and tests.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "unreadable_body")
		return
	}

	if !h.verifySignature(r.Header.Get(SignatureHeader), body) {
		if h.production {
			_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "invalid_signature")
			return
		}
		h.logger.Warn("webhook signature verification failed; allowing in non-production")
	}

	var notification Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "malformed_body")
		return
	}
	if strings.TrimSpace(notification.Type) == "" {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "missing_type")
		return
	}

	slug := ""
	if notification.Slug != nil {
		slug = strings.TrimSpace(notification.Slug.Current)
	}
	targets := TargetsFor(notification.Type, slug)

	ctx := httpx.RequestContext(r)
	for _, target := range targets {
		if target.Tag != "" {
			var n int64
			var err error
			if target.Tag == CatchAllTag {
				// Unrecognized types can touch any page; flush everything.
				n, err = h.invalidator.InvalidateAll(ctx)
			} else {
				n, err = h.invalidator.InvalidateTag(ctx, target.Tag)
			}
			if err != nil {
				h.logger.Error("invalidate tag failed", zap.String("tag", target.Tag), zap.Error(err))
				_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "invalidation_failed")
				return
			}
			h.logger.Info("invalidated tag", zap.String("tag", target.Tag), zap.Int64("pages", n))
		}
		if target.Path != "" {
			n, err := h.invalidator.InvalidatePath(ctx, target.Path)
			if err != nil {
				h.logger.Error("invalidate path failed", zap.String("path", target.Path), zap.Error(err))
				_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "invalidation_failed")
				return
			}
			h.logger.Info("invalidated path", zap.String("path", target.Path), zap.Int64("pages", n))
		}
	}

	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      http.StatusOK,
		"revalidated": true,
		"now":         time.Now().UnixMilli(),
		"body":        json.RawMessage(body),
	})
}

// verifySignature checks the hex HMAC-SHA256 of the raw body. A configured
// secret is required for verification to succeed.
func (h *Handler) verifySignature(signature string, body []byte) bool {
	signature = strings.TrimSpace(signature)
	if h.secret == "" || signature == "" {
		return false
	}
	expected := Sign(h.secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
