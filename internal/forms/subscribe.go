package forms

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/futureworld/futureworld.site/internal/outbound/mailinglist"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
)

var subscribeRequired = []string{"firstName", "lastName", "email"}

// HandleSubscribe accepts the newsletter signup as JSON and upserts the
// subscriber into the mailing list. Repeated submissions for one address are
// idempotent updates keyed by the hashed email.
func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if h.upserter == nil {
		h.misconfigured(w, "subscribe")
		return
	}

	var payload struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "malformed_body")
		return
	}

	fields := map[string]string{
		"firstName": payload.FirstName,
		"lastName":  payload.LastName,
		"email":     payload.Email,
	}
	if err := requireFields(fields, subscribeRequired); err != nil {
		_ = httpx.WriteAppError(w, err)
		return
	}
	if !validEmail(payload.Email) {
		_ = httpx.WriteAppError(w, apperrors.EC(apperrors.KindInvalidInput, "invalid_email", "email is malformed"))
		return
	}

	status, err := h.upserter.Upsert(httpx.RequestContext(r), mailinglist.Member{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		h.logger.Error("subscribe dispatch failed", zap.Error(err))
		_ = httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": "subscribe_failed"})
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "status": status})
}
