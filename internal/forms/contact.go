package forms

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/futureworld/futureworld.site/internal/outbound/email"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
)

var contactRequired = []string{"name", "email", "phone", "company", "position", "message"}

// HandleContact accepts the contact form as JSON and forwards it to the
// contact inbox.
func (h *Handlers) HandleContact(w http.ResponseWriter, r *http.Request) {
	if h.sender == nil || h.contactTo == "" {
		h.misconfigured(w, "contact")
		return
	}

	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Company  string `json:"company"`
		Position string `json:"position"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "malformed_body")
		return
	}

	fields := map[string]string{
		"name":     payload.Name,
		"email":    payload.Email,
		"phone":    payload.Phone,
		"company":  payload.Company,
		"position": payload.Position,
		"message":  payload.Message,
	}
	if err := requireFields(fields, contactRequired); err != nil {
		_ = httpx.WriteAppError(w, err)
		return
	}
	if !validEmail(payload.Email) {
		_ = httpx.WriteAppError(w, apperrors.EC(apperrors.KindInvalidInput, "invalid_email", "email is malformed"))
		return
	}

	var b strings.Builder
	b.WriteString("<h2>New contact enquiry</h2>")
	b.WriteString(row("Name", payload.Name))
	b.WriteString(row("Email", payload.Email))
	b.WriteString(row("Phone", payload.Phone))
	b.WriteString(row("Company", payload.Company))
	b.WriteString(row("Position", payload.Position))
	b.WriteString(row("Message", payload.Message))

	msg := email.Message{
		To:      []string{h.contactTo},
		Subject: "Contact enquiry from " + strings.TrimSpace(payload.Name),
		HTML:    b.String(),
		ReplyTo: strings.TrimSpace(payload.Email),
	}
	if err := h.sender.Send(httpx.RequestContext(r), msg); err != nil {
		h.dispatchFailure(w, "contact", err)
		return
	}
	writeOK(w)
}
