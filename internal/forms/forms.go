// Package forms validates user-submitted forms and forwards them to outbound
// communication providers.
package forms

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/futureworld/futureworld.site/internal/outbound/email"
	"github.com/futureworld/futureworld.site/internal/outbound/mailinglist"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
)

// EmailSender dispatches one transactional notification.
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

// ListUpserter creates or updates one mailing-list subscriber.
type ListUpserter interface {
	Upsert(ctx context.Context, member mailinglist.Member) (string, error)
}

// Handlers serves the three form endpoints. A nil sender or upserter means
// the corresponding provider credentials were absent at startup; affected
// endpoints answer with a configuration error instead of crashing.
type Handlers struct {
	sender    EmailSender
	upserter  ListUpserter
	careersTo string
	contactTo string
	logger    *zap.Logger
}

// NewHandlers builds the form handlers.
func NewHandlers(sender EmailSender, upserter ListUpserter, careersTo, contactTo string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		sender:    sender,
		upserter:  upserter,
		careersTo: strings.TrimSpace(careersTo),
		contactTo: strings.TrimSpace(contactTo),
		logger:    logger,
	}
}

func missingField(field string) error {
	return apperrors.EC(apperrors.KindInvalidInput, "missing_"+field, field+" is required")
}

func requireFields(fields map[string]string, order []string) error {
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			return missingField(name)
		}
	}
	return nil
}

func validEmail(address string) bool {
	parsed, err := mail.ParseAddress(strings.TrimSpace(address))
	return err == nil && parsed.Address == strings.TrimSpace(address)
}

// escape prepares a user-supplied value for embedding in generated markup.
func escape(value string) string {
	return html.EscapeString(strings.TrimSpace(value))
}

// row renders one labeled value of a notification email body.
func row(label, value string) string {
	return fmt.Sprintf("<p><strong>%s:</strong> %s</p>", label, escape(value))
}

// writeOK answers the common success shape.
func writeOK(w http.ResponseWriter) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// dispatchFailure hides provider internals from the caller while logging the
// full failure server-side.
func (h *Handlers) dispatchFailure(w http.ResponseWriter, form string, err error) {
	h.logger.Error("form dispatch failed", zap.String("form", form), zap.Error(err))
	_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "send_failed")
}

func (h *Handlers) misconfigured(w http.ResponseWriter, form string) {
	h.logger.Error("form provider is not configured", zap.String("form", form))
	_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "server_misconfigured")
}
