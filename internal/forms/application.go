package forms

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/futureworld/futureworld.site/internal/outbound/email"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
)

// maxApplicationBytes bounds the multipart payload, resume included.
const maxApplicationBytes = 10 << 20

var applicationRequired = []string{
	"jobTitle",
	"name",
	"email",
	"confirmEmail",
	"phone",
	"location",
	"message",
}

// HandleApplication accepts the careers application form as multipart form
// data and forwards it to the careers inbox.
func (h *Handlers) HandleApplication(w http.ResponseWriter, r *http.Request) {
	if h.sender == nil || h.careersTo == "" {
		h.misconfigured(w, "application")
		return
	}
	if err := r.ParseMultipartForm(maxApplicationBytes); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "malformed_body")
		return
	}

	fields := map[string]string{}
	for _, name := range append(append([]string{}, applicationRequired...), "linkedIn") {
		fields[name] = r.FormValue(name)
	}
	if err := requireFields(fields, applicationRequired); err != nil {
		_ = httpx.WriteAppError(w, err)
		return
	}
	if !validEmail(fields["email"]) {
		_ = httpx.WriteAppError(w, apperrors.EC(apperrors.KindInvalidInput, "invalid_email", "email is malformed"))
		return
	}
	if !strings.EqualFold(strings.TrimSpace(fields["email"]), strings.TrimSpace(fields["confirmEmail"])) {
		_ = httpx.WriteAppError(w, apperrors.EC(apperrors.KindInvalidInput, "emails_mismatch", "email and confirmation differ"))
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>New application: %s</h2>", escape(fields["jobTitle"])))
	b.WriteString(row("Name", fields["name"]))
	b.WriteString(row("Email", fields["email"]))
	b.WriteString(row("Phone", fields["phone"]))
	b.WriteString(row("Location", fields["location"]))
	if strings.TrimSpace(fields["linkedIn"]) != "" {
		b.WriteString(row("LinkedIn", fields["linkedIn"]))
	}
	b.WriteString(row("Message", fields["message"]))
	if file, header, err := r.FormFile("resume"); err == nil {
		_ = file.Close()
		if header != nil {
			b.WriteString(row("Resume", header.Filename))
		}
	}

	msg := email.Message{
		To:      []string{h.careersTo},
		Subject: "Careers application: " + strings.TrimSpace(fields["jobTitle"]),
		HTML:    b.String(),
		ReplyTo: strings.TrimSpace(fields["email"]),
	}
	if err := h.sender.Send(httpx.RequestContext(r), msg); err != nil {
		h.dispatchFailure(w, "application", err)
		return
	}
	writeOK(w)
}
