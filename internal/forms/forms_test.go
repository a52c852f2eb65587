package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futureworld/futureworld.site/internal/outbound/email"
	"github.com/futureworld/futureworld.site/internal/outbound/mailinglist"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeUpserter struct {
	members []mailinglist.Member
	status  string
	err     error
}

func (f *fakeUpserter) Upsert(_ context.Context, member mailinglist.Member) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.members = append(f.members, member)
	return f.status, nil
}

func newTestHandlers(sender EmailSender, upserter ListUpserter) *Handlers {
	return NewHandlers(sender, upserter, "careers@futureworld.org", "hello@futureworld.org", zap.NewNop())
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body
}

// applicationForm builds a multipart request body from field pairs.
func applicationForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func validApplicationFields() map[string]string {
	return map[string]string{
		"jobTitle":     "Senior Futurist",
		"name":         "Ada Lovelace",
		"email":        "a@x.com",
		"confirmEmail": "a@x.com",
		"phone":        "+27 11 555 0100",
		"location":     "Johannesburg",
		"message":      "I would like to apply.",
	}
}

func postApplication(t *testing.T, h *Handlers, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := applicationForm(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/forms/application", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.HandleApplication(rr, req)
	return rr
}

func TestApplicationValidSubmissionSendsEmail(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	h := newTestHandlers(sender, nil)

	rr := postApplication(t, h, validApplicationFields())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if body := decodeBody(t, rr); body["ok"] != true {
		t.Fatalf("body = %v, want ok", body)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To[0] != "careers@futureworld.org" {
		t.Fatalf("to = %v", msg.To)
	}
	if msg.ReplyTo != "a@x.com" {
		t.Fatalf("reply-to = %q", msg.ReplyTo)
	}
	if !strings.Contains(msg.HTML, "Senior Futurist") {
		t.Fatalf("html = %q, want job title embedded", msg.HTML)
	}
}

func TestApplicationIncludesResumeFilename(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	h := newTestHandlers(sender, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range validApplicationFields() {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	fw, err := mw.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4")); err != nil {
		t.Fatalf("write resume part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/forms/application", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.HandleApplication(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].HTML, "cv.pdf") {
		t.Fatalf("html = %q, want resume filename embedded", sender.sent[0].HTML)
	}
}

func TestApplicationEmailsMismatch(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	h := newTestHandlers(sender, nil)

	fields := validApplicationFields()
	fields["confirmEmail"] = "b@x.com"
	rr := postApplication(t, h, fields)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "emails_mismatch" {
		t.Fatalf("error = %v, want emails_mismatch", body["error"])
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails, want 0 on validation failure", len(sender.sent))
	}
}

func TestApplicationMissingRequiredFields(t *testing.T) {
	t.Parallel()

	for _, field := range applicationRequired {
		field := field
		t.Run(field, func(t *testing.T) {
			t.Parallel()
			h := newTestHandlers(&fakeSender{}, nil)
			fields := validApplicationFields()
			delete(fields, field)
			rr := postApplication(t, h, fields)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if body := decodeBody(t, rr); body["error"] != "missing_"+field {
				t.Fatalf("error = %v, want missing_%s", body["error"], field)
			}
		})
	}
}

func TestApplicationInvalidEmailSyntax(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(&fakeSender{}, nil)
	fields := validApplicationFields()
	fields["email"] = "not-an-address"
	fields["confirmEmail"] = "not-an-address"
	rr := postApplication(t, h, fields)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "invalid_email" {
		t.Fatalf("error = %v, want invalid_email", body["error"])
	}
}

func TestApplicationEscapesMarkup(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	h := newTestHandlers(sender, nil)
	fields := validApplicationFields()
	fields["message"] = `<script>alert("x")</script>`
	rr := postApplication(t, h, fields)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if strings.Contains(sender.sent[0].HTML, "<script>") {
		t.Fatalf("html = %q, want escaped markup", sender.sent[0].HTML)
	}
	if !strings.Contains(sender.sent[0].HTML, "&lt;script&gt;") {
		t.Fatalf("html = %q, want escaped entities", sender.sent[0].HTML)
	}
}

func TestApplicationProviderFailureIsGeneric(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(&fakeSender{err: errors.New("provider: api key sk-123 rejected")}, nil)
	rr := postApplication(t, h, validApplicationFields())
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "send_failed" {
		t.Fatalf("error = %v, want send_failed", body["error"])
	}
	if strings.Contains(rr.Body.String(), "sk-123") {
		t.Fatalf("body = %q, provider detail leaked", rr.Body.String())
	}
}

func TestApplicationMissingCredentialsIsConfigError(t *testing.T) {
	t.Parallel()

	h := NewHandlers(nil, nil, "", "", zap.NewNop())
	rr := postApplication(t, h, validApplicationFields())
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "server_misconfigured" {
		t.Fatalf("error = %v, want server_misconfigured", body["error"])
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func validContact() map[string]string {
	return map[string]string{
		"name":     "Grace Hopper",
		"email":    "grace@navy.mil",
		"phone":    "+1 555 0100",
		"company":  "USS Hopper",
		"position": "Rear Admiral",
		"message":  "Let's talk about the future.",
	}
}

func TestContactValidSubmission(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	h := newTestHandlers(sender, nil)
	rr := postJSON(t, h.HandleContact, "/api/forms/contact", validContact())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if len(sender.sent) != 1 || sender.sent[0].To[0] != "hello@futureworld.org" {
		t.Fatalf("sent = %+v", sender.sent)
	}
}

func TestContactMissingPhone(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	h := newTestHandlers(sender, nil)
	payload := validContact()
	delete(payload, "phone")
	rr := postJSON(t, h.HandleContact, "/api/forms/contact", payload)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "missing_phone" {
		t.Fatalf("error = %v, want missing_phone", body["error"])
	}
	if len(sender.sent) != 0 {
		t.Fatal("email sent despite validation failure")
	}
}

func TestContactMalformedBody(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(&fakeSender{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/forms/contact", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.HandleContact(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSubscribeUpsertsMember(t *testing.T) {
	t.Parallel()

	upserter := &fakeUpserter{status: "subscribed"}
	h := newTestHandlers(nil, upserter)
	rr := postJSON(t, h.HandleSubscribe, "/api/subscribe", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "a@x.com",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["ok"] != true || body["status"] != "subscribed" {
		t.Fatalf("body = %v", body)
	}
	if len(upserter.members) != 1 || upserter.members[0].Email != "a@x.com" {
		t.Fatalf("members = %+v", upserter.members)
	}
}

func TestSubscribeMissingEmail(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(nil, &fakeUpserter{})
	rr := postJSON(t, h.HandleSubscribe, "/api/subscribe", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "missing_email" {
		t.Fatalf("error = %v, want missing_email", body["error"])
	}
}

func TestSubscribeProviderFailure(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(nil, &fakeUpserter{err: errors.New("list provider down")})
	rr := postJSON(t, h.HandleSubscribe, "/api/subscribe", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "a@x.com",
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "subscribe_failed" {
		t.Fatalf("error = %v, want subscribe_failed", body["error"])
	}
}

func TestSubscribeMissingCredentials(t *testing.T) {
	t.Parallel()

	h := NewHandlers(nil, nil, "", "", zap.NewNop())
	rr := postJSON(t, h.HandleSubscribe, "/api/subscribe", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "a@x.com",
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}
