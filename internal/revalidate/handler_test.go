package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// recordingInvalidator captures invalidation calls for assertions.
type recordingInvalidator struct {
	tags  []string
	paths []string
	all   int
	fail  bool
}

func (r *recordingInvalidator) InvalidateTag(_ context.Context, tag string) (int64, error) {
	if r.fail {
		return 0, context.DeadlineExceeded
	}
	r.tags = append(r.tags, tag)
	return 1, nil
}

func (r *recordingInvalidator) InvalidatePath(_ context.Context, path string) (int64, error) {
	if r.fail {
		return 0, context.DeadlineExceeded
	}
	r.paths = append(r.paths, path)
	return 1, nil
}

func (r *recordingInvalidator) InvalidateAll(context.Context) (int64, error) {
	if r.fail {
		return 0, context.DeadlineExceeded
	}
	r.all++
	return 1, nil
}

const testSecret = "webhook-secret"

func postNotification(t *testing.T, h *Handler, body []byte, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", bytes.NewReader(body))
	if sign {
		req.Header.Set(SignatureHeader, Sign(testSecret, body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerInvalidatesCaseStudyTagAndPath(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, true, zap.NewNop())

	body := []byte(`{"_type": "caseStudy", "_id": "cs1", "slug": {"current": "acme"}}`)
	rr := postNotification(t, h, body, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if len(inv.tags) != 1 || inv.tags[0] != "caseStudy" {
		t.Fatalf("tags = %v, want exactly [caseStudy]", inv.tags)
	}
	if len(inv.paths) != 1 || inv.paths[0] != "/case-study/acme" {
		t.Fatalf("paths = %v, want exactly [/case-study/acme]", inv.paths)
	}
	if inv.all != 0 {
		t.Fatalf("catch-all invoked %d times, want 0", inv.all)
	}

	var ack struct {
		Status      int             `json:"status"`
		Revalidated bool            `json:"revalidated"`
		Now         int64           `json:"now"`
		Body        json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &ack); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}
	if ack.Status != http.StatusOK || !ack.Revalidated || ack.Now == 0 {
		t.Fatalf("ack = %+v", ack)
	}
	if !bytes.Equal(bytes.TrimSpace(ack.Body), body) {
		t.Fatalf("echoed body = %s, want %s", ack.Body, body)
	}
}

func TestHandlerUnrecognizedTypeFlushesEverything(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, true, zap.NewNop())

	body := []byte(`{"_type": "navigationMenu", "_id": "nav1"}`)
	rr := postNotification(t, h, body, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if inv.all != 1 {
		t.Fatalf("catch-all invoked %d times, want 1", inv.all)
	}
	if len(inv.paths) != 1 || inv.paths[0] != "/" {
		t.Fatalf("paths = %v, want [/]", inv.paths)
	}
	if len(inv.tags) != 0 {
		t.Fatalf("tags = %v, want none", inv.tags)
	}
}

func TestHandlerRejectsInvalidSignatureInProduction(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, true, zap.NewNop())

	body := []byte(`{"_type": "caseStudy", "slug": {"current": "acme"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, "deadbeef")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if len(inv.tags) != 0 || len(inv.paths) != 0 || inv.all != 0 {
		t.Fatalf("invalidation performed despite bad signature: %+v", inv)
	}
}

func TestHandlerMissingSignatureInProduction(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, true, zap.NewNop())

	rr := postNotification(t, h, []byte(`{"_type": "article"}`), false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestHandlerToleratesBadSignatureOutsideProduction(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, false, zap.NewNop())

	rr := postNotification(t, h, []byte(`{"_type": "mindbullet", "slug": {"current": "x"}}`), false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 outside production", rr.Code)
	}
	if len(inv.tags) != 1 || inv.tags[0] != "mindbullet" {
		t.Fatalf("tags = %v, want [mindbullet]", inv.tags)
	}
}

func TestHandlerMissingTypeIsBadRequest(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, true, zap.NewNop())

	rr := postNotification(t, h, []byte(`{"_id": "doc1"}`), true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "missing_type" {
		t.Fatalf("error = %v, want missing_type", body["error"])
	}
}

func TestHandlerMalformedBodyIsBadRequest(t *testing.T) {
	t.Parallel()

	h := NewHandler(&recordingInvalidator{}, testSecret, true, zap.NewNop())
	rr := postNotification(t, h, []byte(`{not json`), true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandlerInvalidationFailureIsInternalError(t *testing.T) {
	t.Parallel()

	h := NewHandler(&recordingInvalidator{fail: true}, testSecret, true, zap.NewNop())
	rr := postNotification(t, h, []byte(`{"_type": "caseStudy", "slug": {"current": "acme"}}`), true)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestHandlerReplayIsIdempotent(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	h := NewHandler(inv, testSecret, true, zap.NewNop())
	body := []byte(`{"_type": "caseStudy", "slug": {"current": "acme"}}`)

	first := postNotification(t, h, body, true)
	second := postNotification(t, h, body, true)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want 200 for replay", first.Code, second.Code)
	}
}
