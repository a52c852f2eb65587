package mailinglist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
)

func TestSubscriberHashIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	upper := SubscriberHash("A@x.com")
	lower := SubscriberHash("a@x.com")
	if upper != lower {
		t.Fatalf("hash(A@x.com) = %q != hash(a@x.com) = %q", upper, lower)
	}
	if SubscriberHash("  a@x.com  ") != lower {
		t.Fatal("hash is not whitespace-insensitive")
	}
	if len(lower) != 32 {
		t.Fatalf("hash length = %d, want 32 hex chars", len(lower))
	}
}

func TestSubscriberHashDiffersAcrossAddresses(t *testing.T) {
	t.Parallel()

	if SubscriberHash("a@x.com") == SubscriberHash("b@x.com") {
		t.Fatal("distinct addresses hashed identically")
	}
}

func TestUpsertPutsToHashedMemberPath(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status": "subscribed"}`))
	}))
	defer srv.Close()

	client, err := New(Config{APIKey: "mc_key", ListID: "list42", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	status, err := client.Upsert(context.Background(), Member{
		Email:     "A@x.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if status != "subscribed" {
		t.Fatalf("status = %q", status)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q, want PUT", gotMethod)
	}
	wantPath := "/3.0/lists/list42/members/" + SubscriberHash("a@x.com")
	if gotPath != wantPath {
		t.Fatalf("path = %q, want %q", gotPath, wantPath)
	}
	if gotBody["status_if_new"] != "subscribed" {
		t.Fatalf("status_if_new = %v", gotBody["status_if_new"])
	}
	merge, _ := gotBody["merge_fields"].(map[string]any)
	if merge["FNAME"] != "Ada" || merge["LNAME"] != "Lovelace" {
		t.Fatalf("merge_fields = %v", merge)
	}
}

func TestUpsertSameAddressDifferentCaseHitsSameKey(t *testing.T) {
	t.Parallel()

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "subscribed"}`))
	}))
	defer srv.Close()

	client, err := New(Config{APIKey: "mc_key", ListID: "list42", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Upsert(context.Background(), Member{Email: "A@x.com"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := client.Upsert(context.Background(), Member{Email: "a@x.com"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if len(paths) != 2 || paths[0] != paths[1] {
		t.Fatalf("paths = %v, want identical upsert keys", paths)
	}
}

func TestUpsertProviderRejectionIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail": "API key revoked"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := New(Config{APIKey: "mc_key", ListID: "list42", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, upsertErr := client.Upsert(context.Background(), Member{Email: "a@x.com"})
	if upsertErr == nil {
		t.Fatal("Upsert() error = nil, want provider failure")
	}
	if apperrors.HTTPStatus(upsertErr) != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus = %d, want unavailable", apperrors.HTTPStatus(upsertErr))
	}
	if !strings.Contains(upsertErr.Error(), "API key revoked") {
		t.Fatalf("error = %q, want provider detail preserved for logging", upsertErr)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{ListID: "x", ServerPrefix: "us1"}); err == nil {
		t.Fatal("New() error = nil, want missing api key failure")
	}
	if _, err := New(Config{APIKey: "k", ServerPrefix: "us1"}); err == nil {
		t.Fatal("New() error = nil, want missing list id failure")
	}
	if _, err := New(Config{APIKey: "k", ListID: "x"}); err == nil {
		t.Fatal("New() error = nil, want missing server prefix failure")
	}
}
