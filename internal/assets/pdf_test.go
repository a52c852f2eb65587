package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futureworld/futureworld.site/internal/content"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"go.uber.org/zap"
)

type stubResolver struct {
	title string
	asset content.PDFAsset
	err   error
}

func (s stubResolver) PDFBySlug(context.Context, string) (string, content.PDFAsset, error) {
	return s.title, s.asset, s.err
}

func serve(t *testing.T, h *PDFHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("GET /api/pdf/{slug}", h)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestPDFProxyStreamsWithHeaders(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.7 payload"))
	}))
	defer upstream.Close()

	h := NewPDFHandler(stubResolver{
		title: "Acme Transformation Story!",
		asset: content.PDFAsset{URL: upstream.URL + "/acme.pdf"},
	}, nil, zap.NewNop())

	rr := serve(t, h, "/api/pdf/acme")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `inline; filename="acme-transformation-story.pdf"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if got := rr.Header().Get("Cache-Control"); got != cacheControl {
		t.Fatalf("Cache-Control = %q", got)
	}
	if rr.Body.String() != "%PDF-1.7 payload" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestPDFProxyDownloadFlagSwitchesDisposition(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pdf"))
	}))
	defer upstream.Close()

	h := NewPDFHandler(stubResolver{title: "Report", asset: content.PDFAsset{URL: upstream.URL}}, nil, zap.NewNop())
	rr := serve(t, h, "/api/pdf/report?download=1")
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="report.pdf"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
}

func TestPDFProxySelectsDeviceVariant(t *testing.T) {
	t.Parallel()

	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("pdf"))
	}))
	defer upstream.Close()

	h := NewPDFHandler(stubResolver{
		title: "Report",
		asset: content.PDFAsset{
			DesktopURL: upstream.URL + "/desktop.pdf",
			MobileURL:  upstream.URL + "/mobile.pdf",
		},
	}, nil, zap.NewNop())

	rr := serve(t, h, "/api/pdf/report?device=mobile")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if gotPath != "/mobile.pdf" {
		t.Fatalf("upstream path = %q, want /mobile.pdf", gotPath)
	}
}

func TestPDFProxyMissingAssetIs404(t *testing.T) {
	t.Parallel()

	h := NewPDFHandler(stubResolver{err: apperrors.E(apperrors.KindNotFound, "no pdf")}, nil, zap.NewNop())
	rr := serve(t, h, "/api/pdf/nothing")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestPDFProxyUpstreamFailureIs404Not500(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	h := NewPDFHandler(stubResolver{title: "Report", asset: content.PDFAsset{URL: upstream.URL}}, nil, zap.NewNop())
	rr := serve(t, h, "/api/pdf/report")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestPDFProxyResolverOutageStillHidesDetail(t *testing.T) {
	t.Parallel()

	h := NewPDFHandler(stubResolver{err: apperrors.E(apperrors.KindUnavailable, "store down")}, nil, zap.NewNop())
	rr := serve(t, h, "/api/pdf/report")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestPDFProxyEmptyVariantIs404(t *testing.T) {
	t.Parallel()

	h := NewPDFHandler(stubResolver{title: "Report", asset: content.PDFAsset{}}, nil, zap.NewNop())
	rr := serve(t, h, "/api/pdf/report")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
