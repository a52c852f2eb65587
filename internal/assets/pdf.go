// Package assets streams large derived assets from the document store's CDN
// through the application.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/futureworld/futureworld.site/internal/content"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
	"github.com/futureworld/futureworld.site/internal/platform/timeouts"
)

// Upstream assets are content-addressed and never mutate in place, so
// successful responses are immutable for a year.
const cacheControl = "public, max-age=31536000, immutable"

// PDFResolver resolves a document's title and PDF asset by slug.
type PDFResolver interface {
	PDFBySlug(ctx context.Context, slug string) (title string, asset content.PDFAsset, err error)
}

// PDFHandler proxies PDF bytes from the asset CDN with negotiated filename,
// content type, and disposition.
type PDFHandler struct {
	resolver   PDFResolver
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPDFHandler builds the proxy handler.
func NewPDFHandler(resolver PDFResolver, httpClient *http.Client, logger *zap.Logger) *PDFHandler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.UpstreamAsset}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFHandler{resolver: resolver, httpClient: httpClient, logger: logger}
}

// ServeHTTP handles GET /api/pdf/{slug}?download=1&device=mobile|desktop.
// Missing documents, missing assets, and upstream failures are all expected
// client-visible conditions: they 404, never 500.
func (h *PDFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	title, asset, err := h.resolver.PDFBySlug(ctx, slug)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("resolve pdf failed", zap.String("slug", slug), zap.Error(err))
		}
		http.NotFound(w, r)
		return
	}

	device := r.URL.Query().Get("device")
	upstreamURL := asset.VariantURL(device)
	if upstreamURL == "" {
		http.NotFound(w, r)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL, nil)
	if err != nil {
		h.logger.Error("build asset request failed", zap.String("slug", slug), zap.Error(err))
		http.NotFound(w, r)
		return
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("fetch asset failed", zap.String("slug", slug), zap.Error(err))
		http.NotFound(w, r)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("asset upstream rejected", zap.String("slug", slug), zap.Int("status", resp.StatusCode))
		http.NotFound(w, r)
		return
	}

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	filename := content.Normalize(title)
	if filename == "" {
		filename = slug
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s.pdf"`, disposition, filename))
	w.Header().Set("Cache-Control", cacheControl)
	if resp.ContentLength > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", resp.ContentLength))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are already written; all we can do is log the broken stream.
		h.logger.Warn("asset stream interrupted", zap.String("slug", slug), zap.Error(err))
	}
}
