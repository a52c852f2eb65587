// Package web serves the rendered site: page handlers, the rendered-page
// cache in front of them, and the HTTP server lifecycle.
package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/futureworld/futureworld.site/internal/cache"
	"github.com/futureworld/futureworld.site/internal/content"
	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
	"github.com/futureworld/futureworld.site/internal/web/templates"
)

const pageContentType = "text/html; charset=utf-8"

// Catalog is the slice of the content query catalog the page handlers need.
type Catalog interface {
	Home(ctx context.Context) (*content.HomeView, error)
	ArticleBySlug(ctx context.Context, slug string) (*content.ArticleView, error)
	MindbulletBySlug(ctx context.Context, slug string) (*content.MindbulletView, error)
	RecentMindbullets(ctx context.Context) ([]content.Card, error)
	ScenarioBySlug(ctx context.Context, slug string) (*content.ScenarioView, error)
	CaseStudyBySlug(ctx context.Context, slug string) (*content.CaseStudyView, error)
	KeynoteBySlug(ctx context.Context, slug string) (*content.KeynoteView, error)
	PodcastBySlug(ctx context.Context, slug string) (*content.PodcastView, error)
	RecentPodcasts(ctx context.Context) ([]content.PodcastView, error)
}

// Handler serves the site pages. Rendered pages are cached by path with
// document-type tags; draft requests bypass the cache entirely.
type Handler struct {
	catalog      Catalog
	draft        Catalog
	pages        cache.Store
	previewToken string
	logger       *zap.Logger
}

// HandlerConfig carries the page handler dependencies. Draft and PreviewToken
// are optional together: preview requests are only honored when both are set.
type HandlerConfig struct {
	Catalog      Catalog
	Draft        Catalog
	Pages        cache.Store
	PreviewToken string
	Logger       *zap.Logger
}

// NewHandler builds the page handler.
func NewHandler(config HandlerConfig) *Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:      config.Catalog,
		draft:        config.Draft,
		pages:        config.Pages,
		previewToken: config.PreviewToken,
		logger:       logger,
	}
}

// isDraft reports whether the request carries the configured preview token.
func (h *Handler) isDraft(r *http.Request) bool {
	if h.draft == nil || h.previewToken == "" {
		return false
	}
	token := r.URL.Query().Get("preview")
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.previewToken)) == 1
}

func (h *Handler) catalogFor(r *http.Request) Catalog {
	if h.isDraft(r) {
		return h.draft
	}
	return h.catalog
}

// page describes one renderable page. A degraded page rendered past a
// transient fetch failure is served but never cached, so the cache only ever
// holds renders backed by successful fetches.
type page struct {
	title    string
	metaDesc string
	tags     []string
	body     templ.Component
	degraded bool
}

// servePage renders a page behind the path-keyed cache. build runs against
// the published or draft catalog depending on the request; draft renderings
// are never read from or written to the cache.
func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, build func(ctx context.Context, catalog Catalog) (page, error)) {
	ctx := httpx.RequestContext(r)
	draft := h.isDraft(r)

	if !draft && h.pages != nil {
		entry, ok, err := h.pages.Get(ctx, r.URL.Path)
		if err != nil {
			h.logger.Warn("page cache read failed", zap.String("path", r.URL.Path), zap.Error(err))
		} else if ok {
			w.Header().Set("Content-Type", entry.ContentType)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(entry.Body)
			return
		}
	}

	p, err := build(ctx, h.catalogFor(r))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	var buf bytes.Buffer
	doc := templates.Document(p.title, p.metaDesc, p.body)
	if err := doc.Render(ctx, &buf); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	if !draft && !p.degraded && h.pages != nil {
		err := h.pages.Put(ctx, cache.Entry{
			Path:        r.URL.Path,
			ContentType: pageContentType,
			Body:        buf.Bytes(),
			Tags:        p.tags,
			RenderedAt:  time.Now(),
		})
		if err != nil {
			h.logger.Warn("page cache write failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", pageContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// writeFailure renders the not-found page for missing documents and the
// generic error page for everything else. Upstream detail stays in the log.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := templates.ErrorPage()
	title := "Something went wrong"
	if apperrors.IsNotFound(err) {
		status = http.StatusNotFound
		body = templates.NotFoundPage()
		title = "Page not found"
	} else {
		h.logger.Error("page render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	var buf bytes.Buffer
	if renderErr := templates.Document(title, "", body).Render(httpx.RequestContext(r), &buf); renderErr != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", pageContentType)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// handleHome renders the landing page. The home document is required; the
// carousels degrade to empty strips when their queries fail.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		var (
			home            *content.HomeView
			mindbullets     []content.Card
			podcasts        []content.PodcastView
			mindbulletsLost bool
			podcastsLost    bool
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			home, err = catalog.Home(gctx)
			return err
		})
		g.Go(func() error {
			cards, err := catalog.RecentMindbullets(gctx)
			if err != nil {
				h.logger.Warn("home mindbullet carousel unavailable", zap.Error(err))
				mindbulletsLost = true
				return nil
			}
			mindbullets = cards
			return nil
		})
		g.Go(func() error {
			episodes, err := catalog.RecentPodcasts(gctx)
			if err != nil {
				h.logger.Warn("home podcast carousel unavailable", zap.Error(err))
				podcastsLost = true
				return nil
			}
			podcasts = episodes
			return nil
		})
		if err := g.Wait(); err != nil {
			return page{}, err
		}
		return page{
			title:    home.Heading,
			metaDesc: home.Subheading,
			tags:     []string{content.TypeHome, content.TypeMindbullet, content.TypePodcast},
			body:     templates.HomePage(home, mindbullets, podcasts),
			degraded: mindbulletsLost || podcastsLost,
		}, nil
	})
}

func (h *Handler) handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		view, err := catalog.ArticleBySlug(ctx, slug)
		if err != nil {
			return page{}, err
		}
		return page{
			title:    view.Title,
			metaDesc: view.Excerpt,
			tags:     []string{content.TypeArticle},
			body:     templates.ArticlePage(view),
		}, nil
	})
}

func (h *Handler) handleMindbullet(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		view, err := catalog.MindbulletBySlug(ctx, slug)
		if err != nil {
			return page{}, err
		}
		return page{
			title:    view.Title,
			metaDesc: view.Excerpt,
			tags:     []string{content.TypeMindbullet},
			body:     templates.MindbulletPage(view),
		}, nil
	})
}

func (h *Handler) handleMindbullets(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		cards, err := catalog.RecentMindbullets(ctx)
		if err != nil {
			return page{}, err
		}
		return page{
			title: "Mindbullets",
			tags:  []string{content.TypeMindbullet},
			body:  templates.MindbulletListPage(cards),
		}, nil
	})
}

func (h *Handler) handleScenario(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		view, err := catalog.ScenarioBySlug(ctx, slug)
		if err != nil {
			return page{}, err
		}
		return page{
			title:    view.Title,
			metaDesc: view.Excerpt,
			tags:     []string{content.TypeScenario},
			body:     templates.ScenarioPage(view),
		}, nil
	})
}

func (h *Handler) handleCaseStudy(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		view, err := catalog.CaseStudyBySlug(ctx, slug)
		if err != nil {
			return page{}, err
		}
		return page{
			title:    view.Title,
			metaDesc: view.Excerpt,
			tags:     []string{content.TypeCaseStudy},
			body:     templates.CaseStudyPage(view),
		}, nil
	})
}

func (h *Handler) handleKeynote(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		view, err := catalog.KeynoteBySlug(ctx, slug)
		if err != nil {
			return page{}, err
		}
		return page{
			title: view.Title,
			tags:  []string{content.TypeKeynote},
			body:  templates.KeynotePage(view),
		}, nil
	})
}

func (h *Handler) handlePodcast(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		view, err := catalog.PodcastBySlug(ctx, slug)
		if err != nil {
			return page{}, err
		}
		return page{
			title:    view.Title,
			metaDesc: view.Excerpt,
			tags:     []string{content.TypePodcast},
			body:     templates.PodcastPage(view),
		}, nil
	})
}

func (h *Handler) handlePodcasts(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, func(ctx context.Context, catalog Catalog) (page, error) {
		episodes, err := catalog.RecentPodcasts(ctx)
		if err != nil {
			return page{}, err
		}
		return page{
			title: "Podcasts",
			tags:  []string{content.TypePodcast},
			body:  templates.PodcastListPage(episodes),
		}, nil
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeFailure(w, r, apperrors.E(apperrors.KindNotFound, "no such page"))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
