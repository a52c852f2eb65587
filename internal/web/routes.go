package web

import (
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/futureworld/futureworld.site/internal/forms"
	"github.com/futureworld/futureworld.site/internal/platform/httpx"
	"github.com/futureworld/futureworld.site/internal/web/routepath"
)

// Routes carries the handlers mounted on the site mux.
type Routes struct {
	Pages      *Handler
	Revalidate http.Handler
	PDF        http.Handler
	Forms      *forms.Handlers
	Logger     *zap.Logger
}

// NewMux mounts the full route table: pages, the content API surface, and
// static assets, wrapped in the shared middleware chain.
func NewMux(routes Routes) http.Handler {
	logger := routes.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	h := routes.Pages
	mux.HandleFunc("GET /{$}", h.handleHome)
	mux.HandleFunc("GET "+routepath.Mindbullets, h.handleMindbullets)
	mux.HandleFunc("GET "+routepath.Podcasts, h.handlePodcasts)
	mux.HandleFunc("GET "+routepath.Article("{slug}"), h.handleArticle)
	mux.HandleFunc("GET "+routepath.Mindbullet("{slug}"), h.handleMindbullet)
	mux.HandleFunc("GET "+routepath.Scenario("{slug}"), h.handleScenario)
	mux.HandleFunc("GET "+routepath.CaseStudy("{slug}"), h.handleCaseStudy)
	mux.HandleFunc("GET "+routepath.Keynote("{slug}"), h.handleKeynote)
	mux.HandleFunc("GET "+routepath.Podcast("{slug}"), h.handlePodcast)
	mux.HandleFunc("GET "+routepath.Health, h.handleHealth)

	if routes.Revalidate != nil {
		mux.Handle("POST "+routepath.Revalidate, routes.Revalidate)
	}
	if routes.PDF != nil {
		mux.Handle("GET "+routepath.PDF("{slug}"), routes.PDF)
	}
	if routes.Forms != nil {
		mux.HandleFunc("POST "+routepath.FormsApplication, routes.Forms.HandleApplication)
		mux.HandleFunc("POST "+routepath.FormsContact, routes.Forms.HandleContact)
		mux.HandleFunc("POST "+routepath.Subscribe, routes.Forms.HandleSubscribe)
	}

	if staticFS, err := fs.Sub(staticAssets, "static"); err == nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	mux.HandleFunc("/", h.handleNotFound)

	return httpx.Chain(mux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		httpx.RequestLogger(logger),
	)
}
