// Package server wires configuration into the running site: content clients,
// the page cache, outbound providers, and the HTTP server lifecycle.
package server

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/futureworld/futureworld.site/internal/assets"
	cachesqlite "github.com/futureworld/futureworld.site/internal/cache/sqlite"
	"github.com/futureworld/futureworld.site/internal/content"
	"github.com/futureworld/futureworld.site/internal/forms"
	"github.com/futureworld/futureworld.site/internal/outbound/email"
	"github.com/futureworld/futureworld.site/internal/outbound/mailinglist"
	"github.com/futureworld/futureworld.site/internal/platform/config"
	"github.com/futureworld/futureworld.site/internal/platform/logging"
	"github.com/futureworld/futureworld.site/internal/platform/otel"
	"github.com/futureworld/futureworld.site/internal/revalidate"
	"github.com/futureworld/futureworld.site/internal/web"
)

const (
	defaultHTTPAddr    = "localhost:8080"
	defaultCacheDBPath = "data/pages.db"
	serviceName        = "futureworld-site"
)

// Config holds the server command configuration. Environment variables seed
// the defaults; flags override them.
type Config struct {
	HTTPAddr    string `env:"FUTUREWORLD_HTTP_ADDR"`
	Environment string `env:"FUTUREWORLD_ENVIRONMENT"`
	CacheDBPath string `env:"FUTUREWORLD_CACHE_DB_PATH"`

	StoreProjectID  string `env:"FUTUREWORLD_STORE_PROJECT_ID"`
	StoreDataset    string `env:"FUTUREWORLD_STORE_DATASET"`
	StoreAPIVersion string `env:"FUTUREWORLD_STORE_API_VERSION"`
	StoreToken      string `env:"FUTUREWORLD_STORE_TOKEN"`
	PreviewToken    string `env:"FUTUREWORLD_PREVIEW_TOKEN"`

	WebhookSecret string `env:"FUTUREWORLD_WEBHOOK_SECRET"`

	EmailAPIKey string `env:"FUTUREWORLD_EMAIL_API_KEY"`
	EmailFrom   string `env:"FUTUREWORLD_EMAIL_FROM"`
	CareersTo   string `env:"FUTUREWORLD_CAREERS_TO"`
	ContactTo   string `env:"FUTUREWORLD_CONTACT_TO"`

	ListAPIKey  string `env:"FUTUREWORLD_LIST_API_KEY"`
	ListID      string `env:"FUTUREWORLD_LIST_ID"`
	ListBaseURL string `env:"FUTUREWORLD_LIST_BASE_URL"`
}

// ParseConfig reads environment defaults and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if strings.TrimSpace(cfg.CacheDBPath) == "" {
		cfg.CacheDBPath = defaultCacheDBPath
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.CacheDBPath, "cache-db", cfg.CacheDBPath, "rendered-page cache database path")
	fs.StringVar(&cfg.Environment, "environment", cfg.Environment, "deployment environment name")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the webhook handler must reject unsigned
// notifications.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Run assembles and serves the site until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	otelShutdown, err := otel.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	client, err := content.New(content.Config{
		ProjectID:   cfg.StoreProjectID,
		Dataset:     cfg.StoreDataset,
		APIVersion:  cfg.StoreAPIVersion,
		Token:       cfg.StoreToken,
		Perspective: content.PerspectivePublished,
	})
	if err != nil {
		return fmt.Errorf("init content client: %w", err)
	}
	catalog := content.NewCatalog(client)

	// The draft catalog only exists when both the store token and the
	// preview token are configured; without either, preview requests fall
	// through to published content.
	var draft web.Catalog
	if strings.TrimSpace(cfg.StoreToken) != "" && strings.TrimSpace(cfg.PreviewToken) != "" {
		draftClient, err := content.New(content.Config{
			ProjectID:   cfg.StoreProjectID,
			Dataset:     cfg.StoreDataset,
			APIVersion:  cfg.StoreAPIVersion,
			Token:       cfg.StoreToken,
			Perspective: content.PerspectiveDrafts,
		})
		if err != nil {
			return fmt.Errorf("init draft content client: %w", err)
		}
		draft = content.NewCatalog(draftClient)
	}

	pages, err := cachesqlite.Open(cfg.CacheDBPath)
	if err != nil {
		return fmt.Errorf("open page cache: %w", err)
	}
	defer func() { _ = pages.Close() }()

	var sender forms.EmailSender
	if strings.TrimSpace(cfg.EmailAPIKey) != "" {
		emailClient, err := email.New(email.Config{APIKey: cfg.EmailAPIKey, From: cfg.EmailFrom})
		if err != nil {
			return fmt.Errorf("init email client: %w", err)
		}
		sender = emailClient
	} else {
		logger.Warn("email provider not configured; form endpoints will refuse submissions")
	}

	var upserter forms.ListUpserter
	if strings.TrimSpace(cfg.ListAPIKey) != "" {
		listClient, err := mailinglist.New(mailinglist.Config{
			APIKey:  cfg.ListAPIKey,
			ListID:  cfg.ListID,
			BaseURL: cfg.ListBaseURL,
		})
		if err != nil {
			return fmt.Errorf("init mailing list client: %w", err)
		}
		upserter = listClient
	} else {
		logger.Warn("mailing list provider not configured; subscribe endpoint will refuse submissions")
	}

	mux := web.NewMux(web.Routes{
		Pages: web.NewHandler(web.HandlerConfig{
			Catalog:      catalog,
			Draft:        draft,
			Pages:        pages,
			PreviewToken: cfg.PreviewToken,
			Logger:       logger,
		}),
		Revalidate: revalidate.NewHandler(pages, cfg.WebhookSecret, cfg.IsProduction(), logger),
		PDF:        assets.NewPDFHandler(catalog, nil, logger),
		Forms:      forms.NewHandlers(sender, upserter, cfg.CareersTo, cfg.ContactTo, logger),
		Logger:     logger,
	})

	server, err := web.NewServer(cfg.HTTPAddr, mux, logger)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve site: %w", err)
	}
	return nil
}
