// Package sitectl implements the build-time CLI: enumerating static params
// for pre-rendering and warming the rendered-page cache.
package sitectl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	cachesqlite "github.com/futureworld/futureworld.site/internal/cache/sqlite"
	"github.com/futureworld/futureworld.site/internal/content"
	"github.com/futureworld/futureworld.site/internal/platform/config"
	"github.com/futureworld/futureworld.site/internal/platform/logging"
	"github.com/futureworld/futureworld.site/internal/web"
	"github.com/futureworld/futureworld.site/internal/web/routepath"
)

type storeEnv struct {
	ProjectID  string `env:"FUTUREWORLD_STORE_PROJECT_ID"`
	Dataset    string `env:"FUTUREWORLD_STORE_DATASET"`
	APIVersion string `env:"FUTUREWORLD_STORE_API_VERSION"`
	Token      string `env:"FUTUREWORLD_STORE_TOKEN"`
	CacheDB    string `env:"FUTUREWORLD_CACHE_DB_PATH"`
}

func newCatalog() (*content.Catalog, error) {
	var env storeEnv
	if err := config.ParseEnv(&env); err != nil {
		return nil, err
	}
	client, err := content.New(content.Config{
		ProjectID:   env.ProjectID,
		Dataset:     env.Dataset,
		APIVersion:  env.APIVersion,
		Token:       env.Token,
		Perspective: content.PerspectivePublished,
	})
	if err != nil {
		return nil, fmt.Errorf("init content client: %w", err)
	}
	return content.NewCatalog(client), nil
}

// New builds the sitectl root command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Build-time tooling for the site: enumerate pages and warm the cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(paramsCmd())
	root.AddCommand(warmCmd())
	return root
}

func paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the static param sets per content type as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := newCatalog()
			if err != nil {
				return err
			}
			params, err := catalog.StaticParams(cmd.Context())
			if err != nil {
				return fmt.Errorf("enumerate static params: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(params)
		},
	}
}

func warmCmd() *cobra.Command {
	var cacheDB string
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Pre-render every public page into the rendered-page cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var env storeEnv
			if err := config.ParseEnv(&env); err != nil {
				return err
			}
			if strings.TrimSpace(cacheDB) == "" {
				cacheDB = env.CacheDB
			}
			if strings.TrimSpace(cacheDB) == "" {
				cacheDB = "data/pages.db"
			}

			catalog, err := newCatalog()
			if err != nil {
				return err
			}
			pages, err := cachesqlite.Open(cacheDB)
			if err != nil {
				return fmt.Errorf("open page cache: %w", err)
			}
			defer func() { _ = pages.Close() }()

			paths, err := publicPaths(cmd.Context(), catalog)
			if err != nil {
				return err
			}
			handler := web.NewMux(web.Routes{
				Pages:  web.NewHandler(web.HandlerConfig{Catalog: catalog, Pages: pages, Logger: logging.NewNop()}),
				Logger: logging.NewNop(),
			})

			var failed int
			for _, path := range paths {
				status, err := renderInto(cmd.Context(), handler, path)
				if err != nil || status != http.StatusOK {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "warm %s: status %d err %v\n", path, status, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "warmed %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d pages failed to warm", failed, len(paths))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDB, "cache-db", "", "rendered-page cache database path")
	return cmd
}

// publicPaths lists every pre-renderable route: the fixed pages plus one
// detail path per enumerated document.
func publicPaths(ctx context.Context, catalog *content.Catalog) ([]string, error) {
	params, err := catalog.StaticParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate static params: %w", err)
	}
	paths := []string{routepath.Root, routepath.Mindbullets, routepath.Podcasts}
	builders := map[string]func(string) string{
		content.TypeArticle:    routepath.Article,
		content.TypeMindbullet: routepath.Mindbullet,
		content.TypeScenario:   routepath.Scenario,
		content.TypeCaseStudy:  routepath.CaseStudy,
		content.TypeKeynote:    routepath.Keynote,
		content.TypePodcast:    routepath.Podcast,
	}
	for docType, slugs := range params {
		build, ok := builders[docType]
		if !ok {
			continue
		}
		for _, slug := range slugs {
			paths = append(paths, build(slug))
		}
	}
	return paths, nil
}

// discardResponse captures the status code and drops the body; the render
// side effect we want is the cache write.
type discardResponse struct {
	header http.Header
	status int
}

func (d *discardResponse) Header() http.Header {
	if d.header == nil {
		d.header = http.Header{}
	}
	return d.header
}

func (d *discardResponse) WriteHeader(status int) { d.status = status }

func (d *discardResponse) Write(p []byte) (int, error) {
	if d.status == 0 {
		d.status = http.StatusOK
	}
	return len(p), nil
}

func renderInto(ctx context.Context, handler http.Handler, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	resp := &discardResponse{}
	handler.ServeHTTP(resp, req)
	if resp.status == 0 {
		resp.status = http.StatusOK
	}
	return resp.status, nil
}
