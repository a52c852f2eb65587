package content

import (
	"context"
	"fmt"

	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
)

// RecentLimit is the fixed page size for list queries. The bound is a
// contract: it feeds fixed-size carousel UI.
const RecentLimit = 12

// Projections shared by detail queries. Asset references resolve to final
// URLs at query time so nothing downstream touches an opaque reference.
const (
	pdfProjection = `"pdfUpload": {
		"url": pdfUpload.asset->url,
		"desktopUrl": pdfUploadDesktop.asset->url,
		"mobileUrl": pdfUploadMobile.asset->url
	}`
	cardProjection = `_type, title, slug, publishedAt,
		"coverImageUrl": coverImage.asset->url, body`
)

var (
	qArticleBySlug = fmt.Sprintf(`*[_type == "article" && slug.current == $slug][0]{
		_id, title, slug, publishedAt,
		"coverImageUrl": coverImage.asset->url, body,
		hasAuthor, author->{name, role, "imageUrl": image.asset->url},
		hasPdf, %s,
		hasRelatedStories, relatedStories[]->{%s}
	}`, pdfProjection, cardProjection)

	qArticleByID = fmt.Sprintf(`*[_type == "article" && _id == $id][0]{
		_id, title, slug, publishedAt,
		"coverImageUrl": coverImage.asset->url, body,
		hasAuthor, author->{name, role, "imageUrl": image.asset->url},
		hasPdf, %s,
		hasRelatedStories, relatedStories[]->{%s}
	}`, pdfProjection, cardProjection)

	qMindbulletBySlug = fmt.Sprintf(`*[_type == "mindbullet" && slug.current == $slug][0]{
		_id, title, slug, dateline, publishedAt,
		"coverImageUrl": coverImage.asset->url, body,
		hasRelatedStories, relatedStories[]->{%s}
	}`, cardProjection)

	qRecentMindbullets = fmt.Sprintf(`*[_type == "mindbullet"]
		| order(publishedAt desc)[0...%d]{%s}`, RecentLimit, cardProjection)

	qScenarioBySlug = fmt.Sprintf(`*[_type == "provocativeScenario" && slug.current == $slug][0]{
		_id, title, slug, publishedAt,
		"coverImageUrl": coverImage.asset->url, body,
		hasPdf, %s
	}`, pdfProjection)

	qCaseStudyBySlug = fmt.Sprintf(`*[_type == "caseStudy" && slug.current == $slug][0]{
		_id, title, slug, publishedAt, clientName,
		"coverImageUrl": coverImage.asset->url, body,
		hasPdf, %s
	}`, pdfProjection)

	qKeynoteBySlug = fmt.Sprintf(`*[_type == "keynote" && slug.current == $slug][0]{
		_id, title, slug, speaker, topics,
		"coverImageUrl": coverImage.asset->url, body, videoUrl,
		hasPdf, %s
	}`, pdfProjection)

	qPodcastBySlug = `*[_type == "podcastEpisode" && slug.current == $slug][0]{
		_id, title, slug, publishedAt,
		"coverImageUrl": coverImage.asset->url,
		"audioUrl": audio.asset->url, description, durationSeconds
	}`

	qRecentPodcasts = fmt.Sprintf(`*[_type == "podcastEpisode"]
		| order(publishedAt desc)[0...%d]{
		_id, title, slug, publishedAt,
		"coverImageUrl": coverImage.asset->url,
		"audioUrl": audio.asset->url, description, durationSeconds
	}`, RecentLimit)

	qHome = `*[_type == "homePage"][0]{
		_id, heading, subheading,
		"heroImageUrl": heroImage.asset->url, intro
	}`

	qRefsByType = `*[_type == $type]{_id, _type, title, slug}`

	qPDFBySlug = fmt.Sprintf(`*[slug.current == $slug && defined(pdfUpload)][0]{
		_id, _type, title, slug, hasPdf, %s
	}`, pdfProjection)
)

// Catalog is the fixed set of named queries, one per page/content need. Each
// method is a pure projection from one scalar parameter to a view model.
type Catalog struct {
	client *Client
}

// NewCatalog builds a catalog over the given store client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

func notFound(what, slug string) error {
	return apperrors.E(apperrors.KindNotFound, fmt.Sprintf("%s %q not found", what, slug))
}

// ArticleBySlug resolves an article by canonical slug, falling back to
// normalized-title matching for legacy articles authored before canonical
// slugs existed. First match wins when two titles normalize identically.
func (q *Catalog) ArticleBySlug(ctx context.Context, slug string) (*ArticleView, error) {
	var doc articleDoc
	found, err := q.client.QueryOne(ctx, qArticleBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return nil, err
	}
	if found {
		return doc.view(), nil
	}

	refs, err := q.Refs(ctx, TypeArticle)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if Normalize(ref.Title) != slug {
			continue
		}
		var legacy articleDoc
		found, err := q.client.QueryOne(ctx, qArticleByID, map[string]any{"id": ref.ID}, &legacy)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		return legacy.view(), nil
	}
	return nil, notFound("article", slug)
}

// MindbulletBySlug resolves a mindbullet detail view.
func (q *Catalog) MindbulletBySlug(ctx context.Context, slug string) (*MindbulletView, error) {
	var doc mindbulletDoc
	found, err := q.client.QueryOne(ctx, qMindbulletBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("mindbullet", slug)
	}
	return doc.view(), nil
}

// RecentMindbullets lists the newest mindbullets, newest first, capped at
// RecentLimit.
func (q *Catalog) RecentMindbullets(ctx context.Context) ([]Card, error) {
	var docs []cardDoc
	if err := q.client.QueryAll(ctx, qRecentMindbullets, nil, &docs); err != nil {
		return nil, err
	}
	if len(docs) > RecentLimit {
		docs = docs[:RecentLimit]
	}
	return cards(docs), nil
}

// ScenarioBySlug resolves a provocative scenario detail view.
func (q *Catalog) ScenarioBySlug(ctx context.Context, slug string) (*ScenarioView, error) {
	var doc scenarioDoc
	found, err := q.client.QueryOne(ctx, qScenarioBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("scenario", slug)
	}
	return doc.view(), nil
}

// CaseStudyBySlug resolves a case study detail view.
func (q *Catalog) CaseStudyBySlug(ctx context.Context, slug string) (*CaseStudyView, error) {
	var doc caseStudyDoc
	found, err := q.client.QueryOne(ctx, qCaseStudyBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("case study", slug)
	}
	return doc.view(), nil
}

// KeynoteBySlug resolves a keynote page view.
func (q *Catalog) KeynoteBySlug(ctx context.Context, slug string) (*KeynoteView, error) {
	var doc keynoteDoc
	found, err := q.client.QueryOne(ctx, qKeynoteBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("keynote", slug)
	}
	return doc.view(), nil
}

// PodcastBySlug resolves a podcast episode view.
func (q *Catalog) PodcastBySlug(ctx context.Context, slug string) (*PodcastView, error) {
	var doc podcastDoc
	found, err := q.client.QueryOne(ctx, qPodcastBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("podcast episode", slug)
	}
	return doc.view(), nil
}

// RecentPodcasts lists the newest podcast episodes, capped at RecentLimit.
func (q *Catalog) RecentPodcasts(ctx context.Context) ([]PodcastView, error) {
	var docs []podcastDoc
	if err := q.client.QueryAll(ctx, qRecentPodcasts, nil, &docs); err != nil {
		return nil, err
	}
	if len(docs) > RecentLimit {
		docs = docs[:RecentLimit]
	}
	views := make([]PodcastView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, *doc.view())
	}
	return views, nil
}

// Home resolves the home page singleton.
func (q *Catalog) Home(ctx context.Context) (*HomeView, error) {
	var doc homeDoc
	found, err := q.client.QueryOne(ctx, qHome, nil, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.E(apperrors.KindNotFound, "home page document not found")
	}
	return doc.view(), nil
}

// Refs lists minimal references for every document of the given type. Used
// for slug-index fallback and static param enumeration.
func (q *Catalog) Refs(ctx context.Context, docType string) ([]DocumentRef, error) {
	var refs []DocumentRef
	if err := q.client.QueryAll(ctx, qRefsByType, map[string]any{"type": docType}, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// PDFBySlug resolves the document title and PDF asset for the proxy, across
// any content type carrying a pdfUpload.
func (q *Catalog) PDFBySlug(ctx context.Context, slug string) (title string, asset PDFAsset, err error) {
	var doc struct {
		Title  string    `json:"title"`
		HasPDF bool      `json:"hasPdf"`
		PDF    *PDFAsset `json:"pdfUpload"`
	}
	found, err := q.client.QueryOne(ctx, qPDFBySlug, map[string]any{"slug": slug}, &doc)
	if err != nil {
		return "", PDFAsset{}, err
	}
	if !found || doc.PDF == nil || !doc.HasPDF {
		return "", PDFAsset{}, notFound("pdf for document", slug)
	}
	return doc.Title, *doc.PDF, nil
}
