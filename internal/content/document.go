// Package content provides the typed query layer over the headless document
// store. Documents are read-only projections; this service never writes them.
package content

import "time"

// Document type discriminators as stored in the document `_type` field.
const (
	TypeArticle    = "article"
	TypeMindbullet = "mindbullet"
	TypeScenario   = "provocativeScenario"
	TypeCaseStudy  = "caseStudy"
	TypeKeynote    = "keynote"
	TypePodcast    = "podcastEpisode"
	TypeHome       = "homePage"
)

// Slug is the canonical slug sub-object of a document. Authoring does not
// guarantee presence or uniqueness.
type Slug struct {
	Current string `json:"current"`
}

// Span is one inline run of text inside a rich-text block.
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// Block is one structured rich-text block. Bodies are passed through to the
// renderer as block sequences, never flattened, except where a plain-text
// excerpt is explicitly computed.
type Block struct {
	Type     string `json:"_type"`
	Key      string `json:"_key"`
	Style    string `json:"style"`
	ListItem string `json:"listItem"`
	Level    int    `json:"level"`
	Children []Span `json:"children"`
}

// Author is the optional author sub-object of an article.
type Author struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	ImageURL string `json:"imageUrl"`
}

// PDFAsset carries resolved upstream URLs for a document's PDF upload. Multi
// variant documents carry separate desktop and mobile renditions.
type PDFAsset struct {
	URL        string `json:"url"`
	DesktopURL string `json:"desktopUrl"`
	MobileURL  string `json:"mobileUrl"`
}

// HasVariant reports whether the asset carries the requested device variant.
func (p PDFAsset) HasVariant(device string) bool {
	switch device {
	case "mobile":
		return p.MobileURL != ""
	case "desktop":
		return p.DesktopURL != ""
	default:
		return p.URL != ""
	}
}

// VariantURL returns the upstream URL for the requested device variant,
// falling back to the single-rendition URL.
func (p PDFAsset) VariantURL(device string) string {
	switch device {
	case "mobile":
		if p.MobileURL != "" {
			return p.MobileURL
		}
	case "desktop":
		if p.DesktopURL != "" {
			return p.DesktopURL
		}
	}
	return p.URL
}

// DocumentRef is the minimal projection used for slug-index fallback and
// static param enumeration.
type DocumentRef struct {
	ID    string `json:"_id"`
	Type  string `json:"_type"`
	Title string `json:"title"`
	Slug  *Slug  `json:"slug"`
}

// PublishedSlug returns the canonical slug when present, else a slug derived
// from the title via Normalize.
func (d DocumentRef) PublishedSlug() string {
	if d.Slug != nil && d.Slug.Current != "" {
		return d.Slug.Current
	}
	return Normalize(d.Title)
}

// articleDoc is the raw store shape for an article. Boolean has-X flags gate
// the optional sub-objects; view building collapses each pair into one
// optional value.
type articleDoc struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImageUrl"`
	Body        []Block   `json:"body"`
	HasAuthor   bool      `json:"hasAuthor"`
	Author      *Author   `json:"author"`
	HasPDF      bool      `json:"hasPdf"`
	PDF         *PDFAsset `json:"pdfUpload"`
	HasRelated  bool      `json:"hasRelatedStories"`
	Related     []cardDoc `json:"relatedStories"`
}

// mindbulletDoc is the raw store shape for a mindbullet.
type mindbulletDoc struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug"`
	Dateline    time.Time `json:"dateline"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImageUrl"`
	Body        []Block   `json:"body"`
	HasRelated  bool      `json:"hasRelatedStories"`
	Related     []cardDoc `json:"relatedStories"`
}

// scenarioDoc is the raw store shape for a provocative scenario.
type scenarioDoc struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImageUrl"`
	Body        []Block   `json:"body"`
	HasPDF      bool      `json:"hasPdf"`
	PDF         *PDFAsset `json:"pdfUpload"`
}

// caseStudyDoc is the raw store shape for a case study.
type caseStudyDoc struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImageUrl"`
	Body        []Block   `json:"body"`
	Client      string    `json:"clientName"`
	HasPDF      bool      `json:"hasPdf"`
	PDF         *PDFAsset `json:"pdfUpload"`
}

// keynoteDoc is the raw store shape for a keynote page.
type keynoteDoc struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Slug       *Slug     `json:"slug"`
	Speaker    string    `json:"speaker"`
	CoverImage string    `json:"coverImageUrl"`
	Body       []Block   `json:"body"`
	VideoURL   string    `json:"videoUrl"`
	Topics     []string  `json:"topics"`
	HasPDF     bool      `json:"hasPdf"`
	PDF        *PDFAsset `json:"pdfUpload"`
}

// podcastDoc is the raw store shape for a podcast episode.
type podcastDoc struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImageUrl"`
	AudioURL    string    `json:"audioUrl"`
	Description []Block   `json:"description"`
	Duration    int       `json:"durationSeconds"`
}

// homeDoc is the raw store shape for the home page singleton.
type homeDoc struct {
	ID         string  `json:"_id"`
	Heading    string  `json:"heading"`
	Subheading string  `json:"subheading"`
	HeroImage  string  `json:"heroImageUrl"`
	Intro      []Block `json:"intro"`
}

// cardDoc is the raw store shape shared by carousel/related-story entries.
type cardDoc struct {
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug"`
	Type        string    `json:"_type"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImageUrl"`
	Excerpt     []Block   `json:"body"`
}
