package content

import "time"

// View models are the shapes handed to page templates. Optional sections are
// always present in the shape: nil pointers or empty slices, never absent
// fields, so consumers check emptiness only.

// Card is one entry in a carousel or related-stories strip.
type Card struct {
	Title       string
	Slug        string
	Type        string
	PublishedAt time.Time
	ImageURL    string
	Excerpt     string
}

// ArticleView is the page-ready projection of an article.
type ArticleView struct {
	ID          string
	Title       string
	Slug        string
	PublishedAt time.Time
	ImageURL    string
	Excerpt     string
	Body        []Block
	Author      *Author
	PDF         *PDFAsset
	Related     []Card
}

// MindbulletView is the page-ready projection of a mindbullet.
type MindbulletView struct {
	ID          string
	Title       string
	Slug        string
	Dateline    time.Time
	PublishedAt time.Time
	ImageURL    string
	Excerpt     string
	Body        []Block
	Related     []Card
}

// ScenarioView is the page-ready projection of a provocative scenario.
type ScenarioView struct {
	ID          string
	Title       string
	Slug        string
	PublishedAt time.Time
	ImageURL    string
	Excerpt     string
	Body        []Block
	PDF         *PDFAsset
}

// CaseStudyView is the page-ready projection of a case study.
type CaseStudyView struct {
	ID          string
	Title       string
	Slug        string
	Client      string
	PublishedAt time.Time
	ImageURL    string
	Excerpt     string
	Body        []Block
	PDF         *PDFAsset
}

// KeynoteView is the page-ready projection of a keynote page.
type KeynoteView struct {
	ID       string
	Title    string
	Slug     string
	Speaker  string
	ImageURL string
	VideoURL string
	Topics   []string
	Body     []Block
	PDF      *PDFAsset
}

// PodcastView is the page-ready projection of a podcast episode.
type PodcastView struct {
	ID          string
	Title       string
	Slug        string
	PublishedAt time.Time
	ImageURL    string
	AudioURL    string
	Duration    time.Duration
	Description []Block
	Excerpt     string
}

// HomeView is the page-ready projection of the home page singleton.
type HomeView struct {
	Heading    string
	Subheading string
	HeroImage  string
	Intro      []Block
}

func (d articleDoc) view() *ArticleView {
	view := &ArticleView{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        slugOrDerived(d.Slug, d.Title),
		PublishedAt: d.PublishedAt,
		ImageURL:    d.CoverImage,
		Excerpt:     Excerpt(d.Body, excerptRuneLimit),
		Body:        d.Body,
		Related:     []Card{},
	}
	if d.HasAuthor && d.Author != nil {
		view.Author = d.Author
	}
	if d.HasPDF && d.PDF != nil {
		view.PDF = d.PDF
	}
	if d.HasRelated {
		view.Related = cards(d.Related)
	}
	return view
}

func (d mindbulletDoc) view() *MindbulletView {
	view := &MindbulletView{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        slugOrDerived(d.Slug, d.Title),
		Dateline:    d.Dateline,
		PublishedAt: d.PublishedAt,
		ImageURL:    d.CoverImage,
		Excerpt:     Excerpt(d.Body, excerptRuneLimit),
		Body:        d.Body,
		Related:     []Card{},
	}
	if d.HasRelated {
		view.Related = cards(d.Related)
	}
	return view
}

func (d scenarioDoc) view() *ScenarioView {
	view := &ScenarioView{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        slugOrDerived(d.Slug, d.Title),
		PublishedAt: d.PublishedAt,
		ImageURL:    d.CoverImage,
		Excerpt:     Excerpt(d.Body, excerptRuneLimit),
		Body:        d.Body,
	}
	if d.HasPDF && d.PDF != nil {
		view.PDF = d.PDF
	}
	return view
}

func (d caseStudyDoc) view() *CaseStudyView {
	view := &CaseStudyView{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        slugOrDerived(d.Slug, d.Title),
		Client:      d.Client,
		PublishedAt: d.PublishedAt,
		ImageURL:    d.CoverImage,
		Excerpt:     Excerpt(d.Body, excerptRuneLimit),
		Body:        d.Body,
	}
	if d.HasPDF && d.PDF != nil {
		view.PDF = d.PDF
	}
	return view
}

func (d keynoteDoc) view() *KeynoteView {
	view := &KeynoteView{
		ID:       d.ID,
		Title:    d.Title,
		Slug:     slugOrDerived(d.Slug, d.Title),
		Speaker:  d.Speaker,
		ImageURL: d.CoverImage,
		VideoURL: d.VideoURL,
		Topics:   d.Topics,
		Body:     d.Body,
	}
	if view.Topics == nil {
		view.Topics = []string{}
	}
	if d.HasPDF && d.PDF != nil {
		view.PDF = d.PDF
	}
	return view
}

func (d podcastDoc) view() *PodcastView {
	return &PodcastView{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        slugOrDerived(d.Slug, d.Title),
		PublishedAt: d.PublishedAt,
		ImageURL:    d.CoverImage,
		AudioURL:    d.AudioURL,
		Duration:    time.Duration(d.Duration) * time.Second,
		Description: d.Description,
		Excerpt:     Excerpt(d.Description, excerptRuneLimit),
	}
}

func (d homeDoc) view() *HomeView {
	return &HomeView{
		Heading:    d.Heading,
		Subheading: d.Subheading,
		HeroImage:  d.HeroImage,
		Intro:      d.Intro,
	}
}

func cards(docs []cardDoc) []Card {
	out := make([]Card, 0, len(docs))
	for _, d := range docs {
		out = append(out, Card{
			Title:       d.Title,
			Slug:        slugOrDerived(d.Slug, d.Title),
			Type:        d.Type,
			PublishedAt: d.PublishedAt,
			ImageURL:    d.CoverImage,
			Excerpt:     Excerpt(d.Excerpt, cardExcerptRuneLimit),
		})
	}
	return out
}

func slugOrDerived(slug *Slug, title string) string {
	if slug != nil && slug.Current != "" {
		return slug.Current
	}
	return Normalize(title)
}
