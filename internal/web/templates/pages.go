package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/futureworld/futureworld.site/internal/content"
	"github.com/futureworld/futureworld.site/internal/web/routepath"
)

const dateLayout = "2 January 2006"

func writeDate(b *strings.Builder, label string, t time.Time) {
	if t.IsZero() {
		return
	}
	fmt.Fprintf(b, `<p class="date">%s<time datetime="%s">%s</time></p>`,
		esc(label), t.Format("2006-01-02"), t.Format(dateLayout))
}

func writeHero(b *strings.Builder, imageURL, alt string) {
	if strings.TrimSpace(imageURL) == "" {
		return
	}
	fmt.Fprintf(b, `<img class="hero" src="%s" alt="%s">`, esc(imageURL), esc(alt))
}

func writePDFLink(b *strings.Builder, pdf *content.PDFAsset, slug string) {
	if pdf == nil {
		return
	}
	fmt.Fprintf(b, `<p class="download"><a href="%s">View PDF</a> <a href="%s?download=1">Download PDF</a></p>`,
		esc(routepath.PDF(slug)), esc(routepath.PDF(slug)))
}

func writeCards(b *strings.Builder, heading string, cards []content.Card) {
	if len(cards) == 0 {
		return
	}
	fmt.Fprintf(b, `<section class="cards"><h2>%s</h2><ul>`, esc(heading))
	for _, card := range cards {
		b.WriteString(`<li class="card">`)
		fmt.Fprintf(b, `<a href="%s">`, esc(cardHref(card)))
		if card.ImageURL != "" {
			fmt.Fprintf(b, `<img src="%s" alt="">`, esc(card.ImageURL))
		}
		fmt.Fprintf(b, `<h3>%s</h3></a>`, esc(card.Title))
		if card.Excerpt != "" {
			fmt.Fprintf(b, `<p>%s</p>`, esc(card.Excerpt))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul></section>")
}

// cardHref routes a card to its detail page by document type. Unknown types
// land on the home page rather than a dead link.
func cardHref(card content.Card) string {
	switch card.Type {
	case content.TypeArticle:
		return routepath.Article(card.Slug)
	case content.TypeMindbullet:
		return routepath.Mindbullet(card.Slug)
	case content.TypeScenario:
		return routepath.Scenario(card.Slug)
	case content.TypeCaseStudy:
		return routepath.CaseStudy(card.Slug)
	case content.TypeKeynote:
		return routepath.Keynote(card.Slug)
	case content.TypePodcast:
		return routepath.Podcast(card.Slug)
	default:
		return routepath.Root
	}
}

// HomePage renders the landing page with recent mindbullet and podcast
// carousels.
func HomePage(home *content.HomeView, mindbullets []content.Card, podcasts []content.PodcastView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="home">`)
		if home != nil {
			writeHero(&b, home.HeroImage, home.Heading)
			fmt.Fprintf(&b, "<h1>%s</h1>", esc(home.Heading))
			if home.Subheading != "" {
				fmt.Fprintf(&b, `<p class="subheading">%s</p>`, esc(home.Subheading))
			}
		}
		b.WriteString("</article>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if home != nil {
			if err := RichText(home.Intro).Render(context.Background(), w); err != nil {
				return err
			}
		}
		b.Reset()
		writeCards(&b, "Latest Mindbullets", mindbullets)
		writeCards(&b, "Latest Podcasts", podcastCards(podcasts))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func podcastCards(episodes []content.PodcastView) []content.Card {
	cards := make([]content.Card, 0, len(episodes))
	for _, ep := range episodes {
		cards = append(cards, content.Card{
			Title:       ep.Title,
			Slug:        ep.Slug,
			Type:        content.TypePodcast,
			PublishedAt: ep.PublishedAt,
			ImageURL:    ep.ImageURL,
			Excerpt:     ep.Excerpt,
		})
	}
	return cards
}

// ArticlePage renders an article detail page.
func ArticlePage(view *content.ArticleView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="article">`)
		writeHero(&b, view.ImageURL, view.Title)
		fmt.Fprintf(&b, "<h1>%s</h1>", esc(view.Title))
		if view.Author != nil {
			fmt.Fprintf(&b, `<p class="byline">%s`, esc(view.Author.Name))
			if view.Author.Role != "" {
				fmt.Fprintf(&b, `, <span class="role">%s</span>`, esc(view.Author.Role))
			}
			b.WriteString("</p>")
		}
		writeDate(&b, "", view.PublishedAt)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := RichText(view.Body).Render(context.Background(), w); err != nil {
			return err
		}
		b.Reset()
		writePDFLink(&b, view.PDF, view.Slug)
		b.WriteString("</article>")
		writeCards(&b, "Related stories", view.Related)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// MindbulletPage renders a mindbullet detail page. The dateline is the
// fictional future date the story is written from.
func MindbulletPage(view *content.MindbulletView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="mindbullet">`)
		writeHero(&b, view.ImageURL, view.Title)
		fmt.Fprintf(&b, "<h1>%s</h1>", esc(view.Title))
		writeDate(&b, "Dateline: ", view.Dateline)
		writeDate(&b, "Published: ", view.PublishedAt)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := RichText(view.Body).Render(context.Background(), w); err != nil {
			return err
		}
		b.Reset()
		b.WriteString("</article>")
		writeCards(&b, "Related stories", view.Related)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// MindbulletListPage renders the mindbullet listing.
func MindbulletListPage(cards []content.Card) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="listing"><h1>Mindbullets</h1>`)
		if len(cards) == 0 {
			b.WriteString("<p>No stories yet.</p>")
		}
		b.WriteString("</section>")
		writeCards(&b, "Latest Mindbullets", cards)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ScenarioPage renders a provocative scenario detail page.
func ScenarioPage(view *content.ScenarioView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="scenario">`)
		writeHero(&b, view.ImageURL, view.Title)
		fmt.Fprintf(&b, "<h1>%s</h1>", esc(view.Title))
		writeDate(&b, "", view.PublishedAt)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := RichText(view.Body).Render(context.Background(), w); err != nil {
			return err
		}
		b.Reset()
		writePDFLink(&b, view.PDF, view.Slug)
		b.WriteString("</article>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// CaseStudyPage renders a case study detail page.
func CaseStudyPage(view *content.CaseStudyView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="case-study">`)
		writeHero(&b, view.ImageURL, view.Title)
		fmt.Fprintf(&b, "<h1>%s</h1>", esc(view.Title))
		if view.Client != "" {
			fmt.Fprintf(&b, `<p class="client">%s</p>`, esc(view.Client))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := RichText(view.Body).Render(context.Background(), w); err != nil {
			return err
		}
		b.Reset()
		writePDFLink(&b, view.PDF, view.Slug)
		b.WriteString("</article>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// KeynotePage renders a keynote detail page.
func KeynotePage(view *content.KeynoteView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="keynote">`)
		writeHero(&b, view.ImageURL, view.Title)
		fmt.Fprintf(&b, "<h1>%s</h1>", esc(view.Title))
		if view.Speaker != "" {
			fmt.Fprintf(&b, `<p class="speaker">%s</p>`, esc(view.Speaker))
		}
		if len(view.Topics) > 0 {
			b.WriteString(`<ul class="topics">`)
			for _, topic := range view.Topics {
				fmt.Fprintf(&b, "<li>%s</li>", esc(topic))
			}
			b.WriteString("</ul>")
		}
		if view.VideoURL != "" {
			fmt.Fprintf(&b, `<p class="video"><a href="%s">Watch the keynote</a></p>`, esc(view.VideoURL))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := RichText(view.Body).Render(context.Background(), w); err != nil {
			return err
		}
		b.Reset()
		writePDFLink(&b, view.PDF, view.Slug)
		b.WriteString("</article>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// PodcastPage renders one podcast episode with its audio player.
func PodcastPage(view *content.PodcastView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="podcast">`)
		writeHero(&b, view.ImageURL, view.Title)
		fmt.Fprintf(&b, "<h1>%s</h1>", esc(view.Title))
		writeDate(&b, "", view.PublishedAt)
		if view.AudioURL != "" {
			fmt.Fprintf(&b, `<audio controls src="%s"></audio>`, esc(view.AudioURL))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := RichText(view.Description).Render(context.Background(), w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</article>")
		return err
	})
}

// PodcastListPage renders the podcast listing with inline players.
func PodcastListPage(episodes []content.PodcastView) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="listing"><h1>Podcasts</h1>`)
		if len(episodes) == 0 {
			b.WriteString("<p>No episodes yet.</p>")
		}
		b.WriteString(`<ul class="episodes">`)
		for _, ep := range episodes {
			b.WriteString(`<li class="episode">`)
			fmt.Fprintf(&b, `<h2><a href="%s">%s</a></h2>`, esc(routepath.Podcast(ep.Slug)), esc(ep.Title))
			writeDate(&b, "", ep.PublishedAt)
			if ep.AudioURL != "" {
				fmt.Fprintf(&b, `<audio controls src="%s"></audio>`, esc(ep.AudioURL))
			}
			if ep.Excerpt != "" {
				fmt.Fprintf(&b, "<p>%s</p>", esc(ep.Excerpt))
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul></section>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// NotFoundPage renders the 404 page.
func NotFoundPage() templ.Component {
	return component(func(w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error-page"><h1>Page not found</h1><p>The page you are looking for does not exist or has moved.</p><p><a href="`+esc(routepath.Root)+`">Back to the home page</a></p></section>`)
		return err
	})
}

// ErrorPage renders the generic failure page. No upstream detail leaks here.
func ErrorPage() templ.Component {
	return component(func(w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error-page"><h1>Something went wrong</h1><p>Please try again in a moment.</p></section>`)
		return err
	})
}
