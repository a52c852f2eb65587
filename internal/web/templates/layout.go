// Package templates renders the site's pages as templ components. Components
// are built by hand so the rendered markup stays inspectable in tests.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/futureworld/futureworld.site/internal/web/routepath"
)

// BrandName suffixes every page title.
const BrandName = "Futureworld"

// ComposePageTitle appends the brand suffix unless the title already carries
// it.
func ComposePageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return BrandName
	}
	if strings.HasSuffix(title, "| "+BrandName) {
		return title
	}
	return title + " | " + BrandName
}

func esc(s string) string {
	return html.EscapeString(s)
}

// component adapts a render function into a templ.Component.
func component(render func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return render(w)
	})
}

type navLink struct {
	href  string
	label string
}

var navLinks = []navLink{
	{routepath.Root, "Home"},
	{routepath.Mindbullets, "Mindbullets"},
	{routepath.Podcasts, "Podcasts"},
}

// Document wraps a page body in the full HTML shell: head, nav, and footer.
func Document(title, metaDesc string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n")
		b.WriteString(`<html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, "<title>%s</title>", esc(ComposePageTitle(title)))
		if metaDesc = strings.TrimSpace(metaDesc); metaDesc != "" {
			fmt.Fprintf(&b, `<meta name="description" content="%s">`, esc(metaDesc))
		}
		b.WriteString(`<link rel="stylesheet" href="/static/site.css">`)
		b.WriteString("</head><body>")
		b.WriteString(`<nav class="site-nav"><ul>`)
		for _, link := range navLinks {
			fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, esc(link.href), esc(link.label))
		}
		b.WriteString("</ul></nav><main>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main><footer class="site-footer"><p>`+esc(BrandName)+`</p></footer></body></html>`)
		return err
	})
}
