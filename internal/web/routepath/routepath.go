// Package routepath centralizes route constants and builders so handlers,
// templates, and cache invalidation agree on paths.
package routepath

// Page routes.
const (
	Root        = "/"
	Mindbullets = "/mindbullets"
	Podcasts    = "/podcasts"
	Health      = "/healthz"
)

// API routes.
const (
	Revalidate       = "/api/revalidate"
	PDFPrefix        = "/api/pdf/"
	FormsApplication = "/api/forms/application"
	FormsContact     = "/api/forms/contact"
	Subscribe        = "/api/subscribe"
)

// Article returns the detail path for an article slug.
func Article(slug string) string { return "/article/" + slug }

// Mindbullet returns the detail path for a mindbullet slug.
func Mindbullet(slug string) string { return "/mindbullet/" + slug }

// Scenario returns the detail path for a provocative scenario slug.
func Scenario(slug string) string { return "/scenario/" + slug }

// CaseStudy returns the detail path for a case study slug.
func CaseStudy(slug string) string { return "/case-study/" + slug }

// Keynote returns the detail path for a keynote slug.
func Keynote(slug string) string { return "/keynote/" + slug }

// Podcast returns the detail path for a podcast episode slug.
func Podcast(slug string) string { return "/podcast/" + slug }

// PDF returns the proxy path for a document's PDF.
func PDF(slug string) string { return PDFPrefix + slug }
