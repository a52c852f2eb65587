package revalidate

import (
	"github.com/futureworld/futureworld.site/internal/content"
	"github.com/futureworld/futureworld.site/internal/web/routepath"
)

// CatchAllTag marks every rendered page; invalidating it flushes the whole
// site when a notification carries an unrecognized document type.
const CatchAllTag = "content"

// Target is one cache invalidation target: a content-type tag, a path, or
// both.
type Target struct {
	Tag  string
	Path string
}

// TargetsFor maps a document type to its invalidation targets. Detail paths
// are built from the notification's slug; when the slug is absent only the
// tag is invalidated. Unrecognized types fall back to the catch-all.
func TargetsFor(docType, slug string) []Target {
	switch docType {
	case content.TypeArticle:
		return withDetail(docType, routepath.Article(slug), slug)
	case content.TypeMindbullet:
		targets := []Target{{Tag: docType, Path: routepath.Mindbullets}}
		if slug != "" {
			targets = append(targets, Target{Path: routepath.Mindbullet(slug)})
		}
		return targets
	case content.TypeScenario:
		return withDetail(docType, routepath.Scenario(slug), slug)
	case content.TypeCaseStudy:
		return withDetail(docType, routepath.CaseStudy(slug), slug)
	case content.TypeKeynote:
		return withDetail(docType, routepath.Keynote(slug), slug)
	case content.TypePodcast:
		targets := []Target{{Tag: docType, Path: routepath.Podcasts}}
		if slug != "" {
			targets = append(targets, Target{Path: routepath.Podcast(slug)})
		}
		return targets
	case content.TypeHome:
		return []Target{{Tag: docType, Path: routepath.Root}}
	default:
		return []Target{{Tag: CatchAllTag, Path: routepath.Root}}
	}
}

func withDetail(docType, path, slug string) []Target {
	if slug == "" {
		return []Target{{Tag: docType}}
	}
	return []Target{{Tag: docType, Path: path}}
}
