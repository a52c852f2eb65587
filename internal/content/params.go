package content

import "context"

// detailPageTypes are the content types that own detail pages and therefore
// need static params for pre-rendering.
var detailPageTypes = []string{
	TypeArticle,
	TypeMindbullet,
	TypeScenario,
	TypeCaseStudy,
	TypeKeynote,
	TypePodcast,
}

// StaticParams maps a content type to the complete slug set used for
// pre-rendering its detail pages.
type StaticParams map[string][]string

// StaticParams enumerates every publicly reachable document identifier for
// the given content types (all detail-page types when none are named).
// Documents without a canonical slug contribute a slug derived from their
// title; omitting a document here makes its page unreachable through static
// generation.
func (q *Catalog) StaticParams(ctx context.Context, docTypes ...string) (StaticParams, error) {
	if len(docTypes) == 0 {
		docTypes = detailPageTypes
	}
	params := make(StaticParams, len(docTypes))
	for _, docType := range docTypes {
		refs, err := q.Refs(ctx, docType)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(refs))
		slugs := make([]string, 0, len(refs))
		for _, ref := range refs {
			slug := ref.PublishedSlug()
			if slug == "" {
				continue
			}
			// First occurrence wins, matching slug resolution order.
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			slugs = append(slugs, slug)
		}
		params[docType] = slugs
	}
	return params, nil
}
