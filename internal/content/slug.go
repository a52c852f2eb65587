package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugFolder strips combining marks after canonical decomposition so accented
// titles normalize to plain ASCII slugs.
var slugFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize derives a slug from a title: diacritics folded, lowercased,
// non-alphanumeric runs collapsed to a single hyphen, leading and trailing
// hyphens trimmed. The function is pure and idempotent; identical titles
// always produce identical slugs.
func Normalize(title string) string {
	folded, _, err := transform.String(slugFolder, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
