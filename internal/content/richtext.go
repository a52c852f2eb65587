package content

import "strings"

// excerptRuneLimit bounds full-page excerpts.
const excerptRuneLimit = 280

// cardExcerptRuneLimit bounds card descriptions, which render in fixed-size
// carousel tiles.
const cardExcerptRuneLimit = 140

// PlainText flattens a rich-text block sequence to plain prose. Only text
// blocks contribute; blocks are joined with single spaces.
func PlainText(blocks []Block) string {
	var parts []string
	for _, block := range blocks {
		if block.Type != "block" {
			continue
		}
		var b strings.Builder
		for _, span := range block.Children {
			b.WriteString(span.Text)
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Excerpt computes a plain-text excerpt of at most limit runes, truncated at
// a word boundary with a trailing ellipsis.
func Excerpt(blocks []Block, limit int) string {
	text := PlainText(blocks)
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}
