package content

import (
	"strings"
	"testing"
)

func textBlock(spans ...string) Block {
	children := make([]Span, 0, len(spans))
	for _, s := range spans {
		children = append(children, Span{Type: "span", Text: s})
	}
	return Block{Type: "block", Style: "normal", Children: children}
}

func TestPlainTextJoinsBlocksAndSpans(t *testing.T) {
	t.Parallel()

	blocks := []Block{
		textBlock("The future ", "arrives early."),
		textBlock("Plan for it."),
	}
	got := PlainText(blocks)
	want := "The future arrives early. Plan for it."
	if got != want {
		t.Fatalf("PlainText() = %q, want %q", got, want)
	}
}

func TestPlainTextSkipsNonTextBlocks(t *testing.T) {
	t.Parallel()

	blocks := []Block{
		{Type: "image", Key: "img1"},
		textBlock("Only prose survives."),
	}
	if got := PlainText(blocks); got != "Only prose survives." {
		t.Fatalf("PlainText() = %q, want prose only", got)
	}
}

func TestPlainTextEmptyBody(t *testing.T) {
	t.Parallel()

	if got := PlainText(nil); got != "" {
		t.Fatalf("PlainText(nil) = %q, want empty", got)
	}
}

func TestExcerptShortBodyPassesThrough(t *testing.T) {
	t.Parallel()

	blocks := []Block{textBlock("Short enough.")}
	if got := Excerpt(blocks, 280); got != "Short enough." {
		t.Fatalf("Excerpt() = %q, want unchanged text", got)
	}
}

func TestExcerptTruncatesAtWordBoundaryWithEllipsis(t *testing.T) {
	t.Parallel()

	blocks := []Block{textBlock(strings.Repeat("word ", 100))}
	got := Excerpt(blocks, 40)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("Excerpt() = %q, want trailing ellipsis", got)
	}
	trimmed := strings.TrimSuffix(got, "…")
	if strings.HasSuffix(trimmed, " ") {
		t.Fatalf("Excerpt() = %q, want no trailing space before ellipsis", got)
	}
	if len([]rune(trimmed)) > 40 {
		t.Fatalf("Excerpt() rune length = %d, want <= 40", len([]rune(trimmed)))
	}
	for _, w := range strings.Fields(trimmed) {
		if w != "word" {
			t.Fatalf("Excerpt() split a word: %q", w)
		}
	}
}
