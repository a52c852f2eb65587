package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/futureworld/futureworld.site/internal/content"
)

// RichText renders a block sequence as HTML. Unknown block types are skipped
// rather than guessed at; list items of the same kind are grouped into one
// list element.
func RichText(blocks []content.Block) templ.Component {
	return component(func(w io.Writer) error {
		var b strings.Builder
		openList := ""
		closeList := func() {
			switch openList {
			case "bullet":
				b.WriteString("</ul>")
			case "number":
				b.WriteString("</ol>")
			}
			openList = ""
		}
		for _, block := range blocks {
			if block.Type != "block" {
				continue
			}
			if block.ListItem != "" {
				if openList != block.ListItem {
					closeList()
					if block.ListItem == "number" {
						b.WriteString("<ol>")
					} else {
						b.WriteString("<ul>")
					}
					openList = block.ListItem
				}
				b.WriteString("<li>")
				writeSpans(&b, block.Children)
				b.WriteString("</li>")
				continue
			}
			closeList()
			tag := blockTag(block.Style)
			fmt.Fprintf(&b, "<%s>", tag)
			writeSpans(&b, block.Children)
			fmt.Fprintf(&b, "</%s>", tag)
		}
		closeList()
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func blockTag(style string) string {
	switch style {
	case "h2", "h3", "h4", "blockquote":
		return style
	default:
		return "p"
	}
}

func writeSpans(b *strings.Builder, spans []content.Span) {
	for _, span := range spans {
		opening, closing := markTags(span.Marks)
		b.WriteString(opening)
		b.WriteString(esc(span.Text))
		b.WriteString(closing)
	}
}

func markTags(marks []string) (opening, closing string) {
	for _, mark := range marks {
		switch mark {
		case "strong", "em", "code":
			opening += "<" + mark + ">"
			closing = "</" + mark + ">" + closing
		}
	}
	return opening, closing
}
