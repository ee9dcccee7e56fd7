package notion

import (
	"strings"

	"notiondigest/internal/models"
)

// ConvertBlocks renders blocks as Markdown, one block per paragraph.
// Unsupported block types and blocks with no text are skipped.
func ConvertBlocks(blocks []models.Block) string {
	parts := make([]string, 0, len(blocks))

	for _, block := range blocks {
		text := convertBlock(block)
		if text == "" {
			continue
		}

		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n")
}

func convertBlock(block models.Block) string {
	text := RenderRichText(block.Text())

	switch block.Type {
	case models.BlockParagraph:
		return text
	case models.BlockHeading1:
		return "# " + text
	case models.BlockHeading2:
		return "## " + text
	case models.BlockHeading3:
		return "### " + text
	case models.BlockBulletedListItem:
		return "- " + text
	case models.BlockNumberedListItem:
		// Flat lists only; Markdown renumbers "1." items itself.
		return "1. " + text
	default:
		return ""
	}
}

// RenderRichText concatenates spans, wrapping each as bold, then italic, then code.
// Code markers therefore end up outermost, e.g. "`***x***`".
func RenderRichText(spans []models.RichText) string {
	var sb strings.Builder

	for _, span := range spans {
		content := span.PlainText
		if span.Annotations.Bold {
			content = "**" + content + "**"
		}

		if span.Annotations.Italic {
			content = "*" + content + "*"
		}

		if span.Annotations.Code {
			content = "`" + content + "`"
		}

		sb.WriteString(content)
	}

	return sb.String()
}
