package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notiondigest/internal/models"
)

func span(text string, bold, italic, code bool) models.RichText {
	return models.RichText{
		PlainText:   text,
		Annotations: models.Annotations{Bold: bold, Italic: italic, Code: code},
	}
}

func textBlock(blockType string, spans ...models.RichText) models.Block {
	payload := &models.BlockText{RichText: spans}
	b := models.Block{Type: blockType}

	switch blockType {
	case models.BlockParagraph:
		b.Paragraph = payload
	case models.BlockHeading1:
		b.Heading1 = payload
	case models.BlockHeading2:
		b.Heading2 = payload
	case models.BlockHeading3:
		b.Heading3 = payload
	case models.BlockBulletedListItem:
		b.BulletedListItem = payload
	case models.BlockNumberedListItem:
		b.NumberedListItem = payload
	}

	return b
}

func TestRenderRichText(t *testing.T) {
	tests := []struct {
		name  string
		spans []models.RichText
		want  string
	}{
		{"plain", []models.RichText{span("hello", false, false, false)}, "hello"},
		{"bold", []models.RichText{span("b", true, false, false)}, "**b**"},
		{"italic", []models.RichText{span("i", false, true, false)}, "*i*"},
		{"code", []models.RichText{span("c", false, false, true)}, "`c`"},
		{"bold italic", []models.RichText{span("x", true, true, false)}, "***x***"},
		{"all annotations nest bold then italic then code", []models.RichText{span("x", true, true, true)}, "`***x***`"},
		{
			"spans concatenate in order",
			[]models.RichText{span("a ", false, false, false), span("b", true, false, false), span(" c", false, false, false)},
			"a **b** c",
		},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderRichText(tt.spans))
		})
	}
}

func TestConvertBlocks(t *testing.T) {
	blocks := []models.Block{
		textBlock(models.BlockHeading1, span("Title", false, false, false)),
		textBlock(models.BlockParagraph, span("Intro ", false, false, false), span("bold", true, false, false)),
		{Type: "image", ID: "img"},
		textBlock(models.BlockHeading2, span("Sub", false, false, false)),
		textBlock(models.BlockHeading3, span("Subsub", false, false, false)),
		textBlock(models.BlockParagraph),
		textBlock(models.BlockBulletedListItem, span("one", false, false, false)),
		textBlock(models.BlockNumberedListItem, span("first", false, false, false)),
		textBlock(models.BlockNumberedListItem, span("second", false, false, false)),
	}

	want := "# Title\n\nIntro **bold**\n\n## Sub\n\n### Subsub\n\n- one\n\n1. first\n\n1. second"
	assert.Equal(t, want, ConvertBlocks(blocks))
}

func TestConvertBlocks_Empty(t *testing.T) {
	assert.Equal(t, "", ConvertBlocks(nil))
	assert.Equal(t, "", ConvertBlocks([]models.Block{{Type: "divider"}, textBlock(models.BlockParagraph)}))
}

func TestConvertBlocks_MissingPayload(t *testing.T) {
	// A paragraph block whose payload was absent from the JSON renders as nothing.
	assert.Equal(t, "", ConvertBlocks([]models.Block{{Type: models.BlockParagraph}}))
}
