package models

// Block types rendered into the digest.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
)

// BlockList is the body of a block children response.
type BlockList struct {
	Results    []Block `json:"results"`
	NextCursor string  `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

// Block is one structural unit of a page body.
type Block struct {
	Paragraph        *BlockText `json:"paragraph,omitempty"`
	Heading1         *BlockText `json:"heading_1,omitempty"`
	Heading2         *BlockText `json:"heading_2,omitempty"`
	Heading3         *BlockText `json:"heading_3,omitempty"`
	BulletedListItem *BlockText `json:"bulleted_list_item,omitempty"`
	NumberedListItem *BlockText `json:"numbered_list_item,omitempty"`
	ID               string     `json:"id"`
	Type             string     `json:"type"`
}

// BlockText is the payload shared by text-bearing blocks.
type BlockText struct {
	Color    string     `json:"color,omitempty"`
	RichText []RichText `json:"rich_text"`
}

// RichText is a run of text with uniform annotations.
type RichText struct {
	Href        *string     `json:"href,omitempty"`
	Type        string      `json:"type,omitempty"`
	PlainText   string      `json:"plain_text"`
	Annotations Annotations `json:"annotations"`
}

// Annotations are the style flags of a rich text run.
type Annotations struct {
	Color         string `json:"color,omitempty"`
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
}

// Text returns the rich text of the block's own type, or nil for unsupported types.
func (b Block) Text() []RichText {
	var payload *BlockText

	switch b.Type {
	case BlockParagraph:
		payload = b.Paragraph
	case BlockHeading1:
		payload = b.Heading1
	case BlockHeading2:
		payload = b.Heading2
	case BlockHeading3:
		payload = b.Heading3
	case BlockBulletedListItem:
		payload = b.BulletedListItem
	case BlockNumberedListItem:
		payload = b.NumberedListItem
	}

	if payload == nil {
		return nil
	}

	return payload.RichText
}
