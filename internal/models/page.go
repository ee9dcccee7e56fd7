// Package models defines the data structures shared by the Notion adapter and the digest pipeline.
package models

// UntitledPage is used when a page has no title text.
const UntitledPage = "Untitled"

// FetchParams identifies a single weekly fetch.
type FetchParams struct {
	DatabaseID string
	WeekNumber string
	APIKey     string
}

// DatabaseResult is the body of a database query response.
type DatabaseResult struct {
	Results    []Page `json:"results"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// Page is one bookmarked entry in the database.
type Page struct {
	ID         string         `json:"id"`
	Properties PageProperties `json:"properties"`
}

// PageProperties holds the database columns read by the digest.
type PageProperties struct {
	Title TitleProperty       `json:"Title"`
	URL   URLProperty         `json:"URL"`
	Tags  MultiSelectProperty `json:"Tags"`
}

// TitleProperty is a Notion title column.
type TitleProperty struct {
	Title []PlainText `json:"title"`
}

// PlainText carries only the rendered text of a rich text item.
type PlainText struct {
	PlainText string `json:"plain_text"`
}

// URLProperty is a Notion url column.
type URLProperty struct {
	URL string `json:"url"`
}

// MultiSelectProperty is a Notion multi_select column.
type MultiSelectProperty struct {
	MultiSelect []SelectOption `json:"multi_select"`
}

// SelectOption is one selected value of a multi_select column.
type SelectOption struct {
	Name string `json:"name"`
}

// Title returns the first title fragment, or UntitledPage when there is none.
func (p Page) Title() string {
	if len(p.Properties.Title.Title) == 0 || p.Properties.Title.Title[0].PlainText == "" {
		return UntitledPage
	}

	return p.Properties.Title.Title[0].PlainText
}

// URL returns the bookmarked link.
func (p Page) URL() string {
	return p.Properties.URL.URL
}

// Tags returns the tag names in the order Notion lists them.
func (p Page) Tags() []string {
	tags := make([]string, 0, len(p.Properties.Tags.MultiSelect))
	for _, opt := range p.Properties.Tags.MultiSelect {
		tags = append(tags, opt.Name)
	}

	return tags
}

// NewPage builds a page from flat values. Used by the in-memory adapter and tests.
func NewPage(id, title, url string, tags ...string) Page {
	p := Page{ID: id}
	if title != "" {
		p.Properties.Title.Title = []PlainText{{PlainText: title}}
	}

	p.Properties.URL.URL = url

	for _, tag := range tags {
		p.Properties.Tags.MultiSelect = append(p.Properties.Tags.MultiSelect, SelectOption{Name: tag})
	}

	return p
}

// FetchResult is the outcome of one fetch and render.
// Success implies ErrorMessage is empty; failure implies Content is empty.
type FetchResult struct {
	Content      string
	ErrorMessage string
	Success      bool
}
