// Package notion talks to the Notion API and turns page blocks into Markdown.
package notion

import (
	"context"

	"notiondigest/internal/models"
)

// ContentAdapter is the source of database entries and page bodies for the digest.
type ContentAdapter interface {
	// FetchDatabase returns the entries whose "Week number" equals params.WeekNumber.
	FetchDatabase(ctx context.Context, params models.FetchParams) (*models.DatabaseResult, error)
	// PageToMarkdown returns the page body as Markdown. Failures yield "".
	PageToMarkdown(ctx context.Context, pageID, apiKey string) string
}

// Ensure both variants implement ContentAdapter.
var (
	_ ContentAdapter = (*Client)(nil)
	_ ContentAdapter = (*InMemoryAdapter)(nil)
)
