package digest

import (
	"context"

	"notiondigest/internal/models"
	"notiondigest/internal/notion"
)

// Document is a rendered digest together with what went into it.
type Document struct {
	Week    string
	Content string
	Tags    []string
	Entries int
}

// Build fetches and renders the digest for params.WeekNumber.
// It returns ErrNoEntries when the week is empty and the adapter's error when the query fails.
func Build(ctx context.Context, adapter notion.ContentAdapter, params models.FetchParams) (*Document, error) {
	result, err := adapter.FetchDatabase(ctx, params)
	if err != nil {
		return nil, err
	}

	if result == nil || len(result.Results) == 0 {
		return nil, ErrNoEntries
	}

	grouped := GroupEntriesByTag(result.Results)

	return &Document{
		Week:    params.WeekNumber,
		Content: GenerateMarkdownContent(ctx, grouped, adapter, params.APIKey),
		Tags:    grouped.Tags(),
		Entries: grouped.Total(),
	}, nil
}
