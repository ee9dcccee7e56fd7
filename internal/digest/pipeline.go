// Package digest groups a week's bookmarks by tag and renders them as one Markdown document.
package digest

import (
	"context"
	"errors"
	"strings"

	"notiondigest/internal/models"
	"notiondigest/internal/notion"
)

// FallbackTag groups entries that carry no tags.
const FallbackTag = "Others"

// ErrNoEntries is reported when the database has nothing for the requested week.
var ErrNoEntries = errors.New("no entries found for this week")

// FetchContent queries the adapter, groups the entries and renders the digest.
// It never returns an error: every failure is folded into the result.
func FetchContent(ctx context.Context, adapter notion.ContentAdapter, params models.FetchParams) models.FetchResult {
	return NewFetchResult(Build(ctx, adapter, params))
}

// NewFetchResult folds the outcome of Build into a FetchResult.
// A failure carries only the error message, or a generic one when err has none.
func NewFetchResult(doc *Document, err error) models.FetchResult {
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error occurred"
		}

		return models.FetchResult{
			Success:      false,
			ErrorMessage: msg,
		}
	}

	return models.FetchResult{
		Success: true,
		Content: doc.Content,
	}
}

// GroupEntriesByTag files each page under its first tag, or FallbackTag when it has none.
// Group order follows the first appearance of each tag; pages keep their input order.
func GroupEntriesByTag(pages []models.Page) *models.GroupedEntries {
	grouped := models.NewGroupedEntries()

	for _, page := range pages {
		tag := FallbackTag
		if tags := page.Tags(); len(tags) > 0 {
			tag = tags[0]
		}

		grouped.Add(tag, page)
	}

	return grouped
}

// GenerateMarkdownContent renders the grouped entries. Page bodies are fetched one at a time,
// in group then entry order, so the output is deterministic.
func GenerateMarkdownContent(ctx context.Context, grouped *models.GroupedEntries, adapter notion.ContentAdapter, apiKey string) string {
	var sb strings.Builder

	for _, tag := range grouped.Tags() {
		sb.WriteString("## " + tag + "\n\n")

		for _, entry := range grouped.Entries(tag) {
			title := entry.Title()

			sb.WriteString("### " + title + "\n\n")
			sb.WriteString("[" + title + "](" + entry.URL() + ")\n\n")

			content := adapter.PageToMarkdown(ctx, entry.ID, apiKey)
			if strings.TrimSpace(content) != "" {
				sb.WriteString(content + "\n\n")
			}
		}
	}

	return strings.TrimSpace(sb.String())
}

// FileName returns the digest file name for a week.
func FileName(weekNumber string) string {
	return weekNumber + ".md"
}
