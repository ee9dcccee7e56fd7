package notion

import (
	"context"
	"sync"

	"notiondigest/internal/models"
)

// InMemoryAdapter serves canned results without any I/O. The zero value has no entries.
type InMemoryAdapter struct {
	result   models.DatabaseResult
	pages    map[string]string
	fetchErr error
	mu       sync.RWMutex
}

// NewInMemoryAdapter creates an adapter returning result and the given page bodies.
func NewInMemoryAdapter(result models.DatabaseResult, pages map[string]string) *InMemoryAdapter {
	content := make(map[string]string, len(pages))
	for id, md := range pages {
		content[id] = md
	}

	return &InMemoryAdapter{
		result: result,
		pages:  content,
	}
}

// FetchDatabase returns the preset result, or the preset error.
func (a *InMemoryAdapter) FetchDatabase(_ context.Context, _ models.FetchParams) (*models.DatabaseResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.fetchErr != nil {
		return nil, a.fetchErr
	}

	result := models.DatabaseResult{
		Results: append([]models.Page(nil), a.result.Results...),
	}

	return &result, nil
}

// PageToMarkdown returns the canned body, or a placeholder naming the page.
func (a *InMemoryAdapter) PageToMarkdown(_ context.Context, pageID, _ string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if content, ok := a.pages[pageID]; ok && content != "" {
		return content
	}

	return "Mock content for page " + pageID
}

// SetDatabaseResult replaces the preset database result.
func (a *InMemoryAdapter) SetDatabaseResult(result models.DatabaseResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.result = result
}

// SetPageContent sets the body returned for pageID.
func (a *InMemoryAdapter) SetPageContent(pageID, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pages == nil {
		a.pages = make(map[string]string)
	}

	a.pages[pageID] = content
}

// SetFetchError makes FetchDatabase fail with err. Pass nil to clear.
func (a *InMemoryAdapter) SetFetchError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.fetchErr = err
}
