package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notiondigest/internal/models"
)

func TestInMemoryAdapter(t *testing.T) {
	ctx := context.Background()
	adapter := NewInMemoryAdapter(models.DatabaseResult{
		Results: []models.Page{models.NewPage("p1", "A", "https://a", "tech")},
	}, map[string]string{"p1": "Body"})

	result, err := adapter.FetchDatabase(ctx, models.FetchParams{})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "p1", result.Results[0].ID)

	assert.Equal(t, "Body", adapter.PageToMarkdown(ctx, "p1", "key"))
	assert.Equal(t, "Mock content for page p2", adapter.PageToMarkdown(ctx, "p2", "key"))

	adapter.SetPageContent("p2", "Second")
	assert.Equal(t, "Second", adapter.PageToMarkdown(ctx, "p2", "key"))

	adapter.SetDatabaseResult(models.DatabaseResult{})
	result, err = adapter.FetchDatabase(ctx, models.FetchParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
}

func TestInMemoryAdapter_FetchError(t *testing.T) {
	boom := errors.New("boom")
	adapter := NewInMemoryAdapter(models.DatabaseResult{}, nil)
	adapter.SetFetchError(boom)

	_, err := adapter.FetchDatabase(context.Background(), models.FetchParams{})
	assert.ErrorIs(t, err, boom)

	adapter.SetFetchError(nil)
	_, err = adapter.FetchDatabase(context.Background(), models.FetchParams{})
	assert.NoError(t, err)
}

func TestInMemoryAdapter_ZeroValue(t *testing.T) {
	ctx := context.Background()

	var adapter InMemoryAdapter

	result, err := adapter.FetchDatabase(ctx, models.FetchParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, "Mock content for page p1", adapter.PageToMarkdown(ctx, "p1", ""))

	adapter.SetPageContent("p1", "Body")
	assert.Equal(t, "Body", adapter.PageToMarkdown(ctx, "p1", ""))
}
