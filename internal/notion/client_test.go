package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notiondigest/internal/logger"
	"notiondigest/internal/models"
)

const databaseResponse = `{
  "object": "list",
  "results": [
    {
      "id": "page-1",
      "properties": {
        "Title": {"title": [{"plain_text": "Article1"}]},
        "URL": {"url": "https://example.com/1"},
        "Tags": {"multi_select": [{"name": "tech"}, {"name": "go"}]}
      }
    },
    {
      "id": "page-2",
      "properties": {
        "Title": {"title": []},
        "URL": {"url": "https://example.com/2"},
        "Tags": {"multi_select": []}
      }
    }
  ],
  "has_more": false
}`

const blocksResponse = `{
  "object": "list",
  "results": [
    {"id": "b1", "type": "heading_2", "heading_2": {"rich_text": [{"plain_text": "Summary", "annotations": {"bold": false, "italic": false, "code": false}}]}},
    {"id": "b2", "type": "paragraph", "paragraph": {"rich_text": [{"plain_text": "Body ", "annotations": {}}, {"plain_text": "text", "annotations": {"bold": true}}]}},
    {"id": "b3", "type": "divider", "divider": {}}
  ]
}`

func TestClient_FetchDatabase(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-123/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &gotBody))

		_, _ = w.Write([]byte(databaseResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, logger.Discard())

	result, err := client.FetchDatabase(context.Background(), models.FetchParams{
		DatabaseID: "db-123",
		WeekNumber: "2025-W21",
		APIKey:     "secret",
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	first := result.Results[0]
	assert.Equal(t, "page-1", first.ID)
	assert.Equal(t, "Article1", first.Title())
	assert.Equal(t, "https://example.com/1", first.URL())
	assert.Equal(t, []string{"tech", "go"}, first.Tags())

	second := result.Results[1]
	assert.Equal(t, models.UntitledPage, second.Title())
	assert.Empty(t, second.Tags())

	want := map[string]any{
		"filter": map[string]any{
			"property": "Week number",
			"formula": map[string]any{
				"string": map[string]any{"equals": "2025-W21"},
			},
		},
	}
	assert.Equal(t, want, gotBody)
}

func TestClient_FetchDatabase_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, logger.Discard())

	_, err := client.FetchDatabase(context.Background(), models.FetchParams{DatabaseID: "db", WeekNumber: "2025-W01", APIKey: "bad"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatusCode)
	assert.Contains(t, err.Error(), "API token is invalid.")
}

func TestNewClientWithHTTP_UsesGivenClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}

		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	httpClient := srv.Client()
	httpClient.Timeout = 50 * time.Millisecond

	client := NewClientWithHTTP(srv.URL+"/", httpClient, logger.Discard())

	_, err := client.FetchDatabase(context.Background(), models.FetchParams{DatabaseID: "db", WeekNumber: "2025-W01", APIKey: "k"})
	require.Error(t, err, "the supplied client's timeout applies")
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_FetchDatabase_MissingSettings(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 0, logger.Discard())

	_, err := client.FetchDatabase(context.Background(), models.FetchParams{DatabaseID: "db"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.FetchDatabase(context.Background(), models.FetchParams{APIKey: "k"})
	assert.ErrorIs(t, err, ErrMissingDatabaseID)
}

func TestClient_PageToMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/blocks/page-1/children", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))

		_, _ = w.Write([]byte(blocksResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, logger.Discard())

	md := client.PageToMarkdown(context.Background(), "page-1", "secret")
	assert.Equal(t, "## Summary\n\nBody **text**", md)
}

func TestClient_PageToMarkdown_ErrorIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, logger.Discard())

	assert.Equal(t, "", client.PageToMarkdown(context.Background(), "missing", "secret"))
}

func TestClient_PageToMarkdown_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, logger.Discard())

	assert.Equal(t, "", client.PageToMarkdown(context.Background(), "p", "secret"))
}
