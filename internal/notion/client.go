package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notiondigest/internal/logger"
	"notiondigest/internal/models"
)

// API constants. The header name, version and filter property are what the database expects.
const (
	DefaultBaseURL     = "https://api.notion.com"
	APIVersion         = "2022-06-28"
	VersionHeader      = "Notion-Version"
	WeekNumberProperty = "Week number"

	maxResponseBytes = 10 * 1024 * 1024
)

// Client errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrMissingAPIKey        = errors.New("notion api key is required")
	ErrMissingDatabaseID    = errors.New("notion database id is required")
)

// Client is the live ContentAdapter backed by the Notion HTTP API.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a client. An empty baseURL means DefaultBaseURL; timeout <= 0 means 30s.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewClientWithHTTP creates a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	c := NewClient(baseURL, 0, log)
	c.httpClient = httpClient

	return c
}

// databaseQuery is the body of POST /v1/databases/{id}/query.
type databaseQuery struct {
	Filter propertyFilter `json:"filter"`
}

type propertyFilter struct {
	Formula  formulaFilter `json:"formula"`
	Property string        `json:"property"`
}

type formulaFilter struct {
	String stringFilter `json:"string"`
}

type stringFilter struct {
	Equals string `json:"equals"`
}

// apiError is the error object Notion returns with non-2xx responses.
type apiError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// FetchDatabase queries the database for the entries of params.WeekNumber.
func (c *Client) FetchDatabase(ctx context.Context, params models.FetchParams) (*models.DatabaseResult, error) {
	if params.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if params.DatabaseID == "" {
		return nil, ErrMissingDatabaseID
	}

	query := databaseQuery{
		Filter: propertyFilter{
			Property: WeekNumberProperty,
			Formula: formulaFilter{
				String: stringFilter{Equals: params.WeekNumber},
			},
		},
	}

	path := "/v1/databases/" + url.PathEscape(params.DatabaseID) + "/query"

	var result models.DatabaseResult
	if err := c.do(ctx, http.MethodPost, path, params.APIKey, query, &result); err != nil {
		c.logger.Error("Failed to fetch Notion database", "database_id", params.DatabaseID, "error", err)

		return nil, err
	}

	c.logger.Debug("Fetched Notion database", "database_id", params.DatabaseID, "week", params.WeekNumber, "entries", len(result.Results))

	return &result, nil
}

// PageToMarkdown fetches the page's child blocks and renders them.
// Errors are logged and reported as empty content so one page cannot abort a digest.
func (c *Client) PageToMarkdown(ctx context.Context, pageID, apiKey string) string {
	path := "/v1/blocks/" + url.PathEscape(pageID) + "/children"

	var blocks models.BlockList
	if err := c.do(ctx, http.MethodGet, path, apiKey, nil, &blocks); err != nil {
		c.logger.Error("Failed to fetch page content", "page_id", pageID, "error", err)

		return ""
	}

	return ConvertBlocks(blocks.Results)
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, body, out any) (err error) {
	var reader io.Reader = http.NoBody

	if body != nil {
		jsonBody, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal request: %w", marshalErr)
		}

		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set(VersionHeader, APIVersion)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, apiErr.Message)
		}

		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
