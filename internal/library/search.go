package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"briefcast/internal/core"
)

// SearchClient retrieves saved items from the user's library.
type SearchClient interface {
	// Search runs one library query. includeContent requests the readable
	// HTML body of each item in addition to title and metadata.
	Search(ctx context.Context, query string, size int, includeContent bool, userID string) ([]core.LibraryItem, error)
}

// HTTPSearchClient talks to the remote library search service.
type HTTPSearchClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSearchClient creates a search client for the given service endpoint.
func NewHTTPSearchClient(endpoint, apiKey string, client *http.Client) *HTTPSearchClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSearchClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
	}
}

type searchRequest struct {
	Query          string `json:"query"`
	Size           int    `json:"size"`
	IncludeContent bool   `json:"includeContent"`
	UserID         string `json:"userId"`
}

type searchResponse struct {
	Items []core.LibraryItem `json:"items"`
}

// Search implements SearchClient against the library's JSON search API.
func (c *HTTPSearchClient) Search(ctx context.Context, query string, size int, includeContent bool, userID string) ([]core.LibraryItem, error) {
	payload, err := json.Marshal(searchRequest{
		Query:          query,
		Size:           size,
		IncludeContent: includeContent,
		UserID:         userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("library search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return parsed.Items, nil
}
