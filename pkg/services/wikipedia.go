package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ariavoice/aria/internal/httpc"
)

// DefaultWikipediaBaseURL is the Wikipedia REST API root.
const DefaultWikipediaBaseURL = "https://en.wikipedia.org/api/rest_v1"

// PageSummary is an encyclopedia lookup result.
type PageSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	FullURL string `json:"full_url"`
}

// WikipediaClient fetches page summaries from the Wikipedia REST API.
// No API key is required.
type WikipediaClient struct {
	baseURL string
	http    *http.Client
}

// NewWikipediaClient creates an encyclopedia client. An empty baseURL
// uses English Wikipedia.
func NewWikipediaClient(baseURL string) *WikipediaClient {
	if baseURL == "" {
		baseURL = DefaultWikipediaBaseURL
	}
	return &WikipediaClient{
		baseURL: baseURL,
		http:    httpc.Client,
	}
}

type wikiSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Fetch returns a summary of the page best matching the query.
func (c *WikipediaClient) Fetch(ctx context.Context, query string) (*PageSummary, error) {
	title := strings.ReplaceAll(strings.TrimSpace(query), " ", "_")
	endpoint := c.baseURL + "/page/summary/" + url.PathEscape(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// The REST API redirects near-matches to the canonical page.
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNoResults
	}

	var raw wikiSummaryResponse
	if err := decode(resp, &raw); err != nil {
		return nil, err
	}

	if raw.Extract == "" {
		return nil, ErrNoResults
	}

	return &PageSummary{
		Title:   raw.Title,
		Summary: raw.Extract,
		FullURL: raw.ContentURLs.Desktop.Page,
	}, nil
}
