package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ariavoice/aria/internal/httpc"
)

// NewsAPI endpoints. Headlines serve the no-topic command; the
// everything index serves topic queries.
const (
	DefaultNewsBaseURL = "https://newsapi.org/v2"

	newsPageSize       = 5
	newsDefaultCountry = "us"
)

// Article is one news story.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// NewsClient fetches headlines from NewsAPI.org.
type NewsClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewNewsClient creates a news client. An empty baseURL uses NewsAPI.
func NewNewsClient(apiKey, baseURL string) *NewsClient {
	if baseURL == "" {
		baseURL = DefaultNewsBaseURL
	}
	return &NewsClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpc.Client,
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch returns up to five articles. An empty query fetches top
// headlines; otherwise the everything index is searched.
func (c *NewsClient) Fetch(ctx context.Context, query string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("pageSize", strconv.Itoa(newsPageSize))

	endpoint := c.baseURL + "/top-headlines"
	if query != "" {
		params.Set("q", query)
		endpoint = c.baseURL + "/everything"
	} else {
		params.Set("country", newsDefaultCountry)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	var raw newsAPIResponse
	if err := decode(resp, &raw); err != nil {
		return nil, err
	}

	if len(raw.Articles) == 0 {
		return nil, ErrNoResults
	}

	articles := make([]Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
		})
	}
	return articles, nil
}
