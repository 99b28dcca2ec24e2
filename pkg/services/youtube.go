package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

// videoSearchMax caps results per voice query.
const videoSearchMax = 5

// videoAPITimeout bounds one search call.
const videoAPITimeout = 10 * time.Second

// Video is one video search result.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// VideoClient searches YouTube via the Data API v3.
type VideoClient struct {
	svc *youtube.Service
}

// NewVideoClient creates a video search client with an API key.
// Returns ErrNotConfigured when the key is empty.
func NewVideoClient(ctx context.Context, apiKey string) (*VideoClient, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &VideoClient{svc: svc}, nil
}

// Search returns up to five videos matching the query.
func (c *VideoClient) Search(ctx context.Context, query string) ([]Video, error) {
	ctx, cancel := context.WithTimeout(ctx, videoAPITimeout)
	defer cancel()

	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(videoSearchMax).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	if len(resp.Items) == 0 {
		return nil, ErrNoResults
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		v := Video{
			ID:          item.Id.VideoId,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			v.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}
		videos = append(videos, v)
	}
	return videos, nil
}
