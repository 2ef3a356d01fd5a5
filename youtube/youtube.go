// Package youtube finds a YouTube video for a recognized track.
package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Client searches the YouTube Data API.
type Client struct {
	service *yt.Service
}

// New creates a client authenticated with an API key. Extra options are
// passed to the underlying service (endpoint, http client).
func New(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{service: svc}, nil
}

// VideoURL returns the watch url of the first video matching query, or ""
// when nothing matches.
func (c *Client) VideoURL(ctx context.Context, query string) (string, error) {
	resp, err := c.service.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube search failed: %w", err)
	}

	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			return "https://www.youtube.com/watch?v=" + item.Id.VideoId, nil
		}
	}
	return "", nil
}
