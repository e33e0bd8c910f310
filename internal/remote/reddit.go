package remote

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/models"
)

// RedditClient searches posts for the omni-search discussion branch.
type RedditClient struct {
	client *resty.Client
}

func NewRedditClient(baseURL string, timeout time.Duration) *RedditClient {
	client := newClient(baseURL, timeout)
	client.SetHeader("User-Agent", "cyberpulse/1.0")
	return &RedditClient{client: client}
}

type redditSearchResponse struct {
	Data redditListingDTO `json:"data"`
}

type redditListingDTO struct {
	Children []redditChildDTO `json:"children"`
}

type redditChildDTO struct {
	Data redditPostDTO `json:"data"`
}

type redditPostDTO struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit_name_prefixed"`
	Ups       int    `json:"ups"`
	Permalink string `json:"permalink"`
}

// SearchPosts returns ranked posts for a query.
func (c *RedditClient) SearchPosts(ctx context.Context, query string, limit int) ([]models.RedditPost, error) {
	var resp redditSearchResponse
	err := getJSON(ctx, c.client, "reddit.search", "/search.json", map[string]string{
		"q":     query,
		"limit": itoa(limit),
		"sort":  "relevance",
		"type":  "link",
	}, &resp)
	if err != nil {
		return nil, err
	}
	posts := make([]models.RedditPost, len(resp.Data.Children))
	for i, child := range resp.Data.Children {
		posts[i] = models.RedditPost{
			Title:     child.Data.Title,
			Subreddit: child.Data.Subreddit,
			Upvotes:   child.Data.Ups,
			URL:       "https://reddit.com" + child.Data.Permalink,
		}
	}
	return posts, nil
}
