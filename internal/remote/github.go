package remote

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/models"
)

// GitHubClient searches repositories for the omni-search code branch.
type GitHubClient struct {
	client *resty.Client
}

func NewGitHubClient(baseURL string, timeout time.Duration) *GitHubClient {
	client := newClient(baseURL, timeout)
	client.SetHeader("Accept", "application/vnd.github+json")
	return &GitHubClient{client: client}
}

type githubSearchResponse struct {
	Items []githubRepoDTO `json:"items"`
}

type githubRepoDTO struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Language    string `json:"language"`
	HTMLURL     string `json:"html_url"`
}

// SearchRepos returns ranked repositories for a query, best first.
func (c *GitHubClient) SearchRepos(ctx context.Context, query string, pageSize int) ([]models.GitHubRepo, error) {
	var resp githubSearchResponse
	err := getJSON(ctx, c.client, "github.search", "/search/repositories", map[string]string{
		"q":        query,
		"sort":     "stars",
		"order":    "desc",
		"per_page": itoa(pageSize),
	}, &resp)
	if err != nil {
		return nil, err
	}
	repos := make([]models.GitHubRepo, len(resp.Items))
	for i, item := range resp.Items {
		repos[i] = models.GitHubRepo{
			Name:        item.FullName,
			Description: item.Description,
			Stars:       item.Stars,
			Language:    item.Language,
			URL:         item.HTMLURL,
		}
	}
	return repos, nil
}
