package remote

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/normalize"
)

// NewsClient fetches articles from the news backend.
type NewsClient struct {
	client *resty.Client
}

func NewNewsClient(baseURL string, timeout time.Duration) *NewsClient {
	return &NewsClient{client: newClient(baseURL, timeout)}
}

type newsResponse struct {
	Articles     []articleDTO `json:"articles"`
	TotalResults int          `json:"totalResults"`
	Page         int          `json:"page"`
}

type articleDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage"`
	Source      sourceDTO `json:"source"`
	Author      string    `json:"author"`
	PublishedAt string    `json:"publishedAt"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
}

type sourceDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"icon"`
	Website string `json:"url"`
}

func (d articleDTO) toDomain() models.Article {
	sourceID := d.Source.ID
	if sourceID == "" {
		sourceID = normalize.SourceID(d.Source.Name)
	}
	return models.Article{
		ID:       d.ID,
		Title:    d.Title,
		Summary:  d.Description,
		Content:  d.Content,
		URL:      d.URL,
		ImageURL: d.ImageURL,
		Source: models.Source{
			ID:          sourceID,
			Name:        d.Source.Name,
			IconURL:     d.Source.IconURL,
			Website:     d.Source.Website,
			Reliability: normalize.ClassifyReliability(d.Source.Name),
		},
		Author:      d.Author,
		PublishedAt: normalize.ParseTimestamp(d.PublishedAt),
		Tags:        normalize.ResolveTags(d.Tags),
		Category:    normalize.ResolveCategory(d.Category),
	}
}

func articlesToDomain(dtos []articleDTO) []models.Article {
	articles := make([]models.Article, len(dtos))
	for i, d := range dtos {
		articles[i] = d.toDomain()
	}
	return articles
}

// ListLatest returns the latest articles, newest first.
func (c *NewsClient) ListLatest(ctx context.Context, page, limit int) ([]models.Article, error) {
	var resp newsResponse
	err := getJSON(ctx, c.client, "news.listLatest", "/news/latest", map[string]string{
		"page":  itoa(page),
		"limit": itoa(limit),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return articlesToDomain(resp.Articles), nil
}

// ListByCategory returns articles in one category.
func (c *NewsClient) ListByCategory(ctx context.Context, category models.Category, page, limit int) ([]models.Article, error) {
	var resp newsResponse
	err := getJSON(ctx, c.client, "news.listByCategory",
		"/news/category/"+strings.ToLower(string(category)), map[string]string{
			"page":  itoa(page),
			"limit": itoa(limit),
		}, &resp)
	if err != nil {
		return nil, err
	}
	return articlesToDomain(resp.Articles), nil
}

// Search performs a remote keyword search.
func (c *NewsClient) Search(ctx context.Context, query string, page, limit int) ([]models.Article, error) {
	var resp newsResponse
	err := getJSON(ctx, c.client, "news.search", "/news/search", map[string]string{
		"q":     query,
		"page":  itoa(page),
		"limit": itoa(limit),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return articlesToDomain(resp.Articles), nil
}

// GetByID fetches a single article.
func (c *NewsClient) GetByID(ctx context.Context, id string) (*models.Article, error) {
	var dto articleDTO
	if err := getJSON(ctx, c.client, "news.getById", "/news/"+id, nil, &dto); err != nil {
		return nil, err
	}
	article := dto.toDomain()
	return &article, nil
}
