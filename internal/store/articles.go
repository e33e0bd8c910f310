package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/normalize"
)

const articleColumns = `id, title, summary, content, url, image_url,
	source_name, source_icon_url, source_website, source_reliability,
	author, published_at, tags, category, saved, read`

// UpsertArticles replaces whole rows by id in a single transaction. Calling
// it twice with the same set is a no-op for the observable state apart from
// cached_at.
func (s *Store) UpsertArticles(ctx context.Context, articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO news_articles (`+articleColumns+`, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, a := range articles {
		tags := make([]string, len(a.Tags))
		for i, t := range a.Tags {
			tags[i] = string(t)
		}
		_, err := stmt.ExecContext(ctx,
			a.ID, a.Title, a.Summary, a.Content, a.URL, a.ImageURL,
			a.Source.Name, a.Source.IconURL, a.Source.Website, string(a.Source.Reliability),
			a.Author, a.PublishedAt.UnixMilli(), joinList(tags, ","), string(a.Category),
			a.Saved, a.Read, now,
		)
		if err != nil {
			return fmt.Errorf("upsert article %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// GetArticle returns the article with the given id, or nil when absent.
func (s *Store) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM news_articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListArticles returns cached articles newest first, optionally filtered by
// category (empty means all).
func (s *Store) ListArticles(ctx context.Context, category models.Category) ([]models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news_articles ORDER BY published_at DESC`
	args := []any{}
	if category != "" {
		query = `SELECT ` + articleColumns + ` FROM news_articles WHERE category = ? ORDER BY published_at DESC`
		args = append(args, string(category))
	}
	return s.queryArticles(ctx, query, args...)
}

// SavedArticles returns articles the user saved, newest first.
func (s *Store) SavedArticles(ctx context.Context) ([]models.Article, error) {
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM news_articles WHERE saved = 1 ORDER BY published_at DESC`)
}

// SearchArticles matches the query case-insensitively against title and
// summary, newest first.
func (s *Store) SearchArticles(ctx context.Context, query string) ([]models.Article, error) {
	pattern := "%" + query + "%"
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM news_articles
		WHERE title LIKE ? OR summary LIKE ? ORDER BY published_at DESC`,
		pattern, pattern)
}

// CountArticles returns the number of cached articles.
func (s *Store) CountArticles(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM news_articles`).Scan(&n)
	return n, err
}

// SetArticleSaved flips the saved flag without rewriting the row.
func (s *Store) SetArticleSaved(ctx context.Context, id string, saved bool) error {
	return s.setArticleFlag(ctx, id, "saved", saved)
}

// SetArticleRead flips the read flag without rewriting the row.
func (s *Store) SetArticleRead(ctx context.Context, id string, read bool) error {
	return s.setArticleFlag(ctx, id, "read", read)
}

func (s *Store) setArticleFlag(ctx context.Context, id, column string, value bool) error {
	// column is one of the fixed flag names above, never caller input.
	_, err := s.DB.ExecContext(ctx,
		`UPDATE news_articles SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("set %s on %s: %w", column, id, err)
	}
	return nil
}

// EvictUnsavedArticles deletes unsaved articles beyond the keep most recently
// cached ones. Saved articles are exempt and do not count toward keep.
func (s *Store) EvictUnsavedArticles(ctx context.Context, keep int) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM news_articles WHERE saved = 0 AND id NOT IN (
			SELECT id FROM news_articles WHERE saved = 0
			ORDER BY cached_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("evict articles: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAllArticles clears the article table.
func (s *Store) DeleteAllArticles(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM news_articles`)
	return err
}

func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var reliability, tags, category string
	var publishedAt int64
	err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.URL, &a.ImageURL,
		&a.Source.Name, &a.Source.IconURL, &a.Source.Website, &reliability,
		&a.Author, &publishedAt, &tags, &category, &a.Saved, &a.Read)
	if err != nil {
		return nil, err
	}
	a.Source.ID = normalize.SourceID(a.Source.Name)
	a.Source.Reliability = models.Reliability(reliability)
	a.PublishedAt = time.UnixMilli(publishedAt).UTC()
	for _, t := range splitList(tags, ",") {
		a.Tags = append(a.Tags, models.Tag(t))
	}
	a.Category = models.Category(category)
	return &a, nil
}
