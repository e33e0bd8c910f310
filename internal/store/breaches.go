package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

const breachColumns = `id, name, domain, breach_date, added_date, modified_date,
	pwn_count, description, data_classes, is_verified, is_fabricated,
	is_sensitive, is_retired, is_spam_list, logo_path`

// UpsertBreaches replaces whole rows by id in a single transaction.
func (s *Store) UpsertBreaches(ctx context.Context, breaches []models.Breach) error {
	if len(breaches) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO data_breaches (`+breachColumns+`, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, b := range breaches {
		var modified *int64
		if b.ModifiedDate != nil {
			ms := b.ModifiedDate.UnixMilli()
			modified = &ms
		}
		_, err := stmt.ExecContext(ctx,
			b.ID, b.Name, b.Domain, b.BreachDate.UnixMilli(), b.AddedDate.UnixMilli(), modified,
			b.PwnCount, b.Description, joinList(b.DataClasses, ","),
			b.IsVerified, b.IsFabricated, b.IsSensitive, b.IsRetired, b.IsSpamList,
			b.LogoPath, now,
		)
		if err != nil {
			return fmt.Errorf("upsert breach %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// GetBreach returns the breach with the given id (= name), or nil when absent.
func (s *Store) GetBreach(ctx context.Context, id string) (*models.Breach, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+breachColumns+` FROM data_breaches WHERE id = ?`, id)
	b, err := scanBreach(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBreaches returns all cached breaches, most recent breach first.
func (s *Store) ListBreaches(ctx context.Context) ([]models.Breach, error) {
	return s.queryBreaches(ctx,
		`SELECT `+breachColumns+` FROM data_breaches ORDER BY breach_date DESC`)
}

// RecentBreaches returns breaches that occurred after since.
func (s *Store) RecentBreaches(ctx context.Context, since time.Time) ([]models.Breach, error) {
	return s.queryBreaches(ctx,
		`SELECT `+breachColumns+` FROM data_breaches WHERE breach_date > ?
		ORDER BY breach_date DESC`, since.UnixMilli())
}

// SearchBreaches matches the query case-insensitively against name and
// domain.
func (s *Store) SearchBreaches(ctx context.Context, query string) ([]models.Breach, error) {
	pattern := "%" + query + "%"
	return s.queryBreaches(ctx,
		`SELECT `+breachColumns+` FROM data_breaches
		WHERE name LIKE ? OR domain LIKE ? ORDER BY breach_date DESC`,
		pattern, pattern)
}

// CountBreaches returns the number of cached breaches.
func (s *Store) CountBreaches(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM data_breaches`).Scan(&n)
	return n, err
}

// DeleteAllBreaches clears the breach table.
func (s *Store) DeleteAllBreaches(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM data_breaches`)
	return err
}

func (s *Store) queryBreaches(ctx context.Context, query string, args ...any) ([]models.Breach, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Breach
	for rows.Next() {
		b, err := scanBreach(rows)
		if err != nil {
			return nil, fmt.Errorf("scan breach: %w", err)
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func scanBreach(row rowScanner) (*models.Breach, error) {
	var b models.Breach
	var breachDate, addedDate int64
	var modified *int64
	var dataClasses string
	err := row.Scan(&b.ID, &b.Name, &b.Domain, &breachDate, &addedDate, &modified,
		&b.PwnCount, &b.Description, &dataClasses, &b.IsVerified, &b.IsFabricated,
		&b.IsSensitive, &b.IsRetired, &b.IsSpamList, &b.LogoPath)
	if err != nil {
		return nil, err
	}
	b.BreachDate = time.UnixMilli(breachDate).UTC()
	b.AddedDate = time.UnixMilli(addedDate).UTC()
	if modified != nil {
		t := time.UnixMilli(*modified).UTC()
		b.ModifiedDate = &t
	}
	b.DataClasses = splitList(dataClasses, ",")
	return &b, nil
}
