package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

const cveColumns = `id, description, published_date, last_modified_date,
	cvss_score, severity, attack_vector, affected_products, reference_urls,
	exploit_available, patch_available`

// UpsertCVEs replaces whole rows by id in a single transaction.
func (s *Store) UpsertCVEs(ctx context.Context, entries []models.CVEEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO cve_entries (`+cveColumns+`, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Description, e.PublishedDate.UnixMilli(), e.LastModifiedDate.UnixMilli(),
			e.CVSSScore, string(e.Severity), e.AttackVector,
			joinList(e.AffectedProducts, "|"), joinList(e.References, "|"),
			e.ExploitAvailable, e.PatchAvailable, now,
		)
		if err != nil {
			return fmt.Errorf("upsert cve %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// GetCVE returns the entry with the given CVE id, or nil when absent.
func (s *Store) GetCVE(ctx context.Context, id string) (*models.CVEEntry, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+cveColumns+` FROM cve_entries WHERE id = ?`, id)
	e, err := scanCVE(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListCVEs returns cached entries newest first, optionally filtered by
// severity (empty means all).
func (s *Store) ListCVEs(ctx context.Context, severity models.Severity, limit int) ([]models.CVEEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if severity != "" {
		return s.queryCVEs(ctx,
			`SELECT `+cveColumns+` FROM cve_entries WHERE severity = ?
			ORDER BY published_date DESC LIMIT ?`, string(severity), limit)
	}
	return s.queryCVEs(ctx,
		`SELECT `+cveColumns+` FROM cve_entries
		ORDER BY published_date DESC LIMIT ?`, limit)
}

// SearchCVEs matches the query case-insensitively against id and description.
func (s *Store) SearchCVEs(ctx context.Context, query string) ([]models.CVEEntry, error) {
	pattern := "%" + query + "%"
	return s.queryCVEs(ctx,
		`SELECT `+cveColumns+` FROM cve_entries
		WHERE id LIKE ? OR description LIKE ? ORDER BY published_date DESC`,
		pattern, pattern)
}

// CVEsByProduct matches the product name against the affected-products list.
func (s *Store) CVEsByProduct(ctx context.Context, product string) ([]models.CVEEntry, error) {
	return s.queryCVEs(ctx,
		`SELECT `+cveColumns+` FROM cve_entries
		WHERE affected_products LIKE ? ORDER BY published_date DESC`,
		"%"+product+"%")
}

// CriticalExploitedCVEs returns critical entries with a known exploit.
func (s *Store) CriticalExploitedCVEs(ctx context.Context) ([]models.CVEEntry, error) {
	return s.queryCVEs(ctx,
		`SELECT `+cveColumns+` FROM cve_entries
		WHERE severity = 'CRITICAL' AND exploit_available = 1
		ORDER BY published_date DESC`)
}

// CountCVEs returns the number of cached entries.
func (s *Store) CountCVEs(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cve_entries`).Scan(&n)
	return n, err
}

// EvictCVEs deletes entries beyond the keep most recently cached ones.
func (s *Store) EvictCVEs(ctx context.Context, keep int) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM cve_entries WHERE id NOT IN (
			SELECT id FROM cve_entries ORDER BY cached_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("evict cves: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryCVEs(ctx context.Context, query string, args ...any) ([]models.CVEEntry, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CVEEntry
	for rows.Next() {
		e, err := scanCVE(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cve: %w", err)
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func scanCVE(row rowScanner) (*models.CVEEntry, error) {
	var e models.CVEEntry
	var published, modified int64
	var severity, products, references string
	err := row.Scan(&e.ID, &e.Description, &published, &modified,
		&e.CVSSScore, &severity, &e.AttackVector, &products, &references,
		&e.ExploitAvailable, &e.PatchAvailable)
	if err != nil {
		return nil, err
	}
	e.PublishedDate = time.UnixMilli(published).UTC()
	e.LastModifiedDate = time.UnixMilli(modified).UTC()
	e.Severity = models.Severity(severity)
	e.AffectedProducts = splitList(products, "|")
	e.References = splitList(references, "|")
	return &e, nil
}
