package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

func testCVE(id string, score *float64, severity models.Severity, published time.Time) models.CVEEntry {
	return models.CVEEntry{
		ID:               id,
		Description:      "A remote attacker can execute arbitrary code.",
		PublishedDate:    published,
		LastModifiedDate: published,
		CVSSScore:        score,
		Severity:         severity,
		AttackVector:     "NETWORK",
		AffectedProducts: []string{"apache http_server", "nginx nginx"},
		References:       []string{"https://nvd.nist.gov/vuln/detail/" + id},
	}
}

func f64(v float64) *float64 { return &v }

func TestUpsertAndGetCVE(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	published := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	want := testCVE("CVE-2026-1234", f64(9.8), models.SeverityCritical, published)
	if err := s.UpsertCVEs(ctx, []models.CVEEntry{want}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetCVE(ctx, "CVE-2026-1234")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("cve not found")
	}
	if got.CVSSScore == nil || *got.CVSSScore != 9.8 {
		t.Errorf("cvss_score: got %v, want 9.8", got.CVSSScore)
	}
	if got.Severity != models.SeverityCritical {
		t.Errorf("severity: got %q", got.Severity)
	}
	if len(got.AffectedProducts) != 2 || got.AffectedProducts[0] != "apache http_server" {
		t.Errorf("affected_products: got %v", got.AffectedProducts)
	}
	if len(got.References) != 1 {
		t.Errorf("references: got %v", got.References)
	}
}

func TestCVENilScoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := testCVE("CVE-2026-0001", nil, models.SeverityNone, time.Now().UTC())
	if err := s.UpsertCVEs(ctx, []models.CVEEntry{e}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ := s.GetCVE(ctx, "CVE-2026-0001")
	if got.CVSSScore != nil {
		t.Errorf("cvss_score: got %v, want nil", got.CVSSScore)
	}
	if got.Severity != models.SeverityNone {
		t.Errorf("severity: got %q, want NONE", got.Severity)
	}
}

func TestListCVEsBySeverity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []models.CVEEntry{
		testCVE("CVE-2026-0001", f64(9.8), models.SeverityCritical, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		testCVE("CVE-2026-0002", f64(5.0), models.SeverityMedium, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
		testCVE("CVE-2026-0003", f64(9.1), models.SeverityCritical, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)),
	}
	if err := s.UpsertCVEs(ctx, entries); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	critical, err := s.ListCVEs(ctx, models.SeverityCritical, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(critical) != 2 {
		t.Fatalf("critical: got %d, want 2", len(critical))
	}
	if critical[0].ID != "CVE-2026-0003" {
		t.Errorf("ordering: got %s first, want CVE-2026-0003 (newest)", critical[0].ID)
	}

	limited, err := s.ListCVEs(ctx, "", 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d, want 2", len(limited))
	}
}

func TestSearchCVEsByIDAndDescription(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := testCVE("CVE-2026-4444", f64(7.5), models.SeverityHigh, time.Now().UTC())
	e.Description = "Heap overflow in the TLS handshake parser."
	if err := s.UpsertCVEs(ctx, []models.CVEEntry{e}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	byID, _ := s.SearchCVEs(ctx, "2026-4444")
	if len(byID) != 1 {
		t.Errorf("search by id: got %d results", len(byID))
	}
	byText, _ := s.SearchCVEs(ctx, "tls handshake")
	if len(byText) != 1 {
		t.Errorf("search by description: got %d results", len(byText))
	}
}

func TestCVEsByProduct(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertCVEs(ctx, []models.CVEEntry{
		testCVE("CVE-2026-0001", f64(8.0), models.SeverityHigh, time.Now().UTC()),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.CVEsByProduct(ctx, "http_server")
	if err != nil {
		t.Fatalf("by product: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("by product: got %d results, want 1", len(got))
	}
}

func TestCriticalExploitedCVEs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exploited := testCVE("CVE-2026-0001", f64(9.8), models.SeverityCritical, time.Now().UTC())
	exploited.ExploitAvailable = true
	plain := testCVE("CVE-2026-0002", f64(9.8), models.SeverityCritical, time.Now().UTC())
	lowExploited := testCVE("CVE-2026-0003", f64(3.0), models.SeverityLow, time.Now().UTC())
	lowExploited.ExploitAvailable = true

	if err := s.UpsertCVEs(ctx, []models.CVEEntry{exploited, plain, lowExploited}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.CriticalExploitedCVEs(ctx)
	if err != nil {
		t.Fatalf("critical exploited: %v", err)
	}
	if len(got) != 1 || got[0].ID != "CVE-2026-0001" {
		t.Errorf("critical exploited: got %v", got)
	}
}

func TestEvictCVEs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var entries []models.CVEEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, testCVE(fmt.Sprintf("CVE-2026-%04d", i), f64(5.0), models.SeverityMedium, time.Now().UTC()))
	}
	if err := s.UpsertCVEs(ctx, entries); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i := range entries {
		if _, err := s.DB.Exec(`UPDATE cve_entries SET cached_at = ? WHERE id = ?`,
			int64(1000+i), entries[i].ID); err != nil {
			t.Fatalf("set cached_at: %v", err)
		}
	}

	deleted, err := s.EvictCVEs(ctx, 5)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted: got %d, want 3", deleted)
	}
	n, _ := s.CountCVEs(ctx)
	if n != 5 {
		t.Errorf("count: got %d, want 5", n)
	}
}
