package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := store.ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewStore(db)
}

func article(id string, published time.Time) models.Article {
	return models.Article{
		ID:          id,
		Title:       "Title " + id,
		Summary:     "Summary " + id,
		URL:         "https://example.com/" + id,
		Source:      models.Source{Name: "Example", Reliability: models.ReliabilityCommunity},
		PublishedAt: published,
		Category:    models.CategoryGeneral,
	}
}

func breach(name string, breachDate time.Time) models.Breach {
	return models.Breach{
		ID:         name,
		Name:       name,
		Domain:     name + ".com",
		BreachDate: breachDate,
		AddedDate:  breachDate,
		PwnCount:   1000,
	}
}

func cve(id string, score float64, severity models.Severity, published time.Time) models.CVEEntry {
	return models.CVEEntry{
		ID:               id,
		Description:      "desc " + id,
		PublishedDate:    published,
		LastModifiedDate: published,
		CVSSScore:        &score,
		Severity:         severity,
	}
}

func event(id string, start time.Time) models.CyberEvent {
	return models.CyberEvent{
		ID:        id,
		Name:      "Event " + id,
		Type:      models.EventCTF,
		StartDate: start,
		Timezone:  "UTC",
		IsOnline:  true,
	}
}
