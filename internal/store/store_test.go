package store

import (
	"database/sql"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestApplySchema(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"news_articles", "data_breaches", "cve_entries", "cyber_events"} {
		var name string
		err := s.DB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestApplySchemaIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := ApplySchema(s.DB); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}

func TestSplitListEmpty(t *testing.T) {
	if got := splitList("", ","); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
	if got := splitList("a|b", "|"); len(got) != 2 {
		t.Errorf("splitList(a|b) = %v, want two items", got)
	}
}
