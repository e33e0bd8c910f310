package store

import (
	"context"
	"testing"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

func testBreach(name string, breachDate time.Time) models.Breach {
	return models.Breach{
		ID:          name,
		Name:        name,
		Domain:      name + ".com",
		BreachDate:  breachDate,
		AddedDate:   breachDate.Add(24 * time.Hour),
		PwnCount:    152445165,
		Description: "Email addresses and passwords were exposed.",
		DataClasses: []string{"Email addresses", "Passwords"},
		IsVerified:  true,
	}
}

func TestUpsertAndGetBreach(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	breachDate := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	want := testBreach("Adobe", breachDate)
	modified := breachDate.Add(48 * time.Hour)
	want.ModifiedDate = &modified

	if err := s.UpsertBreaches(ctx, []models.Breach{want}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetBreach(ctx, "Adobe")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("breach not found")
	}
	if !got.BreachDate.Equal(breachDate) {
		t.Errorf("breach_date: got %v, want %v", got.BreachDate, breachDate)
	}
	if got.ModifiedDate == nil || !got.ModifiedDate.Equal(modified) {
		t.Errorf("modified_date: got %v, want %v", got.ModifiedDate, modified)
	}
	if len(got.DataClasses) != 2 || got.DataClasses[1] != "Passwords" {
		t.Errorf("data_classes: got %v", got.DataClasses)
	}
	if !got.IsVerified {
		t.Error("is_verified lost in round trip")
	}
}

func TestGetBreachNilModifiedDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertBreaches(ctx, []models.Breach{testBreach("Dropbox", time.Now().UTC())}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ := s.GetBreach(ctx, "Dropbox")
	if got.ModifiedDate != nil {
		t.Errorf("modified_date: got %v, want nil", got.ModifiedDate)
	}
}

func TestRecentBreaches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	old := testBreach("OldCorp", now.Add(-90*24*time.Hour))
	fresh := testBreach("FreshCorp", now.Add(-5*24*time.Hour))
	if err := s.UpsertBreaches(ctx, []models.Breach{old, fresh}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.RecentBreaches(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Name != "FreshCorp" {
		t.Errorf("recent: got %v, want only FreshCorp", got)
	}
}

func TestSearchBreachesByNameAndDomain(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertBreaches(ctx, []models.Breach{
		testBreach("LinkedIn", time.Now().UTC()),
		testBreach("MySpace", time.Now().UTC()),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	byName, err := s.SearchBreaches(ctx, "linked")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "LinkedIn" {
		t.Errorf("search by name: got %v", byName)
	}

	byDomain, err := s.SearchBreaches(ctx, "myspace.com")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byDomain) != 1 || byDomain[0].Name != "MySpace" {
		t.Errorf("search by domain: got %v", byDomain)
	}
}

func TestBreachUpsertIsStableByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b := testBreach("Canva", time.Now().UTC())
	if err := s.UpsertBreaches(ctx, []models.Breach{b}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	b.PwnCount = 200000000
	if err := s.UpsertBreaches(ctx, []models.Breach{b}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	n, _ := s.CountBreaches(ctx)
	if n != 1 {
		t.Errorf("count: got %d, want 1", n)
	}
	got, _ := s.GetBreach(ctx, "Canva")
	if got.PwnCount != 200000000 {
		t.Errorf("pwn_count not replaced: got %d", got.PwnCount)
	}
}
