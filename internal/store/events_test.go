package store

import (
	"context"
	"testing"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

func testEvent(id string, typ models.EventType, start time.Time) models.CyberEvent {
	return models.CyberEvent{
		ID:        id,
		Name:      "Event " + id,
		Type:      typ,
		URL:       "https://ctftime.org/event/" + id,
		Organizer: "OpenToAll",
		StartDate: start,
		Timezone:  "UTC",
		IsOnline:  true,
	}
}

func TestUpsertAndGetEvent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	want := testEvent("e1", models.EventCTF, start)
	end := start.Add(48 * time.Hour)
	want.EndDate = &end

	if err := s.UpsertEvents(ctx, []models.CyberEvent{want}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetEvent(ctx, "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("event not found")
	}
	if got.Type != models.EventCTF {
		t.Errorf("type: got %q", got.Type)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("start_date: got %v, want %v", got.StartDate, start)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("end_date: got %v, want %v", got.EndDate, end)
	}
	if got.RegistrationDeadline != nil {
		t.Errorf("registration_deadline: got %v, want nil", got.RegistrationDeadline)
	}
}

func TestUpcomingEventsExcludesPast(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := testEvent("past", models.EventCTF, now.Add(-24*time.Hour))
	soon := testEvent("soon", models.EventCTF, now.Add(24*time.Hour))
	later := testEvent("later", models.EventConference, now.Add(240*time.Hour))
	if err := s.UpsertEvents(ctx, []models.CyberEvent{later, past, soon}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.UpcomingEvents(ctx, now)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("upcoming: got %d events, want 2", len(got))
	}
	if got[0].ID != "soon" {
		t.Errorf("ordering: got %s first, want soon (soonest)", got[0].ID)
	}
}

func TestEventsByType(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertEvents(ctx, []models.CyberEvent{
		testEvent("ctf1", models.EventCTF, now.Add(24*time.Hour)),
		testEvent("conf1", models.EventConference, now.Add(48*time.Hour)),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.EventsByType(ctx, models.EventCTF, now)
	if err != nil {
		t.Fatalf("by type: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ctf1" {
		t.Errorf("by type: got %v", got)
	}
}

func TestEventsBetween(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	if err := s.UpsertEvents(ctx, []models.CyberEvent{
		testEvent("before", models.EventCTF, from.Add(-time.Hour)),
		testEvent("inside", models.EventCTF, from.Add(72*time.Hour)),
		testEvent("boundary", models.EventCTF, to),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.EventsBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("between: %v", err)
	}
	if len(got) != 1 || got[0].ID != "inside" {
		t.Errorf("between: got %v, want only inside", got)
	}
}

func TestEventReminderFlag(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertEvents(ctx, []models.CyberEvent{
		testEvent("e1", models.EventCTF, time.Now().UTC().Add(time.Hour)),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.SetEventReminder(ctx, "e1", true); err != nil {
		t.Fatalf("set reminder: %v", err)
	}

	got, err := s.EventsWithReminders(ctx)
	if err != nil {
		t.Fatalf("with reminders: %v", err)
	}
	if len(got) != 1 || !got[0].HasReminder {
		t.Errorf("with reminders: got %v", got)
	}

	if err := s.SetEventReminder(ctx, "e1", false); err != nil {
		t.Fatalf("clear reminder: %v", err)
	}
	got, _ = s.EventsWithReminders(ctx)
	if len(got) != 0 {
		t.Errorf("with reminders after clear: got %v", got)
	}
}

func TestDeletePastEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertEvents(ctx, []models.CyberEvent{
		testEvent("old1", models.EventCTF, now.Add(-48*time.Hour)),
		testEvent("old2", models.EventCTF, now.Add(-24*time.Hour)),
		testEvent("next", models.EventCTF, now.Add(24*time.Hour)),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := s.DeletePastEvents(ctx, now)
	if err != nil {
		t.Fatalf("delete past: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted: got %d, want 2", deleted)
	}
	n, _ := s.CountEvents(ctx)
	if n != 1 {
		t.Errorf("count: got %d, want 1", n)
	}
}
