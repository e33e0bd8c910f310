package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

const eventColumns = `id, name, type, description, url, image_url, organizer,
	start_date, end_date, timezone, is_online, location, prizes,
	registration_url, registration_deadline, registered, has_reminder`

// UpsertEvents replaces whole rows by id in a single transaction.
func (s *Store) UpsertEvents(ctx context.Context, events []models.CyberEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO cyber_events (`+eventColumns+`, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, ev := range events {
		var end, deadline *int64
		if ev.EndDate != nil {
			ms := ev.EndDate.UnixMilli()
			end = &ms
		}
		if ev.RegistrationDeadline != nil {
			ms := ev.RegistrationDeadline.UnixMilli()
			deadline = &ms
		}
		_, err := stmt.ExecContext(ctx,
			ev.ID, ev.Name, string(ev.Type), ev.Description, ev.URL, ev.ImageURL,
			ev.Organizer, ev.StartDate.UnixMilli(), end, ev.Timezone, ev.IsOnline,
			ev.Location, ev.Prizes, ev.RegistrationURL, deadline,
			ev.Registered, ev.HasReminder, now,
		)
		if err != nil {
			return fmt.Errorf("upsert event %s: %w", ev.ID, err)
		}
	}
	return tx.Commit()
}

// GetEvent returns the event with the given id, or nil when absent.
func (s *Store) GetEvent(ctx context.Context, id string) (*models.CyberEvent, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM cyber_events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// UpcomingEvents returns events starting after now, soonest first.
func (s *Store) UpcomingEvents(ctx context.Context, now time.Time) ([]models.CyberEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM cyber_events WHERE start_date > ?
		ORDER BY start_date ASC`, now.UnixMilli())
}

// EventsByType returns upcoming events of one type, soonest first.
func (s *Store) EventsByType(ctx context.Context, typ models.EventType, now time.Time) ([]models.CyberEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM cyber_events WHERE type = ? AND start_date > ?
		ORDER BY start_date ASC`, string(typ), now.UnixMilli())
}

// EventsBetween returns events starting within [from, to).
func (s *Store) EventsBetween(ctx context.Context, from, to time.Time) ([]models.CyberEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM cyber_events
		WHERE start_date >= ? AND start_date < ? ORDER BY start_date ASC`,
		from.UnixMilli(), to.UnixMilli())
}

// EventsWithReminders returns events the user set a reminder on.
func (s *Store) EventsWithReminders(ctx context.Context) ([]models.CyberEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM cyber_events WHERE has_reminder = 1
		ORDER BY start_date ASC`)
}

// SetEventReminder flips the reminder flag without rewriting the row.
func (s *Store) SetEventReminder(ctx context.Context, id string, hasReminder bool) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE cyber_events SET has_reminder = ? WHERE id = ?`, hasReminder, id)
	if err != nil {
		return fmt.Errorf("set reminder on %s: %w", id, err)
	}
	return nil
}

// SetEventRegistered flips the registered flag without rewriting the row.
func (s *Store) SetEventRegistered(ctx context.Context, id string, registered bool) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE cyber_events SET registered = ? WHERE id = ?`, registered, id)
	if err != nil {
		return fmt.Errorf("set registered on %s: %w", id, err)
	}
	return nil
}

// DeletePastEvents removes events that started before now.
func (s *Store) DeletePastEvents(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM cyber_events WHERE start_date < ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete past events: %w", err)
	}
	return res.RowsAffected()
}

// CountEvents returns the number of cached events.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cyber_events`).Scan(&n)
	return n, err
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]models.CyberEvent, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CyberEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		result = append(result, *ev)
	}
	return result, rows.Err()
}

func scanEvent(row rowScanner) (*models.CyberEvent, error) {
	var ev models.CyberEvent
	var typ string
	var start int64
	var end, deadline *int64
	err := row.Scan(&ev.ID, &ev.Name, &typ, &ev.Description, &ev.URL, &ev.ImageURL,
		&ev.Organizer, &start, &end, &ev.Timezone, &ev.IsOnline, &ev.Location,
		&ev.Prizes, &ev.RegistrationURL, &deadline, &ev.Registered, &ev.HasReminder)
	if err != nil {
		return nil, err
	}
	ev.Type = models.EventType(typ)
	ev.StartDate = time.UnixMilli(start).UTC()
	if end != nil {
		t := time.UnixMilli(*end).UTC()
		ev.EndDate = &t
	}
	if deadline != nil {
		t := time.UnixMilli(*deadline).UTC()
		ev.RegistrationDeadline = &t
	}
	return &ev, nil
}
