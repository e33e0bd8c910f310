package repository

import (
	"context"
	"time"

	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/metrics"
	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/store"
)

// EventSource is the remote fetch capability the events repository needs.
type EventSource interface {
	ListUpcoming(ctx context.Context, limit int) ([]models.CyberEvent, error)
}

// EventsRepository reconciles cached cyber events with the CTFtime-style API.
type EventsRepository struct {
	store  *store.Store
	source EventSource
}

func NewEventsRepository(s *store.Store, source EventSource) *EventsRepository {
	return &EventsRepository{store: s, source: source}
}

// GetUpcoming streams upcoming events, cache first, soonest first.
func (r *EventsRepository) GetUpcoming(ctx context.Context, forceRefresh bool) <-chan Result[[]models.CyberEvent] {
	return streamFeed(ctx, forceRefresh, feedFuncs[models.CyberEvent]{
		entity: "event",
		queryCache: func(ctx context.Context) ([]models.CyberEvent, error) {
			events, err := r.store.UpcomingEvents(ctx, time.Now())
			if err != nil {
				return nil, &errs.StoreError{Op: "upcoming events", Err: err}
			}
			return events, nil
		},
		fetch: func(ctx context.Context) ([]models.CyberEvent, error) {
			return r.source.ListUpcoming(ctx, defaultEventLimit)
		},
		save: func(ctx context.Context, events []models.CyberEvent) error {
			if err := r.store.UpsertEvents(ctx, events); err != nil {
				return &errs.StoreError{Op: "upsert events", Err: err}
			}
			return nil
		},
	})
}

const defaultEventLimit = 50

// GetByType returns cached upcoming events of one type.
func (r *EventsRepository) GetByType(ctx context.Context, typ models.EventType) Result[[]models.CyberEvent] {
	events, err := r.store.EventsByType(ctx, typ, time.Now())
	if err != nil {
		return Fail[[]models.CyberEvent](&errs.StoreError{Op: "events by type", Err: err})
	}
	return Ok(events)
}

// GetForMonth returns cached events starting in a given month.
func (r *EventsRepository) GetForMonth(ctx context.Context, year int, month time.Month) Result[[]models.CyberEvent] {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	events, err := r.store.EventsBetween(ctx, from, to)
	if err != nil {
		return Fail[[]models.CyberEvent](&errs.StoreError{Op: "events for month", Err: err})
	}
	return Ok(events)
}

// ToggleReminder flips the reminder flag and returns the new value. Fails
// with NotFoundError when the event is not cached.
func (r *EventsRepository) ToggleReminder(ctx context.Context, id string) Result[bool] {
	event, err := r.store.GetEvent(ctx, id)
	if err != nil {
		return Fail[bool](&errs.StoreError{Op: "get event", Err: err})
	}
	if event == nil {
		return Fail[bool](&errs.NotFoundError{Kind: "event", ID: id})
	}
	newState := !event.HasReminder
	if err := r.store.SetEventReminder(ctx, id, newState); err != nil {
		return Fail[bool](&errs.StoreError{Op: "set reminder", Err: err})
	}
	return Ok(newState)
}

// ToggleRegistered flips the registered flag and returns the new value.
// Fails with NotFoundError when the event is not cached.
func (r *EventsRepository) ToggleRegistered(ctx context.Context, id string) Result[bool] {
	event, err := r.store.GetEvent(ctx, id)
	if err != nil {
		return Fail[bool](&errs.StoreError{Op: "get event", Err: err})
	}
	if event == nil {
		return Fail[bool](&errs.NotFoundError{Kind: "event", ID: id})
	}
	newState := !event.Registered
	if err := r.store.SetEventRegistered(ctx, id, newState); err != nil {
		return Fail[bool](&errs.StoreError{Op: "set registered", Err: err})
	}
	return Ok(newState)
}

// GetWithReminders returns events the user set a reminder on.
func (r *EventsRepository) GetWithReminders(ctx context.Context) Result[[]models.CyberEvent] {
	events, err := r.store.EventsWithReminders(ctx)
	if err != nil {
		return Fail[[]models.CyberEvent](&errs.StoreError{Op: "events with reminders", Err: err})
	}
	return Ok(events)
}

// CleanupPast removes events that already started.
func (r *EventsRepository) CleanupPast(ctx context.Context) error {
	deleted, err := r.store.DeletePastEvents(ctx, time.Now())
	if err != nil {
		return &errs.StoreError{Op: "delete past events", Err: err}
	}
	metrics.Evictions.WithLabelValues("event").Add(float64(deleted))
	return nil
}

// CachedCount returns how many events are cached locally.
func (r *EventsRepository) CachedCount(ctx context.Context) (int, error) {
	n, err := r.store.CountEvents(ctx)
	if err != nil {
		return 0, &errs.StoreError{Op: "count events", Err: err}
	}
	return n, nil
}
