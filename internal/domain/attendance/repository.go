package attendance

import (
	"context"
	"time"
)

// EventRepository is the event ledger.
type EventRepository interface {
	// Create inserts an event. Returns ErrDuplicateEvent when the same
	// (employee, date, action, time) already exists.
	Create(ctx context.Context, event Event) (Event, error)

	// LockForDay serializes strict punches for one (employee, date, action)
	// until the surrounding transaction ends.
	LockForDay(ctx context.Context, employeeID string, date time.Time, action Action) error

	// ExistsForDay reports whether any event of action exists for the employee on date.
	ExistsForDay(ctx context.Context, employeeID string, date time.Time, action Action) (bool, error)

	// List returns events newest date then newest time first.
	List(ctx context.Context, filter EventFilter) ([]Event, int64, error)

	// ListForRange returns entry and exit events in [from, to].
	ListForRange(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)

	// Delete removes an event; a missing id is not an error.
	Delete(ctx context.Context, id string) error

	CountByGroup(ctx context.Context, filter AggregateFilter) ([]GroupCount, error)
}

// JustificationRepository is the justification log.
type JustificationRepository interface {
	Create(ctx context.Context, justification Justification) (Justification, error)

	// List returns justifications newest first.
	List(ctx context.Context, filter JustificationFilter) ([]Justification, error)
}
