package attendance

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
)

// AttendanceService is the admission gate plus the ledger read side.
type AttendanceService interface {
	// PunchNow records a punch at the server's current date and time,
	// enforcing one action per day and schedule justifications.
	PunchNow(ctx context.Context, caller auth.Identity, req PunchRequest) (EventResponse, error)

	// RecordHistorical records an event with a client supplied date and
	// time (admin only). Only the storage uniqueness rule applies.
	RecordHistorical(ctx context.Context, caller auth.Identity, req HistoricalRequest) (EventResponse, error)

	// ListEvents lists ledger rows with filters (admin only)
	ListEvents(ctx context.Context, caller auth.Identity, filter EventFilter) (ListEventResponse, error)

	// ListMyEvents lists the caller's own events
	ListMyEvents(ctx context.Context, caller auth.Identity, filter EventFilter) (ListEventResponse, error)

	// DeleteEvent removes an event (admin only). Succeeds for unknown ids.
	DeleteEvent(ctx context.Context, caller auth.Identity, id string) error

	// RecordJustification appends to the justification log (admin only)
	RecordJustification(ctx context.Context, caller auth.Identity, req RecordJustificationRequest) (JustificationResponse, error)

	// ListJustifications lists the justification log (admin only)
	ListJustifications(ctx context.Context, caller auth.Identity, filter JustificationFilter) ([]JustificationResponse, error)

	// AggregateCounts counts events per bucket and action (admin only)
	AggregateCounts(ctx context.Context, caller auth.Identity, filter AggregateFilter) ([]GroupCountResponse, error)
}
