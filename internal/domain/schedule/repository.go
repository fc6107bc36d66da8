package schedule

import "context"

type ScheduleRepository interface {
	// GetByEmployeeID returns ErrScheduleNotFound when the employee has none.
	GetByEmployeeID(ctx context.Context, employeeID string) (Schedule, error)

	// Upsert replaces the whole schedule, creating it when absent.
	Upsert(ctx context.Context, s Schedule) (Schedule, error)
}
