package schedule

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
)

type ScheduleService interface {
	// GetSchedule returns the schedule of an employee (admin, or the employee)
	GetSchedule(ctx context.Context, caller auth.Identity, employeeID string) (ScheduleResponse, error)

	// UpsertSchedule replaces an employee's schedule (admin only)
	UpsertSchedule(ctx context.Context, caller auth.Identity, req UpsertScheduleRequest) (ScheduleResponse, error)
}
