package schedule

import "time"

// DefaultToleranceMinutes applies when a schedule is saved without tolerance.
const DefaultToleranceMinutes = 5

// Schedule is the expected working day of one employee. Times are
// "HH:MM:SS" wall-clock values in the organization's timezone.
type Schedule struct {
	EmployeeID       string
	EntryTime        string
	ExitTime         string
	LunchStart       *string
	LunchEnd         *string
	ToleranceMinutes int
	OvertimeStart    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
