package schedule

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type UpsertScheduleRequest struct {
	EmployeeID       string  `json:"-"`
	EntryTime        string  `json:"entry_time"`
	ExitTime         string  `json:"exit_time"`
	LunchStart       *string `json:"lunch_start,omitempty"`
	LunchEnd         *string `json:"lunch_end,omitempty"`
	ToleranceMinutes *int    `json:"tolerance_minutes,omitempty"`
	OvertimeStart    *string `json:"overtime_start,omitempty"`
}

// Validate normalizes every time to HH:MM:SS and applies the default
// tolerance. Entry after exit is accepted.
func (r *UpsertScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	required := []struct {
		field string
		value *string
	}{
		{"entry_time", &r.EntryTime},
		{"exit_time", &r.ExitTime},
	}
	for _, f := range required {
		if validator.IsEmpty(*f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
			continue
		}
		normalized, err := timeofday.Normalize(*f.value)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " must be HH:MM or HH:MM:SS",
			})
			continue
		}
		*f.value = normalized
	}

	optional := []struct {
		field string
		value **string
	}{
		{"lunch_start", &r.LunchStart},
		{"lunch_end", &r.LunchEnd},
		{"overtime_start", &r.OvertimeStart},
	}
	for _, f := range optional {
		if *f.value == nil {
			continue
		}
		if validator.IsEmpty(**f.value) {
			*f.value = nil
			continue
		}
		normalized, err := timeofday.Normalize(**f.value)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " must be HH:MM or HH:MM:SS",
			})
			continue
		}
		*f.value = &normalized
	}

	if r.ToleranceMinutes == nil {
		tolerance := DefaultToleranceMinutes
		r.ToleranceMinutes = &tolerance
	} else if *r.ToleranceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "tolerance_minutes",
			Message: "tolerance_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToSchedule builds the entity from a validated request.
func (r *UpsertScheduleRequest) ToSchedule() Schedule {
	return Schedule{
		EmployeeID:       r.EmployeeID,
		EntryTime:        r.EntryTime,
		ExitTime:         r.ExitTime,
		LunchStart:       r.LunchStart,
		LunchEnd:         r.LunchEnd,
		ToleranceMinutes: *r.ToleranceMinutes,
		OvertimeStart:    r.OvertimeStart,
	}
}

type ScheduleResponse struct {
	EmployeeID       string  `json:"employee_id"`
	EntryTime        string  `json:"entry_time"`
	ExitTime         string  `json:"exit_time"`
	LunchStart       *string `json:"lunch_start"`
	LunchEnd         *string `json:"lunch_end"`
	ToleranceMinutes int     `json:"tolerance_minutes"`
	OvertimeStart    *string `json:"overtime_start"`
	UpdatedAt        string  `json:"updated_at"`
}

func ToResponse(s Schedule) ScheduleResponse {
	return ScheduleResponse{
		EmployeeID:       s.EmployeeID,
		EntryTime:        s.EntryTime,
		ExitTime:         s.ExitTime,
		LunchStart:       s.LunchStart,
		LunchEnd:         s.LunchEnd,
		ToleranceMinutes: s.ToleranceMinutes,
		OvertimeStart:    s.OvertimeStart,
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}
}
