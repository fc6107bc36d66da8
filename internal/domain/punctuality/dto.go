package punctuality

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type Request struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate    string `json:"end_date"`   // YYYY-MM-DD, inclusive
	Group      string `json:"group"`      // day, week, month

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *Request) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if d, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	} else {
		r.From = d
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if d, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	} else {
		r.To = d
	}

	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be on or after start_date",
		})
	}

	if r.Group == "" {
		r.Group = string(attendance.GranularityDay)
	}
	if !validator.IsInSlice(r.Group, attendance.GranularityValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "group",
			Message: "group must be one of: day, week, month",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BucketResponse struct {
	Group               string `json:"group"`
	OnTime              int    `json:"on_time"`
	Late                int    `json:"late"`
	Early               int    `json:"early"`
	EarlyExit           int    `json:"early_exit"`
	Overtime            int    `json:"overtime"`
	AvgEntryDiffMinutes *int   `json:"avg_entry_diff_min"`
	AvgExitDiffMinutes  *int   `json:"avg_exit_diff_min"`
}

func ToBucketResponse(b Bucket) BucketResponse {
	return BucketResponse{
		Group:               b.Group,
		OnTime:              b.OnTime,
		Late:                b.Late,
		Early:               b.Early,
		EarlyExit:           b.EarlyExit,
		Overtime:            b.Overtime,
		AvgEntryDiffMinutes: b.AvgEntryDiffMinutes,
		AvgExitDiffMinutes:  b.AvgExitDiffMinutes,
	}
}

type DayDeviationResponse struct {
	Date        string  `json:"date"`
	FirstEntry  *string `json:"first_entry"`
	LastExit    *string `json:"last_exit"`
	EntryDiff   *int    `json:"entry_diff"`
	ExitDiff    *int    `json:"exit_diff"`
	EntryStatus string  `json:"entry_status"`
	ExitStatus  string  `json:"exit_status"`
}

func ToDayDeviationResponse(d DayDeviation) DayDeviationResponse {
	return DayDeviationResponse{
		Date:        d.Date.Format("2006-01-02"),
		FirstEntry:  d.FirstEntry,
		LastExit:    d.LastExit,
		EntryDiff:   d.EntryDiff,
		ExitDiff:    d.ExitDiff,
		EntryStatus: string(d.EntryStatus),
		ExitStatus:  string(d.ExitStatus),
	}
}
