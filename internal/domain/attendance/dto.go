package attendance

import (
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

const maxTextLength = 500

// ========================================
// PUNCH DTOs
// ========================================

// PunchRequest is the strict, server-clocked punch. The employee is taken
// from EmployeeID, else resolved from Name (display name or handle), else
// the caller.
type PunchRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Name       *string `json:"name,omitempty"`
	Action     string  `json:"action"`
	Note       *string `json:"note,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = trimOptional(r.EmployeeID)
	r.Name = trimOptional(r.Name)
	r.Reason = trimOptional(r.Reason)
	r.Action = strings.TrimSpace(r.Action)

	if r.Note != nil && len(*r.Note) > maxTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}
	if r.Reason != nil && len(*r.Reason) > maxTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HistoricalRequest records an event at a caller supplied date and time.
// Date defaults to today and Time to now.
type HistoricalRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD
	Action     string  `json:"action"`
	Time       *string `json:"time,omitempty"` // HH:MM or HH:MM:SS
	Note       *string `json:"note,omitempty"`
}

func (r *HistoricalRequest) Validate() error {
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

	r.Date = trimOptional(r.Date)
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	r.Time = trimOptional(r.Time)
	if r.Time != nil {
		normalized, err := timeofday.Normalize(*r.Time)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: "time must be HH:MM or HH:MM:SS",
			})
		} else {
			r.Time = &normalized
		}
	}

	if r.Note != nil && len(*r.Note) > maxTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	EmployeeHandle *string `json:"employee_handle,omitempty"`
	Date           string  `json:"date"`
	Action         string  `json:"action"`
	Time           string  `json:"time"`
	Note           *string `json:"note"`
	CreatedAt      string  `json:"created_at"`
}

func ToEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		EmployeeHandle: e.EmployeeHandle,
		Date:           e.Date.Format("2006-01-02"),
		Action:         string(e.Action),
		Time:           e.Time,
		Note:           e.Note,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}

// ========================================
// LISTING DTOs
// ========================================

type EventFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Action     *string `json:"action,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EventFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 || f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 1000",
		})
	}
	if f.Limit == 0 {
		f.Limit = 100
	}
	if f.Limit > 0 && f.Page > math.MaxInt/f.Limit {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page is too large",
		})
	}

	f.EmployeeID = trimOptional(f.EmployeeID)
	if err := validateEmployeeID(f.EmployeeID); err != nil {
		errs = append(errs, *err)
	}

	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	f.Action = trimOptional(f.Action)
	if f.Action != nil && !validator.IsInSlice(*f.Action, ActionValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: entry, exit, lunch_start, lunch_end",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListEventResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Events     []EventResponse `json:"events"`
}

// ========================================
// JUSTIFICATION DTOs
// ========================================

type RecordJustificationRequest struct {
	EmployeeID  string `json:"employee_id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (r *RecordJustificationRequest) Validate() error {
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
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if !validator.IsInSlice(r.Type, JustificationTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(JustificationTypeValues, ", "),
		})
	}
	if err := validateDescription(r.Description); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type JustificationFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (f *JustificationFilter) Validate() error {
	var errs validator.ValidationErrors

	f.EmployeeID = trimOptional(f.EmployeeID)
	if err := validateEmployeeID(f.EmployeeID); err != nil {
		errs = append(errs, *err)
	}

	errs = append(errs, validateDates(nil, f.StartDate, f.EndDate)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type JustificationResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	EmployeeHandle *string `json:"employee_handle,omitempty"`
	Date           string  `json:"date"`
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	CreatedAt      string  `json:"created_at"`
}

func ToJustificationResponse(j Justification) JustificationResponse {
	return JustificationResponse{
		ID:             j.ID,
		EmployeeID:     j.EmployeeID,
		EmployeeName:   j.EmployeeName,
		EmployeeHandle: j.EmployeeHandle,
		Date:           j.Date.Format("2006-01-02"),
		Type:           string(j.Type),
		Description:    j.Description,
		CreatedAt:      j.CreatedAt.Format(time.RFC3339),
	}
}

// ========================================
// AGGREGATE DTOs
// ========================================

type AggregateFilter struct {
	Group      string  `json:"group"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Action     *string `json:"action,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (f *AggregateFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Group == "" {
		f.Group = string(GranularityDay)
	}
	if !validator.IsInSlice(f.Group, GranularityValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "group",
			Message: "group must be one of: day, week, month",
		})
	}

	f.Action = trimOptional(f.Action)
	if f.Action != nil && !validator.IsInSlice(*f.Action, ActionValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: entry, exit, lunch_start, lunch_end",
		})
	}

	f.EmployeeID = trimOptional(f.EmployeeID)
	if err := validateEmployeeID(f.EmployeeID); err != nil {
		errs = append(errs, *err)
	}

	errs = append(errs, validateDates(nil, f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GroupCountResponse carries the bucket under a key named after the
// granularity: {"week": "2024-W02", "action": "entry", "count": 3}.
type GroupCountResponse map[string]any

func ToGroupCountResponse(g Granularity, c GroupCount) GroupCountResponse {
	return GroupCountResponse{
		string(g): c.Group,
		"action":  string(c.Action),
		"count":   c.Count,
	}
}

func validateDates(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	fields := []struct {
		name  string
		value *string
	}{
		{"date", date},
		{"start_date", start},
		{"end_date", end},
	}
	parsed := map[string]time.Time{}
	for _, f := range fields {
		if f.value == nil || validator.IsEmpty(*f.value) {
			continue
		}
		d, ok := validator.IsValidDate(*f.value)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must be in YYYY-MM-DD format",
			})
			continue
		}
		parsed[f.name] = d
	}

	s, hasStart := parsed["start_date"]
	e, hasEnd := parsed["end_date"]
	if hasStart && hasEnd && e.Before(s) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be on or after start_date",
		})
	}

	return errs
}

func validateEmployeeID(id *string) *validator.ValidationError {
	if id == nil || validator.IsValidUUID(*id) {
		return nil
	}
	return &validator.ValidationError{
		Field:   "employee_id",
		Message: "employee_id must be a valid UUID",
	}
}

func validateDescription(description string) *validator.ValidationError {
	switch {
	case validator.IsEmpty(description):
		return &validator.ValidationError{Field: "description", Message: "description is required"}
	case len(description) > maxTextLength:
		return &validator.ValidationError{Field: "description", Message: "description must not exceed 500 characters"}
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
