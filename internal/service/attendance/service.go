package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/cmlabs-hris/timeclock-backend-go/internal/service/attendance")

type AttendanceServiceImpl struct {
	tx    database.Transactor
	clock clock.Clock
	attendance.EventRepository
	attendance.JustificationRepository
	employee.EmployeeRepository
	schedule.ScheduleRepository
}

func NewAttendanceService(
	tx database.Transactor,
	clk clock.Clock,
	eventRepository attendance.EventRepository,
	justificationRepository attendance.JustificationRepository,
	employeeRepository employee.EmployeeRepository,
	scheduleRepository schedule.ScheduleRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                      tx,
		clock:                   clk,
		EventRepository:         eventRepository,
		JustificationRepository: justificationRepository,
		EmployeeRepository:      employeeRepository,
		ScheduleRepository:      scheduleRepository,
	}
}

// PunchNow implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchNow(ctx context.Context, caller auth.Identity, req attendance.PunchRequest) (attendance.EventResponse, error) {
	ctx, span := tracer.Start(ctx, "attendance.PunchNow")
	defer span.End()

	if err := caller.RequireAuthenticated(); err != nil {
		return attendance.EventResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	emp, err := s.resolveEmployee(ctx, caller, req)
	if err != nil {
		return attendance.EventResponse{}, err
	}
	if !caller.CanActFor(emp.ID) {
		return attendance.EventResponse{}, attendance.ErrForbiddenEmployee
	}

	action, err := attendance.ParseAction(req.Action)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	// Date and time come from the server clock only.
	now := s.clock.Now()
	date := dateOf(now)
	eventTime := timeofday.Format(now)

	span.SetAttributes(
		attribute.String("employee_id", emp.ID),
		attribute.String("action", string(action)),
		attribute.String("date", date.Format("2006-01-02")),
	)

	event := attendance.Event{
		EmployeeID: emp.ID,
		Date:       date,
		Action:     action,
		Time:       eventTime,
		Note:       req.Note,
	}

	var justified *attendance.JustificationType
	var deviationMinutes int
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.EventRepository.LockForDay(txCtx, emp.ID, date, action); err != nil {
			return err
		}

		exists, err := s.EventRepository.ExistsForDay(txCtx, emp.ID, date, action)
		if err != nil {
			return err
		}
		if exists {
			return attendance.ErrDuplicateActionForDay
		}

		sch, err := s.ScheduleRepository.GetByEmployeeID(txCtx, emp.ID)
		switch {
		case errors.Is(err, schedule.ErrScheduleNotFound):
			// Without a schedule there is nothing to deviate from.
		case err != nil:
			return fmt.Errorf("failed to get schedule: %w", err)
		default:
			dev, err := checkDeviation(action, eventTime, sch)
			if err != nil {
				return fmt.Errorf("failed to compare punch with schedule: %w", err)
			}
			if dev != nil {
				deviationMinutes = dev.minutes
				if req.Reason == nil {
					return dev.errNoReason
				}
				if _, err := s.recordJustification(txCtx, emp.ID, date, dev.kind, *req.Reason); err != nil {
					return err
				}
				justified = &dev.kind
			}
		}

		created, err := s.EventRepository.Create(txCtx, event)
		if err != nil {
			return err
		}
		event = created
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrReasonRequired),
			errors.Is(err, attendance.ErrDuplicateActionForDay),
			errors.Is(err, attendance.ErrDuplicateEvent):
			slog.Warn("Attendance punch rejected",
				"employee_id", emp.ID, "action", action, "date", date.Format("2006-01-02"), "time", eventTime, "minutes", deviationMinutes, "reason", err.Error())
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return attendance.EventResponse{}, err
	}

	slog.Info("Attendance punch accepted",
		"employee_id", emp.ID, "action", action, "date", date.Format("2006-01-02"), "time", eventTime, "justified", justified != nil, "minutes", deviationMinutes)

	event.EmployeeName = &emp.Name
	event.EmployeeHandle = emp.Handle
	return attendance.ToEventResponse(event), nil
}

// RecordHistorical implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordHistorical(ctx context.Context, caller auth.Identity, req attendance.HistoricalRequest) (attendance.EventResponse, error) {
	ctx, span := tracer.Start(ctx, "attendance.RecordHistorical")
	defer span.End()

	if err := caller.RequireAdmin(); err != nil {
		return attendance.EventResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	action, err := attendance.ParseAction(req.Action)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	emp, err := s.employeeByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	now := s.clock.Now()
	date := dateOf(now)
	if req.Date != nil {
		date, _ = validator.IsValidDate(*req.Date)
	}
	eventTime := timeofday.Format(now)
	if req.Time != nil {
		eventTime = *req.Time
	}

	created, err := s.EventRepository.Create(ctx, attendance.Event{
		EmployeeID: emp.ID,
		Date:       date,
		Action:     action,
		Time:       eventTime,
		Note:       req.Note,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateEvent) {
			slog.Warn("Historical attendance event rejected",
				"employee_id", emp.ID, "action", action, "date", date.Format("2006-01-02"), "time", eventTime)
		}
		return attendance.EventResponse{}, err
	}

	slog.Info("Historical attendance event recorded",
		"employee_id", emp.ID, "action", action, "date", date.Format("2006-01-02"), "time", eventTime, "recorded_by", caller.EmployeeID)

	created.EmployeeName = &emp.Name
	created.EmployeeHandle = emp.Handle
	return attendance.ToEventResponse(created), nil
}

// ListEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEvents(ctx context.Context, caller auth.Identity, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return attendance.ListEventResponse{}, err
	}
	return s.listEvents(ctx, filter)
}

// ListMyEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMyEvents(ctx context.Context, caller auth.Identity, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return attendance.ListEventResponse{}, err
	}
	filter.EmployeeID = &caller.EmployeeID
	return s.listEvents(ctx, filter)
}

func (s *AttendanceServiceImpl) listEvents(ctx context.Context, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEventResponse{}, err
	}

	events, total, err := s.EventRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListEventResponse{}, fmt.Errorf("failed to list attendance events: %w", err)
	}

	responses := make([]attendance.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, attendance.ToEventResponse(ev))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListEventResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Events:     responses,
	}, nil
}

// DeleteEvent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteEvent(ctx context.Context, caller auth.Identity, id string) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return validator.ValidationErrors{{Field: "id", Message: "id must be a valid event id"}}
	}

	if err := s.EventRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Attendance event deleted", "event_id", id, "deleted_by", caller.EmployeeID)
	return nil
}

// RecordJustification implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordJustification(ctx context.Context, caller auth.Identity, req attendance.RecordJustificationRequest) (attendance.JustificationResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return attendance.JustificationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.JustificationResponse{}, err
	}

	emp, err := s.employeeByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.JustificationResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	created, err := s.recordJustification(ctx, emp.ID, date, attendance.JustificationType(req.Type), req.Description)
	if err != nil {
		return attendance.JustificationResponse{}, err
	}

	created.EmployeeName = &emp.Name
	created.EmployeeHandle = emp.Handle
	return attendance.ToJustificationResponse(created), nil
}

// ListJustifications implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListJustifications(ctx context.Context, caller auth.Identity, filter attendance.JustificationFilter) ([]attendance.JustificationResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	justifications, err := s.JustificationRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list justifications: %w", err)
	}

	responses := make([]attendance.JustificationResponse, 0, len(justifications))
	for _, j := range justifications {
		responses = append(responses, attendance.ToJustificationResponse(j))
	}
	return responses, nil
}

// AggregateCounts implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AggregateCounts(ctx context.Context, caller auth.Identity, filter attendance.AggregateFilter) ([]attendance.GroupCountResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	counts, err := s.EventRepository.CountByGroup(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance events: %w", err)
	}

	granularity := attendance.Granularity(filter.Group)
	responses := make([]attendance.GroupCountResponse, 0, len(counts))
	for _, c := range counts {
		responses = append(responses, attendance.ToGroupCountResponse(granularity, c))
	}
	return responses, nil
}

// recordJustification is the justification log write. An empty description
// is invalid input.
func (s *AttendanceServiceImpl) recordJustification(ctx context.Context, employeeID string, date time.Time, kind attendance.JustificationType, description string) (attendance.Justification, error) {
	if validator.IsEmpty(description) {
		return attendance.Justification{}, validator.ValidationErrors{{Field: "description", Message: "description is required"}}
	}

	created, err := s.JustificationRepository.Create(ctx, attendance.Justification{
		EmployeeID:  employeeID,
		Date:        date,
		Type:        kind,
		Description: description,
	})
	if err != nil {
		return attendance.Justification{}, err
	}

	slog.Info("Justification recorded",
		"employee_id", employeeID, "date", date.Format("2006-01-02"), "type", kind)
	return created, nil
}

// resolveEmployee picks the punch subject: explicit id, else display name or
// handle, else the caller.
func (s *AttendanceServiceImpl) resolveEmployee(ctx context.Context, caller auth.Identity, req attendance.PunchRequest) (employee.Employee, error) {
	switch {
	case req.EmployeeID != nil:
		return s.employeeByID(ctx, *req.EmployeeID)
	case req.Name != nil:
		emp, err := s.EmployeeRepository.FindByNameOrHandle(ctx, *req.Name)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.Employee{}, employee.ErrUnknownEmployee
			}
			return employee.Employee{}, err
		}
		return emp, nil
	default:
		return s.employeeByID(ctx, caller.EmployeeID)
	}
}

func (s *AttendanceServiceImpl) employeeByID(ctx context.Context, id string) (employee.Employee, error) {
	if !validator.IsValidUUID(id) {
		return employee.Employee{}, employee.ErrUnknownEmployee
	}
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrUnknownEmployee
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// dateOf returns the calendar date of t as midnight UTC, the form DATE
// columns round-trip through.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
