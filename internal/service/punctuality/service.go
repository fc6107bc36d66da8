package punctuality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punctuality"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/cmlabs-hris/timeclock-backend-go/internal/service/punctuality")

func startSpan(ctx context.Context, name string, req punctuality.Request) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("employee_id", req.EmployeeID),
		attribute.String("group", req.Group),
		attribute.String("start_date", req.StartDate),
		attribute.String("end_date", req.EndDate),
	))
}

type PunctualityServiceImpl struct {
	attendance.EventRepository
	schedule.ScheduleRepository
}

func NewPunctualityService(eventRepository attendance.EventRepository, scheduleRepository schedule.ScheduleRepository) punctuality.PunctualityService {
	return &PunctualityServiceImpl{
		EventRepository:    eventRepository,
		ScheduleRepository: scheduleRepository,
	}
}

// Aggregate implements punctuality.PunctualityService.
func (s *PunctualityServiceImpl) Aggregate(ctx context.Context, caller auth.Identity, req punctuality.Request) ([]punctuality.BucketResponse, error) {
	ctx, span := startSpan(ctx, "punctuality.Aggregate", req)
	defer span.End()

	days, err := s.days(ctx, caller, &req)
	if err != nil {
		return nil, err
	}

	buckets := groupDays(days, attendance.Granularity(req.Group))
	span.SetAttributes(attribute.Int("days", len(days)), attribute.Int("buckets", len(buckets)))

	responses := make([]punctuality.BucketResponse, 0, len(buckets))
	for _, b := range buckets {
		responses = append(responses, punctuality.ToBucketResponse(b))
	}
	return responses, nil
}

// Daily implements punctuality.PunctualityService.
func (s *PunctualityServiceImpl) Daily(ctx context.Context, caller auth.Identity, req punctuality.Request) ([]punctuality.DayDeviationResponse, error) {
	ctx, span := startSpan(ctx, "punctuality.Daily", req)
	defer span.End()

	days, err := s.days(ctx, caller, &req)
	if err != nil {
		return nil, err
	}

	responses := make([]punctuality.DayDeviationResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, punctuality.ToDayDeviationResponse(d))
	}
	return responses, nil
}

// ExportXLSX implements punctuality.PunctualityService.
func (s *PunctualityServiceImpl) ExportXLSX(ctx context.Context, caller auth.Identity, req punctuality.Request) (punctuality.Report, error) {
	ctx, span := startSpan(ctx, "punctuality.ExportXLSX", req)
	defer span.End()

	days, err := s.days(ctx, caller, &req)
	if err != nil {
		return punctuality.Report{}, err
	}
	buckets := groupDays(days, attendance.Granularity(req.Group))

	summary := export.Sheet{
		Name: "Summary",
		Header: []string{
			req.Group, "on_time", "late", "early", "early_exit", "overtime",
			"avg_entry_diff_min", "avg_exit_diff_min",
		},
	}
	for _, b := range buckets {
		summary.Rows = append(summary.Rows, []any{
			b.Group, b.OnTime, b.Late, b.Early, b.EarlyExit, b.Overtime,
			cell(b.AvgEntryDiffMinutes), cell(b.AvgExitDiffMinutes),
		})
	}

	daily := export.Sheet{
		Name: "Daily",
		Header: []string{
			"date", "first_entry", "last_exit", "entry_diff", "exit_diff",
			"entry_status", "exit_status",
		},
	}
	for _, d := range days {
		daily.Rows = append(daily.Rows, []any{
			d.Date.Format("2006-01-02"), cell(d.FirstEntry), cell(d.LastExit),
			cell(d.EntryDiff), cell(d.ExitDiff), string(d.EntryStatus), string(d.ExitStatus),
		})
	}

	content, err := export.XLSX(summary, daily)
	if err != nil {
		return punctuality.Report{}, fmt.Errorf("failed to render punctuality workbook: %w", err)
	}

	slog.Info("Punctuality workbook exported",
		"employee_id", req.EmployeeID, "start_date", req.StartDate, "end_date", req.EndDate, "group", req.Group, "bytes", len(content))

	return punctuality.Report{
		Filename:    fmt.Sprintf("punctuality_%s_%s_%s.xlsx", req.Group, req.StartDate, req.EndDate),
		ContentType: export.ContentTypeXLSX,
		Content:     content,
	}, nil
}

// days loads the schedule and the range's entry/exit events and derives the
// per-day deviations. req is validated in place.
func (s *PunctualityServiceImpl) days(ctx context.Context, caller auth.Identity, req *punctuality.Request) ([]punctuality.DayDeviation, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid id"}}
	}

	sch, err := s.ScheduleRepository.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return nil, punctuality.ErrNoSchedule
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	events, err := s.EventRepository.ListForRange(ctx, req.EmployeeID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}

	days, err := computeDays(events, sch)
	if err != nil {
		return nil, fmt.Errorf("failed to compute deviations: %w", err)
	}
	return days, nil
}

func cell[T any](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}
