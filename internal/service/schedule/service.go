package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
}

func NewScheduleService(scheduleRepo schedule.ScheduleRepository) schedule.ScheduleService {
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
	}
}

// GetSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, caller auth.Identity, employeeID string) (schedule.ScheduleResponse, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if !caller.CanActFor(employeeID) {
		return schedule.ScheduleResponse{}, auth.ErrForbidden
	}
	if !validator.IsValidUUID(employeeID) {
		return schedule.ScheduleResponse{}, schedule.ErrScheduleNotFound
	}

	sch, err := s.scheduleRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return schedule.ToResponse(sch), nil
}

// UpsertSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) UpsertSchedule(ctx context.Context, caller auth.Identity, req schedule.UpsertScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return schedule.ScheduleResponse{}, employee.ErrUnknownEmployee
	}

	saved, err := s.scheduleRepo.Upsert(ctx, req.ToSchedule())
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to save schedule: %w", err)
	}

	slog.Info("Schedule saved",
		"employee_id", saved.EmployeeID,
		"entry_time", saved.EntryTime,
		"exit_time", saved.ExitTime,
		"tolerance_minutes", saved.ToleranceMinutes,
		"updated_by", caller.EmployeeID,
	)
	return schedule.ToResponse(saved), nil
}
