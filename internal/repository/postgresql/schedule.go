package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const scheduleColumns = `
	employee_id,
	to_char(entry_time, 'HH24:MI:SS'),
	to_char(exit_time, 'HH24:MI:SS'),
	to_char(lunch_start, 'HH24:MI:SS'),
	to_char(lunch_end, 'HH24:MI:SS'),
	tolerance_minutes,
	to_char(overtime_start, 'HH24:MI:SS'),
	created_at, updated_at`

// GetByEmployeeID implements schedule.ScheduleRepository.
func (s *scheduleRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE employee_id = $1`

	var sch schedule.Schedule
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&sch.EmployeeID, &sch.EntryTime, &sch.ExitTime,
		&sch.LunchStart, &sch.LunchEnd, &sch.ToleranceMinutes,
		&sch.OvertimeStart, &sch.CreatedAt, &sch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}

	return sch, nil
}

// Upsert implements schedule.ScheduleRepository.
func (s *scheduleRepositoryImpl) Upsert(ctx context.Context, sch schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO schedules (
			employee_id, entry_time, exit_time, lunch_start, lunch_end,
			tolerance_minutes, overtime_start
		) VALUES (
			$1, $2::time, $3::time, $4::time, $5::time, $6, $7::time
		)
		ON CONFLICT (employee_id) DO UPDATE SET
			entry_time        = EXCLUDED.entry_time,
			exit_time         = EXCLUDED.exit_time,
			lunch_start       = EXCLUDED.lunch_start,
			lunch_end         = EXCLUDED.lunch_end,
			tolerance_minutes = EXCLUDED.tolerance_minutes,
			overtime_start    = EXCLUDED.overtime_start,
			updated_at        = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		sch.EmployeeID,
		sch.EntryTime,
		sch.ExitTime,
		sch.LunchStart,
		sch.LunchEnd,
		sch.ToleranceMinutes,
		sch.OvertimeStart,
	).Scan(&sch.CreatedAt, &sch.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return schedule.Schedule{}, employee.ErrUnknownEmployee
		}
		return schedule.Schedule{}, fmt.Errorf("failed to upsert schedule: %w", err)
	}

	return sch, nil
}
