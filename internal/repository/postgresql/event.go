package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Create implements attendance.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	if event.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Event{}, err
		}
		event.ID = id
	}

	query := `
		INSERT INTO attendance_events (id, employee_id, date, action, time, note)
		VALUES ($1, $2, $3::date, $4, $5::time, $6)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		event.ID,
		event.EmployeeID,
		event.Date.Format("2006-01-02"),
		event.Action,
		event.Time,
		event.Note,
	).Scan(&event.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
		if isForeignKeyViolation(err) {
			return attendance.Event{}, employee.ErrUnknownEmployee
		}
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return event, nil
}

// LockForDay implements attendance.EventRepository. Only meaningful inside
// a transaction: the lock is released at commit or rollback.
func (r *eventRepositoryImpl) LockForDay(ctx context.Context, employeeID string, date time.Time, action attendance.Action) error {
	q := GetQuerier(ctx, r.db)

	key := employeeID + "|" + date.Format("2006-01-02") + "|" + string(action)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("failed to lock attendance day: %w", err)
	}
	return nil
}

// ExistsForDay implements attendance.EventRepository.
func (r *eventRepositoryImpl) ExistsForDay(ctx context.Context, employeeID string, date time.Time, action attendance.Action) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_events
			WHERE employee_id = $1 AND date = $2::date AND action = $3
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02"), action).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance for day: %w", err)
	}
	return exists, nil
}

// List implements attendance.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter attendance.EventFilter) ([]attendance.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("a.date = $%d::date", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Action != nil && *filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("a.action = $%d", argIdx))
		args = append(args, *filter.Action)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_events a WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT
			a.id, a.employee_id, a.date, a.action, to_char(a.time, 'HH24:MI:SS'),
			a.note, a.created_at, e.name, e.handle
		FROM attendance_events a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, a.time DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	events := make([]attendance.Event, 0)
	for rows.Next() {
		var ev attendance.Event
		err := rows.Scan(
			&ev.ID, &ev.EmployeeID, &ev.Date, &ev.Action, &ev.Time,
			&ev.Note, &ev.CreatedAt, &ev.EmployeeName, &ev.EmployeeHandle,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListForRange implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, action, to_char(time, 'HH24:MI:SS'), note, created_at
		FROM attendance_events
		WHERE employee_id = $1
		  AND date BETWEEN $2::date AND $3::date
		  AND action IN ('entry', 'exit')
		ORDER BY date, time
	`
	rows, err := q.Query(ctx, query, employeeID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events for range: %w", err)
	}
	defer rows.Close()

	events := make([]attendance.Event, 0)
	for rows.Next() {
		var ev attendance.Event
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Date, &ev.Action, &ev.Time, &ev.Note, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Delete implements attendance.EventRepository.
func (r *eventRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM attendance_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete attendance event: %w", err)
	}
	return nil
}

// groupExpressions mirror attendance.Granularity.GroupKey.
var groupExpressions = map[attendance.Granularity]string{
	attendance.GranularityDay:   `to_char(a.date, 'YYYY-MM-DD')`,
	attendance.GranularityWeek:  `to_char(a.date, 'IYYY-"W"IW')`,
	attendance.GranularityMonth: `to_char(a.date, 'YYYY-MM')`,
}

// CountByGroup implements attendance.EventRepository.
func (r *eventRepositoryImpl) CountByGroup(ctx context.Context, filter attendance.AggregateFilter) ([]attendance.GroupCount, error) {
	q := GetQuerier(ctx, r.db)

	groupExpr, ok := groupExpressions[attendance.Granularity(filter.Group)]
	if !ok {
		groupExpr = groupExpressions[attendance.GranularityDay]
	}

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Action != nil && *filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("a.action = $%d", argIdx))
		args = append(args, *filter.Action)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
	}

	query := fmt.Sprintf(`
		SELECT %s AS grp, a.action, COUNT(*) AS cnt
		FROM attendance_events a
		WHERE %s
		GROUP BY grp, a.action
		ORDER BY grp DESC, a.action
	`, groupExpr, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance events: %w", err)
	}
	defer rows.Close()

	counts := make([]attendance.GroupCount, 0)
	for rows.Next() {
		var c attendance.GroupCount
		if err := rows.Scan(&c.Group, &c.Action, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts = append(counts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
