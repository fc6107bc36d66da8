package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateFixture struct {
	store   *store
	service attendance.AttendanceService
	now     time.Time
	worker  employee.Employee
	admin   employee.Employee
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	f := &gateFixture{
		store: newStore(),
		now:   time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
	}
	f.worker = f.store.addEmployee("Elena Ruiz", "elena", employee.RoleUser)
	f.admin = f.store.addEmployee("Admin", "admin", employee.RoleAdmin)

	clk := clock.Func(func() time.Time { return f.now })
	f.service = NewAttendanceService(
		&fakeTransactor{store: f.store},
		clk,
		&fakeEventRepository{store: f.store},
		&fakeJustificationRepository{store: f.store},
		&fakeEmployeeRepository{store: f.store},
		&fakeScheduleRepository{store: f.store},
	)
	return f
}

func (f *gateFixture) at(hour, minute, second int) {
	f.now = time.Date(f.now.Year(), f.now.Month(), f.now.Day(), hour, minute, second, 0, time.UTC)
}

func (f *gateFixture) workerIdentity() auth.Identity {
	return auth.Identity{EmployeeID: f.worker.ID, Role: auth.RoleUser}
}

func (f *gateFixture) adminIdentity() auth.Identity {
	return auth.Identity{EmployeeID: f.admin.ID, Role: auth.RoleAdmin}
}

func (f *gateFixture) standardSchedule() {
	lunchStart, lunchEnd := "13:00:00", "14:00:00"
	f.store.setSchedule(schedule.Schedule{
		EmployeeID:       f.worker.ID,
		EntryTime:        "09:00:00",
		ExitTime:         "18:00:00",
		LunchStart:       &lunchStart,
		LunchEnd:         &lunchEnd,
		ToleranceMinutes: 5,
	})
}

func ptr(s string) *string { return &s }

func TestPunchNow_AcceptsAtServerTime(t *testing.T) {
	f := newGateFixture(t)
	f.at(8, 55, 12)

	ev, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry", Note: ptr("hello")})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, f.worker.ID, ev.EmployeeID)
	assert.Equal(t, "2024-01-08", ev.Date)
	assert.Equal(t, "08:55:12", ev.Time)
	assert.Equal(t, "entry", ev.Action)
	require.NotNil(t, ev.EmployeeName)
	assert.Equal(t, "Elena Ruiz", *ev.EmployeeName)
	assert.Equal(t, "hello", *ev.Note)
}

func TestPunchNow_OneActionPerDay(t *testing.T) {
	f := newGateFixture(t)
	f.at(9, 0, 0)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	require.NoError(t, err)

	// different time, same day and action
	f.at(9, 30, 0)
	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	assert.ErrorIs(t, err, attendance.ErrDuplicateActionForDay)
	assert.Equal(t, 1, f.store.eventCount())

	// other actions the same day are independent
	f.at(13, 0, 0)
	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "lunch_start"})
	require.NoError(t, err)

	// next day starts fresh
	f.now = time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.eventCount())
}

func TestPunchNow_ConcurrentPunchesAcceptOnce(t *testing.T) {
	f := newGateFixture(t)
	f.at(9, 0, 0)

	const attempts = 12
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "exit"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted, duplicates := 0, 0
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, attendance.ErrDuplicateActionForDay), errors.Is(err, attendance.ErrDuplicateEvent):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, attempts-1, duplicates)
	assert.Equal(t, 1, f.store.eventCount())
}

func TestPunchNow_ToleranceBoundary(t *testing.T) {
	t.Run("at tolerance is accepted without reason", func(t *testing.T) {
		f := newGateFixture(t)
		f.standardSchedule()
		f.at(9, 5, 0)

		_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
		require.NoError(t, err)
		assert.Empty(t, f.store.justificationsSnapshot())
	})

	t.Run("past tolerance without reason is rejected", func(t *testing.T) {
		f := newGateFixture(t)
		f.standardSchedule()
		f.at(9, 6, 0)

		_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
		assert.ErrorIs(t, err, attendance.ErrReasonRequired)
		assert.ErrorIs(t, err, attendance.ErrLateArrivalReasonRequired)
		assert.Contains(t, err.Error(), "late arrival requires reason")
		assert.Equal(t, 0, f.store.eventCount())
		assert.Empty(t, f.store.justificationsSnapshot())
	})

	t.Run("past tolerance with reason records late arrival", func(t *testing.T) {
		f := newGateFixture(t)
		f.standardSchedule()
		f.at(9, 6, 0)

		_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry", Reason: ptr("bus strike")})
		require.NoError(t, err)

		justifications := f.store.justificationsSnapshot()
		require.Len(t, justifications, 1)
		assert.Equal(t, attendance.JustificationLateArrival, justifications[0].Type)
		assert.Equal(t, "bus strike", justifications[0].Description)
		assert.Equal(t, 1, f.store.eventCount())
	})

	t.Run("blank reason counts as missing", func(t *testing.T) {
		f := newGateFixture(t)
		f.standardSchedule()
		f.at(9, 30, 0)

		_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry", Reason: ptr("   ")})
		assert.ErrorIs(t, err, attendance.ErrReasonRequired)
	})
}

func TestPunchNow_WithoutScheduleNeverRequiresReason(t *testing.T) {
	for _, clockIn := range [][3]int{{0, 1, 0}, {9, 6, 0}, {14, 45, 0}, {23, 59, 59}} {
		f := newGateFixture(t)
		f.at(clockIn[0], clockIn[1], clockIn[2])

		_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
		require.NoError(t, err)

		_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "exit"})
		require.NoError(t, err)
	}
}

func TestPunchNow_EarlyDeparture(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	f.at(17, 50, 0)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "exit"})
	assert.ErrorIs(t, err, attendance.ErrReasonRequired)
	assert.ErrorIs(t, err, attendance.ErrEarlyDepartureReasonRequired)
	assert.Equal(t, 0, f.store.eventCount())

	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "exit", Reason: ptr("doctor")})
	require.NoError(t, err)

	justifications := f.store.justificationsSnapshot()
	require.Len(t, justifications, 1)
	assert.Equal(t, attendance.JustificationEarlyDeparture, justifications[0].Type)
}

func TestPunchNow_ExitSecondsBeforeScheduleNeedsReason(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	f.at(17, 59, 30)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "exit"})
	assert.ErrorIs(t, err, attendance.ErrEarlyDepartureReasonRequired)
	assert.Equal(t, 0, f.store.eventCount())
}

func TestPunchNow_EntrySecondsBeforeScheduleIsOnTime(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	f.at(8, 59, 30)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.eventCount())
	assert.Empty(t, f.store.justificationsSnapshot())
}

func TestPunchNow_ExitAtOrAfterScheduleNeedsNoReason(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	f.at(18, 15, 0)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "exit"})
	require.NoError(t, err)
	assert.Empty(t, f.store.justificationsSnapshot())
}

func TestPunchNow_LunchPassesThrough(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()

	f.at(11, 0, 0)
	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "lunch_start"})
	require.NoError(t, err)

	f.at(16, 0, 0)
	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "lunch_end"})
	require.NoError(t, err)
	assert.Empty(t, f.store.justificationsSnapshot())
}

func TestPunchNow_JustificationFeedbackLoop(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	f.at(9, 10, 0)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	require.ErrorIs(t, err, attendance.ErrReasonRequired)

	ev, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry", Reason: ptr("traffic")})
	require.NoError(t, err)
	assert.Equal(t, "09:10:00", ev.Time)

	justifications := f.store.justificationsSnapshot()
	require.Len(t, justifications, 1)
	assert.Equal(t, f.worker.ID, justifications[0].EmployeeID)
	assert.Equal(t, attendance.JustificationLateArrival, justifications[0].Type)
	assert.Equal(t, "traffic", justifications[0].Description)
	assert.Equal(t, "2024-01-08", justifications[0].Date.Format("2006-01-02"))
}

func TestPunchNow_JustificationRolledBackWhenInsertFails(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	f.at(9, 10, 0)

	// insert fails after the justification was written
	events := &failingCreateRepository{fakeEventRepository: fakeEventRepository{store: f.store}}
	svc := NewAttendanceService(
		&fakeTransactor{store: f.store},
		clock.Fixed(f.now),
		events,
		&fakeJustificationRepository{store: f.store},
		&fakeEmployeeRepository{store: f.store},
		&fakeScheduleRepository{store: f.store},
	)

	_, err := svc.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "entry", Reason: ptr("traffic")})
	assert.ErrorIs(t, err, attendance.ErrDuplicateEvent)
	assert.Empty(t, f.store.justificationsSnapshot())
}

type failingCreateRepository struct {
	fakeEventRepository
}

func (f *failingCreateRepository) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	return attendance.Event{}, attendance.ErrDuplicateEvent
}

func TestPunchNow_ResolvesEmployee(t *testing.T) {
	f := newGateFixture(t)

	t.Run("by display name", func(t *testing.T) {
		ev, err := f.service.PunchNow(context.Background(), f.adminIdentity(), attendance.PunchRequest{Name: ptr("Elena Ruiz"), Action: "entry"})
		require.NoError(t, err)
		assert.Equal(t, f.worker.ID, ev.EmployeeID)
	})

	t.Run("by handle", func(t *testing.T) {
		ev, err := f.service.PunchNow(context.Background(), f.adminIdentity(), attendance.PunchRequest{Name: ptr("elena"), Action: "exit"})
		require.NoError(t, err)
		assert.Equal(t, f.worker.ID, ev.EmployeeID)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := f.service.PunchNow(context.Background(), f.adminIdentity(), attendance.PunchRequest{Name: ptr("nobody"), Action: "entry"})
		assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
	})

	t.Run("unknown id", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7()).String()
		_, err := f.service.PunchNow(context.Background(), f.adminIdentity(), attendance.PunchRequest{EmployeeID: &id, Action: "entry"})
		assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := f.service.PunchNow(context.Background(), f.adminIdentity(), attendance.PunchRequest{EmployeeID: ptr("42"), Action: "entry"})
		assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
	})
}

func TestPunchNow_UnknownEmployeeCheckedBeforeAction(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.service.PunchNow(context.Background(), f.adminIdentity(), attendance.PunchRequest{Name: ptr("nobody"), Action: "nap"})
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{Action: "nap"})
	assert.ErrorIs(t, err, attendance.ErrInvalidAction)
}

func TestPunchNow_RegularEmployeeOnlyForSelf(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{EmployeeID: &f.admin.ID, Action: "entry"})
	assert.ErrorIs(t, err, attendance.ErrForbiddenEmployee)

	_, err = f.service.PunchNow(context.Background(), f.workerIdentity(), attendance.PunchRequest{EmployeeID: &f.worker.ID, Action: "entry"})
	require.NoError(t, err)
}

func TestPunchNow_RequiresIdentity(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.service.PunchNow(context.Background(), auth.Identity{}, attendance.PunchRequest{Action: "entry"})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestRecordHistorical(t *testing.T) {
	f := newGateFixture(t)
	f.standardSchedule()
	ctx := context.Background()

	req := attendance.HistoricalRequest{
		EmployeeID: f.worker.ID,
		Date:       ptr("2023-12-01"),
		Action:     "entry",
		Time:       ptr("11:45"),
	}

	// way past tolerance, but no justification is demanded here
	ev, err := f.service.RecordHistorical(ctx, f.adminIdentity(), req)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", ev.Date)
	assert.Equal(t, "11:45:00", ev.Time)

	_, err = f.service.RecordHistorical(ctx, f.adminIdentity(), req)
	assert.ErrorIs(t, err, attendance.ErrDuplicateEvent)

	// only the exact timestamp is unique on this path
	req.Time = ptr("12:00:00")
	_, err = f.service.RecordHistorical(ctx, f.adminIdentity(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.eventCount())
	assert.Empty(t, f.store.justificationsSnapshot())
}

func TestRecordHistorical_DefaultsToNow(t *testing.T) {
	f := newGateFixture(t)
	f.at(7, 15, 30)

	ev, err := f.service.RecordHistorical(context.Background(), f.adminIdentity(), attendance.HistoricalRequest{
		EmployeeID: f.worker.ID,
		Action:     "lunch_end",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", ev.Date)
	assert.Equal(t, "07:15:30", ev.Time)
}

func TestRecordHistorical_Rejections(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	_, err := f.service.RecordHistorical(ctx, f.workerIdentity(), attendance.HistoricalRequest{EmployeeID: f.worker.ID, Action: "entry"})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.service.RecordHistorical(ctx, f.adminIdentity(), attendance.HistoricalRequest{EmployeeID: f.worker.ID, Action: "coffee"})
	assert.ErrorIs(t, err, attendance.ErrInvalidAction)

	_, err = f.service.RecordHistorical(ctx, f.adminIdentity(), attendance.HistoricalRequest{EmployeeID: f.worker.ID, Action: "entry", Time: ptr("25:00")})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "time")

	_, err = f.service.RecordHistorical(ctx, f.adminIdentity(), attendance.HistoricalRequest{EmployeeID: uuid.Must(uuid.NewV7()).String(), Action: "entry"})
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}

func TestListMyEvents_ScopedToCaller(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	_, err := f.service.PunchNow(ctx, f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	require.NoError(t, err)
	_, err = f.service.PunchNow(ctx, f.adminIdentity(), attendance.PunchRequest{Action: "entry"})
	require.NoError(t, err)

	other := f.admin.ID
	list, err := f.service.ListMyEvents(ctx, f.workerIdentity(), attendance.EventFilter{EmployeeID: &other})
	require.NoError(t, err)
	require.Len(t, list.Events, 1)
	assert.Equal(t, f.worker.ID, list.Events[0].EmployeeID)
	assert.Equal(t, "1-1 of 1", list.Showing)
}

func TestListEvents(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	for _, day := range []int{8, 9, 10} {
		f.now = time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC)
		_, err := f.service.PunchNow(ctx, f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
		require.NoError(t, err)
	}

	_, err := f.service.ListEvents(ctx, f.workerIdentity(), attendance.EventFilter{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	list, err := f.service.ListEvents(ctx, f.adminIdentity(), attendance.EventFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.TotalCount)
	assert.Equal(t, 2, list.TotalPages)
	require.Len(t, list.Events, 2)
	assert.Equal(t, "2024-01-10", list.Events[0].Date)
	assert.Equal(t, "2024-01-09", list.Events[1].Date)
}

func TestDeleteEvent_Idempotent(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	ev, err := f.service.PunchNow(ctx, f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteEvent(ctx, f.adminIdentity(), ev.ID))
	assert.Equal(t, 0, f.store.eventCount())

	// deleting again still succeeds
	require.NoError(t, f.service.DeleteEvent(ctx, f.adminIdentity(), ev.ID))

	assert.ErrorIs(t, f.service.DeleteEvent(ctx, f.workerIdentity(), ev.ID), auth.ErrForbidden)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, f.service.DeleteEvent(ctx, f.adminIdentity(), "not-an-id"), &verrs)
}

func TestRecordJustification(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	_, err := f.service.RecordJustification(ctx, f.adminIdentity(), attendance.RecordJustificationRequest{
		EmployeeID: f.worker.ID, Date: "2024-01-08", Type: "other", Description: "  ",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "description")

	j, err := f.service.RecordJustification(ctx, f.adminIdentity(), attendance.RecordJustificationRequest{
		EmployeeID: f.worker.ID, Date: "2024-01-08", Type: "late_lunch", Description: "client call",
	})
	require.NoError(t, err)
	assert.Equal(t, "late_lunch", j.Type)

	list, err := f.service.ListJustifications(ctx, f.adminIdentity(), attendance.JustificationFilter{EmployeeID: &f.worker.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "client call", list[0].Description)
}

func TestAggregateCounts(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	for _, day := range []int{8, 14, 15} {
		f.now = time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC)
		_, err := f.service.PunchNow(ctx, f.workerIdentity(), attendance.PunchRequest{Action: "entry"})
		require.NoError(t, err)
		f.now = time.Date(2024, 1, day, 18, 0, 0, 0, time.UTC)
		_, err = f.service.PunchNow(ctx, f.workerIdentity(), attendance.PunchRequest{Action: "exit"})
		require.NoError(t, err)
	}

	rows, err := f.service.AggregateCounts(ctx, f.adminIdentity(), attendance.AggregateFilter{Group: "week"})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-W03", rows[0]["week"])
	assert.Equal(t, "entry", rows[0]["action"])
	assert.Equal(t, int64(1), rows[0]["count"])
	assert.Equal(t, "2024-W02", rows[2]["week"])
	assert.Equal(t, int64(2), rows[2]["count"])

	_, err = f.service.AggregateCounts(ctx, f.adminIdentity(), attendance.AggregateFilter{Group: "year"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
