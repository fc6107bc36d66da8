package attendance

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/google/uuid"
)

// store backs every fake repository so the fake transactor can roll back.
type store struct {
	mu             sync.Mutex
	events         []attendance.Event
	justifications []attendance.Justification
	employees      []employee.Employee
	schedules      map[string]schedule.Schedule
}

func newStore() *store {
	return &store{schedules: map[string]schedule.Schedule{}}
}

func (s *store) addEmployee(name string, handle string, role employee.Role) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := handle
	emp := employee.Employee{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Handle:    &h,
		Role:      role,
		CreatedAt: time.Now(),
	}
	s.employees = append(s.employees, emp)
	return emp
}

func (s *store) setSchedule(sch schedule.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[sch.EmployeeID] = sch
}

func (s *store) eventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *store) justificationsSnapshot() []attendance.Justification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.justifications)
}

// fakeTransactor serializes units of work and restores the store on error,
// standing in for the advisory lock plus transaction.
type fakeTransactor struct {
	mu    sync.Mutex
	store *store
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.store.mu.Lock()
	events := slices.Clone(f.store.events)
	justifications := slices.Clone(f.store.justifications)
	f.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.store.mu.Lock()
		f.store.events = events
		f.store.justifications = justifications
		f.store.mu.Unlock()
		return err
	}
	return nil
}

type fakeEventRepository struct {
	store *store
}

func (f *fakeEventRepository) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, ev := range f.store.events {
		if ev.EmployeeID == event.EmployeeID && ev.Date.Equal(event.Date) && ev.Action == event.Action && ev.Time == event.Time {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
	}
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now()
	f.store.events = append(f.store.events, event)
	return event, nil
}

func (f *fakeEventRepository) LockForDay(ctx context.Context, employeeID string, date time.Time, action attendance.Action) error {
	return nil
}

func (f *fakeEventRepository) ExistsForDay(ctx context.Context, employeeID string, date time.Time, action attendance.Action) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, ev := range f.store.events {
		if ev.EmployeeID == employeeID && ev.Date.Equal(date) && ev.Action == action {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepository) List(ctx context.Context, filter attendance.EventFilter) ([]attendance.Event, int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []attendance.Event
	for _, ev := range f.store.events {
		if filter.EmployeeID != nil && ev.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Date != nil && ev.Date.Format("2006-01-02") != *filter.Date {
			continue
		}
		if filter.Action != nil && string(ev.Action) != *filter.Action {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time > out[j].Time
	})
	total := int64(len(out))
	start := min((filter.Page-1)*filter.Limit, len(out))
	end := min(start+filter.Limit, len(out))
	return out[start:end], total, nil
}

func (f *fakeEventRepository) ListForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	return nil, fmt.Errorf("not used")
}

func (f *fakeEventRepository) Delete(ctx context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.events = slices.DeleteFunc(f.store.events, func(ev attendance.Event) bool { return ev.ID == id })
	return nil
}

func (f *fakeEventRepository) CountByGroup(ctx context.Context, filter attendance.AggregateFilter) ([]attendance.GroupCount, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	g := attendance.Granularity(filter.Group)
	counts := map[[2]string]int64{}
	for _, ev := range f.store.events {
		if filter.EmployeeID != nil && ev.EmployeeID != *filter.EmployeeID {
			continue
		}
		counts[[2]string{g.GroupKey(ev.Date), string(ev.Action)}]++
	}
	var out []attendance.GroupCount
	for k, c := range counts {
		out = append(out, attendance.GroupCount{Group: k[0], Action: attendance.Action(k[1]), Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group > out[j].Group
		}
		return out[i].Action < out[j].Action
	})
	return out, nil
}

type fakeJustificationRepository struct {
	store *store
}

func (f *fakeJustificationRepository) Create(ctx context.Context, j attendance.Justification) (attendance.Justification, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	j.ID = uuid.Must(uuid.NewV7()).String()
	j.CreatedAt = time.Now()
	f.store.justifications = append(f.store.justifications, j)
	return j, nil
}

func (f *fakeJustificationRepository) List(ctx context.Context, filter attendance.JustificationFilter) ([]attendance.Justification, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []attendance.Justification
	for _, j := range f.store.justifications {
		if filter.EmployeeID != nil && j.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, j)
	}
	slices.Reverse(out)
	return out, nil
}

type fakeEmployeeRepository struct {
	store *store
}

func (f *fakeEmployeeRepository) find(match func(employee.Employee) bool) (employee.Employee, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, emp := range f.store.employees {
		if match(emp) {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	return employee.Employee{}, fmt.Errorf("not used")
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return f.find(func(e employee.Employee) bool { return e.ID == id })
}

func (f *fakeEmployeeRepository) GetByLogin(ctx context.Context, identifier string) (employee.Employee, error) {
	return f.find(func(e employee.Employee) bool {
		return (e.Email != nil && strings.EqualFold(*e.Email, identifier)) || (e.Handle != nil && *e.Handle == identifier)
	})
}

func (f *fakeEmployeeRepository) FindByNameOrHandle(ctx context.Context, nameOrHandle string) (employee.Employee, error) {
	return f.find(func(e employee.Employee) bool {
		return e.Name == nameOrHandle || (e.Handle != nil && *e.Handle == nameOrHandle)
	})
}

func (f *fakeEmployeeRepository) GetByHandle(ctx context.Context, handle string) (employee.Employee, error) {
	return f.find(func(e employee.Employee) bool { return e.Handle != nil && *e.Handle == handle })
}

func (f *fakeEmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return slices.Clone(f.store.employees), nil
}

func (f *fakeEmployeeRepository) UpdateRole(ctx context.Context, id string, role employee.Role) error {
	return fmt.Errorf("not used")
}

func (f *fakeEmployeeRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return fmt.Errorf("not used")
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("not used")
}

func (f *fakeEmployeeRepository) CountAdmins(ctx context.Context) (int64, error) {
	return 0, fmt.Errorf("not used")
}

type fakeScheduleRepository struct {
	store *store
}

func (f *fakeScheduleRepository) GetByEmployeeID(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	sch, ok := f.store.schedules[employeeID]
	if !ok {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return sch, nil
}

func (f *fakeScheduleRepository) Upsert(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	f.store.setSchedule(s)
	return s, nil
}
