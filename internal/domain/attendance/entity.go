package attendance

import (
	"fmt"
	"time"
)

type Action string

const (
	ActionEntry      Action = "entry"
	ActionExit       Action = "exit"
	ActionLunchStart Action = "lunch_start"
	ActionLunchEnd   Action = "lunch_end"
)

var ActionValues = []string{
	string(ActionEntry),
	string(ActionExit),
	string(ActionLunchStart),
	string(ActionLunchEnd),
}

// ParseAction returns ErrInvalidAction for anything outside the four actions.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionEntry, ActionExit, ActionLunchStart, ActionLunchEnd:
		return a, nil
	}
	return "", ErrInvalidAction
}

// Event is one clock punch. Time is "HH:MM:SS".
type Event struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Action     Action
	Time       string
	Note       *string
	CreatedAt  time.Time

	// Join
	EmployeeName   *string
	EmployeeHandle *string
}

type JustificationType string

const (
	JustificationLateArrival    JustificationType = "late_arrival"
	JustificationEarlyDeparture JustificationType = "early_departure"
	JustificationLateDeparture  JustificationType = "late_departure"
	JustificationEarlyLunch     JustificationType = "early_lunch"
	JustificationLateLunch      JustificationType = "late_lunch"
	JustificationOther          JustificationType = "other"
)

var JustificationTypeValues = []string{
	string(JustificationLateArrival),
	string(JustificationEarlyDeparture),
	string(JustificationLateDeparture),
	string(JustificationEarlyLunch),
	string(JustificationLateLunch),
	string(JustificationOther),
}

type Justification struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Type        JustificationType
	Description string
	CreatedAt   time.Time

	// Join
	EmployeeName   *string
	EmployeeHandle *string
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

var GranularityValues = []string{
	string(GranularityDay),
	string(GranularityWeek),
	string(GranularityMonth),
}

// GroupKey maps a calendar date to its bucket identifier: "2006-01-02" for
// day, ISO "2006-W01" for week and "2006-01" for month. The string order of
// keys is chronological.
func (g Granularity) GroupKey(date time.Time) string {
	switch g {
	case GranularityWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return date.Format("2006-01")
	default:
		return date.Format("2006-01-02")
	}
}

// GroupCount is the number of events of one action inside one bucket.
type GroupCount struct {
	Group  string
	Action Action
	Count  int64
}
