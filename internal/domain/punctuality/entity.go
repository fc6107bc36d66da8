package punctuality

import "time"

type Status string

const (
	StatusNoRecord Status = "no_record"
	StatusOnTime   Status = "on_time"
	StatusLate     Status = "late"
	StatusEarly    Status = "early"
)

// DayDeviation compares one day's punches with the schedule. EntryDiff is
// positive when late; ExitDiff is positive when leaving after the scheduled
// exit (overtime).
type DayDeviation struct {
	Date        time.Time
	FirstEntry  *string
	LastExit    *string
	EntryDiff   *int
	ExitDiff    *int
	EntryStatus Status
	ExitStatus  Status
}

// Bucket summarizes the days of one group.
type Bucket struct {
	Group               string
	OnTime              int
	Late                int
	Early               int
	EarlyExit           int
	Overtime            int
	AvgEntryDiffMinutes *int
	AvgExitDiffMinutes  *int
}
