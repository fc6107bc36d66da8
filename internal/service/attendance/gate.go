package attendance

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/timeofday"
)

// deviation is a punch outside the schedule that needs a justification.
type deviation struct {
	kind        attendance.JustificationType
	errNoReason error
	minutes     int
}

// checkDeviation compares a punch with the schedule. Exits before the
// scheduled exit and entries later than entry plus tolerance deviate; lunch
// punches never do. Both times are floored to the minute before comparing.
func checkDeviation(action attendance.Action, eventTime string, sch schedule.Schedule) (*deviation, error) {
	switch action {
	case attendance.ActionExit:
		// positive: leaving before the scheduled exit
		diff, err := timeofday.DiffMinutes(sch.ExitTime, eventTime)
		if err != nil {
			return nil, err
		}
		if diff > 0 {
			return &deviation{
				kind:        attendance.JustificationEarlyDeparture,
				errNoReason: attendance.ErrEarlyDepartureReasonRequired,
				minutes:     diff,
			}, nil
		}
	case attendance.ActionEntry:
		// positive: arriving after the scheduled entry
		diff, err := timeofday.DiffMinutes(eventTime, sch.EntryTime)
		if err != nil {
			return nil, err
		}
		if diff > sch.ToleranceMinutes {
			return &deviation{
				kind:        attendance.JustificationLateArrival,
				errNoReason: attendance.ErrLateArrivalReasonRequired,
				minutes:     diff,
			}, nil
		}
	}
	return nil, nil
}
