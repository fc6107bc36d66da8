package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrInvalidAction = errors.New("action must be one of: entry, exit, lunch_start, lunch_end")

	// Uniqueness, by the layer that detected it
	ErrDuplicateActionForDay = errors.New("action already recorded for this employee today")
	ErrDuplicateEvent        = errors.New("an identical event already exists")

	// ErrReasonRequired matches every deviation that needs a justification.
	ErrReasonRequired               = errors.New("reason required")
	ErrLateArrivalReasonRequired    = fmt.Errorf("%w: late arrival requires reason", ErrReasonRequired)
	ErrEarlyDepartureReasonRequired = fmt.Errorf("%w: early departure requires reason", ErrReasonRequired)

	ErrForbiddenEmployee = errors.New("you may only punch for yourself")
)
