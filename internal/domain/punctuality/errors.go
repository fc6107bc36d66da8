package punctuality

import "errors"

var (
	ErrNoSchedule = errors.New("employee has no schedule; define one before requesting punctuality")
)
