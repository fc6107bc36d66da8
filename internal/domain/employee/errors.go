package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeExists       = errors.New("handle or email already registered")
	ErrAlreadyInitialized   = errors.New("an administrator already exists")
	ErrCannotDeleteSelf     = errors.New("cannot delete your own employee record")
	ErrCannotDemoteSelf     = errors.New("cannot remove your own admin role")
	ErrRegistrationDisabled = errors.New("public registration is disabled")

	// ErrUnknownEmployee is returned when an id, name or handle does not
	// resolve to an employee during attendance or schedule operations.
	ErrUnknownEmployee = errors.New("unknown employee")
)
