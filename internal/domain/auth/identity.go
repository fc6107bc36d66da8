package auth

// Role names as carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller of a request. It is resolved once at
// the HTTP boundary and passed explicitly into every service call.
type Identity struct {
	EmployeeID string
	Role       string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RequireAuthenticated fails with ErrUnauthenticated for an empty identity.
func (i Identity) RequireAuthenticated() error {
	if i.EmployeeID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails with ErrForbidden unless the caller is an administrator.
func (i Identity) RequireAdmin() error {
	if err := i.RequireAuthenticated(); err != nil {
		return err
	}
	if !i.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanActFor reports whether the caller may operate on employeeID's records.
func (i Identity) CanActFor(employeeID string) bool {
	return i.IsAdmin() || (i.EmployeeID != "" && i.EmployeeID == employeeID)
}
