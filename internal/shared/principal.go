package shared

// Role is the access level assigned to an account.
type Role string

// Known roles, in descending order of privilege.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// IsAdmin reports whether the role is admin.
func IsAdmin(r Role) bool { return r == RoleAdmin }

// IsAdminOrManager reports whether the role carries management privileges.
func IsAdminOrManager(r Role) bool { return r == RoleAdmin || r == RoleManager }

// Principal describes the authenticated actor driving authorization
// decisions. At most one principal is current at a time.
type Principal struct {
	ID    string
	Name  string
	Email string
	Role  Role
}
