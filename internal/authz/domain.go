// Package authz implements role resolution and the admin gate. The role set
// is closed and flat: a record in admin_users grants admin or superadmin,
// absence of a record means a plain user, and the superadmin check never
// treats admin as sufficient.
package authz

// Role is the resolved authorization level of a principal.
type Role int

const (
	// RoleNone is the default for plain users, missing records, and every
	// failure path. Authorization always fails closed to this value.
	RoleNone Role = iota
	// RoleAdmin grants access to the admin back office.
	RoleAdmin
	// RoleSuperadmin additionally grants destructive back-office operations.
	RoleSuperadmin
)

// roleNames maps the admin_users.role column to Role values. Unknown column
// values resolve to RoleNone so a future role cannot be misclassified as a
// grant.
var roleNames = map[string]Role{
	"admin":      RoleAdmin,
	"superadmin": RoleSuperadmin,
}

// ParseRole converts a stored role string, defaulting to RoleNone.
func ParseRole(s string) Role {
	if r, ok := roleNames[s]; ok {
		return r
	}
	return RoleNone
}

// String returns the stored representation.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperadmin:
		return "superadmin"
	default:
		return "none"
	}
}

// IsAdmin reports whether the role grants back-office access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// IsSuperadmin reports whether the role is exactly superadmin. Admin does
// not satisfy this: the two checks are independent, not hierarchical.
func (r Role) IsSuperadmin() bool {
	return r == RoleSuperadmin
}

// AuthorizationRecord maps a principal to its elevated role. At most one
// record exists per principal; records are created by an out-of-band invite
// process and never written by this application.
type AuthorizationRecord struct {
	UserID int64
	Role   Role
}
