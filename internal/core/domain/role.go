package domain

// Role is the closed set of actor roles. Values outside the constants
// below never leave ParseRole.
type Role string

const (
	RoleStudent      Role = "student"
	RoleLecturer     Role = "lecturer"
	RoleAdmin        Role = "admin"
	RoleCollegeAdmin Role = "college_admin"
)

// AllRoles lists every role in a stable order.
func AllRoles() []Role {
	return []Role{RoleStudent, RoleLecturer, RoleAdmin, RoleCollegeAdmin}
}

// ParseRole converts s into a Role, reporting whether it is a known value.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleStudent, RoleLecturer, RoleAdmin, RoleCollegeAdmin:
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

func ParseUserStatus(s string) (UserStatus, bool) {
	switch st := UserStatus(s); st {
	case UserActive, UserInactive, UserSuspended:
		return st, true
	}
	return "", false
}
