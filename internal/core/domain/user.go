package domain

// Role names are a fixed vocabulary seeded once at first startup and never
// deleted at runtime. They are deliberately flat: holding RoleSuperAdmin does
// not imply RoleAdmin; every gate checks exact membership.
const (
	RoleUser       = "usr"
	RoleAdmin      = "adm"
	RoleSuperAdmin = "Sa"
)

// SeedRoles lists the roles present in every dataset, in seed order.
var SeedRoles = []string{RoleUser, RoleAdmin, RoleSuperAdmin}

// User is a registered account. Username is unique and immutable after
// registration. GroupID is nil when the user belongs to no group.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
	GroupID      *int64 `json:"group_id,omitempty"`
}

// Role is one entry of the fixed role vocabulary.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRole links a user to a role it holds. The pair is unique: a user holds
// each role at most once.
type UserRole struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}

// Session is the result of a successful registration or login.
type Session struct {
	Token string   `json:"token"`
	User  User     `json:"user"`
	Roles []string `json:"roles"`
}

// UserStatus is the public monitoring view: identity and liveness only, no
// roles and never super-administrators.
type UserStatus struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

// UserDetail is the admin-roster view of one user. Super-administrators are
// excluded from this view regardless of who asks.
type UserDetail struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	IsActive  bool     `json:"is_active"`
	GroupID   *int64   `json:"group_id,omitempty"`
	GroupName string   `json:"group_name,omitempty"`
	Roles     []string `json:"roles"`
	Online    bool     `json:"online"`
	IsAdmin   bool     `json:"is_admin"`
}

// HasRole reports whether name appears in roles.
func HasRole(roles []string, name string) bool {
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}
