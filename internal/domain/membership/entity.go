package membership

import "time"

// Role is the role a user holds within one company. Roles are scoped to a
// membership, not to the user account.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleRecruiter     Role = "recruiter"
	RoleHiringManager Role = "hiring_manager"
)

// IsValid reports whether the role is one of the known membership roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleHiringManager:
		return true
	}
	return false
}

// Membership grants a role to a user within a company. One membership per
// (user, company) pair.
type Membership struct {
	ID        string
	UserID    string
	CompanyID string
	Role      Role
	JoinedAt  time.Time
}

// MemberWithUser carries membership data joined with the member's identity,
// used for member listings.
type MemberWithUser struct {
	Membership
	UserEmail string
	UserName  string
}
