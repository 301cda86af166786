package invite

import (
	"time"

	"github.com/hirestack/ats-backend-go/internal/domain/membership"
)

// Status represents the status of an invite. Pending is the only
// non-terminal status; no transitions leave a terminal status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Invite is a proposal, addressed by email, to grant a role in a company.
type Invite struct {
	ID              string
	Email           string
	CompanyID       string
	Role            membership.Role
	Status          Status
	InvitedByUserID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPending reports whether the invite can still be acted on.
func (i *Invite) IsPending() bool {
	return i.Status == StatusPending
}

// InviteWithCompany carries invite data joined with related names, for
// listings and email content.
type InviteWithCompany struct {
	Invite
	CompanyName  string
	InviterEmail string
}
