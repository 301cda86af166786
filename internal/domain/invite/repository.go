package invite

import "context"

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create inserts a new invite. A second pending invite for the same
	// (email, company) pair returns ErrPendingInviteExists.
	Create(ctx context.Context, inv Invite) (Invite, error)

	// GetByID retrieves an invite by id
	GetByID(ctx context.Context, id string) (Invite, error)

	// GetByIDForUpdate retrieves an invite by id holding an exclusive row
	// lock until the surrounding transaction ends. Must be called inside a
	// transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Invite, error)

	// ExistsPendingByEmail checks if email has a pending invite in the company
	ExistsPendingByEmail(ctx context.Context, email, companyID string) (bool, error)

	// ListPendingByEmail lists pending invites addressed to an email
	// (case-insensitive), newest first
	ListPendingByEmail(ctx context.Context, email string) ([]InviteWithCompany, error)

	// ListByInviter lists all invites created by a user, any status, newest first
	ListByInviter(ctx context.Context, userID string) ([]InviteWithCompany, error)

	// UpdateStatus sets the status of an invite
	UpdateStatus(ctx context.Context, id string, status Status) error
}
