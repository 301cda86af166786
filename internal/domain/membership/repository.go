package membership

import "context"

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// Create inserts a membership. A duplicate (user, company) pair returns
	// ErrAlreadyMember.
	Create(ctx context.Context, m Membership) (Membership, error)

	// GetByID retrieves a membership by id
	GetByID(ctx context.Context, id string) (Membership, error)

	// GetByIDForUpdate retrieves a membership by id holding an exclusive row
	// lock until the surrounding transaction ends. Must be called inside a
	// transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Membership, error)

	// GetByUserAndCompany retrieves the membership of a user in a company
	GetByUserAndCompany(ctx context.Context, userID, companyID string) (Membership, error)

	// ListByCompany lists company members with user details, newest join first
	ListByCompany(ctx context.Context, companyID string) ([]MemberWithUser, error)

	// CountAdmins counts admin memberships of a company. The result is only
	// stable for callers holding the company row lock.
	CountAdmins(ctx context.Context, companyID string) (int, error)

	// UpdateRole sets the role of a membership
	UpdateRole(ctx context.Context, id string, role Role) (Membership, error)

	// Delete removes a membership
	Delete(ctx context.Context, id string) error
}
