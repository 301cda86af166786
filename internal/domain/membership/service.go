package membership

import "context"

// MembershipService defines the interface for membership business logic.
// Every mutation preserves the admin invariant: a company that has at least
// one admin never drops to zero admins.
type MembershipService interface {
	// ListMembers lists the members of a company, newest join first
	ListMembers(ctx context.Context, companyID string) ([]MemberResponse, error)

	// ChangeRole changes a member's role. Actor must be an admin of the
	// membership's company. Demoting the last admin fails with ErrLastAdmin.
	ChangeRole(ctx context.Context, membershipID string, newRole Role, actorUserID string) (Membership, error)

	// RemoveMember removes a member. Actor must be an admin of the
	// membership's company. Removing the last admin fails with ErrLastAdmin.
	RemoveMember(ctx context.Context, membershipID string, actorUserID string) error
}
