package invite

import (
	"context"

	"github.com/hirestack/ats-backend-go/internal/domain/membership"
)

// InviteService defines the interface for invite business logic.
//
// Accept and Reject require the acting user's email to match the invite
// email case-insensitively. All status transitions are terminal: once an
// invite leaves pending it cannot be acted on again.
type InviteService interface {
	// Send creates a pending invite and dispatches the invite email
	// asynchronously. Actor must be an admin of the company.
	Send(ctx context.Context, req SendInviteRequest, actorUserID string) (Invite, error)

	// Accept creates the membership granted by the invite and marks the
	// invite accepted, atomically.
	Accept(ctx context.Context, inviteID, userID string) (membership.Membership, error)

	// Reject marks a pending invite rejected
	Reject(ctx context.Context, inviteID, userID string) error

	// Cancel marks a pending invite cancelled. Actor must be an admin of the
	// invite's company.
	Cancel(ctx context.Context, inviteID, actorUserID string) error

	// ListReceived lists pending invites addressed to the user's email
	ListReceived(ctx context.Context, userID string) ([]ReceivedInviteResponse, error)

	// ListSent lists invites created by the user, any status
	ListSent(ctx context.Context, userID string) ([]SentInviteResponse, error)
}
