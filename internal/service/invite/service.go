package invite

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/domain/invite"
	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/domain/user"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/hirestack/ats-backend-go/internal/pkg/email"
)

type inviteServiceImpl struct {
	inviteRepo     invite.InviteRepository
	membershipRepo membership.MembershipRepository
	companyRepo    company.CompanyRepository
	userRepo       user.UserRepository
	txManager      database.TxManager
	dispatcher     email.Dispatcher
}

// NewInviteService creates a new invite service instance
func NewInviteService(
	inviteRepo invite.InviteRepository,
	membershipRepo membership.MembershipRepository,
	companyRepo company.CompanyRepository,
	userRepo user.UserRepository,
	txManager database.TxManager,
	dispatcher email.Dispatcher,
) invite.InviteService {
	return &inviteServiceImpl{
		inviteRepo:     inviteRepo,
		membershipRepo: membershipRepo,
		companyRepo:    companyRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		dispatcher:     dispatcher,
	}
}

// requireAdmin checks that the actor holds the admin role in the company.
func (s *inviteServiceImpl) requireAdmin(ctx context.Context, actorUserID, companyID string) error {
	actor, err := s.membershipRepo.GetByUserAndCompany(ctx, actorUserID, companyID)
	if err != nil {
		if err == membership.ErrMembershipNotFound {
			return membership.ErrNotCompanyAdmin
		}
		return err
	}
	if actor.Role != membership.RoleAdmin {
		return membership.ErrNotCompanyAdmin
	}
	return nil
}

// Send implements invite.InviteService. The company row lock holds the
// admin check and the duplicate checks stable until the insert commits.
func (s *inviteServiceImpl) Send(ctx context.Context, req invite.SendInviteRequest, actorUserID string) (invite.Invite, error) {
	if err := req.Validate(); err != nil {
		return invite.Invite{}, err
	}

	var created invite.Invite
	var companyName string
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		comp, err := s.companyRepo.GetByIDForUpdate(ctx, req.CompanyID)
		if err != nil {
			return err
		}
		companyName = comp.Name

		if err := s.requireAdmin(ctx, actorUserID, req.CompanyID); err != nil {
			return err
		}

		// An invitee who already belongs to the company gets a conflict, not
		// a second membership via a dangling invite
		invitee, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil && err != user.ErrUserNotFound {
			return err
		}
		if err == nil {
			_, err = s.membershipRepo.GetByUserAndCompany(ctx, invitee.ID, req.CompanyID)
			if err == nil {
				return membership.ErrAlreadyMember
			}
			if err != membership.ErrMembershipNotFound {
				return err
			}
		}

		exists, err := s.inviteRepo.ExistsPendingByEmail(ctx, req.Email, req.CompanyID)
		if err != nil {
			return err
		}
		if exists {
			return invite.ErrPendingInviteExists
		}

		created, err = s.inviteRepo.Create(ctx, invite.Invite{
			ID:              uuid.NewString(),
			Email:           req.Email,
			CompanyID:       req.CompanyID,
			Role:            membership.Role(req.Role),
			Status:          invite.StatusPending,
			InvitedByUserID: actorUserID,
		})
		return err
	})
	if err != nil {
		return invite.Invite{}, err
	}

	s.dispatcher.DispatchInvite(created.Email, companyName, string(created.Role))

	return created, nil
}

// Accept implements invite.InviteService. The invite row is locked for the
// whole transaction, so a concurrent accept and cancel resolve in order and
// the loser sees a non-pending status.
func (s *inviteServiceImpl) Accept(ctx context.Context, inviteID, userID string) (membership.Membership, error) {
	acceptor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return membership.Membership{}, err
	}

	var created membership.Membership
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.inviteRepo.GetByIDForUpdate(ctx, inviteID)
		if err != nil {
			return err
		}

		if !inv.IsPending() {
			return invite.ErrInviteNotPending
		}
		if !acceptor.EmailMatches(inv.Email) {
			return invite.ErrEmailMismatch
		}

		created, err = s.membershipRepo.Create(ctx, membership.Membership{
			ID:        uuid.NewString(),
			UserID:    userID,
			CompanyID: inv.CompanyID,
			Role:      inv.Role,
		})
		if err != nil {
			return err
		}

		return s.inviteRepo.UpdateStatus(ctx, inv.ID, invite.StatusAccepted)
	})
	if err != nil {
		return membership.Membership{}, err
	}

	return created, nil
}

// Reject implements invite.InviteService.
func (s *inviteServiceImpl) Reject(ctx context.Context, inviteID, userID string) error {
	rejector, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.inviteRepo.GetByIDForUpdate(ctx, inviteID)
		if err != nil {
			return err
		}

		if !inv.IsPending() {
			return invite.ErrInviteNotPending
		}
		if !rejector.EmailMatches(inv.Email) {
			return invite.ErrEmailMismatch
		}

		return s.inviteRepo.UpdateStatus(ctx, inv.ID, invite.StatusRejected)
	})
}

// Cancel implements invite.InviteService.
func (s *inviteServiceImpl) Cancel(ctx context.Context, inviteID, actorUserID string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.inviteRepo.GetByIDForUpdate(ctx, inviteID)
		if err != nil {
			return err
		}

		// Company lock first so a concurrent demotion of the actor cannot
		// slip past the admin check
		if _, err := s.companyRepo.GetByIDForUpdate(ctx, inv.CompanyID); err != nil {
			return err
		}
		if err := s.requireAdmin(ctx, actorUserID, inv.CompanyID); err != nil {
			return err
		}
		if !inv.IsPending() {
			return invite.ErrInviteNotPending
		}

		return s.inviteRepo.UpdateStatus(ctx, inv.ID, invite.StatusCancelled)
	})
}

// ListReceived implements invite.InviteService.
func (s *inviteServiceImpl) ListReceived(ctx context.Context, userID string) ([]invite.ReceivedInviteResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	invites, err := s.inviteRepo.ListPendingByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}

	responses := make([]invite.ReceivedInviteResponse, 0, len(invites))
	for _, inv := range invites {
		responses = append(responses, invite.ReceivedInviteResponse{
			ID:           inv.ID,
			CompanyID:    inv.CompanyID,
			CompanyName:  inv.CompanyName,
			Role:         string(inv.Role),
			InviterEmail: inv.InviterEmail,
			CreatedAt:    inv.CreatedAt,
		})
	}
	return responses, nil
}

// ListSent implements invite.InviteService.
func (s *inviteServiceImpl) ListSent(ctx context.Context, userID string) ([]invite.SentInviteResponse, error) {
	invites, err := s.inviteRepo.ListByInviter(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]invite.SentInviteResponse, 0, len(invites))
	for _, inv := range invites {
		responses = append(responses, invite.SentInviteResponse{
			ID:          inv.ID,
			Email:       inv.Email,
			CompanyID:   inv.CompanyID,
			CompanyName: inv.CompanyName,
			Role:        string(inv.Role),
			Status:      string(inv.Status),
			CreatedAt:   inv.CreatedAt,
		})
	}
	return responses, nil
}
