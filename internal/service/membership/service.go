package membership

import (
	"context"

	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
)

type membershipServiceImpl struct {
	membershipRepo membership.MembershipRepository
	companyRepo    company.CompanyRepository
	txManager      database.TxManager
}

// NewMembershipService creates a new membership service instance
func NewMembershipService(
	membershipRepo membership.MembershipRepository,
	companyRepo company.CompanyRepository,
	txManager database.TxManager,
) membership.MembershipService {
	return &membershipServiceImpl{
		membershipRepo: membershipRepo,
		companyRepo:    companyRepo,
		txManager:      txManager,
	}
}

// ListMembers implements membership.MembershipService.
func (s *membershipServiceImpl) ListMembers(ctx context.Context, companyID string) ([]membership.MemberResponse, error) {
	members, err := s.membershipRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]membership.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, membership.NewMemberResponse(m))
	}
	return responses, nil
}

// requireAdmin checks that the actor holds the admin role in the company.
func (s *membershipServiceImpl) requireAdmin(ctx context.Context, actorUserID, companyID string) error {
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

// ChangeRole implements membership.MembershipService. The target row pins
// the membership, then the company row lock serializes the transaction
// against every other mutation of the same company. Two concurrent demotions
// of the last two admins lock different membership rows, so only the company
// lock keeps the second one from reading a stale admin count.
func (s *membershipServiceImpl) ChangeRole(ctx context.Context, membershipID string, newRole membership.Role, actorUserID string) (membership.Membership, error) {
	if !newRole.IsValid() {
		return membership.Membership{}, membership.ErrInvalidRole
	}

	var updated membership.Membership
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.membershipRepo.GetByIDForUpdate(ctx, membershipID)
		if err != nil {
			return err
		}
		if _, err := s.companyRepo.GetByIDForUpdate(ctx, target.CompanyID); err != nil {
			return err
		}

		// Under the company lock a concurrent demotion of the actor has
		// either committed or not started
		if err := s.requireAdmin(ctx, actorUserID, target.CompanyID); err != nil {
			return err
		}

		if target.Role == newRole {
			updated = target
			return nil
		}

		if target.Role == membership.RoleAdmin {
			count, err := s.membershipRepo.CountAdmins(ctx, target.CompanyID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return membership.ErrLastAdmin
			}
		}

		updated, err = s.membershipRepo.UpdateRole(ctx, membershipID, newRole)
		return err
	})
	if err != nil {
		return membership.Membership{}, err
	}

	return updated, nil
}

// RemoveMember implements membership.MembershipService. Admins may remove
// themselves as long as another admin remains. Same lock order as
// ChangeRole: target row, then company row, then the checks.
func (s *membershipServiceImpl) RemoveMember(ctx context.Context, membershipID string, actorUserID string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.membershipRepo.GetByIDForUpdate(ctx, membershipID)
		if err != nil {
			return err
		}
		if _, err := s.companyRepo.GetByIDForUpdate(ctx, target.CompanyID); err != nil {
			return err
		}

		if err := s.requireAdmin(ctx, actorUserID, target.CompanyID); err != nil {
			return err
		}

		if target.Role == membership.RoleAdmin {
			count, err := s.membershipRepo.CountAdmins(ctx, target.CompanyID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return membership.ErrLastAdmin
			}
		}

		return s.membershipRepo.Delete(ctx, membershipID)
	})
}
