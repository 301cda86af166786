package company

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
)

type companyServiceImpl struct {
	companyRepo    company.CompanyRepository
	membershipRepo membership.MembershipRepository
	txManager      database.TxManager
}

// NewCompanyService creates a new company service instance
func NewCompanyService(
	companyRepo company.CompanyRepository,
	membershipRepo membership.MembershipRepository,
	txManager database.TxManager,
) company.CompanyService {
	return &companyServiceImpl{
		companyRepo:    companyRepo,
		membershipRepo: membershipRepo,
		txManager:      txManager,
	}
}

// Create implements company.CompanyService. The company row and the
// creator's admin membership commit together; a company never exists
// without at least one admin.
func (s *companyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest, creatorUserID string) (company.Company, error) {
	if err := req.Validate(); err != nil {
		return company.Company{}, err
	}

	var created company.Company
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.companyRepo.Create(ctx, company.Company{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return err
		}

		_, err = s.membershipRepo.Create(ctx, membership.Membership{
			ID:        uuid.NewString(),
			UserID:    creatorUserID,
			CompanyID: created.ID,
			Role:      membership.RoleAdmin,
		})
		return err
	})
	if err != nil {
		return company.Company{}, err
	}

	return created, nil
}

// GetByID implements company.CompanyService.
func (s *companyServiceImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

// ListMine implements company.CompanyService.
func (s *companyServiceImpl) ListMine(ctx context.Context, userID string) ([]company.Company, error) {
	return s.companyRepo.ListByUserID(ctx, userID)
}
