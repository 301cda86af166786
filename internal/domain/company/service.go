package company

import "context"

type CompanyService interface {
	// Create creates a company and makes the creator its first admin,
	// atomically.
	Create(ctx context.Context, req CreateCompanyRequest, creatorUserID string) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	ListMine(ctx context.Context, userID string) ([]Company, error)
}
