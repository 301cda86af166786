package company

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, newCompany Company) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	// GetByIDForUpdate locks the company row until the enclosing transaction
	// ends. Mutations that read the company's admin count take this lock
	// first, so the count stays valid until they commit.
	GetByIDForUpdate(ctx context.Context, id string) (Company, error)
	ListByUserID(ctx context.Context, userID string) ([]Company, error)
}
