package postgresql

import (
	"context"
	"fmt"

	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

// NewCompanyRepository creates a new company repository instance
func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_at, updated_at
	`

	var created company.Company
	err := q.QueryRow(ctx, query, newCompany.ID, newCompany.Name, newCompany.Description).Scan(
		&created.ID, &created.Name, &created.Description,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return company.Company{}, company.ErrCompanyNameExists
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}

	return created, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements company.CompanyRepository. The company row is
// the serialization point for membership mutations: every transaction that
// reads the admin count locks it first, so two transactions targeting
// different membership rows of the same company still run one at a time.
func (r *companyRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (company.Company, error) {
	return r.getByID(ctx, id, true)
}

func (r *companyRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var found company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID, &found.Name, &found.Description,
		&found.CreatedAt, &found.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by id: %w", err)
	}

	return found, nil
}

// ListByUserID implements company.CompanyRepository.
func (r *companyRepositoryImpl) ListByUserID(ctx context.Context, userID string) ([]company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at
		FROM companies c
		JOIN memberships m ON m.company_id = c.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies by user: %w", err)
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		var c company.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return companies, nil
}
