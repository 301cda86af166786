package postgresql

import (
	"context"
	"fmt"

	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type membershipRepositoryImpl struct {
	db *database.DB
}

// NewMembershipRepository creates a new membership repository instance
func NewMembershipRepository(db *database.DB) membership.MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

// Create implements membership.MembershipRepository.
func (r *membershipRepositoryImpl) Create(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO memberships (id, user_id, company_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, company_id, role, joined_at
	`

	var created membership.Membership
	err := q.QueryRow(ctx, query, m.ID, m.UserID, m.CompanyID, m.Role).Scan(
		&created.ID, &created.UserID, &created.CompanyID, &created.Role, &created.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return membership.Membership{}, membership.ErrAlreadyMember
		}
		return membership.Membership{}, fmt.Errorf("failed to create membership: %w", err)
	}

	return created, nil
}

// GetByID implements membership.MembershipRepository.
func (r *membershipRepositoryImpl) GetByID(ctx context.Context, id string) (membership.Membership, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements membership.MembershipRepository. The row lock
// pins the target so its role cannot change underneath the transaction.
// Serialization across a company's memberships comes from the company row
// lock, not from here: two transactions on different rows never conflict.
func (r *membershipRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (membership.Membership, error) {
	return r.getByID(ctx, id, true)
}

func (r *membershipRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (membership.Membership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, company_id, role, joined_at
		FROM memberships
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var found membership.Membership
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID, &found.UserID, &found.CompanyID, &found.Role, &found.JoinedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return membership.Membership{}, membership.ErrMembershipNotFound
		}
		return membership.Membership{}, fmt.Errorf("failed to get membership: %w", err)
	}

	return found, nil
}

// GetByUserAndCompany implements membership.MembershipRepository.
func (r *membershipRepositoryImpl) GetByUserAndCompany(ctx context.Context, userID, companyID string) (membership.Membership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, company_id, role, joined_at
		FROM memberships
		WHERE user_id = $1 AND company_id = $2
	`

	var found membership.Membership
	err := q.QueryRow(ctx, query, userID, companyID).Scan(
		&found.ID, &found.UserID, &found.CompanyID, &found.Role, &found.JoinedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return membership.Membership{}, membership.ErrMembershipNotFound
		}
		return membership.Membership{}, fmt.Errorf("failed to get membership by user and company: %w", err)
	}

	return found, nil
}

// ListByCompany implements membership.MembershipRepository.
func (r *membershipRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]membership.MemberWithUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.id, m.user_id, m.company_id, m.role, m.joined_at,
			   u.email AS user_email,
			   TRIM(CONCAT(u.first_name, ' ', COALESCE(u.middle_name || ' ', ''), u.last_name)) AS user_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.company_id = $1
		ORDER BY m.joined_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []membership.MemberWithUser
	for rows.Next() {
		var m membership.MemberWithUser
		err := rows.Scan(
			&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.JoinedAt,
			&m.UserEmail, &m.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return members, nil
}

// CountAdmins implements membership.MembershipRepository. The count is only
// stable while the caller holds the company row lock; a bare read can go
// stale before commit.
func (r *membershipRepositoryImpl) CountAdmins(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM memberships
		WHERE company_id = $1 AND role = 'admin'
	`

	var count int
	if err := q.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}

// UpdateRole implements membership.MembershipRepository.
func (r *membershipRepositoryImpl) UpdateRole(ctx context.Context, id string, role membership.Role) (membership.Membership, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE memberships
		SET role = $1
		WHERE id = $2
		RETURNING id, user_id, company_id, role, joined_at
	`

	var updated membership.Membership
	err := q.QueryRow(ctx, query, role, id).Scan(
		&updated.ID, &updated.UserID, &updated.CompanyID, &updated.Role, &updated.JoinedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return membership.Membership{}, membership.ErrMembershipNotFound
		}
		return membership.Membership{}, fmt.Errorf("failed to update membership role: %w", err)
	}

	return updated, nil
}

// Delete implements membership.MembershipRepository.
func (r *membershipRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return membership.ErrMembershipNotFound
	}

	return nil
}
