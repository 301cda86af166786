package postgresql

import (
	"context"
	"fmt"

	"github.com/hirestack/ats-backend-go/internal/domain/invite"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type inviteRepositoryImpl struct {
	db *database.DB
}

// NewInviteRepository creates a new invite repository instance
func NewInviteRepository(db *database.DB) invite.InviteRepository {
	return &inviteRepositoryImpl{db: db}
}

// Create implements invite.InviteRepository. The unique index on
// (lower(email), company_id, status) turns a lost duplicate-pending race
// into ErrPendingInviteExists.
func (r *inviteRepositoryImpl) Create(ctx context.Context, inv invite.Invite) (invite.Invite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invites (id, email, company_id, role, status, invited_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, company_id, role, status, invited_by_user_id, created_at, updated_at
	`

	var created invite.Invite
	err := q.QueryRow(ctx, query,
		inv.ID, inv.Email, inv.CompanyID, inv.Role, inv.Status, inv.InvitedByUserID,
	).Scan(
		&created.ID, &created.Email, &created.CompanyID, &created.Role,
		&created.Status, &created.InvitedByUserID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return invite.Invite{}, invite.ErrPendingInviteExists
		}
		return invite.Invite{}, fmt.Errorf("failed to create invite: %w", err)
	}

	return created, nil
}

// GetByID implements invite.InviteRepository.
func (r *inviteRepositoryImpl) GetByID(ctx context.Context, id string) (invite.Invite, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements invite.InviteRepository. The row lock
// serializes concurrent accept/reject/cancel calls on one invite.
func (r *inviteRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (invite.Invite, error) {
	return r.getByID(ctx, id, true)
}

func (r *inviteRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (invite.Invite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, company_id, role, status, invited_by_user_id, created_at, updated_at
		FROM invites
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var inv invite.Invite
	err := q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Email, &inv.CompanyID, &inv.Role,
		&inv.Status, &inv.InvitedByUserID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return invite.Invite{}, invite.ErrInviteNotFound
		}
		return invite.Invite{}, fmt.Errorf("failed to get invite: %w", err)
	}

	return inv, nil
}

// ExistsPendingByEmail implements invite.InviteRepository.
func (r *inviteRepositoryImpl) ExistsPendingByEmail(ctx context.Context, email, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM invites
			WHERE lower(email) = lower($1) AND company_id = $2 AND status = 'pending'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, email, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending invite: %w", err)
	}

	return exists, nil
}

// ListPendingByEmail implements invite.InviteRepository.
func (r *inviteRepositoryImpl) ListPendingByEmail(ctx context.Context, email string) ([]invite.InviteWithCompany, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT i.id, i.email, i.company_id, i.role, i.status, i.invited_by_user_id,
			   i.created_at, i.updated_at,
			   c.name AS company_name,
			   u.email AS inviter_email
		FROM invites i
		JOIN companies c ON c.id = i.company_id
		JOIN users u ON u.id = i.invited_by_user_id
		WHERE lower(i.email) = lower($1) AND i.status = 'pending'
		ORDER BY i.created_at DESC
	`

	return r.list(ctx, q, query, email)
}

// ListByInviter implements invite.InviteRepository.
func (r *inviteRepositoryImpl) ListByInviter(ctx context.Context, userID string) ([]invite.InviteWithCompany, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT i.id, i.email, i.company_id, i.role, i.status, i.invited_by_user_id,
			   i.created_at, i.updated_at,
			   c.name AS company_name,
			   u.email AS inviter_email
		FROM invites i
		JOIN companies c ON c.id = i.company_id
		JOIN users u ON u.id = i.invited_by_user_id
		WHERE i.invited_by_user_id = $1
		ORDER BY i.created_at DESC
	`

	return r.list(ctx, q, query, userID)
}

func (r *inviteRepositoryImpl) list(ctx context.Context, q database.Querier, query string, arg interface{}) ([]invite.InviteWithCompany, error) {
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []invite.InviteWithCompany
	for rows.Next() {
		var inv invite.InviteWithCompany
		err := rows.Scan(
			&inv.ID, &inv.Email, &inv.CompanyID, &inv.Role, &inv.Status,
			&inv.InvitedByUserID, &inv.CreatedAt, &inv.UpdatedAt,
			&inv.CompanyName, &inv.InviterEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return invites, nil
}

// UpdateStatus implements invite.InviteRepository.
func (r *inviteRepositoryImpl) UpdateStatus(ctx context.Context, id string, status invite.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invites
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, status, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return invite.ErrInviteNotFound
		}
		return fmt.Errorf("failed to update invite status: %w", err)
	}

	return nil
}
