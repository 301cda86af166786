package postgresql

import (
	"context"
	"fmt"

	"github.com/hirestack/ats-backend-go/internal/domain/user"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, first_name, middle_name, last_name,
	   date_of_birth, otp_secret, email_verified, oauth_provider, oauth_provider_id,
	   created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.MiddleName,
		&u.LastName,
		&u.DateOfBirth,
		&u.OTPSecret,
		&u.EmailVerified,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, middle_name, last_name,
			date_of_birth, otp_secret, email_verified, oauth_provider, oauth_provider_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.ID,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FirstName,
		newUser.MiddleName,
		newUser.LastName,
		newUser.DateOfBirth,
		newUser.OTPSecret,
		newUser.EmailVerified,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	found, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return found, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	found, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return found, nil
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}

	return exists, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, passwordHash, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// SetEmailVerified implements user.UserRepository.
func (r *userRepositoryImpl) SetEmailVerified(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET email_verified = true, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return nil
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $1, updated_at = NOW()
		WHERE lower(email) = lower($2)
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, googleID, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to link google account: %w", err)
	}

	return updated, nil
}
