package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// GetByEmail matches the email case-insensitively
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetEmailVerified(ctx context.Context, id string) error
	LinkGoogleAccount(ctx context.Context, googleID, email string) (User, error)
}
