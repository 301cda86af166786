package auth

import "context"

// AuthService defines the interface for authentication business logic
type AuthService interface {
	// Register creates an unverified user and dispatches a verification OTP
	// email asynchronously
	Register(ctx context.Context, req RegisterRequest) error

	// VerifyEmail checks the OTP and marks the user's email verified
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error

	// Login authenticates with email and password. Unverified accounts are
	// rejected with ErrEmailNotVerified.
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle authenticates a Google account, creating a verified
	// user on first login
	LoginWithGoogle(ctx context.Context, googleEmail, googleID string, sessionReq SessionTrackingRequest) (TokenResponse, error)

	// RefreshToken exchanges a valid refresh token for a new access token
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Logout revokes the refresh token
	Logout(ctx context.Context, refreshToken string) error

	// ForgotPassword dispatches a password-reset OTP email. It reports
	// success even for unknown emails to prevent enumeration.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error

	// ResetPassword checks the OTP and replaces the user's password
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
