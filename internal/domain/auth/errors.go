package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrInvalidOTP          = errors.New("invalid or expired OTP")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrUserNotFound        = errors.New("user not found")
)
