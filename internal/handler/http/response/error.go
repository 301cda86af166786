package response

import (
	"errors"
	"net/http"

	"github.com/hirestack/ats-backend-go/internal/domain/auth"
	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/domain/invite"
	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/domain/user"
	"github.com/hirestack/ats-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrInvalidOTP):
		BadRequest(w, "Invalid or expired OTP", nil)
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyNameExists):
		Conflict(w, "Company name already taken")

	// Membership domain errors
	case errors.Is(err, membership.ErrMembershipNotFound):
		NotFound(w, "Membership not found")
	case errors.Is(err, membership.ErrNotCompanyAdmin):
		Forbidden(w, "Admin role required")
	case errors.Is(err, membership.ErrLastAdmin):
		Conflict(w, "Company must keep at least one admin")
	case errors.Is(err, membership.ErrAlreadyMember):
		Conflict(w, "User is already a member of this company")
	case errors.Is(err, membership.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)

	// Invite domain errors
	case errors.Is(err, invite.ErrInviteNotFound):
		NotFound(w, "Invite not found")
	case errors.Is(err, invite.ErrInviteNotPending):
		Conflict(w, "Invite is no longer pending")
	case errors.Is(err, invite.ErrEmailMismatch):
		Forbidden(w, "Invite is addressed to a different email")
	case errors.Is(err, invite.ErrPendingInviteExists):
		Conflict(w, "A pending invite already exists for this email")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
