package auth

import (
	"time"

	"github.com/hirestack/ats-backend-go/internal/pkg/validator"
)

const minimumAge = 13

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	MiddleName  *string `json:"middle_name,omitempty"`
	LastName    string  `json:"last_name"`
	DateOfBirth string  `json:"date_of_birth"` // YYYY-MM-DD
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}

	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	}

	if validator.IsEmpty(r.DateOfBirth) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_of_birth",
			Message: "date_of_birth is required",
		})
	} else if dob, ok := validator.IsValidDate(r.DateOfBirth); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date_of_birth",
			Message: "date_of_birth must be in YYYY-MM-DD format",
		})
	} else if !dob.Before(time.Now()) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_of_birth",
			Message: "date_of_birth must be in the past",
		})
	} else if age(dob) < minimumAge {
		errs = append(errs, validator.ValidationError{
			Field:   "date_of_birth",
			Message: "you must be at least 13 years old",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func age(dob time.Time) int {
	now := time.Now()
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r *VerifyEmailRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}

	if validator.IsEmpty(r.OTP) {
		errs = append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp is required",
		})
	} else if len(r.OTP) != 6 || !validator.IsNumeric(r.OTP) {
		errs = append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp must be a 6-digit code",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}

	if validator.IsEmpty(r.OTP) {
		errs = append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp is required",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SessionTrackingRequest carries request metadata stored alongside refresh
// tokens.
type SessionTrackingRequest struct {
	IPAddress string
	UserAgent string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
