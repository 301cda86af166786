package invite

import (
	"time"

	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/pkg/validator"
)

type SendInviteRequest struct {
	CompanyID string `json:"-"` // From Chi URL param
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (r *SendInviteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id is required",
		})
	} else if !validator.IsValidUUID(r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id must be a valid UUID",
		})
	}

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

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !membership.Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of admin, recruiter, hiring_manager",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type InviteResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CompanyID string    `json:"company_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewInviteResponse(i Invite) InviteResponse {
	return InviteResponse{
		ID:        i.ID,
		Email:     i.Email,
		CompanyID: i.CompanyID,
		Role:      string(i.Role),
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
	}
}

// ReceivedInviteResponse - GET /invites/received
type ReceivedInviteResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	CompanyName  string    `json:"company_name"`
	Role         string    `json:"role"`
	InviterEmail string    `json:"inviter_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// SentInviteResponse - GET /invites/sent
type SentInviteResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
