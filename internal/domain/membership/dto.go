package membership

import (
	"time"

	"github.com/hirestack/ats-backend-go/internal/pkg/validator"
)

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

func (r *ChangeRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !Role(r.Role).IsValid() {
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

type MemberResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CompanyID string    `json:"company_id"`
	Role      string    `json:"role"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	JoinedAt  time.Time `json:"joined_at"`
}

func NewMemberResponse(m MemberWithUser) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      string(m.Role),
		UserEmail: m.UserEmail,
		UserName:  m.UserName,
		JoinedAt:  m.JoinedAt,
	}
}
