package company

import (
	"time"

	"github.com/hirestack/ats-backend-go/internal/pkg/validator"
)

type CreateCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be at most 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
