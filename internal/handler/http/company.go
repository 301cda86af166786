package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/handler/http/middleware"
	"github.com/hirestack/ats-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService}
}

// Create implements CompanyHandler. The creator becomes the company's first
// admin.
func (h *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var createReq company.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.companyService.Create(r.Context(), createReq, userID)
	if err != nil {
		slog.Error("Create company service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Company created", "company_id", created.ID)
	response.Created(w, "Company created successfully", company.NewCompanyResponse(created))
}

// GetByID implements CompanyHandler.
func (h *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	found, err := h.companyService.GetByID(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, company.NewCompanyResponse(found))
}

// ListMine implements CompanyHandler.
func (h *CompanyHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	companies, err := h.companyService.ListMine(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]company.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, company.NewCompanyResponse(c))
	}
	response.Success(w, responses)
}
