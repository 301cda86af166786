package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/handler/http/middleware"
	"github.com/hirestack/ats-backend-go/internal/handler/http/response"
)

type MembershipHandler interface {
	ListMembers(w http.ResponseWriter, r *http.Request)
	ChangeRole(w http.ResponseWriter, r *http.Request)
	RemoveMember(w http.ResponseWriter, r *http.Request)
}

type MembershipHandlerImpl struct {
	membershipService membership.MembershipService
}

func NewMembershipHandler(membershipService membership.MembershipService) MembershipHandler {
	return &MembershipHandlerImpl{membershipService: membershipService}
}

// ListMembers implements MembershipHandler.
func (h *MembershipHandlerImpl) ListMembers(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	members, err := h.membershipService.ListMembers(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, members)
}

// ChangeRole implements MembershipHandler.
func (h *MembershipHandlerImpl) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	membershipID := chi.URLParam(r, "membershipID")

	var changeRoleReq membership.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&changeRoleReq); err != nil {
		slog.Error("ChangeRole decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := changeRoleReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.membershipService.ChangeRole(r.Context(), membershipID, membership.Role(changeRoleReq.Role), userID)
	if err != nil {
		slog.Error("ChangeRole service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Membership role changed", "membership_id", updated.ID, "role", updated.Role)
	response.SuccessWithMessage(w, "Role updated successfully", membership.MemberResponse{
		ID:        updated.ID,
		UserID:    updated.UserID,
		CompanyID: updated.CompanyID,
		Role:      string(updated.Role),
		JoinedAt:  updated.JoinedAt,
	})
}

// RemoveMember implements MembershipHandler.
func (h *MembershipHandlerImpl) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	membershipID := chi.URLParam(r, "membershipID")

	if err := h.membershipService.RemoveMember(r.Context(), membershipID, userID); err != nil {
		slog.Error("RemoveMember service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Member removed", "membership_id", membershipID)
	response.SuccessWithMessage(w, "Member removed successfully", nil)
}
