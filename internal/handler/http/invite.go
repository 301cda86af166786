package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hirestack/ats-backend-go/internal/domain/invite"
	"github.com/hirestack/ats-backend-go/internal/handler/http/middleware"
	"github.com/hirestack/ats-backend-go/internal/handler/http/response"
)

type InviteHandler interface {
	Send(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	ListReceived(w http.ResponseWriter, r *http.Request)
	ListSent(w http.ResponseWriter, r *http.Request)
}

type InviteHandlerImpl struct {
	inviteService invite.InviteService
}

func NewInviteHandler(inviteService invite.InviteService) InviteHandler {
	return &InviteHandlerImpl{inviteService: inviteService}
}

// Send implements InviteHandler.
func (h *InviteHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var sendReq invite.SendInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&sendReq); err != nil {
		slog.Error("Send invite decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	sendReq.CompanyID = chi.URLParam(r, "companyID")

	created, err := h.inviteService.Send(r.Context(), sendReq, userID)
	if err != nil {
		slog.Error("Send invite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Invite sent", "invite_id", created.ID, "company_id", created.CompanyID)
	response.Created(w, "Invite sent successfully", invite.NewInviteResponse(created))
}

// Accept implements InviteHandler.
func (h *InviteHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	inviteID := chi.URLParam(r, "inviteID")

	created, err := h.inviteService.Accept(r.Context(), inviteID, userID)
	if err != nil {
		slog.Error("Accept invite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Invite accepted", "invite_id", inviteID, "membership_id", created.ID)
	response.SuccessWithMessage(w, "Invite accepted", map[string]interface{}{
		"membership_id": created.ID,
		"company_id":    created.CompanyID,
		"role":          string(created.Role),
	})
}

// Reject implements InviteHandler.
func (h *InviteHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	inviteID := chi.URLParam(r, "inviteID")

	if err := h.inviteService.Reject(r.Context(), inviteID, userID); err != nil {
		slog.Error("Reject invite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invite rejected", nil)
}

// Cancel implements InviteHandler.
func (h *InviteHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	inviteID := chi.URLParam(r, "inviteID")

	if err := h.inviteService.Cancel(r.Context(), inviteID, userID); err != nil {
		slog.Error("Cancel invite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invite cancelled", nil)
}

// ListReceived implements InviteHandler.
func (h *InviteHandlerImpl) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	invites, err := h.inviteService.ListReceived(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, invites)
}

// ListSent implements InviteHandler.
func (h *InviteHandlerImpl) ListSent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	invites, err := h.inviteService.ListSent(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, invites)
}
