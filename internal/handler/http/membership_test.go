package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/ats-backend-go/internal/domain/membership"
	"github.com/hirestack/ats-backend-go/internal/handler/http/middleware"
	"github.com/hirestack/ats-backend-go/internal/handler/http/response"
	"github.com/hirestack/ats-backend-go/internal/pkg/jwt"
)

const (
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
)

// fakeMembershipService returns canned results so the tests exercise only
// the HTTP layer: token checks, decoding, and error-to-status mapping.
type fakeMembershipService struct {
	changeRoleErr   error
	removeMemberErr error
	lastActorUserID string
}

func (f *fakeMembershipService) ListMembers(ctx context.Context, companyID string) ([]membership.MemberResponse, error) {
	return []membership.MemberResponse{}, nil
}

func (f *fakeMembershipService) ChangeRole(ctx context.Context, membershipID string, newRole membership.Role, actorUserID string) (membership.Membership, error) {
	f.lastActorUserID = actorUserID
	if f.changeRoleErr != nil {
		return membership.Membership{}, f.changeRoleErr
	}
	return membership.Membership{ID: membershipID, Role: newRole}, nil
}

func (f *fakeMembershipService) RemoveMember(ctx context.Context, membershipID string, actorUserID string) error {
	f.lastActorUserID = actorUserID
	return f.removeMemberErr
}

func newMembershipTestRouter(jwtService jwt.Service, svc membership.MembershipService) *chi.Mux {
	handler := NewMembershipHandler(svc)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
		r.Route("/memberships/{membershipID}", func(r chi.Router) {
			r.Patch("/role", handler.ChangeRole)
			r.Delete("/", handler.RemoveMember)
		})
	})
	return r
}

func changeRoleRequest(t *testing.T, token, role string) *http.Request {
	t.Helper()
	body, err := json.Marshal(membership.ChangeRoleRequest{Role: role})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/memberships/m-1/role", bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var envelope response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestMembershipHandler_MissingToken(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	router := newMembershipTestRouter(jwtService, &fakeMembershipService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, changeRoleRequest(t, "", "recruiter"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMembershipHandler_RefreshTokenRejected(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	router := newMembershipTestRouter(jwtService, &fakeMembershipService{})

	refreshToken, _, err := jwtService.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, changeRoleRequest(t, refreshToken, "recruiter"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMembershipHandler_ChangeRole_Success(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	svc := &fakeMembershipService{}
	router := newMembershipTestRouter(jwtService, svc)

	accessToken, _, err := jwtService.GenerateAccessToken("u-1", "admin@acme.test")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, changeRoleRequest(t, accessToken, "recruiter"))

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
	// Actor identity comes from the token, not the request body
	assert.Equal(t, "u-1", svc.lastActorUserID)
}

func TestMembershipHandler_ChangeRole_InvalidRole(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	router := newMembershipTestRouter(jwtService, &fakeMembershipService{})

	accessToken, _, err := jwtService.GenerateAccessToken("u-1", "admin@acme.test")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, changeRoleRequest(t, accessToken, "superuser"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestMembershipHandler_ChangeRole_LastAdminConflict(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	router := newMembershipTestRouter(jwtService, &fakeMembershipService{
		changeRoleErr: membership.ErrLastAdmin,
	})

	accessToken, _, err := jwtService.GenerateAccessToken("u-1", "admin@acme.test")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, changeRoleRequest(t, accessToken, "recruiter"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestMembershipHandler_RemoveMember_Forbidden(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	router := newMembershipTestRouter(jwtService, &fakeMembershipService{
		removeMemberErr: membership.ErrNotCompanyAdmin,
	})

	accessToken, _, err := jwtService.GenerateAccessToken("u-1", "rec@acme.test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/memberships/m-1", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMembershipHandler_RemoveMember_NotFound(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	router := newMembershipTestRouter(jwtService, &fakeMembershipService{
		removeMemberErr: membership.ErrMembershipNotFound,
	})

	accessToken, _, err := jwtService.GenerateAccessToken("u-1", "admin@acme.test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/memberships/m-missing", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
