package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirestack/ats-backend-go/internal/domain/auth"
	"github.com/hirestack/ats-backend-go/internal/domain/user"
	"github.com/hirestack/ats-backend-go/internal/pkg/email"
	"github.com/hirestack/ats-backend-go/internal/pkg/jwt"
	"github.com/hirestack/ats-backend-go/internal/pkg/otp"
	"github.com/hirestack/ats-backend-go/internal/repository/postgresql"
)

type authServiceImpl struct {
	userRepo   user.UserRepository
	jwtRepo    postgresql.JWTRepository
	jwtService jwt.Service
	dispatcher email.Dispatcher
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo user.UserRepository,
	jwtRepo postgresql.JWTRepository,
	jwtService jwt.Service,
	dispatcher email.Dispatcher,
) auth.AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtRepo:    jwtRepo,
		jwtService: jwtService,
		dispatcher: dispatcher,
	}
}

// Register implements auth.AuthService.
func (s *authServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return auth.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	passwordHash := string(hash)

	secret, err := otp.GenerateSecret(req.Email)
	if err != nil {
		return err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return err
	}

	created, err := s.userRepo.Create(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: &passwordHash,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		DateOfBirth:  &dob,
		OTPSecret:    &secret,
	})
	if err != nil {
		if err == user.ErrUserEmailExists {
			return auth.ErrEmailAlreadyExists
		}
		return err
	}

	code, err := otp.GenerateCode(secret)
	if err != nil {
		return err
	}
	s.dispatcher.DispatchOTP(created.Email, email.PurposeVerify, code)

	return nil
}

// VerifyEmail implements auth.AuthService. Unknown emails fail the same way
// as wrong codes so the endpoint cannot be used to probe for accounts.
func (s *authServiceImpl) VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			return auth.ErrInvalidOTP
		}
		return err
	}

	if u.OTPSecret == nil || !otp.Verify(req.OTP, *u.OTPSecret) {
		return auth.ErrInvalidOTP
	}
	if u.EmailVerified {
		return nil
	}

	return s.userRepo.SetEmailVerified(ctx, u.ID)
}

// Login implements auth.AuthService.
func (s *authServiceImpl) Login(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, err
	}

	// OAuth-only accounts have no password
	if u.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !u.EmailVerified {
		return auth.TokenResponse{}, auth.ErrEmailNotVerified
	}

	return s.issueTokens(ctx, u, sessionReq)
}

// LoginWithGoogle implements auth.AuthService. First-time Google logins
// create a verified account; returning ones link the Google id to the
// existing account.
func (s *authServiceImpl) LoginWithGoogle(ctx context.Context, googleEmail, googleID string, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, googleEmail)
	if err != nil && err != user.ErrUserNotFound {
		return auth.TokenResponse{}, err
	}

	if err == user.ErrUserNotFound {
		provider := "google"
		firstName := googleEmail
		if at := strings.Index(googleEmail, "@"); at > 0 {
			firstName = googleEmail[:at]
		}
		u, err = s.userRepo.Create(ctx, user.User{
			ID:              uuid.NewString(),
			Email:           googleEmail,
			FirstName:       firstName,
			EmailVerified:   true,
			OAuthProvider:   &provider,
			OAuthProviderID: &googleID,
		})
		if err != nil {
			return auth.TokenResponse{}, err
		}
	} else if u.OAuthProviderID == nil {
		u, err = s.userRepo.LinkGoogleAccount(ctx, googleID, googleEmail)
		if err != nil {
			return auth.TokenResponse{}, err
		}
		if !u.EmailVerified {
			// Google vouches for the address
			if err := s.userRepo.SetEmailVerified(ctx, u.ID); err != nil {
				return auth.TokenResponse{}, err
			}
		}
	}

	return s.issueTokens(ctx, u, sessionReq)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, u user.User, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	if err := s.jwtRepo.CreateRefreshToken(ctx, u.ID, refreshToken, refreshExpiresAt, sessionReq); err != nil {
		return auth.TokenResponse{}, err
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresAt,
	}, nil
}

// RefreshToken implements auth.AuthService.
func (s *authServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	token, err := jwtauth.VerifyToken(s.jwtService.JWTAuth(), req.RefreshToken)
	if err != nil {
		if err == jwtauth.ErrExpired {
			return auth.AccessTokenResponse{}, auth.ErrTokenExpired
		}
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, revoked, err := s.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == user.ErrUserNotFound {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, err
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrInvalidToken
	}
	return s.jwtRepo.RevokeRefreshToken(ctx, refreshToken)
}

// ForgotPassword implements auth.AuthService.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			// Report success so the endpoint cannot be used to probe for
			// accounts
			return nil
		}
		return err
	}
	// Unverified accounts and OAuth-only accounts get no reset code either
	if u.OTPSecret == nil || !u.EmailVerified {
		return nil
	}

	code, err := otp.GenerateCode(*u.OTPSecret)
	if err != nil {
		return err
	}
	s.dispatcher.DispatchOTP(u.Email, email.PurposeReset, code)

	return nil
}

// ResetPassword implements auth.AuthService.
func (s *authServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == user.ErrUserNotFound {
			return auth.ErrInvalidOTP
		}
		return err
	}

	if u.OTPSecret == nil || !otp.Verify(req.OTP, *u.OTPSecret) {
		return auth.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, u.ID, string(hash))
}
