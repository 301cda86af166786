package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/hirestack/ats-backend-go/internal/config"
	appHTTP "github.com/hirestack/ats-backend-go/internal/handler/http"
	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/hirestack/ats-backend-go/internal/pkg/email"
	"github.com/hirestack/ats-backend-go/internal/pkg/jwt"
	"github.com/hirestack/ats-backend-go/internal/pkg/oauth"
	"github.com/hirestack/ats-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/hirestack/ats-backend-go/internal/service/auth"
	serviceCompany "github.com/hirestack/ats-backend-go/internal/service/company"
	serviceInvite "github.com/hirestack/ats-backend-go/internal/service/invite"
	serviceMembership "github.com/hirestack/ats-backend-go/internal/service/membership"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	membershipRepo := postgresql.NewMembershipRepository(db)
	inviteRepo := postgresql.NewInviteRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	dispatcher, err := email.NewDispatcher(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email dispatcher:", err)
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTRepository, JWTService, dispatcher)
	companyService := serviceCompany.NewCompanyService(companyRepo, membershipRepo, txManager)
	membershipService := serviceMembership.NewMembershipService(membershipRepo, companyRepo, txManager)
	inviteService := serviceInvite.NewInviteService(inviteRepo, membershipRepo, companyRepo, userRepo, txManager, dispatcher)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL)
	companyHandler := appHTTP.NewCompanyHandler(companyService)
	membershipHandler := appHTTP.NewMembershipHandler(membershipService)
	inviteHandler := appHTTP.NewInviteHandler(inviteService)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		companyHandler,
		membershipHandler,
		inviteHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
