package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hirestack/ats-backend-go/internal/handler/http/middleware"
	"github.com/hirestack/ats-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	companyHandler CompanyHandler,
	membershipHandler MembershipHandler,
	inviteHandler InviteHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ats-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
		})

		// Requires authentication. Admin checks live in the services, next
		// to the data they guard.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/companies", func(r chi.Router) {
				r.Post("/", companyHandler.Create)
				r.Get("/mine", companyHandler.ListMine)

				r.Route("/{companyID}", func(r chi.Router) {
					r.Get("/", companyHandler.GetByID)
					r.Get("/members", membershipHandler.ListMembers)
					r.Post("/invites", inviteHandler.Send)
				})
			})

			r.Route("/invites", func(r chi.Router) {
				r.Get("/received", inviteHandler.ListReceived)
				r.Get("/sent", inviteHandler.ListSent)

				r.Route("/{inviteID}", func(r chi.Router) {
					r.Post("/accept", inviteHandler.Accept)
					r.Post("/reject", inviteHandler.Reject)
					r.Post("/cancel", inviteHandler.Cancel)
				})
			})

			r.Route("/memberships/{membershipID}", func(r chi.Router) {
				r.Patch("/role", membershipHandler.ChangeRole)
				r.Delete("/", membershipHandler.RemoveMember)
			})
		})
	})
	return r
}
