package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"golang.org/x/time/rate"

	"github.com/talentbridge/portal/internal/access"
	"github.com/talentbridge/portal/internal/account"
	"github.com/talentbridge/portal/internal/guard"
	"github.com/talentbridge/portal/internal/reports"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/transport/middleware"
	"github.com/talentbridge/portal/internal/transport/swagger"
)

// RegisterAllRoutes wires the portal API. Everything passes through the
// session manager so handlers can rely on a hydrated session in context;
// the confidential surface additionally sits behind the corporate guard.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sessionManager *session.Manager, accountHandler *account.Handler, accessHandler *access.Handler, reportsHandler *reports.Handler, otpSendLimit rate.Limit, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(sessionManager.Middleware)

	// Serve the OpenAPI spec at root, swagger UI next to it
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Get("/session", accountHandler.Session)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/corporate-login", accountHandler.LoginCorporate)
			sr.Post("/signup", accountHandler.Signup)
			sr.Post("/verify-signup", accountHandler.VerifySignup)
			sr.Post("/logout", accountHandler.Logout)
		})

		// Confidential surface: corporate accounts only.
		r.Group(func(pr chi.Router) {
			pr.Use(guard.CorporateOnly())

			pr.Route("/access", func(ar chi.Router) {
				ar.Get("/state", accessHandler.State)
				ar.Get("/companies", accessHandler.Companies)
				ar.Post("/select-company", accessHandler.SelectCompany)
				ar.Post("/proceed", accessHandler.Proceed)
				ar.Post("/verify-otp", accessHandler.VerifyOTP)

				ar.Group(func(or chi.Router) {
					or.Use(middleware.RateLimit(otpSendLimit, 3))
					or.Post("/send-otp", accessHandler.SendOTP)
				})
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/current", reportsHandler.CurrentView)
				rr.Get("/{view}", reportsHandler.FetchView)
			})
		})
	})
}
