package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"highspirit-app-go/internal/config"
	"highspirit-app-go/internal/transport/httpserver/handler"
	authmw "highspirit-app-go/internal/transport/httpserver/middleware"
	"highspirit-app-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.SessionAuth, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/logout", handlers.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Get("/dashboard", handlers.DashboardSummary)

			r.Get("/customers", handlers.ListCustomers)
			r.Post("/customers", handlers.CreateCustomer)
			r.Get("/customers/export", handlers.ExportCustomers)
			r.Get("/customers/{id}", handlers.GetCustomer)
			r.Put("/customers/{id}", handlers.UpdateCustomer)
			r.Delete("/customers/{id}", handlers.DeleteCustomer)
			r.Get("/customers/{id}/photo", handlers.CustomerPhoto)

			r.Get("/customers/{id}/memberships/current", handlers.CurrentMembership)
			r.Post("/customers/{id}/memberships", handlers.AddMembership)
			r.Post("/customers/{id}/memberships/renew", handlers.RenewMembership)

			r.Get("/boxing", handlers.ListBoxingMembers)
			r.Post("/boxing", handlers.CreateBoxingMember)
			r.Get("/boxing/dues", handlers.BoxingDues)
			r.Get("/boxing/{id}", handlers.GetBoxingMember)
			r.Put("/boxing/{id}", handlers.UpdateBoxingMember)
			r.Delete("/boxing/{id}", handlers.DeleteBoxingMember)
			r.Get("/boxing/{id}/photo", handlers.BoxingMemberPhoto)

			r.Post("/imports/customers", handlers.ImportCustomers)
			r.Post("/imports/boxing", handlers.ImportBoxing)
			r.Get("/imports/customers/template", handlers.CustomerImportTemplate)
			r.Get("/imports/boxing/template", handlers.BoxingImportTemplate)
		})
	})

	return r
}
