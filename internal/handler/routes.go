package handler

import (
	"net/http"

	"github.com/Dan9191/academy-service/internal/config"
	"github.com/Dan9191/academy-service/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every route of the API
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/latest", h.LatestDashboard).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/report.xml", h.DashboardReport).Methods(http.MethodGet)

	authRouter.HandleFunc("/students", h.ListStudents).Methods(http.MethodGet)
	authRouter.HandleFunc("/students", h.CreateStudent).Methods(http.MethodPost)
	authRouter.HandleFunc("/students/overdue", h.OverdueStudents).Methods(http.MethodGet)
	authRouter.HandleFunc("/students/{id}", h.GetStudent).Methods(http.MethodGet)
	authRouter.HandleFunc("/students/{id}", h.UpdateStudent).Methods(http.MethodPut)
	authRouter.HandleFunc("/students/{id}/financial", h.StudentFinancial).Methods(http.MethodGet)
	authRouter.HandleFunc("/students/{id}/payments", h.CreatePayment).Methods(http.MethodPost)

	authRouter.HandleFunc("/payments/{id}/confirm", h.ConfirmPayment).Methods(http.MethodPost)

	authRouter.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	authRouter.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)

	return r
}
