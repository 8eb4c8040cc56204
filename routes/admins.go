package routes

import (
	"net/http"
	"time"

	"github.com/AsherwL/reward-system/controllers/admins"
	"github.com/AsherwL/reward-system/middleware"

	"github.com/gorilla/mux"
)

// SetAdminRoutes registers the staff surface. Catalog management and task
// review require different capabilities, so each group gets its own
// subrouter with the matching middleware.
func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for the staff surface: 300 per IP per minute
	adminLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(adminLimiter.Middleware)

	// Catalog management (CanManageCatalog)
	catalog := adminRouter.NewRoute().Subrouter()
	catalog.Use(middleware.StaffAuthMiddleware(middleware.CapManageCatalog))
	catalog.Handle("/apps", http.HandlerFunc(admins.ListApplicationsHandler)).Methods(http.MethodGet)
	catalog.Handle("/apps", http.HandlerFunc(admins.CreateApplicationHandler)).Methods(http.MethodPost)
	catalog.Handle("/apps/{id:[0-9]+}", http.HandlerFunc(admins.UpdateApplicationHandler)).Methods(http.MethodPut)
	catalog.Handle("/apps/{id:[0-9]+}", http.HandlerFunc(admins.DeleteApplicationHandler)).Methods(http.MethodDelete)

	// Task review and everything else (CanApprove)
	review := adminRouter.NewRoute().Subrouter()
	review.Use(middleware.StaffAuthMiddleware(middleware.CapApprove))

	review.Handle("/dashboard", http.HandlerFunc(admins.GetDashboardStats)).Methods(http.MethodGet)

	review.Handle("/tasks", http.HandlerFunc(admins.GetTasksHandler)).Methods(http.MethodGet)
	review.Handle("/tasks/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveTaskHandler)).Methods(http.MethodPut)
	review.Handle("/tasks/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectTaskHandler)).Methods(http.MethodPut)
	review.Handle("/tasks/approve", http.HandlerFunc(admins.BulkApproveTasksHandler)).Methods(http.MethodPost)
	review.Handle("/tasks/reject", http.HandlerFunc(admins.BulkRejectTasksHandler)).Methods(http.MethodPost)
	review.Handle("/tasks", http.HandlerFunc(admins.BulkDeleteTasksHandler)).Methods(http.MethodDelete)

	review.Handle("/users", http.HandlerFunc(admins.GetUsersHandler)).Methods(http.MethodGet)
	review.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUserDetailHandler)).Methods(http.MethodGet)

	review.Handle("/settings", http.HandlerFunc(admins.GetSettingsHandler)).Methods(http.MethodGet)
	review.Handle("/settings", http.HandlerFunc(admins.UpdateSettingsHandler)).Methods(http.MethodPut)
}
