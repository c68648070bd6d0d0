// Package httpapi exposes the REST surface: thin handlers mapping requests
// onto the domain services, with bearer-token auth and role gating in
// middleware. Handlers do no business logic of their own.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/logging"
	"github.com/dkozel/shopfloor/internal/server/machines"
	"github.com/dkozel/shopfloor/internal/server/tasks"
	"github.com/dkozel/shopfloor/internal/server/users"
)

type Server struct {
	logger    logging.Logger
	users     *users.Service
	tasks     *tasks.Service
	machines  *machines.Service
	jwtSecret []byte
}

// NewRouter wires the chi router. Route map:
//
//	POST /api/auth/login|forgot-password|reset-password   (public)
//	POST /api/auth/logout                                 (authenticated)
//	     /api/users...                                    (Admin, Sub Admin)
//	     /api/tasks...      reads: any role, writes: Manager and up
//	     /api/machines...   reads: any role, writes: Manager and up
//	GET  /api/analytics/summary                           (authenticated)
//	GET  /health                                          (public)
func NewRouter(l logging.Logger, us *users.Service, ts *tasks.Service, ms *machines.Service, secretKey string) *chi.Mux {
	srv := &Server{
		logger:    l.With("module", "httpapi"),
		users:     us,
		tasks:     ts,
		machines:  ms,
		jwtSecret: []byte(secretKey),
	}

	manageRoles := []string{common.RoleAdmin, common.RoleSubAdmin, common.RoleManager}
	adminRoles := []string{common.RoleAdmin, common.RoleSubAdmin}

	r := chi.NewRouter()

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", srv.handleLogin)
		r.Post("/auth/forgot-password", srv.handleForgotPassword)
		r.Post("/auth/reset-password", srv.handleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(srv.authenticate)

			r.Post("/auth/logout", srv.handleLogout)
			r.Get("/analytics/summary", srv.handleAnalyticsSummary)

			r.Route("/users", func(r chi.Router) {
				r.Use(requireRole(adminRoles...))
				r.Get("/", srv.handleListUsers)
				r.Post("/", srv.handleCreateUser)
				r.Get("/{id}", srv.handleGetUser)
				r.Put("/{id}", srv.handleUpdateUser)
				r.Delete("/{id}", srv.handleDeleteUser)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", srv.handleListTasks)
				r.Get("/{id}", srv.handleGetTask)
				r.Group(func(r chi.Router) {
					r.Use(requireRole(manageRoles...))
					r.Post("/", srv.handleCreateTask)
					r.Put("/{id}", srv.handleUpdateTask)
					r.Post("/{id}/assign", srv.handleAssignTask)
					r.Delete("/{id}", srv.handleDeleteTask)
				})
			})

			r.Route("/machines", func(r chi.Router) {
				r.Get("/", srv.handleListMachines)
				r.Get("/{id}", srv.handleGetMachine)
				r.Group(func(r chi.Router) {
					r.Use(requireRole(manageRoles...))
					r.Post("/", srv.handleCreateMachine)
					r.Put("/{id}", srv.handleUpdateMachine)
					r.Post("/{id}/maintenance", srv.handleAddMaintenance)
					r.Delete("/{id}", srv.handleDeleteMachine)
				})
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
