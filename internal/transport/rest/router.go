package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/branch"
	"github.com/edustride/crm-backend/internal/caseboard"
	"github.com/edustride/crm-backend/internal/lead"
	"github.com/edustride/crm-backend/internal/leave"
	"github.com/edustride/crm-backend/internal/student"
	"github.com/edustride/crm-backend/internal/transport/middleware"
	"github.com/edustride/crm-backend/internal/transport/swagger"
	"github.com/edustride/crm-backend/internal/university"
	"github.com/edustride/crm-backend/internal/user"
	"github.com/edustride/crm-backend/internal/voucher"
	"github.com/edustride/crm-backend/pkg/metrics"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles every module handler the router mounts. Nil entries are
// skipped so partial wiring in tests stays possible.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Lead       *lead.Handler
	Case       *caseboard.Handler
	Student    *student.Handler
	University *university.Handler
	Voucher    *voucher.Handler
	Leave      *leave.Handler
	Branch     *branch.Handler
}

// Options carries the transport-level knobs the router needs from config.
type Options struct {
	AllowedOrigins string
	MetricsEnabled bool
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, resolver *auth.Resolver, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.MetricsEnabled {
		router.Use(metrics.Instrument)
		router.Handle("/metrics", metrics.Handler())
	}

	// OpenAPI document and swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/verify", h.Auth.VerifyToken)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.Me)
			}

			if h.Lead != nil {
				pr.Route("/leads", func(lr chi.Router) {
					lr.With(middleware.RequireModule(resolver, lead.Module, "")).Get("/", h.Lead.ListLeads)
					lr.With(middleware.RequireModule(resolver, lead.Module, "")).Get("/{id}", h.Lead.GetLead)
					lr.With(middleware.RequireModule(resolver, lead.Module, auth.OpAdd)).Post("/", h.Lead.CreateLead)
					lr.With(middleware.RequireModule(resolver, lead.Module, auth.OpEdit)).Patch("/{id}", h.Lead.UpdateLead)
					lr.With(middleware.RequireModule(resolver, lead.Module, auth.OpDelete)).Delete("/{id}", h.Lead.DeleteLead)
				})
			}

			if h.Case != nil {
				pr.Route("/cases", func(cr chi.Router) {
					cr.With(middleware.RequireModule(resolver, caseboard.Module, "")).Get("/", h.Case.ListCases)
					cr.With(middleware.RequireModule(resolver, caseboard.Module, "")).Get("/{id}", h.Case.GetCase)
					cr.With(middleware.RequireModule(resolver, caseboard.Module, auth.OpAdd)).Post("/", h.Case.CreateCase)
					cr.With(middleware.RequireModule(resolver, caseboard.Module, auth.OpEdit)).Patch("/{id}", h.Case.UpdateCase)
					cr.With(middleware.RequireModule(resolver, caseboard.Module, auth.OpEdit)).Patch("/{id}/move", h.Case.MoveCase)
					cr.With(middleware.RequireModule(resolver, caseboard.Module, auth.OpDelete)).Delete("/{id}", h.Case.DeleteCase)
				})
			}

			if h.Student != nil {
				pr.Route("/students", func(sr chi.Router) {
					sr.With(middleware.RequireModule(resolver, student.Module, "")).Get("/", h.Student.ListStudents)
					sr.With(middleware.RequireModule(resolver, student.Module, "")).Get("/{id}", h.Student.GetStudent)
					sr.With(middleware.RequireModule(resolver, student.Module, auth.OpAdd)).Post("/", h.Student.CreateStudent)
					sr.With(middleware.RequireModule(resolver, student.Module, auth.OpEdit)).Patch("/{id}", h.Student.UpdateStudent)
					sr.With(middleware.RequireModule(resolver, student.Module, auth.OpDelete)).Delete("/{id}", h.Student.DeleteStudent)
				})
			}

			if h.University != nil {
				pr.Route("/universities", func(ur chi.Router) {
					ur.With(middleware.RequireModule(resolver, university.Module, "")).Get("/", h.University.ListUniversities)
					ur.With(middleware.RequireModule(resolver, university.Module, "")).Get("/{id}", h.University.GetUniversity)
					ur.With(middleware.RequireModule(resolver, university.Module, auth.OpAdd)).Post("/", h.University.CreateUniversity)
					ur.With(middleware.RequireModule(resolver, university.Module, auth.OpEdit)).Patch("/{id}", h.University.UpdateUniversity)
					ur.With(middleware.RequireModule(resolver, university.Module, auth.OpDelete)).Delete("/{id}", h.University.DeleteUniversity)
				})
			}

			if h.Voucher != nil {
				pr.Route("/vouchers", func(vr chi.Router) {
					vr.With(middleware.RequireModule(resolver, voucher.Module, "")).Get("/", h.Voucher.ListVouchers)
					vr.With(middleware.RequireModule(resolver, voucher.Module, "")).Get("/{id}", h.Voucher.GetVoucher)
					vr.With(middleware.RequireModule(resolver, voucher.Module, auth.OpAdd)).Post("/", h.Voucher.CreateVoucher)
					vr.With(middleware.RequireModule(resolver, voucher.Module, auth.OpDelete)).Delete("/{id}", h.Voucher.DeleteVoucher)

					// Approval additionally needs branch_director rank; the
					// service re-checks it.
					vr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireModule(resolver, voucher.Module, auth.OpEdit))
						ar.Use(middleware.RequireMinimumRole(resolver, voucher.ApproverRole))
						ar.Patch("/{id}/approve", h.Voucher.ApproveVoucher)
						ar.Patch("/{id}/reject", h.Voucher.RejectVoucher)
					})
				})
			}

			if h.Leave != nil {
				pr.Route("/leaves", func(lr chi.Router) {
					lr.With(middleware.RequireModule(resolver, leave.Module, "")).Get("/", h.Leave.ListLeaves)
					lr.With(middleware.RequireModule(resolver, leave.Module, "")).Get("/{id}", h.Leave.GetLeave)
					lr.With(middleware.RequireModule(resolver, leave.Module, auth.OpAdd)).Post("/", h.Leave.ApplyLeave)
					lr.With(middleware.RequireModule(resolver, leave.Module, auth.OpDelete)).Delete("/{id}", h.Leave.CancelLeave)

					lr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireModule(resolver, leave.Module, auth.OpEdit))
						ar.Use(middleware.RequireMinimumRole(resolver, leave.ApproverRole))
						ar.Patch("/{id}/approve", h.Leave.ApproveLeave)
						ar.Patch("/{id}/reject", h.Leave.RejectLeave)
					})
				})
			}

			if h.Branch != nil {
				pr.Route("/branches", func(br chi.Router) {
					br.Get("/", h.Branch.ListBranches)
					br.Get("/{id}", h.Branch.GetBranch)

					br.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireMinimumRole(resolver, branch.AdminRole))
						ar.Post("/", h.Branch.CreateBranch)
						ar.Patch("/{id}", h.Branch.UpdateBranch)
						ar.Delete("/{id}", h.Branch.DeleteBranch)
					})
				})
			}

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Use(middleware.RequireMinimumRole(resolver, user.AdminRole))
					ur.Get("/", h.User.ListUsers)
					ur.Get("/{id}", h.User.GetUser)
					ur.Post("/", h.User.CreateUser)
					ur.Patch("/{id}", h.User.UpdateUser)
					ur.Put("/{id}/permissions", h.User.ReplacePermissions)
					ur.Post("/{id}/password", h.User.ResetPassword)
				})
			}
		})
	})
}
