package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/config"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/middleware"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/metrics"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	RuleSet    RuleSetHandler
	Settlement SettlementHandler
	Report     ReportHandler
}

func NewRouter(app config.AppConfig, JWTService jwt.Service, m *metrics.Metrics, loginLimiter func(http.Handler) http.Handler, h Handlers) *chi.Mux {
	if loginLimiter == nil {
		loginLimiter = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ktv-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter).Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/settings", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
				r.Get("/", h.RuleSet.GetSettings)
				r.With(middleware.RequireEditable).Put("/", h.RuleSet.UpdateSettings)
			})

			r.Route("/templates", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionTemplateManage))
				r.Get("/", h.RuleSet.ListTemplates)
				r.Get("/{id}", h.RuleSet.GetTemplate)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEditable)
					r.Post("/", h.RuleSet.CreateTemplate)
					r.Post("/from-current", h.RuleSet.CreateTemplateFromCurrent)
					r.Put("/{id}", h.RuleSet.UpdateTemplate)
					r.Delete("/{id}", h.RuleSet.DeleteTemplate)
					r.Post("/{id}/apply", h.RuleSet.ApplyTemplate)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Group(func(r chi.Router) {
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Get("/{id}/rules", h.Employee.GetRuleSet)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Use(middleware.RequireEditable)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Put("/{id}/template", h.Employee.AssignTemplate)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAuditView)).Get("/changes", h.Attendance.RecentChanges)

				r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Group(func(r chi.Router) {
					r.Get("/", h.Attendance.List)
					r.Get("/day/{date}", h.Attendance.DayTotals)
					r.Get("/{id}", h.Attendance.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceEdit))
					r.Use(middleware.RequireEditable)
					r.Post("/", h.Attendance.Upsert)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/settlements", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionSettlementView)).Group(func(r chi.Router) {
					r.Get("/", h.Settlement.ListSettlements)
					r.Get("/{employeeID}", h.Settlement.GetSettlement)
				})

				r.With(
					middleware.RequirePermission(user.PermissionSettlementManage),
					middleware.RequireEditable,
				).Put("/{employeeID}/payout-date", h.Settlement.UpdatePayoutDate)
			})

			r.With(middleware.RequirePermission(user.PermissionSettlementView)).Post("/salary/preview", h.Settlement.Preview)

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/stats", h.Report.GetStats)
				r.Get("/income", h.Report.GetIncomeStats)
				r.Get("/export", h.Report.Export)
			})

			// Admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.User.ListUsers)
				r.Get("/{id}", h.User.GetUser)
				r.Post("/", h.User.CreateUser)
				r.Put("/{id}", h.User.UpdateUser)
				r.Delete("/{id}", h.User.DeleteUser)
			})
		})
	})
	return r
}
