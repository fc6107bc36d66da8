package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	scheduleHandler ScheduleHandler,
	attendanceHandler AttendanceHandler,
	punctualityHandler PunctualityHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Post("/register", authHandler.Register)
			r.Post("/bootstrap-admin", authHandler.BootstrapAdmin)
			r.With(jwtauth.Verifier(JWTService.JWTAuth()), middleware.AuthRequired).Get("/me", authHandler.Me)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/directory", employeeHandler.Directory)

				r.Route("/{id}", func(r chi.Router) {
					// Admin, or the employee itself
					r.Get("/", employeeHandler.Get)
					r.Get("/schedule", scheduleHandler.Get)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Put("/schedule", scheduleHandler.Upsert)
						r.Put("/role", employeeHandler.SetRole)
						r.Put("/password", employeeHandler.ResetPassword)
						r.Delete("/", employeeHandler.Delete)
					})
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", employeeHandler.List)
					r.Post("/", employeeHandler.Create)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch", attendanceHandler.Punch)
				r.Get("/my", attendanceHandler.ListMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/events", attendanceHandler.List)
					r.Post("/events", attendanceHandler.RecordHistorical)
					r.Delete("/events/{id}", attendanceHandler.Delete)
					r.Get("/justifications", attendanceHandler.ListJustifications)
					r.Post("/justifications", attendanceHandler.RecordJustification)
					r.Get("/aggregate", attendanceHandler.Aggregate)
				})
			})

			r.Route("/punctuality", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", punctualityHandler.Aggregate)
				r.Get("/daily", punctualityHandler.Daily)
				r.Get("/export", punctualityHandler.Export)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
