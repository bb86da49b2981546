package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	// UploadsDir is served read-only under /uploads when set.
	UploadsDir string
}

type Handlers struct {
	Auth       AuthHandler
	Password   PasswordHandler
	User       UserHandler
	Leave      LeaveHandler
	Hour       HourHandler
	Attendance AttendanceHandler
	Stats      StatsHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-attendance"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
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

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/password/forgot", h.Password.ForgotPassword)
		r.Post("/password/setup", h.Password.SetupPassword)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Patch("/auth/change-password", h.Auth.ChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.Get("/departments", h.User.GetDepartments)
				r.With(middleware.RequireUser).Put("/me", h.User.UpdateMe)
				r.With(middleware.RequireUser).Put("/me/profile-image", h.User.UpdateProfileImage)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.User.ListUsers)
					r.Post("/", h.User.CreateUser)
					r.Get("/email/{email}", h.User.GetUserByEmail)
					r.Route("/{userID}", func(r chi.Router) {
						r.Get("/", h.User.GetUser)
						r.Delete("/", h.User.DeleteUser)
						r.Get("/requests", h.User.GetUserRequests)
						r.Patch("/leave-balance", h.User.UpdateLeaveBalance)
						r.Patch("/hour-balance", h.User.UpdateHourBalance)
					})
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequireUser).Post("/", h.Leave.SubmitRequest)
				r.Get("/me", h.Leave.GetMyRequests)
				r.Put("/{requestID}", h.Leave.UpdateRequest)
				r.Delete("/{requestID}", h.Leave.DeleteRequest)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/pending", h.Leave.GetPendingRequests)
					r.Patch("/{requestID}/approve", h.Leave.ApproveRequest)
					r.Patch("/{requestID}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/hour-requests", func(r chi.Router) {
				r.With(middleware.RequireUser).Post("/", h.Hour.SubmitRequest)
				r.Get("/me", h.Hour.GetMyRequests)
				r.Put("/{requestID}", h.Hour.UpdateRequest)
				r.Delete("/{requestID}", h.Hour.DeleteRequest)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/pending", h.Hour.GetPendingRequests)
					r.Patch("/{requestID}/approve", h.Hour.ApproveRequest)
					r.Patch("/{requestID}/reject", h.Hour.RejectRequest)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/me", h.Attendance.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/daily", h.Attendance.GetDailyStatus)
					r.Post("/process", h.Attendance.ProcessDaily)
				})
			})

			r.With(middleware.RequireAdmin).Get("/stats/requests", h.Stats.GetRequestStats)
		})
	})
	return r
}
