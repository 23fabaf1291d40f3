package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/handlers"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/signaling"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	teacherHandler *handlers.TeacherHandler,
	appointmentHandler *handlers.AppointmentHandler,
	videoCallHandler *handlers.VideoCallHandler,
	messageHandler *handlers.MessageHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	relay *signaling.Relay,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	teacherOnly := middleware.RequireRole(models.RoleTeacher)
	studentOnly := middleware.RequireRole(models.RoleStudent)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
				r.Get("/check-auth", authHandler.CheckAuth)
			})
		})

		// ──── Teacher Directory ────
		r.Route("/teachers", func(r chi.Router) {
			r.Get("/", teacherHandler.List)
			r.Get("/{id}", teacherHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.With(teacherOnly).Put("/me/availability", teacherHandler.SetAvailability)
			})
		})

		// ──── Appointment Routes ────
		r.Route("/appointments", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.With(studentOnly).Post("/book", appointmentHandler.Book)
			r.With(studentOnly).Get("/student", appointmentHandler.ListForStudent)
			r.With(teacherOnly).Get("/teacher", appointmentHandler.ListForTeacher)
			r.With(teacherOnly).Patch("/{id}", appointmentHandler.Decide)
			r.Get("/{id}", appointmentHandler.Get)
		})

		// ──── Video Call Routes ────
		r.Route("/video-call", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.With(teacherOnly).Post("/create", videoCallHandler.Create)
			r.With(teacherOnly).Post("/toggle-join/{roomId}", videoCallHandler.ToggleCanJoin)
			r.With(teacherOnly).Get("/teacher/calls", videoCallHandler.TeacherCalls)
			r.Post("/join/{roomId}", videoCallHandler.Join)
			r.Post("/end/{roomId}", videoCallHandler.End)
			r.Get("/details/{roomId}", videoCallHandler.Details)
		})

		// ──── Chat Routes ────
		r.Route("/messages", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/send", messageHandler.Send)
			r.Get("/{appointmentId}", messageHandler.List)
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(adminOnly)
			r.Get("/users", adminHandler.ListUsers)
			r.Delete("/users/{id}", adminHandler.DeleteUser)
			r.Get("/teachers/pending", adminHandler.PendingTeachers)
			r.Patch("/teachers/{id}/approve", adminHandler.ApproveTeacher)
			r.Get("/appointments", adminHandler.ListAppointments)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
		r.Get("/ws/signaling", relay.ServeWS)
	})

	return r
}
