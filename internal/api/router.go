package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lmarques/goaltrack-be/internal/api/handlers"
	"github.com/lmarques/goaltrack-be/internal/auth"
	"github.com/lmarques/goaltrack-be/internal/config"
	"github.com/lmarques/goaltrack-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, tokens *auth.TokenService, userService services.UserServiceProvider, goalService services.GoalServiceProvider, targetService services.TargetServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	goalHandler := handlers.NewGoalHandler(goalService)
	targetHandler := handlers.NewTargetHandler(targetService)

	requireAuth := tokens.Middleware(userService)
	optionalAuth := tokens.OptionalMiddleware(userService)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.Post("/token", userHandler.Login)
			r.Delete("/token", userHandler.Logout)
			r.Get("/{username}", userHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", userHandler.GetMe)
				r.Delete("/", userHandler.Delete)
			})
		})

		r.Route("/goal", func(r chi.Router) {
			r.Get("/public", goalHandler.ListPublic)
			r.With(optionalAuth).Get("/{goalID}", goalHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", goalHandler.Create)
				r.Get("/", goalHandler.ListOwn)
				r.Put("/{goalID}", goalHandler.Update)
				r.Delete("/{goalID}", goalHandler.Delete)

				// Targets live under their parent goal
				r.Post("/{goalID}/target", targetHandler.Add)
				r.Put("/{goalID}/target/{targetID}", targetHandler.Update)
				r.Delete("/{goalID}/target/{targetID}", targetHandler.Delete)
			})
		})
	})

	return r
}
