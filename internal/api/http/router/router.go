// Package router wires handlers and middleware into the HTTP API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harlo-app/harlo-server/internal/api/http/handler"
	"github.com/harlo-app/harlo-server/internal/api/http/middleware"
	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/metrics"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/service"
)

// Router builds the HTTP API from the application services.
type Router struct {
	authService     *service.Auth
	tokenService    *service.TokenService
	profileService  *service.Profile
	summaryService  *service.Summary
	quizService     *service.Quiz
	deletionService *service.Deletion
	contextManager  model.ContextManager
	registry        *prometheus.Registry
	httpMetrics     *metrics.HTTP
	rateLimit       *middleware.RateLimit
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	tokenService *service.TokenService,
	profileService *service.Profile,
	summaryService *service.Summary,
	quizService *service.Quiz,
	deletionService *service.Deletion,
	contextManager model.ContextManager,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTP,
	rateLimit *middleware.RateLimit,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		tokenService:    tokenService,
		profileService:  profileService,
		summaryService:  summaryService,
		quizService:     quizService,
		deletionService: deletionService,
		contextManager:  contextManager,
		registry:        registry,
		httpMetrics:     httpMetrics,
		rateLimit:       rateLimit,
		logger:          logger,
	}
}

// Register builds the route tree with logging on every route and bearer
// authentication on everything except registration, login, refresh and
// the operational endpoints.
func (rt *Router) Register() http.Handler {
	logging := middleware.NewLogging(rt.logger, rt.httpMetrics)
	authenticate := middleware.NewAuthenticate(rt.tokenService, rt.contextManager, rt.logger)

	authHandler := handler.NewAuth(rt.authService, rt.tokenService, rt.logger)
	profileHandler := handler.NewProfile(rt.profileService, rt.contextManager, rt.logger)
	summaryHandler := handler.NewSummary(rt.summaryService, rt.contextManager, rt.logger)
	quizHandler := handler.NewQuiz(rt.quizService, rt.contextManager, rt.logger)
	accountHandler := handler.NewAccount(rt.deletionService, rt.profileService, rt.contextManager, rt.logger)

	r := chi.NewRouter()
	r.Use(logging.Handle)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if rt.registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(rt.registry))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if rt.rateLimit != nil {
				r.Use(rt.rateLimit.Handle)
			}
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate.Handle)
			if rt.rateLimit != nil {
				// After authentication so the budget is keyed by user.
				r.Use(rt.rateLimit.Handle)
			}

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Patch("/", profileHandler.UpdateDisplayName)
				r.Post("/photo", profileHandler.SetPhoto)
			})

			r.Route("/summaries", func(r chi.Router) {
				r.Post("/", summaryHandler.Create)
				r.Get("/", summaryHandler.ListRecent)
				r.Post("/upload", summaryHandler.Upload)
				r.Get("/watch", summaryHandler.WatchRecent)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", summaryHandler.Get)
					r.Delete("/", summaryHandler.Delete)
					r.Get("/watch", summaryHandler.Watch)
					r.Post("/quizzes", quizHandler.Create)
					r.Get("/quizzes", quizHandler.ListBySummary)
				})
			})

			r.Get("/quizzes/{quizID}", quizHandler.Get)

			r.Delete("/account", accountHandler.Delete)
		})
	})

	return r
}
