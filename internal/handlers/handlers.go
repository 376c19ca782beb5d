package handlers

import (
	"CardWallet/internal/config"
	"CardWallet/internal/middleware"
	"CardWallet/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	cardService *service.CardService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Encoding"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, cardService, logger, config)
	cardHandler := NewCardHandler(cardService, logger)

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(config.RateLimit, time.Minute))
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.With(middleware.RequireAuth).Delete("/account", userHandler.DeleteAccount)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Delete("/api/users/me", userHandler.DeleteAccount)

		r.Get("/api/cards", cardHandler.List)
		r.Post("/api/cards", cardHandler.Create)
		r.Get("/api/cards/{id}", cardHandler.Get)
		r.Put("/api/cards/{id}", cardHandler.Update)
		r.Delete("/api/cards/{id}", cardHandler.Delete)
	})

	return &Handler{Router: r}
}
