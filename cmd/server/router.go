package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/sophia-api/internal/api"
	apiMiddleware "github.com/phrazzld/sophia-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	quoteHandler := api.NewQuoteHandler(app.quoteService, app.logger)
	cardHandler := api.NewCardHandler(app.quoteService, app.cardGenerator, app.logger)
	favoriteHandler := api.NewFavoriteHandler(app.favoriteService, app.logger)
	dailyHandler := api.NewDailyHandler(app.dailyService, app.feedGenerator, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public read endpoints. Quote lookups and the daily quote carry
		// no per-user state, so they need no token.
		r.Get("/quotes/{id}", quoteHandler.GetQuote)
		r.Get("/quotes/{id}/card.png", cardHandler.GetCardImage)
		r.Get("/quotes/{id}/card", cardHandler.GetCardPage)
		r.Get("/daily", dailyHandler.GetDailyQuote)
		r.Get("/daily/feed.atom", dailyHandler.GetDailyFeed)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Quote generation endpoints
			r.Post("/quotes", quoteHandler.GenerateQuotes)
			r.Get("/quotes/requests/{id}", quoteHandler.GetGenerationRequest)

			// Favorite endpoints
			r.Post("/favorites/toggle", favoriteHandler.ToggleFavorite)
			r.Get("/favorites", favoriteHandler.ListFavorites)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
