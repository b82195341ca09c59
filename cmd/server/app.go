package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/sophia-api/internal/card"
	"github.com/phrazzld/sophia-api/internal/config"
	"github.com/phrazzld/sophia-api/internal/events"
	"github.com/phrazzld/sophia-api/internal/feed"
	"github.com/phrazzld/sophia-api/internal/generation"
	"github.com/phrazzld/sophia-api/internal/imagery"
	"github.com/phrazzld/sophia-api/internal/platform/gemini"
	"github.com/phrazzld/sophia-api/internal/platform/pexels"
	"github.com/phrazzld/sophia-api/internal/platform/postgres"
	"github.com/phrazzld/sophia-api/internal/service"
	"github.com/phrazzld/sophia-api/internal/service/auth"
	"github.com/phrazzld/sophia-api/internal/store"
	"github.com/phrazzld/sophia-api/internal/task"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	taskStore     task.TaskStore
	requestStore  store.GenerationRequestStore
	quoteStore    store.QuoteStore
	favoriteStore store.FavoriteStore
	dailyStore    store.DailyQuoteStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.QuoteGenerator
	quoteService     service.QuoteService
	userService      service.UserService
	favoriteService  service.FavoriteService
	dailyService     service.DailyService

	// Image resolution and renditions
	images        *imagery.Chain
	cardGenerator *card.Generator
	feedGenerator *feed.Generator

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger, bcrypt.DefaultCost)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.requestStore = postgres.NewPostgresGenerationRequestStore(db, logger)
	app.quoteStore = postgres.NewPostgresQuoteStore(db, logger)
	app.favoriteStore = postgres.NewPostgresFavoriteStore(db, logger)
	app.dailyStore = postgres.NewPostgresDailyQuoteStore(db, logger)

	// Create the Gemini client. It generates quote text, derives image
	// prompts, and renders Imagen images.
	geminiClient, err := gemini.NewClient(
		ctx,
		logger.With("component", "gemini_client"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	app.generator = geminiClient
	logger.Info("Gemini client initialized successfully")

	// Build the image fallback chain. Order matters: Imagen first, then
	// Pexels stock search when configured, then the static list.
	app.images, err = setupImageChain(cfg, logger, geminiClient)
	if err != nil {
		return nil, fmt.Errorf("failed to build image chain: %w", err)
	}

	// Initialize event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Initialize services
	app.userService = service.NewUserService(app.userStore, db, logger)

	app.quoteService, err = service.NewQuoteService(
		app.requestStore,
		app.quoteStore,
		db,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote service: %w", err)
	}

	app.favoriteService = service.NewFavoriteService(app.favoriteStore, logger)

	app.dailyService, err = service.NewDailyService(
		app.quoteStore,
		app.dailyStore,
		app.generator,
		app.images,
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily service: %w", err)
	}

	// Initialize card and feed renditions
	app.cardGenerator, err = card.NewGenerator(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card generator: %w", err)
	}

	app.feedGenerator, err = feed.NewGenerator(app.dailyService, cfg.Server.BaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed generator: %w", err)
	}

	// Create the task factory. The quote service fills both the request
	// lookup and quote persistence roles of the generation pipeline.
	quoteTaskFactory := task.NewQuoteGenerationTaskFactory(
		app.quoteService,
		app.generator,
		app.images,
		app.quoteService,
		logger,
	)

	// Initialize and start the task runner
	app.taskRunner, err = setupTaskRunner(app, quoteTaskFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Create and register the task factory event handler
	taskFactoryHandler := task.NewTaskFactoryEventHandler(
		quoteTaskFactory,
		app.taskRunner,
		logger,
	)

	// Register the event handler with the event emitter
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(taskFactoryHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register task handler")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupImageChain builds the ordered image source chain used to attach
// images to generated quotes.
func setupImageChain(
	cfg *config.Config,
	logger *slog.Logger,
	geminiClient *gemini.Client,
) (*imagery.Chain, error) {
	generatedSource, err := imagery.NewGeneratedSource(geminiClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create generated image source: %w", err)
	}
	sources := []imagery.Source{generatedSource}

	// The stock source is optional. Without a Pexels key the chain
	// degrades straight from Imagen to the static list.
	if cfg.Pexels.APIKey != "" {
		pexelsClient, err := pexels.NewClient(
			logger.With("component", "pexels_client"),
			cfg.Pexels,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Pexels client: %w", err)
		}

		stockSource, err := imagery.NewStockSource(pexelsClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create stock image source: %w", err)
		}
		sources = append(sources, stockSource)
		logger.Info("Pexels stock photo fallback enabled")
	} else {
		logger.Info("Pexels API key not configured, skipping stock photo fallback")
	}

	sources = append(sources, imagery.NewStaticSource())

	chain, err := imagery.NewChain(logger, geminiClient, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to create image chain: %w", err)
	}

	return chain, nil
}

// setupTaskRunner initializes and starts the background task processor.
// The factory must be registered before Start so recovery can rebuild
// persisted task rows into executable tasks.
func setupTaskRunner(app *application, factory task.TaskFactory) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    app.config.Task.QueueSize,
		WorkerCount:  app.config.Task.WorkerCount,
		StuckTaskAge: time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)

	taskRunner.RegisterFactory(factory)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop task runner
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
