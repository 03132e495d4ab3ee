package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/audit"
	"github.com/linkmaxxer/gatekeeper/internal/bot"
	"github.com/linkmaxxer/gatekeeper/internal/config"
	"github.com/linkmaxxer/gatekeeper/internal/dispatch"
	"github.com/linkmaxxer/gatekeeper/internal/handlers"
	"github.com/linkmaxxer/gatekeeper/internal/middleware"
	"github.com/linkmaxxer/gatekeeper/internal/models"
	"github.com/linkmaxxer/gatekeeper/internal/routes"
	"github.com/linkmaxxer/gatekeeper/internal/telegram"
	"github.com/linkmaxxer/gatekeeper/internal/verify"
)

type application struct {
	config         *config.Config
	telegramClient *telegram.Client
	auditStore     *audit.Store
	dispatcher     *dispatch.Dispatcher
	logger         zerolog.Logger
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	// Load configuration.
	cfg := config.Load()

	// Bot API client: membership oracle, invite issuer, and notification
	// sink are all the same upstream.
	telegramClient := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken, logger)

	// Audit trail for successful grants.
	auditStore := audit.NewStore()
	recorder := audit.NewRecorder(telegramClient, auditStore, cfg.Telegram.AuditChatID, cfg.Telegram.RequestTimeout, logger)

	// Verification engine.
	engine := verify.NewEngine(
		telegramClient,
		telegramClient,
		recorder,
		cfg.Telegram.EntryChatID,
		cfg.Telegram.MainChatID,
		verify.ReissuePolicy(cfg.Verification.ReissuePolicy),
		cfg.Telegram.RequestTimeout,
		logger,
	)

	// Interaction handlers and the dispatch table, resolved once at startup.
	botHandlers := bot.NewHandlers(telegramClient, engine, cfg.Telegram.EntryChannelURL, cfg.Telegram.RequestTimeout, logger)
	dispatcher := dispatch.NewDispatcher(cfg.Dispatch.QueueSize, cfg.Dispatch.Workers, map[models.EventKind]dispatch.Handler{
		models.EventBegin:   botHandlers.Welcome,
		models.EventConfirm: botHandlers.Confirm,
	}, logger)

	// Create the application instance.
	app := &application{
		config:         cfg,
		telegramClient: telegramClient,
		auditStore:     auditStore,
		dispatcher:     dispatcher,
		logger:         logger,
	}

	// Start draining the event queue in a separate goroutine.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatchDone := make(chan struct{})
	go func() {
		logger.Info().Msg("Starting event dispatcher...")
		dispatcher.Run(dispatchCtx)
		close(dispatchDone)
	}()

	// Register the webhook endpoint with the Bot API.
	app.registerWebhook(logger)

	// Initialize the HTTP router and middleware.
	router := app.initRouter(logger)
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins([]string{"http://localhost:3000"}),
		h.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler, stopDispatch, dispatchDone, logger)

	logger.Info().Msg("Application terminated.")
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter(logger zerolog.Logger) http.Handler {
	webhookHandler := handlers.NewWebhookHandler(app.dispatcher, app.config.WebhookSecret, logger)
	authHandler := handlers.NewAuthHandler(app.config, logger)
	grantHandler := handlers.NewGrantHandler(app.auditStore, logger)

	return routes.NewRouter(webhookHandler, authHandler, grantHandler)
}

// registerWebhook points the Bot API at our /telegram route. Skipped when no
// public URL is configured, which keeps local runs usable.
func (app *application) registerWebhook(logger zerolog.Logger) {
	base := strings.TrimRight(app.config.PublicURL, "/")
	if base == "" {
		logger.Warn().Msg("No public URL configured; skipping webhook registration")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.config.Telegram.RequestTimeout)
	defer cancel()

	webhookURL := base + "/telegram"
	if err := app.telegramClient.SetWebhook(ctx, webhookURL, app.config.WebhookSecret, true); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register webhook")
	}
	logger.Info().Msgf("Webhook set to %s", webhookURL)
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler, stopDispatch context.CancelFunc, dispatchDone <-chan struct{}, logger zerolog.Logger) {
	server := &http.Server{
		Addr:    ":" + app.config.ServerPort,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}

	// Stop the dispatcher: no new events are dequeued after this point.
	logger.Info().Msg("Stopping event dispatcher...")
	stopDispatch()
	select {
	case <-dispatchDone:
		logger.Info().Msg("Event dispatcher stopped.")
	case <-time.After(10 * time.Second):
		logger.Warn().Msg("Timed out waiting for event dispatcher to stop.")
	}
}
