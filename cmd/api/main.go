package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/adapters/cache"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/adapters/database"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/adapters/events"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/api/handlers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/api/routes"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/application/services"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/anthropic"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/redis"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/notifications"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/observability"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("followup-api", os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: dedup and events degrade to Postgres-only behavior
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without it")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	messenger, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize WhatsApp sender")
	}

	assessor, err := anthropic.NewClient(&cfg.Anthropic)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize risk assessment client")
	}

	// Repositories
	patientAdapter := database.NewPatientAdapter(pgClient)
	surgeryAdapter := database.NewSurgeryAdapter(pgClient)
	followUpAdapter := database.NewFollowUpAdapter(pgClient)
	responseAdapter := database.NewResponseAdapter(pgClient)

	// Message dedup: Redis fast path over the durable Postgres ledger
	ledger := database.NewMessageLedgerAdapter(pgClient)
	if redisClient != nil {
		ledger = cache.NewRedisMessageLedger(redisClient, ledger)
	}

	var eventBus providers.EventBus
	var pushNotifier providers.PushNotifier
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		pushNotifier = events.NewRedisPushNotifier(redisClient)
	}

	conversationService := services.NewConversationService(
		patientAdapter, surgeryAdapter, followUpAdapter, responseAdapter,
		messenger, assessor, pushNotifier, eventBus,
	)
	dispatchService := services.NewDispatchService(
		followUpAdapter, patientAdapter, surgeryAdapter, messenger, cfg.Scheduler,
	)
	escalationService := services.NewEscalationService(
		followUpAdapter, responseAdapter, patientAdapter, surgeryAdapter,
		messenger, eventBus, cfg.Scheduler,
	)

	// In-process schedulers
	go dispatchService.Run(ctx)
	go escalationService.Run(ctx)

	webhookHandler := handlers.NewWhatsAppWebhookHandler(conversationService, ledger, messenger, &cfg.WhatsApp)
	var sseHandler *handlers.SSEHandler
	if eventBus != nil {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}
	router := routes.NewRouter(webhookHandler, sseHandler, &cfg.Server)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server exited")
}
