package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/adapters/database"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/adapters/events"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/application/services"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/redis"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/notifications"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/observability"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

// Standalone dispatch and escalation sweeper, for deployments that run the
// webhook server without in-process schedulers.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("followup-sweeper", os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without events")
	} else {
		defer redisClient.Close()
		eventBus = events.NewRedisEventBus(redisClient)
	}

	messenger, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize WhatsApp sender")
	}

	patientAdapter := database.NewPatientAdapter(pgClient)
	surgeryAdapter := database.NewSurgeryAdapter(pgClient)
	followUpAdapter := database.NewFollowUpAdapter(pgClient)
	responseAdapter := database.NewResponseAdapter(pgClient)

	dispatchService := services.NewDispatchService(
		followUpAdapter, patientAdapter, surgeryAdapter, messenger, cfg.Scheduler,
	)
	escalationService := services.NewEscalationService(
		followUpAdapter, responseAdapter, patientAdapter, surgeryAdapter,
		messenger, eventBus, cfg.Scheduler,
	)

	go dispatchService.Run(ctx)
	go escalationService.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sweeper shutting down")
	cancel()

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}
}
