package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/questionnaire"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

// DispatchService sends the day's questionnaire invitation once a scheduled
// follow-up comes due, moving it from pending to sent.
type DispatchService struct {
	followUps repositories.FollowUpRepository
	patients  repositories.PatientRepository
	surgeries repositories.SurgeryRepository
	messenger providers.Messenger
	cfg       config.SchedulerConfig
	now       func() time.Time
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	followUps repositories.FollowUpRepository,
	patients repositories.PatientRepository,
	surgeries repositories.SurgeryRepository,
	messenger providers.Messenger,
	cfg config.SchedulerConfig,
) *DispatchService {
	return &DispatchService{
		followUps: followUps,
		patients:  patients,
		surgeries: surgeries,
		messenger: messenger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run dispatches due follow-ups on the configured interval until the context
// is cancelled
func (s *DispatchService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.cfg.SweepInterval).Msg("follow-up dispatcher started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("follow-up dispatcher stopped")
			return
		case <-ticker.C:
			if err := s.DispatchDue(ctx); err != nil {
				log.Error().Err(err).Msg("follow-up dispatch failed")
			}
		}
	}
}

// DispatchDue sends the intro message for every pending follow-up whose
// scheduled time has passed. Per-encounter failures are logged and skipped so
// one bad record never blocks the batch.
func (s *DispatchService) DispatchDue(ctx context.Context) error {
	due, err := s.followUps.ListDuePending(ctx, s.now())
	if err != nil {
		return fmt.Errorf("list due follow-ups: %w", err)
	}

	for _, followUp := range due {
		if err := s.dispatchOne(ctx, followUp); err != nil {
			log.Error().Err(err).Str("follow_up_id", followUp.ID).Msg("failed to dispatch follow-up")
		}
	}
	return nil
}

func (s *DispatchService) dispatchOne(ctx context.Context, followUp *entities.FollowUp) error {
	patient, err := s.patients.GetByID(ctx, followUp.PatientID)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	surgery, err := s.surgeries.GetByID(ctx, followUp.SurgeryID)
	if err != nil {
		return fmt.Errorf("load surgery: %w", err)
	}

	q, err := questionnaire.ForDay(followUp.DayNumber, surgery.Type)
	if err != nil {
		return fmt.Errorf("load questionnaire: %w", err)
	}

	intro := questionnaire.FormatIntro(patient.FirstName(), q)
	if err := s.messenger.SendText(ctx, patient.Phone, intro); err != nil {
		return fmt.Errorf("send intro: %w", err)
	}

	now := s.now()
	followUp.Status = entities.FollowUpStatusSent
	followUp.SentAt = &now
	followUp.UpdatedAt = now
	if err := s.followUps.Update(ctx, followUp); err != nil {
		return fmt.Errorf("mark follow-up sent: %w", err)
	}

	log.Info().
		Str("follow_up_id", followUp.ID).
		Str("patient_id", followUp.PatientID).
		Int("day_number", followUp.DayNumber).
		Msg("follow-up questionnaire dispatched")
	return nil
}
