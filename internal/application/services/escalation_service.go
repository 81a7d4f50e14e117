package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

const msgNudge = "Oi! Percebi que você não terminou o questionário de hoje. 😊\n" +
	"Pode continuar de onde parou quando tiver um minutinho? É rapidinho e ajuda muito no seu acompanhamento."

// EscalationService watches mid-questionnaire encounters for silence. First a
// single reminder to the patient, and if the silence persists, a stall alert
// to the clinician. Each stage fires at most once per encounter.
type EscalationService struct {
	followUps repositories.FollowUpRepository
	responses repositories.ResponseRepository
	patients  repositories.PatientRepository
	surgeries repositories.SurgeryRepository
	messenger providers.Messenger
	bus       providers.EventBus
	cfg       config.SchedulerConfig
	now       func() time.Time
}

// NewEscalationService creates a new escalation service
func NewEscalationService(
	followUps repositories.FollowUpRepository,
	responses repositories.ResponseRepository,
	patients repositories.PatientRepository,
	surgeries repositories.SurgeryRepository,
	messenger providers.Messenger,
	bus providers.EventBus,
	cfg config.SchedulerConfig,
) *EscalationService {
	return &EscalationService{
		followUps: followUps,
		responses: responses,
		patients:  patients,
		surgeries: surgeries,
		messenger: messenger,
		bus:       bus,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run sweeps on the configured interval until the context is cancelled
func (s *EscalationService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	log.Info().
		Dur("interval", s.cfg.SweepInterval).
		Dur("nudge_after", s.cfg.NudgeAfter).
		Dur("alert_after", s.cfg.AlertAfter).
		Msg("escalation sweep started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("escalation sweep stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("escalation sweep failed")
			}
		}
	}
}

// Sweep examines every in-progress encounter once. Per-encounter failures
// are logged and do not interrupt the sweep.
func (s *EscalationService) Sweep(ctx context.Context) error {
	followUps, err := s.followUps.ListInProgress(ctx)
	if err != nil {
		return fmt.Errorf("list in-progress follow-ups: %w", err)
	}

	for _, followUp := range followUps {
		if err := s.sweepOne(ctx, followUp); err != nil {
			log.Error().Err(err).Str("follow_up_id", followUp.ID).Msg("failed to process stalled follow-up")
		}
	}
	return nil
}

func (s *EscalationService) sweepOne(ctx context.Context, followUp *entities.FollowUp) error {
	response, err := s.responses.LatestByFollowUp(ctx, followUp.ID)
	if err != nil {
		return fmt.Errorf("load response record: %w", err)
	}
	if response == nil {
		return nil
	}

	silence := s.now().Sub(response.UpdatedAt)

	switch {
	case silence >= s.cfg.AlertAfter && response.NudgeOutstanding() && !response.DoctorAlerted:
		return s.alertStalled(ctx, followUp, response)
	case silence >= s.cfg.NudgeAfter && !response.NudgeOutstanding():
		return s.nudge(ctx, followUp, response)
	}
	return nil
}

func (s *EscalationService) nudge(ctx context.Context, followUp *entities.FollowUp, response *entities.FollowUpResponse) error {
	patient, err := s.patients.GetByID(ctx, followUp.PatientID)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}

	if err := s.messenger.SendText(ctx, patient.Phone, msgNudge); err != nil {
		return fmt.Errorf("send nudge: %w", err)
	}

	now := s.now()
	response.AppendTurn(entities.TurnAssistant, msgNudge, true, now)
	response.UpdatedAt = now
	if err := s.responses.Update(ctx, response); err != nil {
		return fmt.Errorf("record nudge: %w", err)
	}

	followUp.UpdatedAt = now
	if err := s.followUps.Update(ctx, followUp); err != nil {
		return fmt.Errorf("touch follow-up: %w", err)
	}

	log.Info().Str("follow_up_id", followUp.ID).Msg("nudge sent to stalled patient")
	return nil
}

func (s *EscalationService) alertStalled(ctx context.Context, followUp *entities.FollowUp, response *entities.FollowUpResponse) error {
	patient, err := s.patients.GetByID(ctx, followUp.PatientID)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	surgery, err := s.surgeries.GetByID(ctx, followUp.SurgeryID)
	if err != nil {
		return fmt.Errorf("load surgery: %w", err)
	}

	alert := providers.DoctorAlert{
		DoctorPhone: patient.DoctorPhone,
		DoctorName:  patient.DoctorName,
		PatientName: patient.Name,
		SurgeryType: surgery.Type,
		DayNumber:   followUp.DayNumber,
		RiskLevel:   response.RiskLevel,
		RedFlags:    response.AllRedFlagMessages(),
		Stalled:     true,
	}
	if err := s.messenger.SendDoctorAlert(ctx, alert); err != nil {
		return fmt.Errorf("send stall alert: %w", err)
	}

	if err := s.responses.MarkDoctorAlerted(ctx, response.ID, s.now()); err != nil {
		return fmt.Errorf("mark doctor alerted: %w", err)
	}

	if s.bus != nil {
		event := entities.NewFollowUpEvent(
			entities.FollowUpEventStalled, followUp.PatientID, followUp.ID, followUp.DayNumber, response.RiskLevel)
		if err := s.bus.Publish(ctx, providers.EventChannelFollowUps, event); err != nil {
			log.Warn().Err(err).Str("follow_up_id", followUp.ID).Msg("failed to publish stall event")
		}
	}

	log.Warn().
		Str("follow_up_id", followUp.ID).
		Int("day_number", followUp.DayNumber).
		Msg("doctor alerted about stalled follow-up")
	return nil
}
