package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/questionnaire"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/redflags"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
)

// Patient-facing replies. All follow-up conversations run in Portuguese.
const (
	msgNotRegistered = "Olá! Não encontrei seu cadastro em nosso sistema de acompanhamento pós-operatório. " +
		"Por favor, entre em contato com o consultório."
	msgNoPendingFollowUp = "Olá, %s! Não há nenhum acompanhamento pendente no momento. " +
		"Se estiver com algum sintoma que te preocupa, entre em contato com o consultório."
	msgWaitingForStart = "Quando quiser começar o questionário de hoje, é só responder *sim*. 😊"
	msgStartAck        = "Ótimo! Vamos começar. 😊\n\n"
	msgTechnicalIssue  = "Desculpe, tivemos um problema técnico ao processar sua mensagem. " +
		"Por favor, tente novamente em alguns minutos."
)

// ConversationService routes inbound patient messages through the follow-up
// state machine: opt-in, one question per turn, then risk analysis and
// clinician escalation.
type ConversationService struct {
	patients  repositories.PatientRepository
	surgeries repositories.SurgeryRepository
	followUps repositories.FollowUpRepository
	responses repositories.ResponseRepository
	messenger providers.Messenger
	assessor  providers.RiskAssessor
	pusher    providers.PushNotifier
	bus       providers.EventBus
	now       func() time.Time
}

// NewConversationService creates a new conversation service
func NewConversationService(
	patients repositories.PatientRepository,
	surgeries repositories.SurgeryRepository,
	followUps repositories.FollowUpRepository,
	responses repositories.ResponseRepository,
	messenger providers.Messenger,
	assessor providers.RiskAssessor,
	pusher providers.PushNotifier,
	bus providers.EventBus,
) *ConversationService {
	return &ConversationService{
		patients:  patients,
		surgeries: surgeries,
		followUps: followUps,
		responses: responses,
		messenger: messenger,
		assessor:  assessor,
		pusher:    pusher,
		bus:       bus,
		now:       time.Now,
	}
}

// HandleIncomingText processes one inbound patient text. Pipeline failures
// are reported to the patient as a generic technical problem; the error is
// still returned for logging.
func (s *ConversationService) HandleIncomingText(ctx context.Context, from string, text string) error {
	patient, err := s.patients.FindByPhone(ctx, from)
	if err != nil {
		s.replyBestEffort(ctx, from, msgTechnicalIssue)
		return fmt.Errorf("patient lookup: %w", err)
	}
	if patient == nil {
		return s.messenger.SendText(ctx, from, msgNotRegistered)
	}

	followUp, err := s.followUps.FindActiveByPatient(ctx, patient.ID)
	if err != nil {
		s.replyBestEffort(ctx, from, msgTechnicalIssue)
		return fmt.Errorf("follow-up lookup: %w", err)
	}
	if followUp == nil {
		return s.messenger.SendText(ctx, from, fmt.Sprintf(msgNoPendingFollowUp, patient.FirstName()))
	}

	switch followUp.Status {
	case entities.FollowUpStatusPending, entities.FollowUpStatusSent:
		err = s.handleAwaitingStart(ctx, patient, followUp, text)
	case entities.FollowUpStatusInProgress:
		err = s.recordAnswer(ctx, patient, followUp, text)
	default:
		// FindActiveByPatient only returns routable statuses
		err = fmt.Errorf("unroutable follow-up status %q", followUp.Status)
	}

	if err != nil {
		s.replyBestEffort(ctx, from, msgTechnicalIssue)
	}
	return err
}

// handleAwaitingStart waits for the patient's opt-in before the first question.
// The opt-in only counts against a sent encounter; a pending one has not had
// its intro dispatched yet, so the patient keeps getting the waiting message.
func (s *ConversationService) handleAwaitingStart(ctx context.Context, patient *entities.Patient, followUp *entities.FollowUp, text string) error {
	if followUp.Status != entities.FollowUpStatusSent || !isAffirmative(text) {
		return s.messenger.SendText(ctx, patient.Phone, msgWaitingForStart)
	}

	q, _, err := s.loadQuestionnaire(ctx, followUp)
	if err != nil {
		return err
	}

	now := s.now()
	response := &entities.FollowUpResponse{
		ID:                   uuid.NewString(),
		FollowUpID:           followUp.ID,
		DoctorID:             patient.DoctorID,
		CurrentQuestionIndex: 1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	response.AppendTurn(entities.TurnPatient, text, false, now)

	first := msgStartAck + questionnaire.FormatQuestion(q.Questions[0])
	response.AppendTurn(entities.TurnAssistant, first, false, now)

	if err := s.responses.Create(ctx, response); err != nil {
		return fmt.Errorf("create response record: %w", err)
	}

	followUp.Status = entities.FollowUpStatusInProgress
	followUp.UpdatedAt = now
	if err := s.followUps.Update(ctx, followUp); err != nil {
		return fmt.Errorf("update follow-up: %w", err)
	}

	return s.messenger.SendText(ctx, patient.Phone, first)
}

// recordAnswer stores the answer to the current question and either asks the
// next one or finalizes the day
func (s *ConversationService) recordAnswer(ctx context.Context, patient *entities.Patient, followUp *entities.FollowUp, text string) error {
	response, err := s.responses.LatestByFollowUp(ctx, followUp.ID)
	if err != nil {
		return fmt.Errorf("load response record: %w", err)
	}
	if response == nil {
		// In progress without a record should not happen; restart the opt-in
		followUp.Status = entities.FollowUpStatusSent
		followUp.UpdatedAt = s.now()
		if err := s.followUps.Update(ctx, followUp); err != nil {
			return fmt.Errorf("reset follow-up: %w", err)
		}
		return s.messenger.SendText(ctx, patient.Phone, msgWaitingForStart)
	}

	q, surgery, err := s.loadQuestionnaire(ctx, followUp)
	if err != nil {
		return err
	}

	idx := response.CurrentQuestionIndex
	if idx < 1 || idx > q.LastPosition() {
		return fmt.Errorf("question index %d out of range for day %d", idx, followUp.DayNumber)
	}

	now := s.now()
	current := q.Questions[idx-1]
	response.Answers = append(response.Answers, entities.Answer{
		QuestionCode: current.Code,
		RawAnswer:    strings.TrimSpace(text),
	})
	response.AppendTurn(entities.TurnPatient, text, false, now)
	response.UpdatedAt = now

	if idx < q.LastPosition() {
		next := questionnaire.FormatQuestion(q.Questions[idx])
		response.CurrentQuestionIndex = idx + 1
		response.AppendTurn(entities.TurnAssistant, next, false, now)

		if err := s.responses.Update(ctx, response); err != nil {
			return fmt.Errorf("update response record: %w", err)
		}

		followUp.UpdatedAt = now
		if err := s.followUps.Update(ctx, followUp); err != nil {
			return fmt.Errorf("update follow-up: %w", err)
		}

		return s.messenger.SendText(ctx, patient.Phone, next)
	}

	return s.finalize(ctx, patient, surgery, followUp, q, response)
}

// finalize runs the clinical pipeline once the last answer arrives:
// coercion, deterministic rules, AI assessment, reconciliation, persistence
// and escalation.
func (s *ConversationService) finalize(
	ctx context.Context,
	patient *entities.Patient,
	surgery *entities.Surgery,
	followUp *entities.FollowUp,
	q *entities.Questionnaire,
	response *entities.FollowUpResponse,
) error {
	clinical := questionnaire.ToClinicalData(response.Answers, q.Questions)
	flags := redflags.Detect(clinical, surgery.Type, followUp.DayNumber)
	deterministicRisk := redflags.AggregateRisk(flags)

	assessment, err := s.assessor.Assess(ctx, providers.AssessmentInput{
		PatientName: patient.FirstName(),
		SurgeryType: surgery.Type,
		DayNumber:   followUp.DayNumber,
		Clinical:    clinical,
		Answers:     response.Answers,
		KnownFlags:  flags,
	})
	if err != nil || assessment == nil {
		// Assessors degrade internally; this is a second line of defense
		log.Error().Err(err).Str("follow_up_id", followUp.ID).Msg("risk assessor returned error")
		assessment = conservativeAssessment(flags)
	}

	// The stricter of the two readings wins
	finalRisk := deterministicRisk.Max(assessment.RiskLevel)

	now := s.now()
	response.Clinical = clinical
	response.RiskLevel = finalRisk
	response.RedFlags = flags
	response.AIRedFlags = assessment.RedFlags
	response.AIAnalysis = assessment.Analysis
	response.UpdatedAt = now

	reply := assessment.EmpatheticResponse
	if assessment.SeekCareAdvice != "" {
		reply += "\n\n" + assessment.SeekCareAdvice
	}
	response.AppendTurn(entities.TurnAssistant, reply, false, now)

	if err := s.responses.Update(ctx, response); err != nil {
		return fmt.Errorf("persist final response: %w", err)
	}

	followUp.Status = entities.FollowUpStatusResponded
	followUp.RespondedAt = &now
	followUp.UpdatedAt = now
	if err := s.followUps.Update(ctx, followUp); err != nil {
		return fmt.Errorf("close follow-up: %w", err)
	}

	if err := s.messenger.SendText(ctx, patient.Phone, reply); err != nil {
		return fmt.Errorf("send final reply: %w", err)
	}

	s.publishBestEffort(ctx, entities.NewFollowUpEvent(
		entities.FollowUpEventResponded, patient.ID, followUp.ID, followUp.DayNumber, finalRisk))

	if finalRisk == entities.RiskHigh || finalRisk == entities.RiskCritical {
		s.escalateToDoctor(ctx, patient, surgery, followUp, response, finalRisk)
	}

	log.Info().
		Str("follow_up_id", followUp.ID).
		Int("day_number", followUp.DayNumber).
		Str("risk_level", string(finalRisk)).
		Int("red_flags", len(flags)).
		Bool("ai_degraded", assessment.Degraded).
		Msg("follow-up finalized")
	return nil
}

// escalateToDoctor alerts the clinician over WhatsApp and push. Alert
// failures are logged, not surfaced; the patient's flow already succeeded.
func (s *ConversationService) escalateToDoctor(
	ctx context.Context,
	patient *entities.Patient,
	surgery *entities.Surgery,
	followUp *entities.FollowUp,
	response *entities.FollowUpResponse,
	risk entities.RiskLevel,
) {
	alert := providers.DoctorAlert{
		DoctorPhone: patient.DoctorPhone,
		DoctorName:  patient.DoctorName,
		PatientName: patient.Name,
		SurgeryType: surgery.Type,
		DayNumber:   followUp.DayNumber,
		RiskLevel:   risk,
		RedFlags:    response.AllRedFlagMessages(),
	}

	if err := s.messenger.SendDoctorAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("follow_up_id", followUp.ID).Msg("failed to alert doctor")
		return
	}

	if err := s.responses.MarkDoctorAlerted(ctx, response.ID, s.now()); err != nil {
		log.Error().Err(err).Str("response_id", response.ID).Msg("failed to mark doctor alerted")
	}

	if s.pusher != nil {
		notification := &entities.PushNotification{
			Title:              fmt.Sprintf("🚨 Paciente %s precisa de atenção", patient.FirstName()),
			Body:               fmt.Sprintf("Risco %s no D+%d de %s", strings.ToUpper(string(risk)), followUp.DayNumber, surgery.Type),
			URL:                "/followups/" + followUp.ID,
			Tag:                "followup-" + followUp.ID,
			RequireInteraction: risk == entities.RiskCritical,
		}
		if err := s.pusher.NotifyDoctor(ctx, patient.DoctorID, notification); err != nil {
			log.Warn().Err(err).Str("doctor_id", patient.DoctorID).Msg("failed to push doctor notification")
		}
	}

	event := entities.NewFollowUpEvent(
		entities.FollowUpEventRedFlag, patient.ID, followUp.ID, followUp.DayNumber, risk)
	s.publishBestEffort(ctx, event)
	s.publishToDoctorBestEffort(ctx, patient.DoctorID, event)
}

func (s *ConversationService) loadQuestionnaire(ctx context.Context, followUp *entities.FollowUp) (*entities.Questionnaire, *entities.Surgery, error) {
	surgery, err := s.surgeries.GetByID(ctx, followUp.SurgeryID)
	if err != nil {
		return nil, nil, fmt.Errorf("load surgery: %w", err)
	}

	q, err := questionnaire.ForDay(followUp.DayNumber, surgery.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("load questionnaire: %w", err)
	}
	return q, surgery, nil
}

func (s *ConversationService) publishBestEffort(ctx context.Context, event *entities.FollowUpEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, providers.EventChannelFollowUps, event); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish follow-up event")
	}
}

func (s *ConversationService) publishToDoctorBestEffort(ctx context.Context, doctorID string, event *entities.FollowUpEvent) {
	if s.bus == nil || doctorID == "" {
		return
	}
	if err := s.bus.Publish(ctx, providers.GetDoctorChannel(doctorID), event); err != nil {
		log.Warn().Err(err).Str("doctor_id", doctorID).Msg("failed to publish doctor event")
	}
}

func (s *ConversationService) replyBestEffort(ctx context.Context, to string, body string) {
	if err := s.messenger.SendText(ctx, to, body); err != nil {
		log.Warn().Err(err).Msg("failed to send fallback reply")
	}
}

func conservativeAssessment(flags []entities.RedFlag) *providers.RiskAssessment {
	level := entities.RiskMedium
	if len(flags) > 0 {
		level = entities.RiskHigh
	}
	return &providers.RiskAssessment{
		RiskLevel: level,
		EmpatheticResponse: "Obrigado por responder ao questionário. Recebi suas informações e vou analisá-las com cuidado. " +
			"Em caso de qualquer sintoma que te preocupe, não hesite em entrar em contato.",
		Degraded: true,
	}
}

// isAffirmative recognizes the opt-in tokens that start a questionnaire
func isAffirmative(text string) bool {
	token := strings.ToLower(strings.TrimSpace(text))
	token = strings.TrimRight(token, "!.")
	return token == "sim" || token == "s"
}
