package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	apperrors "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/errors"
)

// ResponseAdapter implements the ResponseRepository interface. Answers,
// clinical data, flags and the conversation transcript live in jsonb columns.
type ResponseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewResponseAdapter creates a new response adapter
func NewResponseAdapter(client *postgres.Client) repositories.ResponseRepository {
	return &ResponseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var responseColumns = []interface{}{
	"id", "follow_up_id", "doctor_id", "answers", "current_question_index",
	"clinical", "risk_level", "red_flags", "ai_red_flags", "ai_analysis",
	"doctor_alerted", "alert_sent_at", "conversation", "created_at", "updated_at",
}

// LatestByFollowUp returns the most recent response record for a follow-up
func (a *ResponseAdapter) LatestByFollowUp(ctx context.Context, followUpID string) (*entities.FollowUpResponse, error) {
	query, args, err := a.db.Select(responseColumns...).
		From("follow_up_responses").
		Where(goqu.Ex{"follow_up_id": followUpID}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	response, err := scanResponse(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get response record", err)
	}
	return response, nil
}

// Create inserts a new response record
func (a *ResponseAdapter) Create(ctx context.Context, response *entities.FollowUpResponse) error {
	record, err := responseRecord(response)
	if err != nil {
		return err
	}
	record["id"] = response.ID
	record["follow_up_id"] = response.FollowUpID
	record["created_at"] = response.CreatedAt

	query, args, err := a.db.Insert("follow_up_responses").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create response record", err)
	}
	return nil
}

// Update persists answer progress, clinical results and conversation turns
func (a *ResponseAdapter) Update(ctx context.Context, response *entities.FollowUpResponse) error {
	record, err := responseRecord(response)
	if err != nil {
		return err
	}

	query, args, err := a.db.Update("follow_up_responses").
		Set(record).
		Where(goqu.Ex{"id": response.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update response record", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("response record with id %s not found", response.ID))
	}
	return nil
}

// MarkDoctorAlerted flags the record once the clinician has been notified
func (a *ResponseAdapter) MarkDoctorAlerted(ctx context.Context, responseID string, at time.Time) error {
	query, args, err := a.db.Update("follow_up_responses").
		Set(goqu.Record{
			"doctor_alerted": true,
			"alert_sent_at":  at,
			"updated_at":     at,
		}).
		Where(goqu.Ex{"id": responseID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to mark doctor alerted", err)
	}
	return nil
}

func responseRecord(response *entities.FollowUpResponse) (goqu.Record, error) {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal answers", err)
	}
	conversation, err := json.Marshal(response.Conversation)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal conversation", err)
	}
	redFlags, err := json.Marshal(response.RedFlags)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal red flags", err)
	}
	aiRedFlags, err := json.Marshal(response.AIRedFlags)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal ai red flags", err)
	}

	var clinical interface{}
	if response.Clinical != nil {
		data, err := json.Marshal(response.Clinical)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to marshal clinical data", err)
		}
		clinical = data
	}

	return goqu.Record{
		"doctor_id":              response.DoctorID,
		"answers":                answers,
		"current_question_index": response.CurrentQuestionIndex,
		"clinical":               clinical,
		"risk_level":             string(response.RiskLevel),
		"red_flags":              redFlags,
		"ai_red_flags":           aiRedFlags,
		"ai_analysis":            response.AIAnalysis,
		"doctor_alerted":         response.DoctorAlerted,
		"alert_sent_at":          response.AlertSentAt,
		"conversation":           conversation,
		"updated_at":             response.UpdatedAt,
	}, nil
}

func scanResponse(row rowScanner) (*entities.FollowUpResponse, error) {
	response := &entities.FollowUpResponse{}
	var answers, conversation, redFlags, aiRedFlags []byte
	var clinical []byte
	var aiAnalysis sql.NullString
	var alertSentAt sql.NullTime
	var riskLevel sql.NullString

	err := row.Scan(
		&response.ID,
		&response.FollowUpID,
		&response.DoctorID,
		&answers,
		&response.CurrentQuestionIndex,
		&clinical,
		&riskLevel,
		&redFlags,
		&aiRedFlags,
		&aiAnalysis,
		&response.DoctorAlerted,
		&alertSentAt,
		&conversation,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &response.Answers); err != nil {
			return nil, fmt.Errorf("corrupt answers payload: %w", err)
		}
	}
	if len(conversation) > 0 {
		if err := json.Unmarshal(conversation, &response.Conversation); err != nil {
			return nil, fmt.Errorf("corrupt conversation payload: %w", err)
		}
	}
	if len(redFlags) > 0 {
		if err := json.Unmarshal(redFlags, &response.RedFlags); err != nil {
			return nil, fmt.Errorf("corrupt red flags payload: %w", err)
		}
	}
	if len(aiRedFlags) > 0 {
		if err := json.Unmarshal(aiRedFlags, &response.AIRedFlags); err != nil {
			return nil, fmt.Errorf("corrupt ai red flags payload: %w", err)
		}
	}
	if len(clinical) > 0 {
		response.Clinical = &entities.ClinicalData{}
		if err := json.Unmarshal(clinical, response.Clinical); err != nil {
			return nil, fmt.Errorf("corrupt clinical payload: %w", err)
		}
	}

	response.RiskLevel = entities.RiskLevel(riskLevel.String)
	response.AIAnalysis = aiAnalysis.String
	if alertSentAt.Valid {
		response.AlertSentAt = &alertSentAt.Time
	}
	return response, nil
}
