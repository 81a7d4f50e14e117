package providers

import (
	"context"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// RiskAssessment is the model's reading of a completed questionnaire
type RiskAssessment struct {
	RiskLevel          entities.RiskLevel `json:"riskLevel"`
	RedFlags           []string           `json:"redFlags"`
	Analysis           string             `json:"analysis"`
	EmpatheticResponse string             `json:"empatheticResponse"`
	SeekCareAdvice     string             `json:"seekCareAdvice,omitempty"`
	Degraded           bool               `json:"-"`
}

// AssessmentInput bundles the clinical picture handed to the model
type AssessmentInput struct {
	PatientName string
	SurgeryType entities.SurgeryType
	DayNumber   int
	Clinical    *entities.ClinicalData
	Answers     []entities.Answer
	KnownFlags  []entities.RedFlag
}

// RiskAssessor defines the interface for AI-backed risk assessment.
// Implementations degrade gracefully: on upstream failure they return a
// conservative assessment with Degraded set instead of an error.
type RiskAssessor interface {
	Assess(ctx context.Context, input AssessmentInput) (*RiskAssessment, error)
}
