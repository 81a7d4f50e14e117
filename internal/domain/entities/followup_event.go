package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// FollowUpEventType represents the type of follow-up lifecycle event
type FollowUpEventType string

const (
	FollowUpEventResponded FollowUpEventType = "followup.responded"
	FollowUpEventRedFlag   FollowUpEventType = "followup.red_flag"
	FollowUpEventStalled   FollowUpEventType = "followup.stalled"
)

// FollowUpEvent is published on the event bus whenever an encounter reaches a
// state the clinician side cares about. Dashboard delivery consumes these.
type FollowUpEvent struct {
	ID         string            `json:"id"`
	Type       FollowUpEventType `json:"type"`
	PatientID  string            `json:"patient_id"`
	FollowUpID string            `json:"follow_up_id"`
	DayNumber  int               `json:"day_number"`
	RiskLevel  RiskLevel         `json:"risk_level,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// PushNotification is the payload handed to the push capability
type PushNotification struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	URL                string `json:"url,omitempty"`
	Tag                string `json:"tag,omitempty"`
	RequireInteraction bool   `json:"require_interaction"`
}

// NewFollowUpEvent creates an event with a generated ID
func NewFollowUpEvent(eventType FollowUpEventType, patientID, followUpID string, dayNumber int, risk RiskLevel) *FollowUpEvent {
	return &FollowUpEvent{
		ID:         time.Now().Format("20060102150405") + "-" + randomEventSuffix(8),
		Type:       eventType,
		PatientID:  patientID,
		FollowUpID: followUpID,
		DayNumber:  dayNumber,
		RiskLevel:  risk,
		Timestamp:  time.Now(),
	}
}

func randomEventSuffix(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		return "00000000"[:length]
	}
	return hex.EncodeToString(bytes)[:length]
}
