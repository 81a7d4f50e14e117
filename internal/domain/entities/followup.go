package entities

import "time"

// FollowUpStatus represents the lifecycle state of a daily check-in
type FollowUpStatus string

const (
	FollowUpStatusPending    FollowUpStatus = "pending"
	FollowUpStatusSent       FollowUpStatus = "sent"
	FollowUpStatusInProgress FollowUpStatus = "in_progress"
	FollowUpStatusResponded  FollowUpStatus = "responded"
	FollowUpStatusOverdue    FollowUpStatus = "overdue"
)

// Routable reports whether an inbound message may still attach to this status
func (s FollowUpStatus) Routable() bool {
	return s == FollowUpStatusPending || s == FollowUpStatusSent || s == FollowUpStatusInProgress
}

// FollowUp represents one scheduled day's check-in for a surgery.
// UpdatedAt doubles as the stall clock for the escalation sweep.
type FollowUp struct {
	ID            string         `json:"id" db:"id"`
	PatientID     string         `json:"patient_id" db:"patient_id"`
	SurgeryID     string         `json:"surgery_id" db:"surgery_id"`
	DayNumber     int            `json:"day_number" db:"day_number"`
	ScheduledDate time.Time      `json:"scheduled_date" db:"scheduled_date"`
	Status        FollowUpStatus `json:"status" db:"status"`
	SentAt        *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	RespondedAt   *time.Time     `json:"responded_at,omitempty" db:"responded_at"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
