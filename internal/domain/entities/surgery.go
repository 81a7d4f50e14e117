package entities

import "time"

// SurgeryType identifies which rule set and question set apply
type SurgeryType string

const (
	SurgeryHemorrhoidectomy SurgeryType = "hemorroidectomia"
	SurgeryFistula          SurgeryType = "fistula"
	SurgeryFissure          SurgeryType = "fissura"
	SurgeryPilonidal        SurgeryType = "pilonidal"
)

// Valid reports whether the surgery type is one of the supported procedures
func (t SurgeryType) Valid() bool {
	switch t {
	case SurgeryHemorrhoidectomy, SurgeryFistula, SurgeryFissure, SurgeryPilonidal:
		return true
	}
	return false
}

// Surgery represents a procedure whose recovery is being followed
type Surgery struct {
	ID        string      `json:"id" db:"id"`
	PatientID string      `json:"patient_id" db:"patient_id"`
	Type      SurgeryType `json:"type" db:"type"`
	Date      time.Time   `json:"date" db:"date"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// FollowUpDays is the canonical post-operative check-in schedule
var FollowUpDays = []int{1, 2, 3, 5, 7, 10, 14}
