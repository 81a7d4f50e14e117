package entities

// Severity classifies a single red-flag finding
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities; higher is worse
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	}
	return 0
}

// RedFlag is a discrete deterministic finding with a clinical recommendation
type RedFlag struct {
	Code           string   `json:"code"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

// RiskLevel is the aggregate classification of a check-in response
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank orders risk levels; higher is worse
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// Valid reports whether the level is one of the four known classifications
func (r RiskLevel) Valid() bool {
	return r.Rank() > 0
}

// Max returns the more severe of two risk levels. Upgrades only.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.Rank() > r.Rank() {
		return other
	}
	return r
}

// BleedingLevel classifies reported bleeding intensity
type BleedingLevel string

const (
	BleedingNone     BleedingLevel = "none"
	BleedingLight    BleedingLevel = "light"
	BleedingModerate BleedingLevel = "moderate"
	BleedingSevere   BleedingLevel = "severe"
)

// DischargeLevel classifies reported wound discharge
type DischargeLevel string

const (
	DischargeNone     DischargeLevel = "none"
	DischargeSerous   DischargeLevel = "serous"
	DischargePurulent DischargeLevel = "purulent"
	DischargeAbundant DischargeLevel = "abundant"
)

// ClinicalData is the structured record derived from raw questionnaire
// answers and consumed by the rule engine. Nil pointers mean "not reported";
// the coercion layer drops unparseable answers instead of erroring.
type ClinicalData struct {
	PainLevel             *int           `json:"pain_level,omitempty"`
	UrinaryRetention      *bool          `json:"urinary_retention,omitempty"`
	UrinaryRetentionHours *int           `json:"urinary_retention_hours,omitempty"`
	BowelMovement         *bool          `json:"bowel_movement,omitempty"`
	Bleeding              BleedingLevel  `json:"bleeding,omitempty"`
	Fever                 *bool          `json:"fever,omitempty"`
	Temperature           *float64       `json:"temperature,omitempty"`
	Discharge             DischargeLevel `json:"discharge,omitempty"`
	AdditionalSymptoms    []string       `json:"additional_symptoms,omitempty"`
}
