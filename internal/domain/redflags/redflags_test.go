package redflags

import (
	"testing"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestDetect_NilData(t *testing.T) {
	assert.Empty(t, Detect(nil, entities.SurgeryHemorrhoidectomy, 1))
}

func TestDetect_FeverThresholds(t *testing.T) {
	// 39°C and above is critical
	data := &entities.ClinicalData{Fever: boolPtr(true), Temperature: floatPtr(39.2)}
	flags := Detect(data, entities.SurgeryFissure, 1)
	assert.Len(t, flags, 1)
	assert.Equal(t, "fever_high", flags[0].Code)
	assert.Equal(t, entities.SeverityCritical, flags[0].Severity)

	// Between 38 and 39 is high
	data.Temperature = floatPtr(38.4)
	flags = Detect(data, entities.SurgeryFissure, 1)
	assert.Equal(t, entities.SeverityHigh, flags[0].Severity)

	// Below 38 does not fire
	data.Temperature = floatPtr(37.5)
	assert.Empty(t, Detect(data, entities.SurgeryFissure, 1))
}

func TestDetect_FeverWithoutTemperature(t *testing.T) {
	data := &entities.ClinicalData{Fever: boolPtr(true)}
	flags := Detect(data, entities.SurgeryPilonidal, 2)
	assert.Len(t, flags, 1)
	assert.Equal(t, "fever_unspecified", flags[0].Code)
	assert.Equal(t, entities.SeverityHigh, flags[0].Severity)
}

func TestDetect_Bleeding(t *testing.T) {
	data := &entities.ClinicalData{Bleeding: entities.BleedingSevere}
	flags := Detect(data, entities.SurgeryHemorrhoidectomy, 1)
	assert.Equal(t, "bleeding_severe", flags[0].Code)
	assert.Equal(t, entities.SeverityCritical, flags[0].Severity)

	// Moderate bleeding only flags after day 3
	data = &entities.ClinicalData{Bleeding: entities.BleedingModerate}
	assert.Empty(t, Detect(data, entities.SurgeryHemorrhoidectomy, 3))
	flags = Detect(data, entities.SurgeryHemorrhoidectomy, 5)
	assert.Equal(t, "bleeding_moderate_prolonged", flags[0].Code)
}

func TestDetect_ExtremePain(t *testing.T) {
	data := &entities.ClinicalData{PainLevel: intPtr(9)}
	flags := Detect(data, entities.SurgeryFistula, 1)
	// Universal pain_extreme plus the fistula family's >8 rule
	assert.Len(t, flags, 2)
	assert.Equal(t, "pain_extreme", flags[0].Code)
	assert.Equal(t, entities.SeverityCritical, flags[0].Severity)
}

func TestDetect_UrinaryRetention(t *testing.T) {
	data := &entities.ClinicalData{
		UrinaryRetention:      boolPtr(true),
		UrinaryRetentionHours: intPtr(14),
	}
	flags := Detect(data, entities.SurgeryHemorrhoidectomy, 1)
	assert.Equal(t, "urinary_retention_prolonged", flags[0].Code)
	assert.Equal(t, entities.SeverityCritical, flags[0].Severity)

	data.UrinaryRetentionHours = intPtr(8)
	flags = Detect(data, entities.SurgeryHemorrhoidectomy, 1)
	assert.Equal(t, "urinary_retention_moderate", flags[0].Code)
	assert.Equal(t, entities.SeverityHigh, flags[0].Severity)

	// Under 6h is still expected post-op
	data.UrinaryRetentionHours = intPtr(4)
	assert.Empty(t, Detect(data, entities.SurgeryHemorrhoidectomy, 1))

	// Retention rules only apply to hemorrhoidectomy
	data.UrinaryRetentionHours = intPtr(14)
	assert.Empty(t, Detect(data, entities.SurgeryFissure, 1))
}

func TestDetect_NoBowelMovement(t *testing.T) {
	data := &entities.ClinicalData{BowelMovement: boolPtr(false)}

	// Hemorrhoidectomy flags from day 3
	assert.Empty(t, Detect(data, entities.SurgeryHemorrhoidectomy, 2))
	flags := Detect(data, entities.SurgeryHemorrhoidectomy, 3)
	assert.Equal(t, "no_bowel_movement_d3", flags[0].Code)
	assert.Equal(t, entities.SeverityMedium, flags[0].Severity)

	// Fissure flags from day 4
	assert.Empty(t, Detect(data, entities.SurgeryFissure, 3))
	flags = Detect(data, entities.SurgeryFissure, 4)
	assert.Equal(t, "no_bowel_movement_fissure", flags[0].Code)
}

func TestDetect_Discharge(t *testing.T) {
	data := &entities.ClinicalData{Discharge: entities.DischargePurulent}
	flags := Detect(data, entities.SurgeryFistula, 3)
	assert.Equal(t, "purulent_discharge", flags[0].Code)

	flags = Detect(data, entities.SurgeryPilonidal, 3)
	assert.Equal(t, "purulent_discharge_pilonidal", flags[0].Code)

	// Serous discharge is normal
	data.Discharge = entities.DischargeSerous
	assert.Empty(t, Detect(data, entities.SurgeryFistula, 3))

	// Discharge rules do not apply to hemorrhoidectomy
	data.Discharge = entities.DischargeAbundant
	assert.Empty(t, Detect(data, entities.SurgeryHemorrhoidectomy, 3))
}

func TestDetect_CellulitisKeywords(t *testing.T) {
	data := &entities.ClinicalData{
		AdditionalSymptoms: []string{"Muita vermelhidão ao redor do curativo"},
	}
	flags := Detect(data, entities.SurgeryPilonidal, 5)
	assert.Equal(t, "cellulitis_signs_pilonidal", flags[0].Code)
	assert.Equal(t, entities.SeverityHigh, flags[0].Severity)

	data.AdditionalSymptoms = []string{"um pouco de coceira"}
	assert.Empty(t, Detect(data, entities.SurgeryPilonidal, 5))
}

func TestDetect_SortsBySeverity(t *testing.T) {
	data := &entities.ClinicalData{
		Bleeding:      entities.BleedingSevere,
		PainLevel:     intPtr(8),
		BowelMovement: boolPtr(false),
	}
	flags := Detect(data, entities.SurgeryHemorrhoidectomy, 3)
	assert.Len(t, flags, 2)
	assert.Equal(t, entities.SeverityCritical, flags[0].Severity)
	assert.Equal(t, entities.SeverityMedium, flags[1].Severity)
}

func TestDetect_CombinedCriticalFindings(t *testing.T) {
	data := &entities.ClinicalData{
		PainLevel:   intPtr(9),
		Fever:       boolPtr(true),
		Temperature: floatPtr(39.2),
	}
	flags := Detect(data, entities.SurgeryHemorrhoidectomy, 2)
	codes := make([]string, 0, len(flags))
	for _, f := range flags {
		codes = append(codes, f.Code)
	}
	assert.Contains(t, codes, "pain_extreme")
	assert.Contains(t, codes, "fever_high")
	assert.Equal(t, entities.RiskCritical, AggregateRisk(flags))
}

func TestAggregateRisk(t *testing.T) {
	assert.Equal(t, entities.RiskLow, AggregateRisk(nil))

	assert.Equal(t, entities.RiskMedium, AggregateRisk([]entities.RedFlag{
		{Severity: entities.SeverityMedium},
	}))

	assert.Equal(t, entities.RiskHigh, AggregateRisk([]entities.RedFlag{
		{Severity: entities.SeverityHigh},
		{Severity: entities.SeverityMedium},
	}))

	// Two high findings compound into critical
	assert.Equal(t, entities.RiskCritical, AggregateRisk([]entities.RedFlag{
		{Severity: entities.SeverityHigh},
		{Severity: entities.SeverityHigh},
	}))

	assert.Equal(t, entities.RiskCritical, AggregateRisk([]entities.RedFlag{
		{Severity: entities.SeverityMedium},
		{Severity: entities.SeverityCritical},
	}))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Nenhum sinal de alerta detectado", Format(nil))

	out := Format([]entities.RedFlag{
		{Severity: entities.SeverityCritical, Message: "Febre de 39.5°C"},
		{Severity: entities.SeverityHigh, Message: "Dor muito intensa (9/10)"},
	})
	assert.Equal(t, "[CRITICAL] Febre de 39.5°C\n[HIGH] Dor muito intensa (9/10)", out)
}
