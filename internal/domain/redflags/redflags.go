// Package redflags implements the deterministic clinical rule engine.
// It is pure: no clock, no I/O, no dependencies beyond the entities.
package redflags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// cellulitisKeywords are matched against free-text symptoms for
// fistula/pilonidal wounds. Lowercase.
var cellulitisKeywords = []string{"vermelhidão", "vermelhidao", "inchaço", "inchaco", "calor local"}

// Detect evaluates structured clinical data against the universal rules plus
// the rule family of the given surgery type. Findings are returned sorted by
// severity, critical first.
func Detect(data *entities.ClinicalData, surgeryType entities.SurgeryType, dayNumber int) []entities.RedFlag {
	if data == nil {
		return nil
	}

	flags := universal(data, dayNumber)

	switch surgeryType {
	case entities.SurgeryHemorrhoidectomy:
		flags = append(flags, hemorrhoidectomy(data, dayNumber)...)
	case entities.SurgeryFistula:
		flags = append(flags, fistula(data)...)
	case entities.SurgeryFissure:
		flags = append(flags, fissure(data, dayNumber)...)
	case entities.SurgeryPilonidal:
		flags = append(flags, pilonidal(data)...)
	}

	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Severity.Rank() > flags[j].Severity.Rank()
	})
	return flags
}

func universal(data *entities.ClinicalData, dayNumber int) []entities.RedFlag {
	var flags []entities.RedFlag

	if boolVal(data.Fever) && data.Temperature != nil && *data.Temperature >= 38 {
		severity := entities.SeverityHigh
		if *data.Temperature >= 39 {
			severity = entities.SeverityCritical
		}
		flags = append(flags, entities.RedFlag{
			Code:           "fever_high",
			Severity:       severity,
			Message:        fmt.Sprintf("Febre de %.1f°C", *data.Temperature),
			Recommendation: "Procure atendimento médico imediatamente. Febre pode indicar infecção.",
		})
	}

	if boolVal(data.Fever) && data.Temperature == nil {
		flags = append(flags, entities.RedFlag{
			Code:           "fever_unspecified",
			Severity:       entities.SeverityHigh,
			Message:        "Febre presente",
			Recommendation: "Meça a temperatura e procure atendimento se estiver acima de 38°C.",
		})
	}

	if data.Bleeding == entities.BleedingSevere {
		flags = append(flags, entities.RedFlag{
			Code:           "bleeding_severe",
			Severity:       entities.SeverityCritical,
			Message:        "Sangramento ativo intenso",
			Recommendation: "Procure atendimento de emergência IMEDIATAMENTE.",
		})
	}

	if data.Bleeding == entities.BleedingModerate && dayNumber > 3 {
		flags = append(flags, entities.RedFlag{
			Code:           "bleeding_moderate_prolonged",
			Severity:       entities.SeverityHigh,
			Message:        "Sangramento moderado persistente após D+3",
			Recommendation: "Agende avaliação com seu médico o quanto antes.",
		})
	}

	if data.PainLevel != nil && *data.PainLevel >= 9 {
		flags = append(flags, entities.RedFlag{
			Code:           "pain_extreme",
			Severity:       entities.SeverityCritical,
			Message:        fmt.Sprintf("Dor extrema (%d/10)", *data.PainLevel),
			Recommendation: "Dor muito intensa. Procure atendimento médico imediatamente.",
		})
	}

	return flags
}

func hemorrhoidectomy(data *entities.ClinicalData, dayNumber int) []entities.RedFlag {
	var flags []entities.RedFlag

	if boolVal(data.UrinaryRetention) && data.UrinaryRetentionHours != nil {
		hours := *data.UrinaryRetentionHours
		if hours > 12 {
			flags = append(flags, entities.RedFlag{
				Code:           "urinary_retention_prolonged",
				Severity:       entities.SeverityCritical,
				Message:        fmt.Sprintf("Retenção urinária há %dh", hours),
				Recommendation: "Procure atendimento de emergência. Pode ser necessário cateterismo.",
			})
		} else if hours >= 6 {
			flags = append(flags, entities.RedFlag{
				Code:           "urinary_retention_moderate",
				Severity:       entities.SeverityHigh,
				Message:        fmt.Sprintf("Retenção urinária há %dh", hours),
				Recommendation: "Se não conseguir urinar nas próximas horas, procure atendimento.",
			})
		}
	}

	if data.PainLevel != nil && *data.PainLevel > 8 {
		flags = append(flags, entities.RedFlag{
			Code:           "pain_very_intense_hemorrhoid",
			Severity:       entities.SeverityHigh,
			Message:        fmt.Sprintf("Dor muito intensa (%d/10)", *data.PainLevel),
			Recommendation: "Dor acima do esperado. Entre em contato com seu médico.",
		})
	}

	if dayNumber >= 3 && data.BowelMovement != nil && !*data.BowelMovement {
		flags = append(flags, entities.RedFlag{
			Code:           "no_bowel_movement_d3",
			Severity:       entities.SeverityMedium,
			Message:        "Sem evacuação até D+3",
			Recommendation: "Importante evacuar. Aumente hidratação e use laxantes conforme orientado.",
		})
	}

	return flags
}

func fistula(data *entities.ClinicalData) []entities.RedFlag {
	var flags []entities.RedFlag

	if data.Discharge == entities.DischargePurulent || data.Discharge == entities.DischargeAbundant {
		flags = append(flags, entities.RedFlag{
			Code:           "purulent_discharge",
			Severity:       entities.SeverityHigh,
			Message:        "Secreção purulenta abundante",
			Recommendation: "Pode indicar infecção. Procure avaliação médica urgente.",
		})
	}

	if data.PainLevel != nil && *data.PainLevel > 8 {
		flags = append(flags, entities.RedFlag{
			Code:           "pain_very_intense_fistula",
			Severity:       entities.SeverityHigh,
			Message:        fmt.Sprintf("Dor muito intensa (%d/10)", *data.PainLevel),
			Recommendation: "Dor intensa pode indicar abscesso. Entre em contato com seu médico.",
		})
	}

	if hasCellulitisSigns(data.AdditionalSymptoms) {
		flags = append(flags, entities.RedFlag{
			Code:           "cellulitis_signs",
			Severity:       entities.SeverityHigh,
			Message:        "Sinais de celulite (vermelhidão/inchaço)",
			Recommendation: "Procure avaliação médica o quanto antes.",
		})
	}

	return flags
}

func fissure(data *entities.ClinicalData, dayNumber int) []entities.RedFlag {
	var flags []entities.RedFlag

	if data.PainLevel != nil && *data.PainLevel > 9 {
		flags = append(flags, entities.RedFlag{
			Code:           "pain_extreme_fissure",
			Severity:       entities.SeverityHigh,
			Message:        fmt.Sprintf("Dor extrema persistente (%d/10)", *data.PainLevel),
			Recommendation: "Dor acima do esperado. Entre em contato com seu médico.",
		})
	}

	if data.Bleeding == entities.BleedingSevere || data.Bleeding == entities.BleedingModerate {
		flags = append(flags, entities.RedFlag{
			Code:           "bleeding_fissure",
			Severity:       entities.SeverityHigh,
			Message:        "Sangramento ativo após cirurgia de fissura",
			Recommendation: "Sangramento não é comum. Entre em contato com seu médico.",
		})
	}

	if dayNumber >= 4 && data.BowelMovement != nil && !*data.BowelMovement {
		flags = append(flags, entities.RedFlag{
			Code:           "no_bowel_movement_fissure",
			Severity:       entities.SeverityMedium,
			Message:        "Sem evacuação até D+4",
			Recommendation: "Importante evacuar para evitar complicações. Use laxantes conforme orientado.",
		})
	}

	return flags
}

func pilonidal(data *entities.ClinicalData) []entities.RedFlag {
	var flags []entities.RedFlag

	if data.Discharge == entities.DischargePurulent || data.Discharge == entities.DischargeAbundant {
		flags = append(flags, entities.RedFlag{
			Code:           "purulent_discharge_pilonidal",
			Severity:       entities.SeverityHigh,
			Message:        "Secreção purulenta na ferida",
			Recommendation: "Pode indicar infecção. Procure avaliação médica.",
		})
	}

	if hasCellulitisSigns(data.AdditionalSymptoms) {
		flags = append(flags, entities.RedFlag{
			Code:           "cellulitis_signs_pilonidal",
			Severity:       entities.SeverityHigh,
			Message:        "Sinais de celulite ao redor da ferida",
			Recommendation: "Procure avaliação médica urgente.",
		})
	}

	if data.PainLevel != nil && *data.PainLevel > 8 {
		flags = append(flags, entities.RedFlag{
			Code:           "pain_very_intense_pilonidal",
			Severity:       entities.SeverityHigh,
			Message:        fmt.Sprintf("Dor muito intensa (%d/10)", *data.PainLevel),
			Recommendation: "Dor intensa pode indicar complicação. Entre em contato com seu médico.",
		})
	}

	return flags
}

// AggregateRisk collapses findings into a single risk level. Multiple
// independently-moderate signals compound: two or more high findings are
// treated as critical.
func AggregateRisk(flags []entities.RedFlag) entities.RiskLevel {
	if len(flags) == 0 {
		return entities.RiskLow
	}

	highs := 0
	mediums := 0
	for _, flag := range flags {
		switch flag.Severity {
		case entities.SeverityCritical:
			return entities.RiskCritical
		case entities.SeverityHigh:
			highs++
		case entities.SeverityMedium:
			mediums++
		}
	}

	switch {
	case highs >= 2:
		return entities.RiskCritical
	case highs == 1:
		return entities.RiskHigh
	case mediums > 0:
		return entities.RiskMedium
	}
	return entities.RiskLow
}

// Format renders findings for a clinician-facing alert
func Format(flags []entities.RedFlag) string {
	if len(flags) == 0 {
		return "Nenhum sinal de alerta detectado"
	}
	lines := make([]string, len(flags))
	for i, flag := range flags {
		lines[i] = fmt.Sprintf("[%s] %s", strings.ToUpper(string(flag.Severity)), flag.Message)
	}
	return strings.Join(lines, "\n")
}

func hasCellulitisSigns(symptoms []string) bool {
	for _, symptom := range symptoms {
		lowered := strings.ToLower(symptom)
		for _, keyword := range cellulitisKeywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
