package questionnaire

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

var (
	intPattern   = regexp.MustCompile(`\d+`)
	floatPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// ToClinicalData coerces raw patient answers into structured clinical data.
// Coercion is lenient: answers that cannot be parsed are dropped rather than
// rejected, and unrecognized free text is collected as additional symptoms.
func ToClinicalData(answers []entities.Answer, questions []entities.Question) *entities.ClinicalData {
	byCode := make(map[string]entities.Question, len(questions))
	for _, q := range questions {
		byCode[q.Code] = q
	}

	data := &entities.ClinicalData{}
	for _, answer := range answers {
		question, ok := byCode[answer.QuestionCode]
		if !ok {
			continue
		}
		raw := strings.TrimSpace(answer.RawAnswer)
		if raw == "" {
			continue
		}
		applyAnswer(data, question, raw)
	}
	return data
}

func applyAnswer(data *entities.ClinicalData, question entities.Question, raw string) {
	resolved := resolveOption(question, raw)
	lowered := strings.ToLower(resolved)

	switch question.Code {
	case CodePainLevel:
		if level, ok := parseInt(raw); ok && level >= 0 && level <= 10 {
			data.PainLevel = &level
		}
	case CodeUrinaryRetention:
		// The question asks whether the patient managed to urinate, so a
		// positive answer means no retention.
		if urinated, ok := parseBool(lowered); ok {
			retention := !urinated
			data.UrinaryRetention = &retention
		}
	case CodeUrinaryRetentionHours:
		if hours, ok := parseInt(raw); ok {
			data.UrinaryRetentionHours = &hours
		}
	case CodeFever:
		if fever, ok := parseBool(lowered); ok {
			data.Fever = &fever
		}
	case CodeTemperature:
		if temp, ok := parseFloat(raw); ok && temp >= 30 && temp <= 45 {
			data.Temperature = &temp
		}
	case CodeBleeding:
		if level, ok := bleedingLevel(lowered); ok {
			data.Bleeding = level
		}
	case CodeBowelMovement, CodeBowelRegular:
		if moved, ok := parseBool(lowered); ok {
			data.BowelMovement = &moved
		}
	case CodeDischarge, CodeFistulaDischarge:
		if level, ok := dischargeLevel(lowered); ok {
			data.Discharge = level
		}
	case CodeRedness:
		if redness, ok := parseBool(lowered); ok && redness {
			data.AdditionalSymptoms = append(data.AdditionalSymptoms, "vermelhidão intensa ou calor na região operada")
		}
	case CodeWoundStatus:
		if strings.Contains(lowered, "intensa") || strings.Contains(lowered, "calor") {
			data.AdditionalSymptoms = append(data.AdditionalSymptoms, "vermelhidão intensa/calor na ferida")
		}
	default:
		if question.Kind == entities.AnswerText && !isNegligible(lowered) {
			data.AdditionalSymptoms = append(data.AdditionalSymptoms, resolved)
		}
	}
}

// resolveOption maps a bare option letter ("a", "b") or number ("1", "2")
// back to the option text so keyword matching works on either form.
func resolveOption(question entities.Question, raw string) string {
	if len(question.Options) == 0 {
		return raw
	}
	trimmed := strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), ".)"))
	if len(trimmed) != 1 {
		return raw
	}
	if idx := int(trimmed[0] - 'a'); idx >= 0 && idx < len(question.Options) {
		return question.Options[idx]
	}
	if idx := int(trimmed[0] - '1'); idx >= 0 && idx < len(question.Options) {
		return question.Options[idx]
	}
	return raw
}

func parseInt(raw string) (int, bool) {
	match := intPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseFloat(raw string) (float64, bool) {
	match := floatPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseBool(lowered string) (bool, bool) {
	switch lowered {
	case "s":
		return true, true
	case "n":
		return false, true
	}
	if strings.Contains(lowered, "não") || strings.Contains(lowered, "nao") {
		return false, true
	}
	if strings.Contains(lowered, "sim") || strings.Contains(lowered, "yes") {
		return true, true
	}
	return false, false
}

func bleedingLevel(lowered string) (entities.BleedingLevel, bool) {
	switch {
	case strings.Contains(lowered, "intenso") || strings.Contains(lowered, "frequente"):
		return entities.BleedingSevere, true
	case strings.Contains(lowered, "moderado"):
		return entities.BleedingModerate, true
	case strings.Contains(lowered, "leve") || strings.Contains(lowered, "mancha") || strings.Contains(lowered, "vestígio") || strings.Contains(lowered, "vestigio") || strings.Contains(lowered, "pouco"):
		return entities.BleedingLight, true
	case strings.Contains(lowered, "nenhum") || strings.Contains(lowered, "não") || strings.Contains(lowered, "nao") || strings.Contains(lowered, "sem"):
		return entities.BleedingNone, true
	}
	return "", false
}

func dischargeLevel(lowered string) (entities.DischargeLevel, bool) {
	switch {
	case strings.Contains(lowered, "abundante"):
		return entities.DischargeAbundant, true
	case strings.Contains(lowered, "purulenta") || strings.Contains(lowered, "pus") || strings.Contains(lowered, "amarelada"):
		return entities.DischargePurulent, true
	case strings.Contains(lowered, "clara") || strings.Contains(lowered, "serosa"):
		return entities.DischargeSerous, true
	case strings.Contains(lowered, "nenhuma") || strings.Contains(lowered, "não") || strings.Contains(lowered, "nao") || strings.Contains(lowered, "sem"):
		return entities.DischargeNone, true
	}
	return "", false
}

// isNegligible filters free-text answers that carry no clinical content.
func isNegligible(lowered string) bool {
	switch lowered {
	case "não", "nao", "n", "nada", "nenhuma", "nenhum", "tudo bem", "tudo certo", "ok", "obrigado", "obrigada":
		return true
	}
	return false
}
