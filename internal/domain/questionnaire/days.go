// Package questionnaire holds the per-day follow-up question sets and the
// coercion of free-form patient answers into structured clinical data.
package questionnaire

import (
	"fmt"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// Question codes shared across days. Coercion keys off these.
const (
	CodePainLevel             = "pain_level"
	CodeUrinaryRetention      = "urinary_retention"
	CodeUrinaryRetentionHours = "urinary_retention_hours"
	CodeBleeding              = "bleeding"
	CodeFever                 = "fever"
	CodeTemperature           = "temperature"
	CodeBowelMovement         = "bowel_movement"
	CodeBowelRegular          = "bowel_movement_regular"
	CodeDischarge             = "discharge"
	CodeFistulaDischarge      = "fistula_discharge"
	CodeWoundStatus           = "wound_status"
	CodeRedness               = "redness"
	CodeConcerns              = "concerns"
)

func day1() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Em uma escala de 0 a 10, qual o nível da sua dor? (0 = sem dor, 10 = pior dor imaginável)", Kind: entities.AnswerScale},
		{Code: CodeUrinaryRetention, Prompt: "Você conseguiu urinar normalmente?", Kind: entities.AnswerBoolean},
		{Code: CodeUrinaryRetentionHours, Prompt: "Se não conseguiu urinar, há quantas horas está sem urinar?", Kind: entities.AnswerText},
		{Code: CodeBleeding, Prompt: "Está tendo sangramento? Se sim, qual a intensidade?", Kind: entities.AnswerChoice, Options: []string{"Nenhum", "Leve (manchas)", "Moderado (precisa de absorvente)", "Intenso (ativo)"}},
		{Code: CodeFever, Prompt: "Está com febre?", Kind: entities.AnswerBoolean},
		{Code: CodeTemperature, Prompt: "Se sim, qual a temperatura? (em graus Celsius)", Kind: entities.AnswerText},
		{Code: "nausea_vomiting", Prompt: "Está com náuseas ou vômitos?", Kind: entities.AnswerBoolean},
		{Code: CodeConcerns, Prompt: "Há algo que te preocupa ou gostaria de relatar?", Kind: entities.AnswerText},
	}
}

func day2() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Em uma escala de 0 a 10, qual o nível da sua dor hoje?", Kind: entities.AnswerScale},
		{Code: "pain_compared", Prompt: "Comparado a ontem, a dor está:", Kind: entities.AnswerChoice, Options: []string{"Melhor", "Igual", "Pior"}},
		{Code: CodeBowelMovement, Prompt: "Já conseguiu evacuar?", Kind: entities.AnswerBoolean},
		{Code: CodeBleeding, Prompt: "Como está o sangramento?", Kind: entities.AnswerChoice, Options: []string{"Nenhum", "Leve", "Moderado", "Intenso"}},
		{Code: CodeDischarge, Prompt: "Está tendo alguma secreção na região operada?", Kind: entities.AnswerChoice, Options: []string{"Nenhuma", "Clara/serosa", "Amarelada", "Com pus"}},
		{Code: CodeFever, Prompt: "Teve febre nas últimas 24 horas?", Kind: entities.AnswerBoolean},
		{Code: "medication_adherence", Prompt: "Está tomando os medicamentos conforme prescrito?", Kind: entities.AnswerBoolean},
		{Code: CodeConcerns, Prompt: "Alguma dúvida ou preocupação?", Kind: entities.AnswerText},
	}
}

func day3() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Qual o nível da sua dor hoje? (0 a 10)", Kind: entities.AnswerScale},
		{Code: CodeBowelMovement, Prompt: "Conseguiu evacuar?", Kind: entities.AnswerBoolean},
		{Code: "bowel_movement_pain", Prompt: "Se evacuou, como foi a dor durante a evacuação?", Kind: entities.AnswerChoice, Options: []string{"Sem dor", "Dor leve", "Dor moderada", "Dor intensa"}},
		{Code: CodeBleeding, Prompt: "Como está o sangramento?", Kind: entities.AnswerChoice, Options: []string{"Nenhum", "Leve", "Moderado", "Intenso"}},
		{Code: "swelling", Prompt: "Como está o inchaço na região?", Kind: entities.AnswerChoice, Options: []string{"Nenhum", "Leve", "Moderado", "Intenso"}},
		{Code: CodeRedness, Prompt: "Notou vermelhidão intensa ou calor na região?", Kind: entities.AnswerBoolean},
		{Code: CodeFever, Prompt: "Teve febre?", Kind: entities.AnswerBoolean},
		{Code: CodeConcerns, Prompt: "Alguma preocupação?", Kind: entities.AnswerText},
	}
}

func day5() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Qual o nível da sua dor? (0 a 10)", Kind: entities.AnswerScale},
		{Code: "pain_trend", Prompt: "A dor está:", Kind: entities.AnswerChoice, Options: []string{"Melhorando gradualmente", "Estável", "Piorando"}},
		{Code: CodeBowelRegular, Prompt: "Está evacuando regularmente?", Kind: entities.AnswerBoolean},
		{Code: CodeBleeding, Prompt: "Como está o sangramento?", Kind: entities.AnswerChoice, Options: []string{"Nenhum", "Leve ocasional", "Moderado", "Intenso"}},
		{Code: CodeDischarge, Prompt: "Está tendo secreção?", Kind: entities.AnswerChoice, Options: []string{"Nenhuma", "Clara", "Amarelada", "Purulenta"}},
		{Code: "daily_activities", Prompt: "Consegue fazer atividades leves do dia a dia?", Kind: entities.AnswerBoolean},
		{Code: "medication_side_effects", Prompt: "Está tendo algum efeito colateral dos medicamentos?", Kind: entities.AnswerText},
		{Code: CodeConcerns, Prompt: "Alguma dúvida?", Kind: entities.AnswerText},
	}
}

func day7() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Qual o nível da sua dor? (0 a 10)", Kind: entities.AnswerScale},
		{Code: "bowel_movement_pattern", Prompt: "Como está o padrão de evacuação?", Kind: entities.AnswerChoice, Options: []string{"Normal", "Constipação", "Diarreia", "Irregular"}},
		{Code: CodeBleeding, Prompt: "Ainda tem sangramento?", Kind: entities.AnswerChoice, Options: []string{"Nenhum", "Apenas vestígios", "Ocasional leve", "Frequente"}},
		{Code: "wound_healing", Prompt: "Como você avalia a cicatrização?", Kind: entities.AnswerChoice, Options: []string{"Boa - sem problemas", "Razoável", "Preocupante"}},
		{Code: "mobility", Prompt: "Como está sua mobilidade?", Kind: entities.AnswerChoice, Options: []string{"Normal", "Limitação leve", "Limitação moderada", "Limitação severa"}},
		{Code: "return_activities", Prompt: "Já conseguiu retornar às suas atividades normais?", Kind: entities.AnswerBoolean},
		{Code: CodeConcerns, Prompt: "Alguma preocupação para relatar?", Kind: entities.AnswerText},
	}
}

func day10() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Qual o nível da sua dor? (0 a 10)", Kind: entities.AnswerScale},
		{Code: "bowel_comfort", Prompt: "Como está o conforto durante evacuações?", Kind: entities.AnswerChoice, Options: []string{"Sem dor", "Desconforto leve", "Dor moderada", "Dor intensa"}},
		{Code: "complications", Prompt: "Notou alguma complicação ou sintoma novo?", Kind: entities.AnswerText},
		{Code: "medication_status", Prompt: "Ainda está usando medicação para dor?", Kind: entities.AnswerBoolean},
		{Code: "overall_recovery", Prompt: "Como você classifica sua recuperação geral?", Kind: entities.AnswerChoice, Options: []string{"Excelente", "Boa", "Regular", "Ruim"}},
		{Code: CodeConcerns, Prompt: "Alguma dúvida final?", Kind: entities.AnswerText},
	}
}

func day14() []entities.Question {
	return []entities.Question{
		{Code: CodePainLevel, Prompt: "Qual o nível da sua dor atual? (0 a 10)", Kind: entities.AnswerScale},
		{Code: "symptoms_resolution", Prompt: "Os sintomas pós-operatórios foram resolvidos?", Kind: entities.AnswerBoolean},
		{Code: "residual_complaints", Prompt: "Quais sintomas ainda persistem, se houver?", Kind: entities.AnswerText},
		{Code: "quality_of_life", Prompt: "Sua qualidade de vida retornou ao normal?", Kind: entities.AnswerBoolean},
		{Code: "surgery_satisfaction", Prompt: "Como você avalia o resultado da cirurgia?", Kind: entities.AnswerChoice, Options: []string{"Muito satisfeito", "Satisfeito", "Neutro", "Insatisfeito"}},
		{Code: "followup_appointment", Prompt: "Já agendou a consulta de retorno presencial?", Kind: entities.AnswerBoolean},
		{Code: CodeConcerns, Prompt: "Alguma preocupação ou dúvida final?", Kind: entities.AnswerText},
	}
}

var introductions = map[int]string{
	1:  "Como você está se sentindo no primeiro dia após a cirurgia?",
	2:  "Vamos avaliar como está sua recuperação no segundo dia.",
	3:  "Vamos ver como está sua recuperação no terceiro dia.",
	5:  "Como está sua recuperação no quinto dia?",
	7:  "Parabéns por completar uma semana! Como você está?",
	10: "Estamos chegando ao final do acompanhamento inicial. Como você está?",
	14: "Última avaliação do acompanhamento automático. Como você está após 2 semanas?",
}

var questionsByDay = map[int]func() []entities.Question{
	1:  day1,
	2:  day2,
	3:  day3,
	5:  day5,
	7:  day7,
	10: day10,
	14: day14,
}

// ForDay builds the questionnaire for a follow-up day, injecting
// surgery-specific questions where the base set lacks them.
func ForDay(dayNumber int, surgeryType entities.SurgeryType) (*entities.Questionnaire, error) {
	build, ok := questionsByDay[dayNumber]
	if !ok {
		return nil, fmt.Errorf("no questionnaire configured for day %d", dayNumber)
	}

	questions := build()
	questions = injectSurgeryQuestions(questions, surgeryType, dayNumber)

	for i := range questions {
		questions[i].Position = i + 1
	}

	return &entities.Questionnaire{
		DayNumber:    dayNumber,
		SurgeryType:  surgeryType,
		Introduction: introductions[dayNumber],
		Questions:    questions,
	}, nil
}

func injectSurgeryQuestions(questions []entities.Question, surgeryType entities.SurgeryType, dayNumber int) []entities.Question {
	switch surgeryType {
	case entities.SurgeryHemorrhoidectomy:
		// Urinary retention matters in the first three days
		if dayNumber <= 3 && !hasCode(questions, CodeUrinaryRetention) {
			inserted := entities.Question{
				Code:   CodeUrinaryRetention,
				Prompt: "Conseguiu urinar normalmente?",
				Kind:   entities.AnswerBoolean,
			}
			questions = append(questions[:2], append([]entities.Question{inserted}, questions[2:]...)...)
		}
	case entities.SurgeryFistula:
		if dayNumber >= 2 && !hasCode(questions, CodeDischarge) {
			questions = append(questions, entities.Question{
				Code:    CodeFistulaDischarge,
				Prompt:  "Como está a secreção no local da fístula?",
				Kind:    entities.AnswerChoice,
				Options: []string{"Nenhuma", "Clara", "Serosa", "Purulenta", "Abundante"},
			})
		}
	case entities.SurgeryPilonidal:
		if dayNumber >= 2 {
			questions = append(questions, entities.Question{
				Code:    CodeWoundStatus,
				Prompt:  "Como está o local da cirurgia (região sacrococcígea)?",
				Kind:    entities.AnswerChoice,
				Options: []string{"Cicatrizando bem", "Vermelhidão leve", "Inchaço", "Vermelhidão intensa/calor"},
			})
		}
	}
	return questions
}

func hasCode(questions []entities.Question, code string) bool {
	for _, q := range questions {
		if q.Code == code {
			return true
		}
	}
	return false
}
