package questionnaire

import (
	"testing"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForDay_UnknownDay(t *testing.T) {
	q, err := ForDay(4, entities.SurgeryFissure)
	assert.Error(t, err)
	assert.Nil(t, q)
}

func TestForDay_PositionsAreSequential(t *testing.T) {
	for _, day := range entities.FollowUpDays {
		q, err := ForDay(day, entities.SurgeryFissure)
		require.NoError(t, err)
		require.NotEmpty(t, q.Questions)
		for i, question := range q.Questions {
			assert.Equal(t, i+1, question.Position)
		}
		assert.Equal(t, len(q.Questions), q.LastPosition())
	}
}

func TestForDay_HemorrhoidUrinaryInjection(t *testing.T) {
	// Day 2 base set has no urinary question; hemorrhoidectomy adds one
	q, err := ForDay(2, entities.SurgeryHemorrhoidectomy)
	require.NoError(t, err)
	assert.Equal(t, CodeUrinaryRetention, q.Questions[2].Code)

	// Day 1 already asks it; no duplicate
	q, err = ForDay(1, entities.SurgeryHemorrhoidectomy)
	require.NoError(t, err)
	count := 0
	for _, question := range q.Questions {
		if question.Code == CodeUrinaryRetention {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// After day 3 the question is no longer injected
	q, err = ForDay(5, entities.SurgeryHemorrhoidectomy)
	require.NoError(t, err)
	for _, question := range q.Questions {
		assert.NotEqual(t, CodeUrinaryRetention, question.Code)
	}
}

func TestForDay_FistulaDischargeInjection(t *testing.T) {
	// Day 3 base set has no discharge question
	q, err := ForDay(3, entities.SurgeryFistula)
	require.NoError(t, err)
	last := q.Questions[len(q.Questions)-1]
	assert.Equal(t, CodeFistulaDischarge, last.Code)

	// Day 2 already has a discharge question; nothing appended
	q, err = ForDay(2, entities.SurgeryFistula)
	require.NoError(t, err)
	for _, question := range q.Questions {
		assert.NotEqual(t, CodeFistulaDischarge, question.Code)
	}
}

func TestForDay_PilonidalWoundQuestion(t *testing.T) {
	q, err := ForDay(1, entities.SurgeryPilonidal)
	require.NoError(t, err)
	for _, question := range q.Questions {
		assert.NotEqual(t, CodeWoundStatus, question.Code)
	}

	q, err = ForDay(7, entities.SurgeryPilonidal)
	require.NoError(t, err)
	assert.Equal(t, CodeWoundStatus, q.Questions[len(q.Questions)-1].Code)
}

func TestToClinicalData_Numbers(t *testing.T) {
	q, err := ForDay(1, entities.SurgeryHemorrhoidectomy)
	require.NoError(t, err)

	answers := []entities.Answer{
		{QuestionCode: CodePainLevel, RawAnswer: "minha dor está em 7"},
		{QuestionCode: CodeTemperature, RawAnswer: "38,5"},
		{QuestionCode: CodeUrinaryRetentionHours, RawAnswer: "umas 8 horas"},
	}
	data := ToClinicalData(answers, q.Questions)

	require.NotNil(t, data.PainLevel)
	assert.Equal(t, 7, *data.PainLevel)
	require.NotNil(t, data.Temperature)
	assert.Equal(t, 38.5, *data.Temperature)
	require.NotNil(t, data.UrinaryRetentionHours)
	assert.Equal(t, 8, *data.UrinaryRetentionHours)
}

func TestToClinicalData_UnparsableDropped(t *testing.T) {
	q, err := ForDay(1, entities.SurgeryHemorrhoidectomy)
	require.NoError(t, err)

	answers := []entities.Answer{
		{QuestionCode: CodePainLevel, RawAnswer: "doendo bastante"},
		{QuestionCode: CodeTemperature, RawAnswer: "não medi"},
		{QuestionCode: CodeFever, RawAnswer: "talvez"},
	}
	data := ToClinicalData(answers, q.Questions)

	assert.Nil(t, data.PainLevel)
	assert.Nil(t, data.Temperature)
	assert.Nil(t, data.Fever)
}

func TestToClinicalData_UrinaryInversion(t *testing.T) {
	q, err := ForDay(1, entities.SurgeryHemorrhoidectomy)
	require.NoError(t, err)

	// "sim, consegui urinar" means no retention
	data := ToClinicalData([]entities.Answer{
		{QuestionCode: CodeUrinaryRetention, RawAnswer: "sim"},
	}, q.Questions)
	require.NotNil(t, data.UrinaryRetention)
	assert.False(t, *data.UrinaryRetention)

	data = ToClinicalData([]entities.Answer{
		{QuestionCode: CodeUrinaryRetention, RawAnswer: "não consegui"},
	}, q.Questions)
	require.NotNil(t, data.UrinaryRetention)
	assert.True(t, *data.UrinaryRetention)
}

func TestToClinicalData_ChoiceLetters(t *testing.T) {
	q, err := ForDay(2, entities.SurgeryFissure)
	require.NoError(t, err)

	// Options for bleeding on day 2: Nenhum, Leve, Moderado, Intenso
	data := ToClinicalData([]entities.Answer{
		{QuestionCode: CodeBleeding, RawAnswer: "c"},
	}, q.Questions)
	assert.Equal(t, entities.BleedingModerate, data.Bleeding)

	data = ToClinicalData([]entities.Answer{
		{QuestionCode: CodeBleeding, RawAnswer: "4"},
	}, q.Questions)
	assert.Equal(t, entities.BleedingSevere, data.Bleeding)

	data = ToClinicalData([]entities.Answer{
		{QuestionCode: CodeBleeding, RawAnswer: "bem leve, só umas manchas"},
	}, q.Questions)
	assert.Equal(t, entities.BleedingLight, data.Bleeding)
}

func TestToClinicalData_Discharge(t *testing.T) {
	q, err := ForDay(3, entities.SurgeryFistula)
	require.NoError(t, err)

	data := ToClinicalData([]entities.Answer{
		{QuestionCode: CodeFistulaDischarge, RawAnswer: "está saindo pus"},
	}, q.Questions)
	assert.Equal(t, entities.DischargePurulent, data.Discharge)
}

func TestToClinicalData_FreeTextSymptoms(t *testing.T) {
	q, err := ForDay(1, entities.SurgeryPilonidal)
	require.NoError(t, err)

	data := ToClinicalData([]entities.Answer{
		{QuestionCode: CodeConcerns, RawAnswer: "muita vermelhidão perto do curativo"},
		{QuestionCode: "nausea_vomiting", RawAnswer: "não"},
	}, q.Questions)
	assert.Equal(t, []string{"muita vermelhidão perto do curativo"}, data.AdditionalSymptoms)

	// "nada" style answers are not symptoms
	data = ToClinicalData([]entities.Answer{
		{QuestionCode: CodeConcerns, RawAnswer: "nada"},
	}, q.Questions)
	assert.Empty(t, data.AdditionalSymptoms)
}

func TestFormatIntro(t *testing.T) {
	q, err := ForDay(1, entities.SurgeryFissure)
	require.NoError(t, err)

	msg := FormatIntro("Maria", q)
	assert.Contains(t, msg, "Olá, Maria!")
	assert.Contains(t, msg, "dia 1")
	assert.Contains(t, msg, "*sim*")
}

func TestFormatQuestion(t *testing.T) {
	msg := FormatQuestion(entities.Question{
		Position: 4,
		Prompt:   "Como está o sangramento?",
		Options:  []string{"Nenhum", "Leve", "Moderado", "Intenso"},
	})
	assert.Contains(t, msg, "4. Como está o sangramento?")
	assert.Contains(t, msg, "a) Nenhum")
	assert.Contains(t, msg, "d) Intenso")
}
