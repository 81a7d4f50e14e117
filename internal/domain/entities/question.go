package entities

// AnswerKind declares how a raw answer is coerced into clinical data
type AnswerKind string

const (
	AnswerScale   AnswerKind = "scale"   // numeric 0-10
	AnswerBoolean AnswerKind = "boolean" // sim/não
	AnswerChoice  AnswerKind = "choice"  // enumerated options
	AnswerText    AnswerKind = "text"    // free text
)

// Question is one prompt within a day's ordered question set
type Question struct {
	Code     string     `json:"code"`
	Prompt   string     `json:"prompt"`
	Kind     AnswerKind `json:"kind"`
	Options  []string   `json:"options,omitempty"`
	Position int        `json:"position"` // 1-based ordinal within the day
}

// Questionnaire is the fixed ordered question set for one follow-up day
type Questionnaire struct {
	DayNumber    int         `json:"day_number"`
	SurgeryType  SurgeryType `json:"surgery_type"`
	Introduction string      `json:"introduction"`
	Questions    []Question  `json:"questions"`
}

// QuestionAt returns the question at the given 1-based position
func (q *Questionnaire) QuestionAt(position int) (Question, bool) {
	if position < 1 || position > len(q.Questions) {
		return Question{}, false
	}
	return q.Questions[position-1], true
}

// LastPosition is the 1-based position of the final question
func (q *Questionnaire) LastPosition() int {
	return len(q.Questions)
}
