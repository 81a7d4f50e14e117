package entities

import "time"

// Answer is one recorded questionnaire answer, in arrival order
type Answer struct {
	QuestionCode string `json:"question_code"`
	RawAnswer    string `json:"raw_answer"`
}

// TurnRole identifies who produced a conversation turn
type TurnRole string

const (
	TurnPatient   TurnRole = "patient"
	TurnAssistant TurnRole = "assistant"
)

// Turn is one entry of the encounter's conversation record. Nudge marks the
// one-time "are you still there" reminder sent by the escalation sweep.
type Turn struct {
	Role    TurnRole  `json:"role"`
	Content string    `json:"content"`
	Nudge   bool      `json:"nudge,omitempty"`
	At      time.Time `json:"at"`
}

// FollowUpResponse collects everything a patient reported for one check-in,
// together with the reconciled risk assessment.
//
// CurrentQuestionIndex is 1-based and monotonically non-decreasing until the
// questionnaire finishes. DoctorAlerted flips false→true at most once and is
// never reset.
type FollowUpResponse struct {
	ID                   string        `json:"id" db:"id"`
	FollowUpID           string        `json:"follow_up_id" db:"follow_up_id"`
	DoctorID             string        `json:"doctor_id" db:"doctor_id"`
	Answers              []Answer      `json:"answers"`
	CurrentQuestionIndex int           `json:"current_question_index" db:"current_question_index"`
	Clinical             *ClinicalData `json:"clinical,omitempty"`
	RiskLevel            RiskLevel     `json:"risk_level" db:"risk_level"`
	RedFlags             []RedFlag     `json:"red_flags,omitempty"`
	AIRedFlags           []string      `json:"ai_red_flags,omitempty"`
	AIAnalysis           string        `json:"ai_analysis,omitempty" db:"ai_analysis"`
	DoctorAlerted        bool          `json:"doctor_alerted" db:"doctor_alerted"`
	AlertSentAt          *time.Time    `json:"alert_sent_at,omitempty" db:"alert_sent_at"`
	Conversation         []Turn        `json:"conversation,omitempty"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at" db:"updated_at"`
}

// AppendTurn records a conversation turn
func (r *FollowUpResponse) AppendTurn(role TurnRole, content string, nudge bool, at time.Time) {
	r.Conversation = append(r.Conversation, Turn{Role: role, Content: content, Nudge: nudge, At: at})
}

// NudgeOutstanding reports whether a nudge was sent after the patient's last
// turn, i.e. the encounter sits in the "nudged" stage of the stall machine.
func (r *FollowUpResponse) NudgeOutstanding() bool {
	for i := len(r.Conversation) - 1; i >= 0; i-- {
		turn := r.Conversation[i]
		if turn.Nudge {
			return true
		}
		if turn.Role == TurnPatient {
			return false
		}
	}
	return false
}

// AllRedFlagMessages unions deterministic and AI-reported flags for alerting.
// Duplicates are preserved.
func (r *FollowUpResponse) AllRedFlagMessages() []string {
	messages := make([]string, 0, len(r.RedFlags)+len(r.AIRedFlags))
	for _, flag := range r.RedFlags {
		messages = append(messages, flag.Message)
	}
	messages = append(messages, r.AIRedFlags...)
	return messages
}
