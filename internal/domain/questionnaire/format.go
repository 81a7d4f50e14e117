package questionnaire

import (
	"fmt"
	"strings"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// FormatIntro builds the opening message sent when a follow-up day becomes
// due. The patient opts in by replying "sim".
func FormatIntro(firstName string, q *entities.Questionnaire) string {
	var b strings.Builder
	if firstName != "" {
		b.WriteString(fmt.Sprintf("Olá, %s! 👋\n\n", firstName))
	}
	b.WriteString(fmt.Sprintf("Aqui é o acompanhamento pós-operatório do dia %d.\n\n", q.DayNumber))
	b.WriteString(q.Introduction)
	b.WriteString("\n\nSão ")
	b.WriteString(fmt.Sprintf("%d perguntas rápidas. Responda *sim* para começar.", len(q.Questions)))
	return b.String()
}

// FormatQuestion renders one question for WhatsApp, with lettered options
// for choice questions.
func FormatQuestion(q entities.Question) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d. %s", q.Position, q.Prompt))
	for i, option := range q.Options {
		b.WriteString(fmt.Sprintf("\n   %c) %s", 'a'+i, option))
	}
	return b.String()
}
