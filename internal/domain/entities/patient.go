package entities

import (
	"strings"
	"time"
)

// Patient represents a post-operative patient under follow-up
type Patient struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Phone       string    `json:"phone" db:"phone"`
	AltPhone    string    `json:"alt_phone,omitempty" db:"alt_phone"`
	DoctorID    string    `json:"doctor_id" db:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty" db:"doctor_name"`
	DoctorPhone string    `json:"doctor_phone,omitempty" db:"doctor_phone"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FirstName returns the patient's first name for conversational messages
func (p *Patient) FirstName() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ""
	}
	return strings.Fields(name)[0]
}

// PhoneCandidates returns every stored phone representation, free-form
func (p *Patient) PhoneCandidates() []string {
	candidates := []string{p.Phone}
	if p.AltPhone != "" {
		candidates = append(candidates, p.AltPhone)
	}
	return candidates
}

// NormalizePhone strips every non-digit character from a phone representation
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneSuffixes returns the 11, 9 and 8 digit suffixes of a normalized phone,
// in preference order. Shorter numbers yield the number itself.
func PhoneSuffixes(normalized string) []string {
	suffixes := make([]string, 0, 3)
	for _, n := range []int{11, 9, 8} {
		if len(normalized) > n {
			suffixes = append(suffixes, normalized[len(normalized)-n:])
		} else {
			suffixes = append(suffixes, normalized)
		}
	}
	return suffixes
}
