package domain

import "time"

// Question is a single multiple-choice item of an exam's question bank.
// Questions are read-only reference data from the application's perspective.
type Question struct {
	ID               string
	ExamName         string
	Subject          string
	Category         string
	QuestionText     string
	OptionA          string
	OptionB          string
	OptionC          string
	OptionD          string
	CorrectChoice    string
	Rationale        string
	QuestionImageURL string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Option returns the option text for a choice letter ("a".."d", any case).
func (q *Question) Option(choice string) string {
	switch choice {
	case "a", "A":
		return q.OptionA
	case "b", "B":
		return q.OptionB
	case "c", "C":
		return q.OptionC
	case "d", "D":
		return q.OptionD
	}
	return ""
}

// ExamSummary describes one exam in the catalog listing.
type ExamSummary struct {
	ExamName      string
	QuestionCount int
}
