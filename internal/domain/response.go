package domain

import (
	"strings"
	"time"
)

// Response is the stored record of one user's interaction with one question:
// the selected answer, its derived correctness, and the bookmark flag.
// There is exactly one row per (UserID, QuestionID) pair.
type Response struct {
	ID           string
	UserID       string
	QuestionID   string
	ExamName     string
	UserAnswer   *string // nil when the user never answered
	IsCorrect    *bool   // nil when no answer, or the answer was cleared
	IsBookmarked bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResponseWithQuestion is a response row enriched with its question's
// display fields, as returned by the filtered fetch.
type ResponseWithQuestion struct {
	Response
	Question Question
}

// GradeAnswer derives the correctness flag for an explicitly submitted answer.
// The comparison against the correct choice is case-insensitive. An empty
// (cleared) answer has no correctness at all, not "incorrect".
func GradeAnswer(userAnswer, correctChoice string) *bool {
	if userAnswer == "" {
		return nil
	}
	correct := strings.EqualFold(userAnswer, correctChoice)
	return &correct
}
