package models

import (
	"database/sql"
	"time"
)

// Response is the row model for the responses table. One row per
// (user_id, question_id), enforced by a unique constraint; the upsert
// path conflicts on that key.
type Response struct {
	ID           string         `db:"id"` // ULID
	UserID       string         `db:"user_id"`
	QuestionID   string         `db:"question_id"`
	ExamName     string         `db:"examname"` // denormalized copy from qs
	UserAnswer   sql.NullString `db:"user_answer"`
	IsCorrect    sql.NullBool   `db:"is_correct"` // NULL when unanswered or cleared
	IsBookmarked bool           `db:"is_bookmarked"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (Response) TableName() string {
	return "responses"
}
