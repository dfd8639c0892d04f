package models

import (
	"database/sql"
	"time"
)

// Question is the row model for the qs table. The question bank is
// read-only reference data; the application never writes to it outside
// of the seed command.
type Question struct {
	ID               string         `db:"id"` // ULID
	ExamName         string         `db:"examname"`
	Subject          sql.NullString `db:"subject"`
	Category         sql.NullString `db:"category"`
	QuestionText     string         `db:"question_text"`
	OptionA          sql.NullString `db:"option_a"`
	OptionB          sql.NullString `db:"option_b"`
	OptionC          sql.NullString `db:"option_c"`
	OptionD          sql.NullString `db:"option_d"`
	CorrectChoice    string         `db:"correct_choice"`
	Rationale        sql.NullString `db:"rationale"`
	QuestionImageURL sql.NullString `db:"question_image_url"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (Question) TableName() string {
	return "qs"
}
