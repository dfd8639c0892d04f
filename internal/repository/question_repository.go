package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"examdrill/internal/domain"
	"examdrill/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:               m.ID,
		ExamName:         m.ExamName,
		Subject:          m.Subject.String,
		Category:         m.Category.String,
		QuestionText:     m.QuestionText,
		OptionA:          m.OptionA.String,
		OptionB:          m.OptionB.String,
		OptionC:          m.OptionC.String,
		OptionD:          m.OptionD.String,
		CorrectChoice:    m.CorrectChoice,
		Rationale:        m.Rationale.String,
		QuestionImageURL: m.QuestionImageURL.String,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// GetQuestionByID implements domain.QuestionRepository.
// Returns (nil, nil) when the question does not exist.
func (a *QuestionDatabaseAdapter) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var modelQuestion models.Question
	query := `SELECT * FROM qs WHERE id = :id`

	stmt, err := a.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetQuestionByID: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"id": id}
	if err := stmt.GetContext(ctx, &modelQuestion, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id %s: %w", id, err)
	}
	return toDomainQuestion(&modelQuestion), nil
}

// GetQuestionsByExamName implements domain.QuestionRepository.
// The exam name match is case-insensitive; the full set is returned.
func (a *QuestionDatabaseAdapter) GetQuestionsByExamName(ctx context.Context, examName string) ([]domain.Question, error) {
	var modelQuestions []models.Question
	query := `SELECT * FROM qs WHERE LOWER(examname) = LOWER(:examname) ORDER BY created_at, id`

	stmt, err := a.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetQuestionsByExamName: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"examname": examName}
	if err := stmt.SelectContext(ctx, &modelQuestions, args); err != nil {
		return nil, fmt.Errorf("failed to get questions for exam %s: %w", examName, err)
	}

	questions := make([]domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, *toDomainQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

// ListExams implements domain.QuestionRepository.
func (a *QuestionDatabaseAdapter) ListExams(ctx context.Context) ([]domain.ExamSummary, error) {
	rows := []struct {
		ExamName      string `db:"examname"`
		QuestionCount int    `db:"question_count"`
	}{}
	query := `SELECT examname, COUNT(*) AS question_count FROM qs GROUP BY examname ORDER BY examname`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	exams := make([]domain.ExamSummary, 0, len(rows))
	for _, r := range rows {
		exams = append(exams, domain.ExamSummary{ExamName: r.ExamName, QuestionCount: r.QuestionCount})
	}
	return exams, nil
}
