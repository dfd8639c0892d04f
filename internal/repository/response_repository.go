package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"examdrill/internal/domain"
	"examdrill/internal/repository/models"
	"examdrill/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxResponseRepository implements domain.ResponseRepository using sqlx.
type sqlxResponseRepository struct {
	db *sqlx.DB
}

// NewSQLXResponseRepository creates a new instance of sqlxResponseRepository.
func NewSQLXResponseRepository(db *sqlx.DB) domain.ResponseRepository {
	return &sqlxResponseRepository{db: db}
}

func toDomainResponse(m *models.Response) *domain.Response {
	if m == nil {
		return nil
	}
	return &domain.Response{
		ID:           m.ID,
		UserID:       m.UserID,
		QuestionID:   m.QuestionID,
		ExamName:     m.ExamName,
		UserAnswer:   util.NullStringToPtr(m.UserAnswer),
		IsCorrect:    util.NullBoolToPtr(m.IsCorrect),
		IsBookmarked: m.IsBookmarked,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainResponse(d *domain.Response) *models.Response {
	if d == nil {
		return nil
	}
	return &models.Response{
		ID:           d.ID,
		UserID:       d.UserID,
		QuestionID:   d.QuestionID,
		ExamName:     d.ExamName,
		UserAnswer:   util.StringPtrToNullString(d.UserAnswer),
		IsCorrect:    util.BoolPtrToNullBool(d.IsCorrect),
		IsBookmarked: d.IsBookmarked,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// GetByUserAndQuestion retrieves the single response row for a (user,
// question) pair. Returns (nil, nil) when no row exists yet.
func (r *sqlxResponseRepository) GetByUserAndQuestion(ctx context.Context, userID, questionID string) (*domain.Response, error) {
	var modelResponse models.Response
	query := `SELECT * FROM responses WHERE user_id = :user_id AND question_id = :question_id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByUserAndQuestion: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"user_id": userID, "question_id": questionID}
	if err := stmt.GetContext(ctx, &modelResponse, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get response for user %s question %s: %w", userID, questionID, err)
	}
	return toDomainResponse(&modelResponse), nil
}

// buildListQuery constructs the joined SELECT for ListByUser. Filters
// combine with AND; the exam filter is case-insensitive like question
// delivery. Returns the query and the ordered argument slice.
func buildListQuery(userID string, filters domain.ResponseFilters) (string, []interface{}) {
	var args []interface{}
	var whereClauses []string
	argIndex := 1

	whereClauses = append(whereClauses, fmt.Sprintf("r.user_id = $%d", argIndex))
	args = append(args, userID)
	argIndex++

	if filters.Bookmarked != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("r.is_bookmarked = $%d", argIndex))
		args = append(args, *filters.Bookmarked)
		argIndex++
	}
	if filters.Correct != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("r.is_correct = $%d", argIndex))
		args = append(args, *filters.Correct)
		argIndex++
	}
	if filters.ExamName != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(q.examname) = LOWER($%d)", argIndex))
		args = append(args, filters.ExamName)
		argIndex++
	}
	if filters.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("q.category = $%d", argIndex))
		args = append(args, filters.Category)
		argIndex++
	}

	query := `SELECT
		r.id, r.user_id, r.question_id, r.examname, r.user_answer, r.is_correct, r.is_bookmarked, r.created_at, r.updated_at,
		q.id, q.examname, q.subject, q.category, q.question_text,
		q.option_a, q.option_b, q.option_c, q.option_d,
		q.correct_choice, q.rationale, q.question_image_url, q.created_at, q.updated_at
	FROM responses r
	JOIN qs q ON r.question_id = q.id
	WHERE ` + strings.Join(whereClauses, " AND ") + `
	ORDER BY r.updated_at DESC`

	return query, args
}

// ListByUser retrieves all of a user's response rows, each joined with
// its question's display fields. No pagination; the full set is returned.
func (r *sqlxResponseRepository) ListByUser(ctx context.Context, userID string, filters domain.ResponseFilters) ([]domain.ResponseWithQuestion, error) {
	query, args := buildListQuery(userID, filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query for ListByUser: %w", err)
	}
	defer rows.Close()

	var results []domain.ResponseWithQuestion
	for rows.Next() {
		var mr models.Response
		var mq models.Question
		if err := rows.Scan(
			&mr.ID,
			&mr.UserID,
			&mr.QuestionID,
			&mr.ExamName,
			&mr.UserAnswer,
			&mr.IsCorrect,
			&mr.IsBookmarked,
			&mr.CreatedAt,
			&mr.UpdatedAt,
			&mq.ID,
			&mq.ExamName,
			&mq.Subject,
			&mq.Category,
			&mq.QuestionText,
			&mq.OptionA,
			&mq.OptionB,
			&mq.OptionC,
			&mq.OptionD,
			&mq.CorrectChoice,
			&mq.Rationale,
			&mq.QuestionImageURL,
			&mq.CreatedAt,
			&mq.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan response row: %w", err)
		}
		results = append(results, domain.ResponseWithQuestion{
			Response: *toDomainResponse(&mr),
			Question: *toDomainQuestion(&mq),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate response rows: %w", err)
	}
	return results, nil
}

// Upsert atomically inserts or updates the row keyed on (user_id,
// question_id) and returns the stored row. The caller supplies the full
// merged row; re-submitting the same row is idempotent.
func (r *sqlxResponseRepository) Upsert(ctx context.Context, response *domain.Response) (*domain.Response, error) {
	modelResponse := fromDomainResponse(response)
	if modelResponse.CreatedAt.IsZero() {
		modelResponse.CreatedAt = time.Now()
	}
	modelResponse.UpdatedAt = time.Now()

	query := `INSERT INTO responses (id, user_id, question_id, examname, user_answer, is_correct, is_bookmarked, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id, question_id) DO UPDATE SET
	              examname = EXCLUDED.examname,
	              user_answer = EXCLUDED.user_answer,
	              is_correct = EXCLUDED.is_correct,
	              is_bookmarked = EXCLUDED.is_bookmarked,
	              updated_at = EXCLUDED.updated_at
	          RETURNING id, user_id, question_id, examname, user_answer, is_correct, is_bookmarked, created_at, updated_at`

	var stored models.Response
	err := r.db.QueryRowxContext(ctx, query,
		modelResponse.ID,
		modelResponse.UserID,
		modelResponse.QuestionID,
		modelResponse.ExamName,
		modelResponse.UserAnswer,
		modelResponse.IsCorrect,
		modelResponse.IsBookmarked,
		modelResponse.CreatedAt,
		modelResponse.UpdatedAt,
	).StructScan(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert response: %w", err)
	}
	return toDomainResponse(&stored), nil
}

// UpdateBookmark flips only the bookmark flag of an existing row.
func (r *sqlxResponseRepository) UpdateBookmark(ctx context.Context, responseID string, bookmarked bool) error {
	query := `UPDATE responses SET is_bookmarked = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, bookmarked, time.Now(), responseID)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Insert creates a new response row without conflict handling. Used by
// the legacy bookmark path when no row exists yet.
func (r *sqlxResponseRepository) Insert(ctx context.Context, response *domain.Response) error {
	modelResponse := fromDomainResponse(response)
	modelResponse.CreatedAt = time.Now()
	modelResponse.UpdatedAt = time.Now()

	query := `INSERT INTO responses (id, user_id, question_id, examname, user_answer, is_correct, is_bookmarked, created_at, updated_at)
	          VALUES (:id, :user_id, :question_id, :examname, :user_answer, :is_correct, :is_bookmarked, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, modelResponse); err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

// DeleteByQuestion removes the caller's single row for a question.
func (r *sqlxResponseRepository) DeleteByQuestion(ctx context.Context, userID, questionID string) (int64, error) {
	query := `DELETE FROM responses WHERE user_id = $1 AND question_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, questionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete response: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// DeleteAllForUser removes every row belonging to the user and only those.
func (r *sqlxResponseRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM responses WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete responses for user %s: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
