package domain

import "context"

// ResponseFilters narrows the filtered response fetch. All set filters
// combine with logical AND. Nil pointer fields mean "not filtered".
type ResponseFilters struct {
	Bookmarked *bool
	Correct    *bool
	ExamName   string
	Category   string
}

// QuestionRepository is the port for the read-only question bank.
// Implementations return (nil, nil) when a single row is not found.
type QuestionRepository interface {
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	GetQuestionsByExamName(ctx context.Context, examName string) ([]Question, error)
	ListExams(ctx context.Context) ([]ExamSummary, error)
}

// ResponseRepository is the port for per-user response rows.
type ResponseRepository interface {
	GetByUserAndQuestion(ctx context.Context, userID, questionID string) (*Response, error)
	ListByUser(ctx context.Context, userID string, filters ResponseFilters) ([]ResponseWithQuestion, error)
	// Upsert atomically inserts or updates the row keyed on (user_id, question_id).
	Upsert(ctx context.Context, response *Response) (*Response, error)
	UpdateBookmark(ctx context.Context, responseID string, bookmarked bool) error
	Insert(ctx context.Context, response *Response) error
	DeleteByQuestion(ctx context.Context, userID, questionID string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}
