package service

import (
	"context"
	"fmt"

	"examdrill/internal/domain"
	"examdrill/internal/dto"
	"examdrill/internal/logger"
	"examdrill/internal/util"

	"go.uber.org/zap"
)

// ResponseService defines the interface for per-user response operations.
// Every operation is scoped to the calling user's identity.
type ResponseService interface {
	GetResponses(ctx context.Context, userID string, filters domain.ResponseFilters) (*dto.ResponseListResponse, error)
	UpsertResponse(ctx context.Context, userID string, req *dto.UpsertResponseRequest) (*dto.SingleResponseEnvelope, error)
	UpdateBookmark(ctx context.Context, userID string, req *dto.BookmarkUpdateRequest) (*dto.SingleResponseEnvelope, error)
	DeleteResponse(ctx context.Context, userID string, questionID string) (*dto.DeleteResponsesResult, error)
	ResetResponses(ctx context.Context, userID string) (*dto.DeleteResponsesResult, error)
}

type responseServiceImpl struct {
	questionRepo domain.QuestionRepository
	responseRepo domain.ResponseRepository
}

// NewResponseService creates a new instance of ResponseService.
func NewResponseService(questionRepo domain.QuestionRepository, responseRepo domain.ResponseRepository) ResponseService {
	return &responseServiceImpl{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
	}
}

// GetResponses retrieves all of the user's response rows joined with the
// question display fields, honoring the AND-combined optional filters.
func (s *responseServiceImpl) GetResponses(ctx context.Context, userID string, filters domain.ResponseFilters) (*dto.ResponseListResponse, error) {
	rows, err := s.responseRepo.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses from repository: %w", err)
	}

	items := make([]dto.ResponseItem, 0, len(rows))
	for i := range rows {
		item := toResponseItem(&rows[i].Response)
		q := toQuestionResponse(&rows[i].Question)
		item.Question = &q
		items = append(items, item)
	}
	return &dto.ResponseListResponse{Responses: items}, nil
}

// mergeResponse computes the row to write for an upsert. The merge is
// field-level: a field absent from the request keeps the previously
// stored value, and a first-time row gets the documented defaults
// (bookmark false, answer unset). Correctness is derived only when an
// answer is explicitly supplied.
func mergeResponse(userID string, question *domain.Question, existing *domain.Response, req *dto.UpsertResponseRequest) *domain.Response {
	row := &domain.Response{
		UserID:     userID,
		QuestionID: question.ID,
		ExamName:   question.ExamName,
	}
	if existing != nil {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	} else {
		row.ID = util.NewULID()
	}

	switch {
	case req.IsBookmarked != nil:
		row.IsBookmarked = *req.IsBookmarked
	case existing != nil:
		row.IsBookmarked = existing.IsBookmarked
	default:
		row.IsBookmarked = false
	}

	if req.UserAnswer != nil {
		answer := *req.UserAnswer
		row.UserAnswer = &answer
		row.IsCorrect = domain.GradeAnswer(answer, question.CorrectChoice)
	} else if existing != nil {
		row.UserAnswer = existing.UserAnswer
		row.IsCorrect = existing.IsCorrect
	}

	return row
}

// UpsertResponse is the primary write path: it creates or updates the
// single row for (user, question) and is idempotent for repeated input.
func (s *responseServiceImpl) UpsertResponse(ctx context.Context, userID string, req *dto.UpsertResponseRequest) (*dto.SingleResponseEnvelope, error) {
	question, err := s.questionRepo.GetQuestionByID(ctx, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question from repository: %w", err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(req.QuestionID)
	}

	existing, err := s.responseRepo.GetByUserAndQuestion(ctx, userID, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing response from repository: %w", err)
	}

	merged := mergeResponse(userID, question, existing, req)

	stored, err := s.responseRepo.Upsert(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert response in repository: %w", err)
	}

	logger.Get().Info("Response upserted",
		zap.String("userID", userID),
		zap.String("questionID", req.QuestionID),
		zap.Bool("answerProvided", req.UserAnswer != nil),
		zap.Bool("bookmarkProvided", req.IsBookmarked != nil))

	item := toResponseItem(stored)
	return &dto.SingleResponseEnvelope{Response: item}, nil
}

// UpdateBookmark is the legacy bookmark-only path, kept for backward
// compatibility with older clients: update in place when a row exists,
// otherwise create a row carrying only the bookmark flag and the
// question's exam name.
func (s *responseServiceImpl) UpdateBookmark(ctx context.Context, userID string, req *dto.BookmarkUpdateRequest) (*dto.SingleResponseEnvelope, error) {
	existing, err := s.responseRepo.GetByUserAndQuestion(ctx, userID, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing response from repository: %w", err)
	}

	if existing != nil {
		if err := s.responseRepo.UpdateBookmark(ctx, existing.ID, *req.IsBookmarked); err != nil {
			return nil, fmt.Errorf("failed to update bookmark in repository: %w", err)
		}
		existing.IsBookmarked = *req.IsBookmarked
		item := toResponseItem(existing)
		return &dto.SingleResponseEnvelope{Response: item}, nil
	}

	question, err := s.questionRepo.GetQuestionByID(ctx, req.QuestionID)
	if err != nil || question == nil {
		return nil, domain.NewInternalError("Failed to get exam data for question", err)
	}

	row := &domain.Response{
		ID:           util.NewULID(),
		UserID:       userID,
		QuestionID:   req.QuestionID,
		ExamName:     question.ExamName,
		IsBookmarked: *req.IsBookmarked,
	}
	if err := s.responseRepo.Insert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to insert bookmark-only response: %w", err)
	}

	item := toResponseItem(row)
	return &dto.SingleResponseEnvelope{Response: item}, nil
}

// DeleteResponse removes the caller's single row for a question.
func (s *responseServiceImpl) DeleteResponse(ctx context.Context, userID string, questionID string) (*dto.DeleteResponsesResult, error) {
	deleted, err := s.responseRepo.DeleteByQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete response in repository: %w", err)
	}
	logger.Get().Info("Response deleted",
		zap.String("userID", userID),
		zap.String("questionID", questionID),
		zap.Int64("rows", deleted))
	return &dto.DeleteResponsesResult{Message: "Response deleted successfully"}, nil
}

// ResetResponses removes every row belonging to the caller.
func (s *responseServiceImpl) ResetResponses(ctx context.Context, userID string) (*dto.DeleteResponsesResult, error) {
	deleted, err := s.responseRepo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset responses in repository: %w", err)
	}
	logger.Get().Info("All responses deleted for user",
		zap.String("userID", userID),
		zap.Int64("rows", deleted))
	return &dto.DeleteResponsesResult{Message: "All responses deleted successfully"}, nil
}

func toResponseItem(d *domain.Response) dto.ResponseItem {
	return dto.ResponseItem{
		ID:           d.ID,
		UserID:       d.UserID,
		QuestionID:   d.QuestionID,
		ExamName:     d.ExamName,
		UserAnswer:   d.UserAnswer,
		IsCorrect:    d.IsCorrect,
		IsBookmarked: d.IsBookmarked,
		UpdatedAt:    d.UpdatedAt,
	}
}
