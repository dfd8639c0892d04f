package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"examdrill/internal/cache"
	"examdrill/internal/domain"
	"examdrill/internal/dto"
	"examdrill/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuestionService defines the interface for question delivery operations.
type QuestionService interface {
	// GetQuestionsByExam returns every question whose exam name matches
	// the identifier case-insensitively. No ranking, no pagination.
	GetQuestionsByExam(ctx context.Context, examName string) (*dto.QuestionListResponse, error)
	ListExams(ctx context.Context) (*dto.ExamListResponse, error)
}

type questionServiceImpl struct {
	repo     domain.QuestionRepository
	cache    domain.Cache // nil disables caching
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewQuestionService creates a new instance of QuestionService. The
// question bank is immutable reference data, so per-exam question sets
// are cached; concurrent loads of the same exam are deduplicated.
func NewQuestionService(repo domain.QuestionRepository, cacheAdapter domain.Cache, cacheTTL time.Duration) QuestionService {
	return &questionServiceImpl{
		repo:     repo,
		cache:    cacheAdapter,
		cacheTTL: cacheTTL,
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:               q.ID,
		ExamName:         q.ExamName,
		Subject:          q.Subject,
		Category:         q.Category,
		QuestionText:     q.QuestionText,
		OptionA:          q.OptionA,
		OptionB:          q.OptionB,
		OptionC:          q.OptionC,
		OptionD:          q.OptionD,
		CorrectChoice:    q.CorrectChoice,
		Rationale:        q.Rationale,
		QuestionImageURL: q.QuestionImageURL,
	}
}

func (s *questionServiceImpl) GetQuestionsByExam(ctx context.Context, examName string) (*dto.QuestionListResponse, error) {
	cacheKey := cache.GenerateCacheKey("question", "examset", strings.ToLower(examName))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var questions []dto.QuestionResponse
			if errUnmarshal := json.Unmarshal([]byte(cached), &questions); errUnmarshal == nil {
				logger.Get().Debug("Question set cache hit", zap.String("exam", examName))
				return &dto.QuestionListResponse{Questions: questions}, nil
			}
			logger.Get().Warn("Failed to unmarshal cached question set, reloading",
				zap.String("exam", examName))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Question set cache lookup failed",
				zap.Error(err), zap.String("exam", examName))
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		return s.loadQuestions(ctx, examName, cacheKey)
	})
	if err != nil {
		return nil, err
	}

	questions := result.([]dto.QuestionResponse)
	return &dto.QuestionListResponse{Questions: questions}, nil
}

func (s *questionServiceImpl) loadQuestions(ctx context.Context, examName, cacheKey string) ([]dto.QuestionResponse, error) {
	domainQuestions, err := s.repo.GetQuestionsByExamName(ctx, examName)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions from repository: %w", err)
	}

	questions := make([]dto.QuestionResponse, 0, len(domainQuestions))
	for i := range domainQuestions {
		questions = append(questions, toQuestionResponse(&domainQuestions[i]))
	}

	if s.cache != nil {
		if data, errMarshal := json.Marshal(questions); errMarshal == nil {
			if errSet := s.cache.Set(ctx, cacheKey, string(data), s.cacheTTL); errSet != nil {
				logger.Get().Warn("Failed to cache question set",
					zap.Error(errSet), zap.String("exam", examName))
			}
		}
	}

	return questions, nil
}

func (s *questionServiceImpl) ListExams(ctx context.Context) (*dto.ExamListResponse, error) {
	summaries, err := s.repo.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams from repository: %w", err)
	}

	exams := make([]dto.ExamSummaryResponse, 0, len(summaries))
	for _, sm := range summaries {
		exams = append(exams, dto.ExamSummaryResponse{
			ExamName:      sm.ExamName,
			QuestionCount: sm.QuestionCount,
		})
	}
	return &dto.ExamListResponse{Exams: exams}, nil
}
