package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"examdrill/internal/dto"
	"examdrill/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQuestionService struct {
	GetQuestionsByExamFunc func(ctx context.Context, examName string) (*dto.QuestionListResponse, error)
	ListExamsFunc          func(ctx context.Context) (*dto.ExamListResponse, error)
}

func (m *mockQuestionService) GetQuestionsByExam(ctx context.Context, examName string) (*dto.QuestionListResponse, error) {
	return m.GetQuestionsByExamFunc(ctx, examName)
}

func (m *mockQuestionService) ListExams(ctx context.Context) (*dto.ExamListResponse, error) {
	return m.ListExamsFunc(ctx)
}

func questionSet(n int) *dto.QuestionListResponse {
	questions := make([]dto.QuestionResponse, n)
	for i := range questions {
		questions[i] = dto.QuestionResponse{
			ID:           fmt.Sprintf("q%d", i+1),
			ExamName:     "nremt",
			QuestionText: fmt.Sprintf("question %d", i+1),
		}
	}
	return &dto.QuestionListResponse{Questions: questions}
}

func newQuestionApp(svc *mockQuestionService, demoLimit int, userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h := NewQuestionHandler(svc, demoLimit)
	app.Get("/api/qs", setUser(userID), h.GetQuestions)
	app.Get("/api/exams", h.ListExams)
	app.Get("/api/exams/:id", setUser(userID), h.GetExamQuestions)
	return app
}

func TestGetQuestions_MissingExamName(t *testing.T) {
	app := newQuestionApp(&mockQuestionService{}, 5, "user-1")

	req := httptest.NewRequest("GET", "/api/qs", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp.Body), "examname")
}

func TestGetQuestions_Authenticated(t *testing.T) {
	var gotExam string
	svc := &mockQuestionService{
		GetQuestionsByExamFunc: func(ctx context.Context, examName string) (*dto.QuestionListResponse, error) {
			gotExam = examName
			return questionSet(8), nil
		},
	}
	app := newQuestionApp(svc, 5, "user-1")

	req := httptest.NewRequest("GET", "/api/qs?examname=NREMT", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "NREMT", gotExam)

	var body dto.QuestionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Questions, 8, "authenticated callers get the full set")
}

func TestGetQuestions_AnonymousDemoLimit(t *testing.T) {
	svc := &mockQuestionService{
		GetQuestionsByExamFunc: func(ctx context.Context, examName string) (*dto.QuestionListResponse, error) {
			return questionSet(8), nil
		},
	}
	app := newQuestionApp(svc, 5, "")

	req := httptest.NewRequest("GET", "/api/qs?examname=nremt", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.QuestionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Questions, 5, "anonymous callers only see the demo slice")
}

func TestGetExamQuestions_PathVariant(t *testing.T) {
	var gotExam string
	svc := &mockQuestionService{
		GetQuestionsByExamFunc: func(ctx context.Context, examName string) (*dto.QuestionListResponse, error) {
			gotExam = examName
			return questionSet(2), nil
		},
	}
	app := newQuestionApp(svc, 5, "user-1")

	req := httptest.NewRequest("GET", "/api/exams/nremt", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "nremt", gotExam)
}

func TestListExamsEndpoint(t *testing.T) {
	svc := &mockQuestionService{
		ListExamsFunc: func(ctx context.Context) (*dto.ExamListResponse, error) {
			return &dto.ExamListResponse{Exams: []dto.ExamSummaryResponse{
				{ExamName: "nremt", QuestionCount: 120},
			}}, nil
		},
	}
	app := newQuestionApp(svc, 5, "")

	req := httptest.NewRequest("GET", "/api/exams", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.ExamListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Exams, 1)
	assert.Equal(t, "nremt", body.Exams[0].ExamName)
}
