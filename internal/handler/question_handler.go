package handler

import (
	"examdrill/internal/dto"
	"examdrill/internal/logger"
	"examdrill/internal/middleware"
	"examdrill/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler serves the read-only question bank. Anonymous
// callers get at most demoLimit questions per exam; authenticated
// callers get the full set.
type QuestionHandler struct {
	questionService service.QuestionService
	demoLimit       int
}

func NewQuestionHandler(questionService service.QuestionService, demoLimit int) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, demoLimit: demoLimit}
}

func (h *QuestionHandler) applyDemoLimit(c *fiber.Ctx, result *dto.QuestionListResponse) *dto.QuestionListResponse {
	if userID, ok := c.Locals(middleware.UserIDKey).(string); ok && userID != "" {
		return result
	}
	if h.demoLimit > 0 && len(result.Questions) > h.demoLimit {
		result.Questions = result.Questions[:h.demoLimit]
	}
	return result
}

// GetQuestions godoc
// @Summary Get all questions for an exam
// @Description Returns every question for the exam named by the examname query parameter, in stable order.
// @Tags questions
// @Produce json
// @Param examname query string true "Exam name (case-insensitive)"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/qs [get]
func (h *QuestionHandler) GetQuestions(c *fiber.Ctx) error {
	appLogger := logger.Get()
	examName := c.Query("examname")
	if examName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "examname query parameter is required",
		})
	}

	result, err := h.questionService.GetQuestionsByExam(c.Context(), examName)
	if err != nil {
		appLogger.Error("Failed to get questions for exam",
			zap.String("examname", examName),
			zap.Error(err),
		)
		return err
	}

	return c.JSON(h.applyDemoLimit(c, result))
}

// GetExamQuestions godoc
// @Summary Get all questions for an exam by path
// @Description Path-parameter variant of the exam question listing. The id is the exam name.
// @Tags questions
// @Produce json
// @Param id path string true "Exam name (case-insensitive)"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/exams/{id} [get]
func (h *QuestionHandler) GetExamQuestions(c *fiber.Ctx) error {
	examName := c.Params("id")
	result, err := h.questionService.GetQuestionsByExam(c.Context(), examName)
	if err != nil {
		logger.Get().Error("Failed to get questions for exam",
			zap.String("examname", examName),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(h.applyDemoLimit(c, result))
}

// ListExams godoc
// @Summary List exams
// @Description Returns the distinct exam names in the question bank with their question counts.
// @Tags questions
// @Produce json
// @Success 200 {object} dto.ExamListResponse
// @Router /api/exams [get]
func (h *QuestionHandler) ListExams(c *fiber.Ctx) error {
	result, err := h.questionService.ListExams(c.Context())
	if err != nil {
		logger.Get().Error("Failed to list exams", zap.Error(err))
		return err
	}
	return c.JSON(result)
}
