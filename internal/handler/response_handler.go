package handler

import (
	"strconv"

	"examdrill/internal/domain"
	"examdrill/internal/dto"
	"examdrill/internal/logger"
	"examdrill/internal/middleware"
	"examdrill/internal/service"
	"examdrill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResponseHandler exposes the per-user response rows: filtered fetch,
// merge upsert, the legacy bookmark-only update, and deletes.
type ResponseHandler struct {
	responseService service.ResponseService
}

func NewResponseHandler(responseService service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseService: responseService}
}

func userIDFromContext(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// parseBoolQuery reads an optional boolean query parameter. A missing
// or empty parameter yields nil; anything unparsable is an input error.
func parseBoolQuery(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError(name, raw)}
	}
	return &v, nil
}

// GetResponses godoc
// @Summary Get the caller's responses
// @Description Returns the caller's response rows joined with their questions, newest activity first. Supports bookmarked, correct, exam and category filters.
// @Tags responses
// @Produce json
// @Security BearerAuth
// @Param bookmarked query boolean false "Only bookmarked (true) or non-bookmarked (false) rows"
// @Param correct query boolean false "Only correct (true) or incorrect (false) graded rows"
// @Param exam query string false "Exam name filter (case-insensitive)"
// @Param category query string false "Question category filter"
// @Success 200 {object} dto.ResponseListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/responses [get]
func (h *ResponseHandler) GetResponses(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "User not authenticated",
		})
	}

	bookmarked, err := parseBoolQuery(c, "bookmarked")
	if err != nil {
		return err
	}
	correct, err := parseBoolQuery(c, "correct")
	if err != nil {
		return err
	}
	filters := domain.ResponseFilters{
		Bookmarked: bookmarked,
		Correct:    correct,
		ExamName:   c.Query("exam"),
		Category:   c.Query("category"),
	}

	result, err := h.responseService.GetResponses(c.Context(), userID, filters)
	if err != nil {
		logger.Get().Error("Failed to get responses",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(result)
}

// SaveResponse godoc
// @Summary Save or update a response
// @Description Upserts the caller's row for a question. Omitted fields keep their stored values; a supplied answer is regraded and an empty answer clears correctness.
// @Tags responses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertResponseRequest true "Response fields to merge"
// @Success 200 {object} dto.SingleResponseEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/responses [post]
func (h *ResponseHandler) SaveResponse(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "User not authenticated",
		})
	}

	var req dto.UpsertResponseRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse response body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}
	if err := validation.ValidateUpsertRequest(&req); err != nil {
		return err
	}

	result, err := h.responseService.UpsertResponse(c.Context(), userID, &req)
	if err != nil {
		logger.Get().Error("Failed to upsert response",
			zap.String("userID", userID),
			zap.String("questionID", req.QuestionID),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(result)
}

// UpdateBookmark godoc
// @Summary Update only the bookmark flag
// @Description Legacy bookmark toggle. Updates the bookmark on an existing row, or creates a bookmark-only row when the caller has never answered the question.
// @Tags responses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookmarkUpdateRequest true "Bookmark state"
// @Success 200 {object} dto.SingleResponseEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/responses [patch]
func (h *ResponseHandler) UpdateBookmark(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "User not authenticated",
		})
	}

	var req dto.BookmarkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse bookmark body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}
	if err := validation.ValidateBookmarkUpdate(&req); err != nil {
		return err
	}

	result, err := h.responseService.UpdateBookmark(c.Context(), userID, &req)
	if err != nil {
		logger.Get().Error("Failed to update bookmark",
			zap.String("userID", userID),
			zap.String("questionID", req.QuestionID),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(result)
}

// DeleteResponses godoc
// @Summary Delete one response or reset all
// @Description Deletes the caller's row for questionId, or every row when resetAll=true. Exactly one of the two must be supplied.
// @Tags responses
// @Produce json
// @Security BearerAuth
// @Param questionId query string false "Question whose response to delete"
// @Param resetAll query boolean false "Delete all of the caller's responses"
// @Success 200 {object} dto.DeleteResponsesResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/responses [delete]
func (h *ResponseHandler) DeleteResponses(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "User not authenticated",
		})
	}

	questionID := c.Query("questionId")
	resetAll := false
	if raw := c.Query("resetAll"); raw != "" {
		v, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("resetAll", raw)}
		}
		resetAll = v
	}

	if err := validation.ValidateDeleteParams(questionID, resetAll); err != nil {
		return err
	}

	var result *dto.DeleteResponsesResult
	var err error
	if resetAll {
		result, err = h.responseService.ResetResponses(c.Context(), userID)
	} else {
		result, err = h.responseService.DeleteResponse(c.Context(), userID, questionID)
	}
	if err != nil {
		logger.Get().Error("Failed to delete responses",
			zap.String("userID", userID),
			zap.String("questionID", questionID),
			zap.Bool("resetAll", resetAll),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(result)
}
