package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"examdrill/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation errors map to 400",
			err:        domain.ValidationErrors{domain.NewMissingFieldError("question_id")},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "question not found maps to 404",
			err:        domain.NewQuestionNotFoundError("01HQ8ZQJ5W3N2M1K0J9H8G7F6E"),
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:       "invalid input maps to 400",
			err:        domain.NewInvalidInputError("either questionId or resetAll is required"),
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unauthorized maps to 401",
			err:        domain.NewUnauthorizedError("no session"),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "internal maps to 500",
			err:        domain.NewInternalError("store unavailable", errors.New("dial tcp: refused")),
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "fiber error keeps its status",
			err:        fiber.ErrMethodNotAllowed,
			wantStatus: fiber.StatusMethodNotAllowed,
		},
		{
			name:       "unknown error falls back to 500",
			err:        errors.New("something odd"),
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newErrorApp(tt.err)

			req := httptest.NewRequest("GET", "/boom", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var envelope struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.NotEmpty(t, envelope.Error)
		})
	}
}

func TestErrorHandler_ValidationMessageNamesField(t *testing.T) {
	app := newErrorApp(domain.ValidationErrors{
		domain.NewMissingFieldError("is_bookmarked"),
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Error, "is_bookmarked")
}
