package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"examdrill/internal/dto"
	"examdrill/internal/repository/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *mockAuthService) GetGoogleLoginURL(state string) string { return "" }

func (m *mockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (string, string, *models.User, error) {
	return "", "", nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	return m.ValidateJWTFunc(ctx, tokenString)
}

func (m *mockAuthService) CreateJWT(ctx context.Context, user *models.User, ttl time.Duration, tokenType string) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	return nil, errors.New("not implemented")
}

func newProtectedApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	app.Get("/private", Protected(svc), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(UserIDKey).(string))
	})
	return app
}

func TestProtected_NoHeader(t *testing.T) {
	app := newProtectedApp(&mockAuthService{})

	req := httptest.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_NotBearer(t *testing.T) {
	app := newProtectedApp(&mockAuthService{})

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_InvalidToken(t *testing.T) {
	svc := &mockAuthService{
		ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
			return nil, errors.New("signature invalid")
		},
	}
	app := newProtectedApp(svc)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_RefreshTokenRejected(t *testing.T) {
	svc := &mockAuthService{
		ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
			return &dto.AuthClaims{UserID: "user-1", TokenType: "refresh"}, nil
		},
	}
	app := newProtectedApp(svc)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"refresh-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_ValidToken(t *testing.T) {
	svc := &mockAuthService{
		ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
			assert.Equal(t, "good-token", tokenString)
			return &dto.AuthClaims{UserID: "user-1", TokenType: "access"}, nil
		},
	}
	app := newProtectedApp(svc)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"good-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	svc := &mockAuthService{
		ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
			if tokenString == "good-token" {
				return &dto.AuthClaims{UserID: "user-1", TokenType: "access"}, nil
			}
			return nil, errors.New("invalid")
		},
	}
	app := fiber.New()
	app.Get("/maybe", OptionalAuth(svc), func(c *fiber.Ctx) error {
		if userID, ok := c.Locals(UserIDKey).(string); ok {
			return c.SendString(userID)
		}
		return c.SendString("anonymous")
	})

	req := httptest.NewRequest("GET", "/maybe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "missing token still passes through")

	req = httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"bad-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "invalid token degrades to anonymous")

	req = httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"good-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
