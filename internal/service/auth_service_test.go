package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"examdrill/internal/config"
	"examdrill/internal/domain"
	"examdrill/internal/repository/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	CreateUserFunc        func(ctx context.Context, user *models.User) error
	GetUserByGoogleIDFunc func(ctx context.Context, googleID string) (*models.User, error)
	GetUserByIDFunc       func(ctx context.Context, userID string) (*models.User, error)
	UpdateUserFunc        func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.CreateUserFunc(ctx, user)
}

func (m *mockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return m.GetUserByGoogleIDFunc(ctx, googleID)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return m.GetUserByIDFunc(ctx, userID)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return m.UpdateUserFunc(ctx, user)
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "0123456789abcdef0123456789abcdef", // 32 bytes
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func TestNewAuthService_ShortSecret(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "too-short"}}
	_, err := NewAuthService(&mockUserRepository{}, cfg)
	assert.Error(t, err)
}

func TestCreateAndValidateJWT(t *testing.T) {
	svc, err := NewAuthService(&mockUserRepository{}, authTestConfig())
	require.NoError(t, err)

	user := &models.User{ID: "user-1"}
	token, err := svc.CreateJWT(context.Background(), user, 15*time.Minute, "access")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateJWT_Expired(t *testing.T) {
	svc, err := NewAuthService(&mockUserRepository{}, authTestConfig())
	require.NoError(t, err)

	token, err := svc.CreateJWT(context.Background(), &models.User{ID: "user-1"}, -time.Minute, "access")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	svc, err := NewAuthService(&mockUserRepository{}, authTestConfig())
	require.NoError(t, err)

	otherCfg := authTestConfig()
	otherCfg.JWT.SecretKey = "ffffffffffffffffffffffffffffffff"
	other, err := NewAuthService(&mockUserRepository{}, otherCfg)
	require.NoError(t, err)

	token, err := other.CreateJWT(context.Background(), &models.User{ID: "user-1"}, time.Minute, "access")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	userRepo := &mockUserRepository{
		GetUserByIDFunc: func(ctx context.Context, userID string) (*models.User, error) {
			return &models.User{ID: userID}, nil
		},
	}
	svc, err := NewAuthService(userRepo, authTestConfig())
	require.NoError(t, err)

	refreshToken, err := svc.CreateJWT(context.Background(), &models.User{ID: "user-1"}, time.Hour, "refresh")
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := svc.ValidateJWT(context.Background(), newAccess)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, err := NewAuthService(&mockUserRepository{}, authTestConfig())
	require.NoError(t, err)

	accessToken, err := svc.CreateJWT(context.Background(), &models.User{ID: "user-1"}, time.Hour, "access")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), accessToken)
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	userRepo := &mockUserRepository{
		GetUserByIDFunc: func(ctx context.Context, userID string) (*models.User, error) {
			return &models.User{
				ID:                userID,
				Email:             "student@example.com",
				Name:              sql.NullString{String: "Student", Valid: true},
				ProfilePictureURL: sql.NullString{},
			}, nil
		},
	}
	svc, err := NewAuthService(userRepo, authTestConfig())
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "student@example.com", profile.Email)
	assert.Equal(t, "Student", profile.Name)
	assert.Empty(t, profile.ProfilePictureURL)
}

func TestGetProfile_NotFound(t *testing.T) {
	userRepo := &mockUserRepository{
		GetUserByIDFunc: func(ctx context.Context, userID string) (*models.User, error) {
			return nil, nil
		},
	}
	svc, err := NewAuthService(userRepo, authTestConfig())
	require.NoError(t, err)

	_, err = svc.GetProfile(context.Background(), "missing")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}

func TestTokenEncryptionRoundTrip(t *testing.T) {
	svc, err := NewAuthService(&mockUserRepository{}, authTestConfig())
	require.NoError(t, err)
	impl := svc.(*authServiceImpl)

	encrypted, err := impl.EncryptToken("ya29.some-google-token")
	require.NoError(t, err)
	assert.NotEqual(t, "ya29.some-google-token", encrypted)

	decrypted, err := impl.DecryptToken(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "ya29.some-google-token", decrypted)
}

func TestDecryptToken_Garbage(t *testing.T) {
	svc, err := NewAuthService(&mockUserRepository{}, authTestConfig())
	require.NoError(t, err)
	impl := svc.(*authServiceImpl)

	_, err = impl.DecryptToken("not base64 at all!!!")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}
