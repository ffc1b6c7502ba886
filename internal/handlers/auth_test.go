package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/bojanv/teamo-api/internal/models"
	"github.com/bojanv/teamo-api/internal/services"
	"github.com/bojanv/teamo-api/pkg/dto"
	"github.com/bojanv/teamo-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) (*testutil.MockUserService, *testutil.MockTokenService, *AuthHandler, *services.JWTService) {
	t.Helper()
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	handler := NewAuthHandler(mockUserService, mockTokenService, jwtSvc)
	return mockUserService, mockTokenService, handler, jwtSvc
}

func TestAuthHandler_Register_Success(t *testing.T) {
	mockUserService, mockTokenService, handler, _ := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "new@example.com", Name: "New User"}

	mockUserService.On("Register", mock.Anything, "new@example.com", "New User", "password123").Return(user, nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/register", dto.RegisterRequest{
		Email:    "new@example.com",
		Name:     "New User",
		Password: "password123",
	}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TokenResponse
	testutil.ParseJSON(t, rec, &response)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Equal(t, int64(15*60), response.ExpiresIn)

	mockUserService.AssertExpectations(t)
	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	mockUserService, _, handler, _ := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/register", dto.RegisterRequest{
		Email:    "new@example.com",
		Name:     "New User",
		Password: "short",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockUserService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mockUserService, _, handler, _ := setupAuthTest(t)

	mockUserService.On("Register", mock.Anything, "taken@example.com", "New User", "password123").
		Return(nil, services.ErrEmailTaken)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/register", dto.RegisterRequest{
		Email:    "taken@example.com",
		Name:     "New User",
		Password: "password123",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockUserService, mockTokenService, handler, _ := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "test@example.com", Name: "Test User"}

	mockUserService.On("Authenticate", mock.Anything, "test@example.com", "password123").Return(user, nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/login", dto.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TokenResponse
	testutil.ParseJSON(t, rec, &response)
	assert.NotEmpty(t, response.AccessToken)

	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockUserService, _, handler, _ := setupAuthTest(t)

	mockUserService.On("Authenticate", mock.Anything, "test@example.com", "wrong").
		Return(nil, services.ErrInvalidCredentials)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/login", dto.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mockUserService, mockTokenService, handler, jwtSvc := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "test@example.com", Name: "Test User"}
	pair, err := jwtSvc.GenerateTokenPair(user)
	require.NoError(t, err)
	tokenHash := services.HashToken(pair.RefreshToken)

	mockTokenService.On("ValidateRefreshToken", mock.Anything, tokenHash).Return(user.ID, nil)
	mockUserService.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	mockTokenService.On("RevokeRefreshToken", mock.Anything, tokenHash).Return(nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/refresh", dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TokenResponse
	testutil.ParseJSON(t, rec, &response)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, response.RefreshToken)

	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	_, mockTokenService, handler, jwtSvc := setupAuthTest(t)

	userID := uuid.New()
	pair, err := jwtSvc.GenerateTokenPair(&models.User{ID: userID, Email: "test@example.com"})
	require.NoError(t, err)
	tokenHash := services.HashToken(pair.RefreshToken)

	mockTokenService.On("ValidateRefreshToken", mock.Anything, tokenHash).
		Return(uuid.Nil, assert.AnError)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/refresh", dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RefreshToken_Garbage(t *testing.T) {
	_, _, handler, _ := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "not-a-jwt"}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	_, mockTokenService, handler, jwtSvc := setupAuthTest(t)

	pair, err := jwtSvc.GenerateTokenPair(&models.User{ID: uuid.New(), Email: "test@example.com"})
	require.NoError(t, err)
	tokenHash := services.HashToken(pair.RefreshToken)

	mockTokenService.On("RevokeRefreshToken", mock.Anything, tokenHash).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/logout", handler.Logout)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.POST("/auth/logout", dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTokenService.AssertExpectations(t)
}
