package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
)

func TestCurrentUser_LoadsUser(t *testing.T) {
	jwtSvc := newTestJWTService()
	teamID := uuid.New()
	user := &models.User{ID: uuid.New(), Email: "test@example.com", Name: "Test", CurrentTeamID: &teamID}

	var loaded *models.User

	app := drift.New()
	app.Use(Auth(jwtSvc))
	app.Use(CurrentUser(&stubUserLoader{user: user}))
	app.Get("/me", func(c *drift.Context) {
		loaded = GetUser(c)
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	token := generateTestToken(t, jwtSvc, user.ID, user.Email)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, user, loaded)
	assert.Equal(t, teamID, *loaded.CurrentTeamID)
}

func TestCurrentUser_UserDeleted(t *testing.T) {
	jwtSvc := newTestJWTService()

	app := drift.New()
	app.Use(Auth(jwtSvc))
	app.Use(CurrentUser(&stubUserLoader{err: assert.AnError}))
	app.Get("/me", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	token := generateTestToken(t, jwtSvc, uuid.New(), "gone@example.com")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "user no longer exists")
}

func TestCurrentUser_NoAuthContext(t *testing.T) {
	app := drift.New()
	app.Use(CurrentUser(&stubUserLoader{user: &models.User{ID: uuid.New()}}))
	app.Get("/me", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authenticated")
}

func TestGetUser_NotSet(t *testing.T) {
	app := drift.New()

	var loaded *models.User

	app.Get("/test", func(c *drift.Context) {
		loaded = GetUser(c)
		_ = c.JSON(http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Nil(t, loaded)
}
