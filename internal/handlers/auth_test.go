package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/services"
	"github.com/yukikurage/daily-planner-api/internal/testutil"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	handler     *AuthHandler
	authService *services.AuthService
	tokens      *services.TokenService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	tokens, err := services.NewTokenService("handler-secret", time.Hour)
	require.NoError(t, err)

	authService := services.NewAuthService(repository.NewUserRepository(db), tokens)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)

	return authTestEnv{
		db:          db,
		router:      r,
		handler:     handler,
		authService: authService,
		tokens:      tokens,
	}
}

func (env authTestEnv) post(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.post(t, "/api/auth/register", map[string]string{
		"loginKey": " A@X.com ",
		"password": "pw1",
		"name":     "A",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "a@x.com", response.User.LoginKey)
	assert.Equal(t, "A", response.User.Name)
	assert.NotZero(t, response.User.ID)
	assert.Equal(t, int64(3600), response.ExpiresIn)

	claims, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.User.ID, claims.UserID)

	assert.NotContains(t, w.Body.String(), "pw1")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupAuthTestEnv(t)
	payload := map[string]string{"loginKey": "a@x.com", "password": "pw1"}

	require.Equal(t, http.StatusCreated, env.post(t, "/api/auth/register", payload).Code)

	w := env.post(t, "/api/auth/register", map[string]string{"loginKey": "A@x.com", "password": "other"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_IDENTITY")
}

func TestAuthHandler_RegisterMissingFields(t *testing.T) {
	env := setupAuthTestEnv(t)

	payloads := []map[string]string{
		{"password": "pw1"},
		{"loginKey": "a@x.com"},
		{"loginKey": "   ", "password": "pw1"},
		{},
	}
	for _, payload := range payloads {
		w := env.post(t, "/api/auth/register", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	_, err := env.authService.Register(context.Background(), services.RegisterInput{LoginKey: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	w := env.post(t, "/api/auth/login", map[string]string{"loginKey": "A@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "a@x.com", response.User.LoginKey)
}

func TestAuthHandler_LoginRejects(t *testing.T) {
	env := setupAuthTestEnv(t)
	_, err := env.authService.Register(context.Background(), services.RegisterInput{LoginKey: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	wrong := env.post(t, "/api/auth/login", map[string]string{"loginKey": "a@x.com", "password": "pw2"})
	unknown := env.post(t, "/api/auth/login", map[string]string{"loginKey": "b@x.com", "password": "pw1"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	missing := env.post(t, "/api/auth/login", map[string]string{"loginKey": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	user, err := env.authService.Register(context.Background(), services.RegisterInput{LoginKey: "a@x.com", Password: "pw1", Name: "A"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.ID)
	assert.Equal(t, "a@x.com", response.LoginKey)
	assert.Equal(t, "A", response.Name)
}

func TestAuthHandler_GetCurrentUserNotAuthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

	env.handler.GetCurrentUser(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	handler := NewHealthHandler(db)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	handler.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","dbConnected":true}`, w.Body.String())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	handler.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"degraded","dbConnected":false}`, w.Body.String())
}
