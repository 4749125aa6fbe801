package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(st)
	orgRepo := repository.NewOrganizationRepository(st)
	authService := services.NewAuthService(userRepo, orgRepo)
	handler := NewAuthHandler(authService)

	r := gin.New()
	sessionStore := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions("marketplace_session", sessionStore))
	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/login", handler.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.Equal(t, "newuser", user.Username)
	require.NotZero(t, user.ID)
}

func TestAuthHandler_SignupDuplicateUsername(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_SignupShortPassword(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("Set-Cookie"))

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "newuser",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
