package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chirpnet/backend/internal/api/middleware"
	"github.com/chirpnet/backend/internal/config"
	"github.com/chirpnet/backend/internal/models"
	"github.com/chirpnet/backend/internal/store"
)

// newTestRouter wires the same routes as cmd/server against an
// in-memory SQLite database, a nil Redis client and a test cookie store.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:     "test-jwt-secret",
		SessionSecret: "test-session-secret",
		FeedLimit:     100,
	}
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	handler := NewHandler(db, nil, sessionStore, cfg)
	authMiddleware := middleware.NewAuthMiddleware(store.NewUserStore(db), sessionStore, cfg.JWTSecret)

	r := gin.New()
	r.GET("/", authMiddleware.LoadUser(), handler.Home)
	r.POST("/signup", handler.Signup)
	r.POST("/login", handler.Login)
	r.POST("/logout", handler.Logout)

	users := r.Group("/users", authMiddleware.RequireUser())
	{
		users.GET("", handler.ListUsers)
		users.GET("/profile", handler.GetProfile)
		users.POST("/profile", handler.UpdateProfile)
		users.POST("/delete", handler.DeleteAccount)
		users.POST("/follow/:id", handler.FollowUser)
		users.POST("/stop-following/:id", handler.UnfollowUser)
		users.GET("/:id", handler.ShowUser)
		users.GET("/:id/following", handler.ShowFollowing)
		users.GET("/:id/followers", handler.ShowFollowers)
	}

	messages := r.Group("/messages", authMiddleware.RequireUser())
	{
		messages.POST("/new", handler.CreateMessage)
		messages.GET("/:id", handler.ShowMessage)
		messages.POST("/:id/delete", handler.DeleteMessage)
	}

	return r, db
}

// doRequest performs a form-encoded request with the given session
// cookies and returns the recorder.
func doRequest(router *gin.Engine, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// signupForm posts /signup for a fresh user and returns the decoded
// response plus the session cookies.
func signupForm(t *testing.T, router *gin.Engine, username string) (AuthResponse, []*http.Cookie) {
	t.Helper()
	form := url.Values{
		"username": {username},
		"email":    {username + "@email.com"},
		"password": {"password"},
	}
	w := doRequest(router, http.MethodPost, "/signup", form, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp, w.Result().Cookies()
}

func loginForm(t *testing.T, router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	return doRequest(router, http.MethodPost, "/login", form, nil)
}

// newAuthedJSONRequest builds a request carrying only a bearer token,
// the way a non-browser API client would call the backend.
func newAuthedJSONRequest(t *testing.T, method, path, token string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}
