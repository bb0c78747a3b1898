package middleware

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const secret = "middleware-test-secret-0123456789abcdef"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}
	r := gin.New()
	api := r.Group("/api", AuthMiddleware(cfg))
	api.GET("/me", func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	api.POST("/questions", RoleMiddleware(model.Reviewer), func(c *gin.Context) {
		util.Created(c, nil)
	})
	return r
}

func tokenFor(t *testing.T, role model.UserRole) string {
	t.Helper()
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: role, Email: "u@example.com"}
	token, err := util.GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + tokenFor(t, model.Candidate), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestAuthMiddlewareRejectsOtherSecret(t *testing.T) {
	r := newRouter()
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.Admin}
	forged, _ := util.GenerateJWT(user, "some-other-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()

	cases := []struct {
		role model.UserRole
		want int
	}{
		{model.Candidate, http.StatusForbidden},
		{model.Reviewer, http.StatusCreated},
		{model.Admin, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/questions", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tc.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
