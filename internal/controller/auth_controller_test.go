package controller

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/service"
	"careerzoom_backend/internal/testutil"
	"careerzoom_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type authResponse struct {
	Code int `json:"code"`
	Data struct {
		ID    uint       `json:"id"`
		Token string     `json:"token"`
		User  model.User `json:"user"`
	} `json:"data"`
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testJWTSecret, ExpireTime: time.Hour}}
	ctrl := NewAuthController(service.NewAuthService(repository.NewUserRepository(db), cfg))

	router := gin.New()
	router.POST("/api/auth/register", ctrl.Register)
	router.POST("/api/auth/login", ctrl.Login)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	router := newAuthRouter(t)

	register := map[string]string{
		"email":     "New.User@Example.com",
		"password":  "secret123",
		"firstName": "New",
		"role":      "admin",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/auth/register", nil, register))
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	var created authResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Data.ID == 0 || created.Data.Token == "" {
		t.Fatalf("register response = %+v", created.Data)
	}
	claims, err := util.ParseJWT(created.Data.Token, testJWTSecret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != model.Candidate || claims.Email != "new.user@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/auth/register", nil, register))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "new.user@example.com", "password": "wrong-password",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "NEW.USER@example.com", "password": "secret123",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var login authResponse
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}
	if login.Data.Token == "" || login.Data.User.ID != created.Data.ID {
		t.Fatalf("login response = %+v", login.Data)
	}
}

func TestRegisterValidation(t *testing.T) {
	router := newAuthRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/auth/register", nil, map[string]string{
		"email": "not-an-email", "password": "123", "firstName": "X",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "a@b.c"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("login without password status = %d, want 400", w.Code)
	}
}
