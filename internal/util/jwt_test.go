package util

import (
	"careerzoom_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtSecret = "jwt-test-secret-0123456789abcdef"

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.Reviewer, Email: "r@example.com"}
	token, err := GenerateJWT(user, jwtSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseJWT(token, jwtSecret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Role != model.Reviewer || claims.Subject != "7" || claims.Issuer != tokenIssuer {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseJWTRejects(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Role: model.Candidate}
	expired, _ := GenerateJWT(user, jwtSecret, -time.Minute)
	otherSecret, _ := GenerateJWT(user, "another-secret", time.Hour)

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(jwtSecret))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	}).SignedString([]byte(jwtSecret))

	noUser, _ := GenerateJWT(&model.User{}, jwtSecret, time.Hour)

	cases := map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": foreign,
		"no expiry":    noExpiry,
		"no user":      noUser,
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJWT(token, jwtSecret); err == nil {
				t.Fatal("token should be rejected")
			}
		})
	}
}
