package util

import (
	"testing"
	"time"
	"workbook_coach_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWT_Claims(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 42}, Role: model.Coach, Email: "sam@example.com"}
	token, err := GenerateJWT(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Coach || claims.Email != "sam@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != TokenIssuer || claims.Subject != "42" {
		t.Fatalf("unexpected registered claims: iss=%q sub=%q", claims.Issuer, claims.Subject)
	}
}

func TestParseJWT_Rejects(t *testing.T) {
	expired, _ := GenerateJWT(&model.User{Role: model.Client}, "secret", -time.Minute)

	sign := func(method jwt.SigningMethod, claims *Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	inAnHour := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]string{
		"expired":        expired,
		"foreign issuer": sign(jwt.SigningMethodHS256, &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: inAnHour}}),
		"no expiry":      sign(jwt.SigningMethodHS256, &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: TokenIssuer}}),
		"other method":   sign(jwt.SigningMethodHS512, &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: TokenIssuer, ExpiresAt: inAnHour}}),
		"garbage":        "not-a-token",
	}
	for name, token := range cases {
		if claims, err := ParseJWT(token, "secret"); err == nil {
			t.Fatalf("%s: expected rejection, got %+v", name, claims)
		}
	}
}
