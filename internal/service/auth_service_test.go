package service

import (
	"errors"
	"testing"
	"time"
	"workbook_coach_backend/internal/config"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), cfg)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	s := newAuthService(t)

	u := &model.User{Name: "Robin", Email: " Robin@Example.com ", Password: "s3cret-pass"}
	if err := s.Register(u); err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "robin@example.com" || u.Role != model.Client || u.Password == "s3cret-pass" {
		t.Fatalf("registered user: %+v", u)
	}

	dup := &model.User{Name: "Other", Email: "ROBIN@example.com", Password: "x"}
	if err := s.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}

	token, user, err := s.Login("robin@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("token claims: %v %+v", err, claims)
	}

	current, err := s.CurrentUser(user.ID)
	if err != nil || current.LastLogin == nil {
		t.Fatalf("last login not recorded: %v %+v", err, current)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	s := newAuthService(t)
	if err := s.Register(&model.User{Name: "Lee", Email: "lee@example.com", Password: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := s.Login("lee@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login("nobody@example.com", "right"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.CurrentUser(999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
