package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User // keyed by ID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

// stubThrottle mirrors the Redis throttle: 10 failures lock the email out.
type stubThrottle struct {
	failures map[string]int
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Allow(_ context.Context, email string) (bool, error) {
	return t.failures[email] < 10, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

func newAuthService(repo *stubUserRepo, throttle LoginThrottle) *AuthService {
	return NewAuthService(repo, throttle, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	result, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", result.User.Email)
	}
	if result.User.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
}

func TestAuthService_Register_TokenDecodesToNewUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	result, err := svc.Register(context.Background(), "bob", "bob@example.com", "pass123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != result.User.ID {
		t.Fatalf("expected sub %q, got %v", result.User.ID, claims["sub"])
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	cases := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{"missing username", "", "a@x.com", "password123", "username"},
		{"short username", "ab", "a@x.com", "password123", "username"},
		{"long username", "abcdefghijklmnopqrstuvwxyzabcde", "a@x.com", "password123", "username"},
		{"missing email", "alice", "", "password123", "email"},
		{"malformed email", "alice", "not-an-email", "password123", "email"},
		{"short password", "alice", "a@x.com", "12345", "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Fatalf("expected failure on field %q, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "carol", "carol@example.com", "password"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "carol", "other@example.com", "password"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "carol2", "CAROL@example.com", "password"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "dave", "dave@example.com", "s3cret99"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "Dave@Example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User.Username != "dave" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
}

func TestAuthService_Login_SameErrorForUnknownEmailAndBadPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	_, _ = svc.Register(context.Background(), "erin", "erin@example.com", "goodpass")

	_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, errBadPass := svc.Login(context.Background(), "erin@example.com", "badpass")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", errUnknown)
	}
	if !errors.Is(errBadPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", errBadPass)
	}
}

func TestAuthService_Login_ThrottleTripsAfterTenFailures(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle()
	svc := newAuthService(repo, throttle)

	_, _ = svc.Register(context.Background(), "frank", "frank@example.com", "goodpass")

	for i := 0; i < 10; i++ {
		if _, err := svc.Login(context.Background(), "frank@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	if _, err := svc.Login(context.Background(), "frank@example.com", "goodpass"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts on 11th attempt, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsThrottle(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle()
	svc := newAuthService(repo, throttle)

	_, _ = svc.Register(context.Background(), "gina", "gina@example.com", "goodpass")

	for i := 0; i < 5; i++ {
		_, _ = svc.Login(context.Background(), "gina@example.com", "wrong")
	}
	if _, err := svc.Login(context.Background(), "gina@example.com", "goodpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.failures["gina@example.com"] != 0 {
		t.Fatalf("expected failure counter reset, got %d", throttle.failures["gina@example.com"])
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	result, err := svc.Register(context.Background(), "henry", "henry@example.com", "password")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Username != "henry" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.CurrentUser(context.Background(), "gone"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
