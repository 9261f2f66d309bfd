package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/identity-service/internal/core/domain"
	"github.com/identitylab/identity-service/internal/core/service"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.Username] = user
	return user, nil
}

func guardFixture(t *testing.T) (*service.JWTTokenService, *stubUserRepo, echo.MiddlewareFunc) {
	t.Helper()
	tokens := service.NewJWTTokenService(testSecret, time.Hour)
	users := &stubUserRepo{users: map[string]*domain.User{
		"alice": {ID: "1", Username: "alice", Role: domain.RoleAdmin},
	}}
	return tokens, users, Auth(tokens, users)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens, _, mw := guardFixture(t)

	signed, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("role") != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func rejectedStatus(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) int {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, _, mw := guardFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if code := rejectedStatus(t, mw, req); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	_, _, mw := guardFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")

	if code := rejectedStatus(t, mw, req); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	_, _, mw := guardFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	if code := rejectedStatus(t, mw, req); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	tokens, _, mw := guardFixture(t)

	// Valid signature, but the user record no longer exists.
	signed, err := tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	if code := rejectedStatus(t, mw, req); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_ForeignSignature(t *testing.T) {
	_, _, mw := guardFixture(t)

	other := service.NewJWTTokenService([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	signed, err := other.Issue("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	if code := rejectedStatus(t, mw, req); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
