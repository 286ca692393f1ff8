package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func runIdentity(t *testing.T, authorization string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor string
	handler := func(c echo.Context) error {
		actor = ActorFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
	if err := Identity()(handler)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return actor
}

func TestIdentity_PreferredUsername(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "u-123", "preferred_username": "dr.chen"})
	if got := runIdentity(t, "Bearer "+tok); got != "dr.chen" {
		t.Errorf("actor = %q, want dr.chen", got)
	}
}

func TestIdentity_FallsBackToSubject(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "u-123"})
	if got := runIdentity(t, "Bearer "+tok); got != "u-123" {
		t.Errorf("actor = %q, want u-123", got)
	}
}

func TestIdentity_NoHeaderIsAnonymous(t *testing.T) {
	if got := runIdentity(t, ""); got != AnonymousActor {
		t.Errorf("actor = %q, want anonymous", got)
	}
}

func TestIdentity_MalformedTokenIsAnonymousNotRejected(t *testing.T) {
	if got := runIdentity(t, "Bearer not.a.token"); got != AnonymousActor {
		t.Errorf("actor = %q, want anonymous", got)
	}
}

func TestActorFromContext_Default(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != AnonymousActor {
		t.Errorf("actor = %q, want anonymous", got)
	}
}
