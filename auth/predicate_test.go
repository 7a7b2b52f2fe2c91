package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func request(token string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/download?id=x", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestJWTSource_PredicateClaim(t *testing.T) {
	src, err := NewJWTSource(testSecret, "", "Visibility:public")
	if err != nil {
		t.Fatalf("NewJWTSource failed: %v", err)
	}

	tok := signedToken(t, jwt.MapClaims{
		"sub":             "user-1",
		"accessPredicate": "OwnerPrincipal:(cn=ops)",
		"exp":             time.Now().Add(time.Hour).Unix(),
	})

	got, err := src.Predicate(request(tok))
	if err != nil {
		t.Fatalf("Predicate failed: %v", err)
	}
	if got != "OwnerPrincipal:(cn=ops)" {
		t.Errorf("predicate = %q", got)
	}
}

func TestJWTSource_NoCredential(t *testing.T) {
	src, _ := NewJWTSource(testSecret, "", "Visibility:public")

	got, err := src.Predicate(request(""))
	if err != nil {
		t.Fatalf("Predicate failed: %v", err)
	}
	if got != "Visibility:public" {
		t.Errorf("predicate = %q, want anonymous fallback", got)
	}
}

func TestJWTSource_MissingClaimFallsBack(t *testing.T) {
	src, _ := NewJWTSource(testSecret, "", "Visibility:public")

	tok := signedToken(t, jwt.MapClaims{"sub": "user-1"})
	got, err := src.Predicate(request(tok))
	if err != nil {
		t.Fatalf("Predicate failed: %v", err)
	}
	if got != "Visibility:public" {
		t.Errorf("predicate = %q, want anonymous fallback", got)
	}
}

func TestJWTSource_InvalidToken(t *testing.T) {
	src, _ := NewJWTSource(testSecret, "", "")

	_, err := src.Predicate(request("not.a.token"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestJWTSource_WrongSecret(t *testing.T) {
	src, _ := NewJWTSource(testSecret, "", "")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	s, err := token.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := src.Predicate(request(s)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestJWTSource_NonBearerHeader(t *testing.T) {
	src, _ := NewJWTSource(testSecret, "", "")

	r, _ := http.NewRequest(http.MethodGet, "/download?id=x", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	if _, err := src.Predicate(r); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestStatic(t *testing.T) {
	src := Static{Value: "CollectionId:(public)"}
	got, err := src.Predicate(request(""))
	if err != nil {
		t.Fatalf("Predicate failed: %v", err)
	}
	if got != "CollectionId:(public)" {
		t.Errorf("predicate = %q", got)
	}
}
