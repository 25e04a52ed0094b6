package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hbiu/lms-backend/internal/core/domain"
)

func TestJWTService_IssueVerify(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	sub, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("subject = %q, want user-1", sub)
	}
}

func TestJWTService_DefaultTTL(t *testing.T) {
	svc := NewJWTService("secret", 0)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, err := svc.Issue("u")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 7*24*time.Hour {
		t.Fatalf("ttl = %v, want 7 days", got)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_Tampered(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, _ := svc.Issue("user-1")

	parts := strings.Split(token, ".")
	forged, _ := NewJWTService("secret", time.Hour).Issue("user-2")
	forgedParts := strings.Split(forged, ".")
	// Swap in another token's payload while keeping the original signature.
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]
	if _, err := svc.Verify(tampered); err != domain.ErrTokenInvalid {
		t.Fatalf("altered payload: expected ErrTokenInvalid, got %v", err)
	}

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	if _, err := svc.Verify(parts[0] + "." + parts[1] + "." + string(sig)); err != domain.ErrTokenInvalid {
		t.Fatalf("altered signature: expected ErrTokenInvalid, got %v", err)
	}

	other := NewJWTService("other-secret", time.Hour)
	if _, err := other.Verify(token); err != domain.ErrTokenInvalid {
		t.Fatalf("wrong secret: expected ErrTokenInvalid, got %v", err)
	}

	if _, err := svc.Verify("garbage"); err != domain.ErrTokenInvalid {
		t.Fatalf("malformed: expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(hs512); err != domain.ErrTokenInvalid {
		t.Fatalf("HS512 token accepted: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(none); err != domain.ErrTokenInvalid {
		t.Fatalf("alg=none token accepted: %v", err)
	}
}

func TestJWTService_RequiresExpiry(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u"}).SignedString([]byte("secret"))
	if _, err := svc.Verify(token); err != domain.ErrTokenInvalid {
		t.Fatalf("token without exp accepted: %v", err)
	}
}

func TestJWTService_MissingSecret(t *testing.T) {
	svc := NewJWTService("", time.Hour)
	if svc.Ready() {
		t.Fatalf("Ready with empty secret")
	}
	if _, err := svc.Issue("u"); err != domain.ErrSigningKeyMissing {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
}

func TestJWTService_TokensDiffer(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	a, _ := svc.Issue("u")
	b, _ := svc.Issue("u")
	if a == b {
		t.Fatalf("consecutive tokens are identical")
	}
}
