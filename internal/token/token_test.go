package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

const testSecret = "secret"

func testIdentity() domain.Identity {
	return domain.Identity{
		Username: "alice",
		Role:     domain.RoleAdmin,
		Name:     "Alice",
		Email:    "alice@example.com",
	}
}

// signRaw builds a token outside the Manager so expiry and type can be forced.
func signRaw(t *testing.T, secret string, identity domain.Identity, typ string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: identity.Username,
		Role:     identity.Role,
		Name:     identity.Name,
		Email:    identity.Email,
		Type:     typ,
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestManager_IssuePair_RoundTrip(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)
	identity := testIdentity()

	access, refresh, err := m.IssuePair(identity)
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got %q / %q", access, refresh)
	}

	accessClaims, err := m.Verify(access)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if accessClaims.Type != TypeAccess {
		t.Fatalf("expected access type, got %q", accessClaims.Type)
	}
	if accessClaims.Identity() != identity {
		t.Fatalf("identity mismatch: %+v", accessClaims.Identity())
	}

	refreshClaims, err := m.Verify(refresh)
	if err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
	if refreshClaims.Type != TypeRefresh {
		t.Fatalf("expected refresh type, got %q", refreshClaims.Type)
	}
	if refreshClaims.Identity() != identity {
		t.Fatalf("identity mismatch: %+v", refreshClaims.Identity())
	}

	// Refresh token must outlive the access token.
	if !refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time) {
		t.Fatalf("refresh token should expire after access token")
	}
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)

	raw := signRaw(t, testSecret, testIdentity(), TypeAccess, time.Now().Add(-time.Second))
	if _, err := m.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestManager_Verify_ExpiryBoundary(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)

	// A token whose expiry is the current instant is already expired.
	raw := signRaw(t, testSecret, testIdentity(), TypeAccess, time.Now())
	if _, err := m.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at boundary, got %v", err)
	}
}

func TestManager_Verify_BadSignature(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)

	raw := signRaw(t, "other-secret", testIdentity(), TypeAccess, time.Now().Add(time.Hour))
	if _, err := m.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestManager_Verify_Malformed(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)

	if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestManager_Refresh_Success(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)
	identity := testIdentity()

	_, refresh, err := m.IssuePair(identity)
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	access, err := m.Refresh(refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	claims, err := m.Verify(access)
	if err != nil {
		t.Fatalf("verify refreshed token: %v", err)
	}
	if claims.Type != TypeAccess {
		t.Fatalf("expected access type, got %q", claims.Type)
	}
	if claims.Identity() != identity {
		t.Fatalf("identity mismatch after refresh: %+v", claims.Identity())
	}
}

func TestManager_Refresh_WrongType(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)

	access, _, err := m.IssuePair(testIdentity())
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	if _, err := m.Refresh(access); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestManager_Refresh_Expired(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 7*24*time.Hour)

	raw := signRaw(t, testSecret, testIdentity(), TypeRefresh, time.Now().Add(-time.Minute))
	if _, err := m.Refresh(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestNewManager_TTLDefaults(t *testing.T) {
	m := NewManager(testSecret, 0, 0)
	if m.AccessTTL() != time.Hour {
		t.Fatalf("expected 1h default access TTL, got %v", m.AccessTTL())
	}
}
