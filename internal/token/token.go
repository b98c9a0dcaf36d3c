// Package token issues and verifies the signed access/refresh token pair used
// by the monitoring API. Tokens are self-contained HS256 JWTs carrying the
// caller's identity snapshot and a type tag; nothing is persisted server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the signed payload. The identity fields are flattened alongside
// the registered claims; Type distinguishes access from refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}

// Identity rebuilds the embedded identity snapshot.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{
		Username: c.Username,
		Role:     c.Role,
		Name:     c.Name,
		Email:    c.Email,
	}
}

// Manager mints, verifies, and refreshes token pairs with a shared secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a Manager. Non-positive TTLs fall back to 1h / 7d.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the access token lifetime, used for expires_in responses.
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// IssuePair mints an access and a refresh token carrying the same identity.
func (m *Manager) IssuePair(identity domain.Identity) (access string, refresh string, err error) {
	now := time.Now()
	access, err = m.sign(identity, TypeAccess, now, m.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err = m.sign(identity, TypeRefresh, now, m.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return access, refresh, nil
}

// Verify checks signature and expiry and returns the decoded claims. It does
// not check the type tag: callers decide which type they accept.
func (m *Manager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Refresh verifies a refresh token and mints a new access token carrying the
// same identity. The refresh token itself is not reissued.
func (m *Manager) Refresh(raw string) (string, error) {
	claims, err := m.Verify(raw)
	if err != nil {
		return "", err
	}
	if claims.Type != TypeRefresh {
		return "", ErrWrongTokenType
	}
	access, err := m.sign(claims.Identity(), TypeAccess, time.Now(), m.accessTTL)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	return access, nil
}

func (m *Manager) sign(identity domain.Identity, typ string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: identity.Username,
		Role:     identity.Role,
		Name:     identity.Name,
		Email:    identity.Email,
		Type:     typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
