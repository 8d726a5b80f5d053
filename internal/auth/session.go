package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shilpsetu/aureum/internal/cache"
	"github.com/shilpsetu/aureum/internal/domain"
)

// Session is the explicit artisan session handed to workflow components.
// There is no ambient global user; everything that needs identity takes one
// of these.
type Session struct {
	ArtistID   string
	ArtistName string
	Locale     string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Name   string `json:"name,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// Manager mints, parses, and revokes session tokens. Revocations are written
// to the shared cache so Logout clears the persisted copy as well as whatever
// the caller held in memory.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked cache.Cache
}

const revokedKeyPrefix = "session:revoked:"

func NewManager(secret string, ttl time.Duration, revoked cache.Cache) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: session secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, revoked: revoked}, nil
}

// Issue signs a token for the session.
func (m *Manager) Issue(s Session) (string, error) {
	if strings.TrimSpace(s.ArtistID) == "" {
		return "", &domain.ValidationError{Field: "artist_id", Reason: "must not be empty"}
	}
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.ArtistID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Name:   s.ArtistName,
		Locale: s.Locale,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session: %w", err)
	}
	return signed, nil
}

// Parse validates the token and returns the session it represents.
func (m *Manager) Parse(ctx context.Context, token string) (*Session, error) {
	claims, err := m.parseClaims(token)
	if err != nil {
		return nil, err
	}
	if m.revoked != nil {
		if _, gone := m.revoked.Get(ctx, revokedKeyPrefix+claims.ID); gone {
			return nil, domain.ErrUnauthorized
		}
	}
	return &Session{
		ArtistID:   claims.Subject,
		ArtistName: claims.Name,
		Locale:     claims.Locale,
	}, nil
}

// Logout invalidates the token. The revocation is persisted for the token's
// remaining lifetime; callers drop their in-memory Session at the same time
// so both copies are cleared together.
func (m *Manager) Logout(ctx context.Context, token string) error {
	claims, err := m.parseClaims(token)
	if err != nil {
		return err
	}
	if m.revoked == nil {
		return nil
	}
	ttl := m.ttl
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	m.revoked.Set(ctx, revokedKeyPrefix+claims.ID, []byte("1"), ttl)
	return nil
}

func (m *Manager) parseClaims(token string) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
