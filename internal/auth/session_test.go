package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shilpsetu/aureum/internal/cache"
	"github.com/shilpsetu/aureum/internal/domain"
)

func testManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", ttl, cache.NewMemory())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := testManager(t, time.Hour)
	token, err := m.Issue(Session{ArtistID: "artist-1", ArtistName: "Meera", Locale: "hi"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sess, err := m.Parse(context.Background(), token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sess.ArtistID != "artist-1" || sess.ArtistName != "Meera" || sess.Locale != "hi" {
		t.Fatalf("session = %+v", sess)
	}
}

func TestIssueRequiresArtistID(t *testing.T) {
	m := testManager(t, time.Hour)
	if _, err := m.Issue(Session{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseRejectsTampering(t *testing.T) {
	m := testManager(t, time.Hour)
	token, err := m.Issue(Session{ArtistID: "artist-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewManager("different-secret", time.Hour, cache.NewMemory())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := other.Parse(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign secret, got %v", err)
	}
	if _, err := m.Parse(context.Background(), token+"x"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
	if _, err := m.Parse(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := testManager(t, time.Hour)
	m.ttl = -time.Minute
	token, err := m.Issue(Session{ArtistID: "artist-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Parse(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	m := testManager(t, time.Hour)
	token, err := m.Issue(Session{ArtistID: "artist-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := m.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := m.Parse(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}

	// other sessions stay valid
	token2, err := m.Issue(Session{ArtistID: "artist-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Parse(context.Background(), token2); err != nil {
		t.Fatalf("fresh token should still parse: %v", err)
	}
}
