package policy

import (
	"testing"
	"time"

	"github.com/hushdrop/hushdrop/internal/server/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func secret(mut ...func(*models.Secret)) *models.Secret {
	s := &models.Secret{
		Token:     "tok",
		ExpiresAt: now.Add(24 * time.Hour),
		MaxViews:  3,
		ViewCount: 0,
		Revoked:   false,
	}
	for _, m := range mut {
		m(s)
	}
	return s
}

func TestIsViewable(t *testing.T) {
	tests := []struct {
		name string
		s    *models.Secret
		want bool
	}{
		{"fresh secret", secret(), true},
		{"one view left", secret(func(s *models.Secret) { s.ViewCount = 2 }), true},
		{"revoked", secret(func(s *models.Secret) { s.Revoked = true }), false},
		{"expired", secret(func(s *models.Secret) { s.ExpiresAt = now.Add(-time.Second) }), false},
		{"expires exactly now", secret(func(s *models.Secret) { s.ExpiresAt = now }), false},
		{"views exhausted", secret(func(s *models.Secret) { s.ViewCount = 3 }), false},
		{"expired with views left", secret(func(s *models.Secret) {
			s.ExpiresAt = now.Add(-time.Hour)
			s.ViewCount = 0
		}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsViewable(tt.s, now); got != tt.want {
				t.Fatalf("IsViewable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldPurge(t *testing.T) {
	tests := []struct {
		name string
		s    *models.Secret
		want bool
	}{
		{"fresh secret", secret(), false},
		{"revoked", secret(func(s *models.Secret) { s.Revoked = true }), true},
		{"expired", secret(func(s *models.Secret) { s.ExpiresAt = now.Add(-time.Second) }), true},
		{"expires exactly now", secret(func(s *models.Secret) { s.ExpiresAt = now }), true},
		{"exhausted but not yet revoked", secret(func(s *models.Secret) { s.ViewCount = 3 }), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldPurge(tt.s, now); got != tt.want {
				t.Fatalf("ShouldPurge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewableNeverPurgeable(t *testing.T) {
	// A secret that is still viewable must never qualify for the purge
	// sweep, whatever combination of fields produced it.
	candidates := []*models.Secret{
		secret(),
		secret(func(s *models.Secret) { s.ViewCount = 2 }),
		secret(func(s *models.Secret) { s.MaxViews = 1 }),
	}
	for _, s := range candidates {
		if IsViewable(s, now) && ShouldPurge(s, now) {
			t.Fatalf("secret is both viewable and purgeable: %+v", s)
		}
	}
}
