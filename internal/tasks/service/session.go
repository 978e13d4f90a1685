package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/pkg/jwtx"
)

// SessionService issues signed, time-bound access tokens. It is stateless:
// nothing is persisted and there is no revocation or refresh flow, a token
// is valid until it expires.
type SessionService struct {
	KeyManager *jwtx.KeyManager
	Issuer     string
	AccessTTL  time.Duration
}

// Issue produces a signed access token bound to the user's identity.
func (s *SessionService) Issue(ctx context.Context, user domain.User) (string, time.Duration, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		user.ID.String(), // subject
		user.Username,    // username, for log visibility
		s.Issuer,         // issuer
		ttl,              // token lifetime
		time.Now(),       // current time
	)

	token, err := s.KeyManager.Signer.Sign(claims)
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}
