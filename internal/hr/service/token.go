package service

import (
	"time"

	"github.com/peoplepulse/peoplepulse/pkg/jwtx"
)

// TokenService mints and verifies the bearer tokens that carry a session.
// Tokens hold only the user id; everything else is resolved from the store
// on each request.
type TokenService struct {
	signer   jwtx.HS256Signer
	verifier jwtx.HS256Verifier
	ttl      time.Duration
}

func NewTokenService(secret []byte, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	return &TokenService{
		signer:   jwtx.HS256Signer{Secret: secret, Issuer: issuer},
		verifier: jwtx.HS256Verifier{Secret: secret, Issuer: issuer},
		ttl:      ttl,
	}
}

// Mint issues a session token for the user.
func (s *TokenService) Mint(userID string) (string, error) {
	return s.signer.Mint(userID, s.ttl)
}

// Verify validates a raw token and returns its claims.
func (s *TokenService) Verify(raw string) (jwtx.Claims, error) {
	return s.verifier.Verify(raw)
}
