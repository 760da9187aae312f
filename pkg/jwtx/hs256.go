package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Signer signs session tokens with a shared secret.
type HS256Signer struct {
	Secret []byte
	Issuer string
}

// Sign produces a compact HS256 JWS for the given claims.
func (s *HS256Signer) Sign(c Claims) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwtx: empty signing secret")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.Secret)
}

// Mint is a convenience that builds claims for userID and signs them.
func (s *HS256Signer) Mint(userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return s.Sign(NewSessionClaims(userID, s.Issuer, ttl, time.Now().UTC()))
}

// HS256Verifier verifies tokens minted by HS256Signer.
type HS256Verifier struct {
	Secret []byte
	Issuer string // Empty means "don't care".
}

var _ Verifier = (*HS256Verifier)(nil)

// Verify parses and validates the token's signature, algorithm, expiry, and
// (when configured) issuer.
func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(v.Issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	default:
		return ErrMalformed
	}
}
