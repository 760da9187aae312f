package jwtx_test

import (
	"testing"
	"time"

	"github.com/peoplepulse/peoplepulse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	signer := &jwtx.HS256Signer{Secret: []byte("test-secret"), Issuer: "peoplepulse"}
	verifier := &jwtx.HS256Verifier{Secret: []byte("test-secret"), Issuer: "peoplepulse"}

	token, err := signer.Mint("user-123", time.Hour)
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, "peoplepulse", claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := &jwtx.HS256Signer{Secret: []byte("secret-a")}
	verifier := &jwtx.HS256Verifier{Secret: []byte("secret-b")}

	token, err := signer.Mint("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer := &jwtx.HS256Signer{Secret: []byte("test-secret")}
	verifier := &jwtx.HS256Verifier{Secret: []byte("test-secret")}

	claims := jwtx.NewSessionClaims("user-123", "", time.Minute, time.Now().UTC().Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier := &jwtx.HS256Verifier{Secret: []byte("test-secret")}

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := verifier.Verify(raw)
		require.Error(t, err, "token %q", raw)
	}
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	signer := &jwtx.HS256Signer{Secret: []byte("test-secret"), Issuer: "someone-else"}
	verifier := &jwtx.HS256Verifier{Secret: []byte("test-secret"), Issuer: "peoplepulse"}

	token, err := signer.Mint("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestMintDefaultsTTL(t *testing.T) {
	signer := &jwtx.HS256Signer{Secret: []byte("test-secret")}
	verifier := &jwtx.HS256Verifier{Secret: []byte("test-secret")}

	token, err := signer.Mint("user-123", 0)
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)

	ttl := time.Until(claims.ExpiresAt.Time)
	require.InDelta(t, jwtx.DefaultSessionTTL.Seconds(), ttl.Seconds(), 60)
}
