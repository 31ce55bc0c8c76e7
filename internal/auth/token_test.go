package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundtrip(t *testing.T) {
	tokens := NewTokenService("test-secret", 30*time.Minute)

	token, err := tokens.Issue("0xDEADBEEF")
	assert.NoError(t, err)

	wallet, err := tokens.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "0xDEADBEEF", wallet)
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)

	token, err := tokens.Issue("0xDEADBEEF")
	assert.NoError(t, err)

	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestForeignSignatureRejected(t *testing.T) {
	issuer := NewTokenService("secret-a", 30*time.Minute)
	verifier := NewTokenService("secret-b", 30*time.Minute)

	token, err := issuer.Issue("0xDEADBEEF")
	assert.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	tokens := NewTokenService("test-secret", 30*time.Minute)

	_, err := tokens.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
