package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	token, err := tokens.GenerateToken(42, 7)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	participantID, roomID, err := tokens.ValidateToken(token)
	assert.NoError(t, err)
	assert.EqualValues(t, 42, participantID)
	assert.EqualValues(t, 7, roomID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tokens := NewTokenService("test-secret")
	other := NewTokenService("another-secret")

	token, _ := tokens.GenerateToken(42, 7)
	_, _, err := other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tokens := NewTokenService("test-secret")

	_, _, err := tokens.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
