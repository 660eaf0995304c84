package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasscodeVerifierFromPlain(t *testing.T) {
	v, err := NewPasscodeVerifier("2468", "")
	require.NoError(t, err)
	assert.True(t, v.Configured())

	assert.NoError(t, v.Verify("2468"))
	assert.ErrorIs(t, v.Verify("31134"), bcrypt.ErrMismatchedHashAndPassword)
	assert.Error(t, v.Verify(""))
}

func TestPasscodeVerifierFromHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewPasscodeVerifier("ignored", string(hash))
	require.NoError(t, err)
	assert.NoError(t, v.Verify("open-sesame"))
	assert.Error(t, v.Verify("ignored"))

	_, err = NewPasscodeVerifier("", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestPasscodeVerifierNotConfigured(t *testing.T) {
	v, err := NewPasscodeVerifier("", "")
	require.NoError(t, err)
	assert.False(t, v.Configured())

	// không còn passcode mặc định nào được chấp nhận
	assert.ErrorIs(t, v.Verify("31134"), ErrPasscodeNotConfigured)

	var nilVerifier *PasscodeVerifier
	assert.ErrorIs(t, nilVerifier.Verify("31134"), ErrPasscodeNotConfigured)
}
