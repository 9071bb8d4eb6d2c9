package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwt(t *testing.T) {
	token, err := GenJWT("secret", "oper-7", 10)
	require.NoError(t, err)

	data, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "oper-7", data)

	_, err = ParseJWT("other", token)
	assert.Error(t, err)
}

func TestJwtExpired(t *testing.T) {
	token, err := GenJWT("secret", "oper-7", -10)
	require.NoError(t, err)
	_, err = ParseJWT("secret", token)
	assert.Error(t, err)
}
