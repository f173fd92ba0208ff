package jwthelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sci-insight/sci-api/internal/pkg/jwthelper"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("test-signing-key")

	token, err := jwthelper.GenerateToken(key, 42, "curl/8.0")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwthelper.ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "curl/8.0", claims.UserAgent)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken([]byte("key-one"), 42, "")
	require.NoError(t, err)

	_, err = jwthelper.ParseToken([]byte("key-two"), token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := jwthelper.ParseToken([]byte("key"), "not.a.token")
	assert.Error(t, err)
}
