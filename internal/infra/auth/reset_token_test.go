package auth

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenCodec_Generate(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := &resetTokenCodec{ttl: 15 * time.Minute, now: func() time.Time { return fixed }}

	raw, hash, expiresAt, err := codec.Generate()
	require.NoError(t, err)

	// 32 random bytes, hex encoded.
	assert.Len(t, raw, 64)
	_, err = hex.DecodeString(raw)
	assert.NoError(t, err)

	assert.NotEqual(t, raw, hash)
	assert.Equal(t, codec.HashToken(raw), hash)
	assert.Equal(t, fixed.Add(15*time.Minute), expiresAt)
}

func TestResetTokenCodec_TokensAreUnique(t *testing.T) {
	codec := &resetTokenCodec{ttl: time.Minute, now: time.Now}

	first, _, _, err := codec.Generate()
	require.NoError(t, err)
	second, _, _, err := codec.Generate()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestResetTokenCodec_HashIsDeterministic(t *testing.T) {
	codec := &resetTokenCodec{ttl: time.Minute, now: time.Now}

	assert.Equal(t, codec.HashToken("abc"), codec.HashToken("abc"))
	assert.NotEqual(t, codec.HashToken("abc"), codec.HashToken("abd"))
	assert.Len(t, codec.HashToken("abc"), 64)
}
