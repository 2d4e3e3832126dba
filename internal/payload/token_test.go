package payload

import (
	"bytes"
	"crypto/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_DeterministicSource(t *testing.T) {
	token, err := newToken(ffReader{})
	require.NoError(t, err)
	assert.Equal(t, "ffffffffffffffff", token)
}

func TestNewToken_LowercaseHex(t *testing.T) {
	token, err := newToken(rand.Reader)
	require.NoError(t, err)
	assert.Len(t, token, 2*tokenByteLength)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), token)
}

func TestNewToken_UniqueAcrossCalls(t *testing.T) {
	first, err := newToken(rand.Reader)
	require.NoError(t, err)
	second, err := newToken(rand.Reader)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestNewToken_ShortSource(t *testing.T) {
	_, err := newToken(bytes.NewReader([]byte{0x01, 0x02}))
	assert.Error(t, err)
}
