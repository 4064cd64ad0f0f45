package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_EncodeRoundTrip(t *testing.T) {
	l, err := NewAuditLog(nil)
	require.NoError(t, err)

	small := []byte(`{"before":{"total":"10"}}`)
	plain, compressed, algo := l.encode(small)
	assert.Equal(t, CompressionNone, algo)
	assert.Nil(t, compressed)
	assert.Equal(t, small, []byte(plain))

	large := bytes.Repeat([]byte(`{"line":"rice"},`), 1000)
	plain, compressed, algo = l.encode(large)
	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, plain)
	assert.Less(t, len(compressed), len(large))

	decoded, err := l.decode(plain, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, large, []byte(decoded))
}
