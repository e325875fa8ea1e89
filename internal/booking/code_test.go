package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationCodeShape(t *testing.T) {
	code, err := NewConfirmationCode()
	require.NoError(t, err)
	assert.Len(t, code, 2+codeLength)
	assert.True(t, strings.HasPrefix(code, "CV"))
	for _, r := range code[2:] {
		assert.Contains(t, codeAlphabet, string(r))
	}
}

func TestConfirmationCodeAlphabetUnambiguous(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "I", "L"} {
		assert.NotContains(t, codeAlphabet, forbidden)
	}
}

func TestNewConfirmationCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := NewConfirmationCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s after %d draws", code, i)
		seen[code] = true
	}
}
