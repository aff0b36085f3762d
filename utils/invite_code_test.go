package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		assert.Len(t, code, InviteCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(inviteAlphabet, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	// 100 draws from a 32^8 space colliding would mean a broken generator
	assert.Greater(t, len(seen), 90)
}

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "ABCD2345", NormalizeInviteCode("  abcd2345 "))
	assert.Equal(t, "XYZWVUTS", NormalizeInviteCode("xyzwvuts"))
}
