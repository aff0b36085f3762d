package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// inviteAlphabet omits 0/O and 1/I so codes read back unambiguously.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the fixed length of private-group invite codes.
const InviteCodeLength = 8

// GenerateInviteCode returns a random fixed-length invite code. Uniqueness is
// the caller's responsibility (probe the invite-code index and regenerate on
// collision).
func GenerateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	code := make([]byte, InviteCodeLength)
	for i, b := range buf {
		code[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(code), nil
}

// NormalizeInviteCode upper-cases and trims a user-supplied code so lookups
// are case-insensitive.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
