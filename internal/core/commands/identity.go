package commands

import (
	"strings"

	"github.com/SscSPs/dailybalance/internal/utils"
)

// IdentitySet holds command identities that must not be applied again.
type IdentitySet map[string]struct{}

// Has reports whether id is in the set. A nil set is empty.
func (s IdentitySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s IdentitySet) Add(id string) {
	s[id] = struct{}{}
}

// Identity returns the deterministic identity of cmd. Two commands with the same
// action and the same normalized fields share an identity regardless of how the
// source text was formatted.
func Identity(cmd Command) string {
	fields := cmd.identityFields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.key + "=" + f.value
	}
	return string(cmd.Action()) + ":" + utils.GenerateSHA256Hash(strings.Join(parts, "\n"))
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
