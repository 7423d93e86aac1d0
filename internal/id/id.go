package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// FamilyCodeLength is the number of characters in a Family Code.
const FamilyCodeLength = 6

// familyAlphabet leaves out characters that are easy to misread (0/O, 1/I/L).
const familyAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// ShortLength is how many characters of an entry ID are shown in listings.
const ShortLength = 8

// Generator hands out entry IDs and Family Codes.
type Generator interface {
	EntryID() string
	FamilyCode() (string, error)
}

// Random generates UUID entry IDs and random Family Codes.
type Random struct{}

// EntryID returns a new random UUID.
func (Random) EntryID() string {
	return NewEntryID()
}

// FamilyCode returns a new random Family Code.
func (Random) FamilyCode() (string, error) {
	return NewFamilyCode()
}

// NewEntryID returns a new random UUID string.
func NewEntryID() string {
	return uuid.NewString()
}

// NewFamilyCode returns FamilyCodeLength random characters from an
// unambiguous upper-case alphabet.
func NewFamilyCode() (string, error) {
	var b strings.Builder
	size := big.NewInt(int64(len(familyAlphabet)))
	for range FamilyCodeLength {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generating family code: %w", err)
		}
		b.WriteByte(familyAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeFamilyCode trims whitespace and upper-cases a code typed by a user.
func NormalizeFamilyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Short returns the leading part of an entry ID for display.
// "3f2c9a1e-..." -> "3f2c9a1e"
func Short(entryID string) string {
	if len(entryID) <= ShortLength {
		return entryID
	}
	return entryID[:ShortLength]
}

// MatchPrefix returns the single ID in ids that starts with prefix. An exact
// match always wins. ok is false when nothing or more than one ID matches.
func MatchPrefix(ids []string, prefix string) (match string, ok bool) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", false
	}
	n := 0
	for _, id := range ids {
		if id == prefix {
			return id, true
		}
		if strings.HasPrefix(id, prefix) {
			match = id
			n++
		}
	}
	if n != 1 {
		return "", false
	}
	return match, true
}
