package crypto

import (
	"crypto/rand"
	"math/big"
)

// Alphabet for generated logins suffixes and secrets. URL-safe.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// PasswordAlphabet matches the character classes the host store accepts for
// generated passwords.
const PasswordAlphabet = AlphanumericAlphabet + "!@#$%^&*()-_=+"

// GeneratedPasswordLength is the default length for throwaway account
// passwords. Accounts created from a provider sign-in never authenticate
// with them.
const GeneratedPasswordLength = 22

// RandomString returns a cryptographically secure random string of the given
// length drawn from alphabet. It panics on an empty alphabet or when the
// system entropy source fails, as no caller can proceed without randomness.
func RandomString(length int, alphabet string) string {
	if len(alphabet) == 0 {
		panic("crypto: RandomString called with empty alphabet")
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: entropy source failed: " + err.Error())
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// GeneratePassword returns a random password of the given length, or of
// GeneratedPasswordLength when length is not positive.
func GeneratePassword(length int) string {
	if length <= 0 {
		length = GeneratedPasswordLength
	}
	return RandomString(length, PasswordAlphabet)
}
