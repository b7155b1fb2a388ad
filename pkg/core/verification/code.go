// Package verification issues and checks the e-mail codes that confirm a
// new account.
package verification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// CodeLength is the number of characters of a code.
const CodeLength = 6

// DefaultMaxAttempts bounds wrong guesses per issued code.
const DefaultMaxAttempts = 5

// Generate returns a fresh uppercase hexadecimal code.
func Generate() (string, error) {
	buf := make([]byte, CodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Matches compares codes ignoring case; users may type hex in lower case.
func Matches(stored, given string) bool {
	return stored != "" && strings.EqualFold(stored, given)
}

// CodeStore keeps one pending code per e-mail.
//
// Check returns ErrCodeExpired when nothing is pending, ErrTooManyAttempts
// once the guess budget is spent (the code is then discarded) and
// ErrCodeMismatch for a wrong guess.
type CodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Check(ctx context.Context, email, code string) error
	Delete(ctx context.Context, email string) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
