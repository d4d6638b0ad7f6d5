// internal/app/system/authutil/authutil.go
package authutil

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72

	bcryptCost = 12
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidatePassword checks length rules only.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidatePasswordPair validates pw and checks that confirm matches it.
func ValidatePasswordPair(pw, confirm string) error {
	if err := ValidatePassword(pw); err != nil {
		return err
	}
	if pw != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// PasswordRules describes the rules for display next to a form.
func PasswordRules() string {
	return fmt.Sprintf("Use %d to %d characters.", MinPasswordLength, MaxPasswordLength)
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. Empty inputs never match.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
