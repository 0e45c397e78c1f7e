// Package passwords wraps bcrypt hashing and the password policy.
package passwords

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the minimum accepted password length. Checked before any
// hashing is attempted.
const MinLength = 6

// ErrTooShort is returned by Validate for passwords under MinLength.
var ErrTooShort = errors.New("password must be at least 6 characters")

// Validate checks the password policy.
func Validate(pw string) error {
	if len(pw) < MinLength {
		return ErrTooShort
	}
	return nil
}

// Hash bcrypt-hashes a password. Callers must Validate first.
func Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether pw matches the stored bcrypt hash.
func Compare(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
