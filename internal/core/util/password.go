package util

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"lovemap/internal/core/domain"
)

// PasswordCost is the bcrypt work factor for new hashes. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// HashPassword rejects passwords bcrypt would refuse (over 72 bytes) as invalid input.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)

	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is longer than 72 bytes", domain.ErrInvalidRecord)
	}

	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// VerifyPassword reports a mismatch as domain.ErrInvalidCredentials.
func VerifyPassword(password, hashed string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}

	return err
}
