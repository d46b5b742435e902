package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor. 8 keeps hashing under
// interactive latency while staying above bcrypt.MinCost.
const PasswordHashCost = 8

// HashPassword will generate a salted password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password against
// the hashed password. Malformed digests report a mismatch rather than
// panicking, so a corrupt stored hash degrades to a failed login.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		// bcrypt.ErrHashTooShort and friends: the stored digest is not a
		// bcrypt hash at all. Treat as a mismatch.
		return ErrMismatchedHashAndPassword
	}
	return nil
}
