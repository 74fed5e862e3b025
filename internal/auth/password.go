package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength defines minimum password length
const MinPasswordLength = 6

// HashPassword hashes a plaintext password with bcrypt. Each call uses a
// fresh random salt, so hashing the same password twice yields different
// credentials.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt credential. The comparison is constant-time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
