package utils

import "golang.org/x/crypto/bcrypt"

const BcryptCost = 14

// HashSecret hashes a display key secret for storage.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	return string(bytes), err
}

// CheckSecretHash reports whether the presented secret matches the stored
// bcrypt hash.
func CheckSecretHash(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}
