package auth

import (
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ActivationCode derives a user's one-time activation code from their id.
func ActivationCode(userID, secret string) string {
	key := pbkdf2.Key([]byte(userID), []byte(secret), 1000, 64, sha512.New)
	return hex.EncodeToString(key)
}
