package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost balances hashing time against brute-force resistance.
const bcryptCost = 12

// HashPassword generates a bcrypt hash of the given password. Hashing happens
// here, explicitly, before any repository call; there is no save hook.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks the candidate against the stored hash. bcrypt's
// comparison is constant-time over the derived key.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
