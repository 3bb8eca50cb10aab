package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a password with bcrypt. The salt is generated
// internally and embedded in the output, so two calls with the same input
// never produce identical hashes.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword recomputes the hash using the salt and cost embedded in
// the stored value and compares in constant time. A malformed stored hash
// verifies as false rather than panicking; the store is trusted, so that
// should not happen in practice.
func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
