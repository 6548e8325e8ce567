package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way bcrypt digest from a plaintext password.
// The plaintext is never stored; callers keep only the digest.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword reports whether the plaintext matches the stored digest.
// The comparison is constant-time inside bcrypt.
func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
