// Package cryptox provides the password-hashing primitives used by the
// auth service. Hashing is bcrypt: the salt is generated per call and
// embedded in the digest, and verification is constant-time.
package cryptox

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used in production. bcrypt cost 10
// lands at roughly tens of milliseconds per call on current hardware; it is
// fixed per process, never negotiated per request.
const DefaultCost = 10

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. A cost
// outside the range bcrypt supports falls back to DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted bcrypt digest of the plaintext. Two calls with the
// same input yield different digests; digests must only be checked with
// Verify, never compared for equality.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A malformed digest
// yields false, not an error, so untrusted input can be checked directly.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
