package services

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and checks passwords. Implementations must be
// slow and salted.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher. A cost of zero means
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
