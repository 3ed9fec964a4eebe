package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const maxBcryptBytes = 72

// Hasher wraps bcrypt with a configurable work factor.
type Hasher struct {
	cost int
	// dummy is compared against when no stored hash exists, so that a lookup
	// miss costs about as much as a wrong password.
	dummy []byte
}

func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("mini_one-placeholder"), cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

func (h *Hasher) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	return string(bytes), err
}

func (h *Hasher) CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// BurnCompare performs a comparison that always fails.
func (h *Hasher) BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, bcryptInput(password))
}

// bcrypt only reads the first 72 bytes and x/crypto rejects longer input,
// while passwords may be up to 128 characters.
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptBytes {
		b = b[:maxBcryptBytes]
	}
	return b
}
