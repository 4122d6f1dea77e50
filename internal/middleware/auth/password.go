package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const saltBytes = 16

// PasswordHasher turns plaintext passwords into salted hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (hash, salt string, err error)
	Verify(password, hash, salt string) bool
	// VerifyDummy burns the same time as Verify for a user that does not exist.
	VerifyDummy(password string)
}

// BcryptHasher bcrypts hex(sha256(salt || password)). Pre-hashing keeps the
// bcrypt input at 64 bytes, under its 72 byte limit, for any password length.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash string
	dummySalt string
}

// NewBcryptHasher uses bcrypt.DefaultCost when cost is 0.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, string, error) {
	salt, err := newSalt()
	if err != nil {
		return "", "", err
	}
	// the cost determines the computational complexity of the hashing process
	hashed, err := bcrypt.GenerateFromPassword(prehash(salt, password), h.cost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), salt, nil
}

func (h *BcryptHasher) Verify(password, hash, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(salt, password)) == nil
}

func (h *BcryptHasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, h.dummySalt, _ = h.Hash("not-a-real-password")
	})
	_ = h.Verify(password, h.dummyHash, h.dummySalt)
}

func newSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func prehash(salt, password string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}
