package bounty

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/daoforge/bounty-board/src/shared/types"
)

// Authorizer decides whether a supplied key may mutate a stored bounty.
// The capability check sits behind an interface so the comparison strategy
// can change without touching the handlers.
type Authorizer interface {
	Authorize(b *types.Bounty, suppliedKey string) bool
}

// KeyAuthorizer matches the supplied key against the stored edit key with
// an exact string comparison. An absent key never authorizes.
type KeyAuthorizer struct{}

func (KeyAuthorizer) Authorize(b *types.Bounty, suppliedKey string) bool {
	return suppliedKey != "" && suppliedKey == b.EditKey
}

// NewEditKey returns the secret attached to a bounty at creation.
func NewEditKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
