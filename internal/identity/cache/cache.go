// Package cache stores registry validity answers keyed by identity number.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ValidityCache remembers registry answers. Find returns
// sentinel.ErrNotFound on a miss or an expired entry.
type ValidityCache interface {
	Find(ctx context.Context, identityNumber string) (bool, error)
	Save(ctx context.Context, identityNumber string, valid bool) error
}

// digest keys entries so raw identity numbers never leave the process.
func digest(identityNumber string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(identityNumber)))
	return hex.EncodeToString(sum[:])
}
