package mediaingest

import (
	"crypto/sha256"
	"encoding/hex"
)

// ledgerKeyLen keeps derived keys short enough for a primary key column while
// leaving 128 bits of hash, which is plenty for dedup purposes.
const ledgerKeyLen = 32

// IdempotencyKey derives the ledger key for a raw provider event id. The
// scope (provider name) is folded into the hash so equal event ids from
// different providers cannot collide.
func IdempotencyKey(scope, rawEventID string) string {
	sum := sha256.Sum256([]byte(scope + ":" + rawEventID))
	return hex.EncodeToString(sum[:])[:ledgerKeyLen]
}
