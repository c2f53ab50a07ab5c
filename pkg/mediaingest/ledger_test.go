package mediaingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IdempotencyKey("push", "msg-123")
		b := IdempotencyKey("push", "msg-123")
		assert.Equal(t, a, b)
	})

	t.Run("fixed length hex", func(t *testing.T) {
		key := IdempotencyKey("push", "msg-123")
		assert.Len(t, key, ledgerKeyLen)
		assert.Regexp(t, "^[0-9a-f]+$", key)
	})

	t.Run("scope disambiguates providers", func(t *testing.T) {
		assert.NotEqual(t,
			IdempotencyKey("push", "msg-123"),
			IdempotencyKey("s3", "msg-123"))
	})

	t.Run("distinct events distinct keys", func(t *testing.T) {
		assert.NotEqual(t,
			IdempotencyKey("push", "msg-123"),
			IdempotencyKey("push", "msg-124"))
	})
}
