package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		hash, err := Hash("s3cr3t-password")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "s3cr3t-password", hash)
	})

	t.Run("empty password", func(t *testing.T) {
		hash, err := Hash("")
		assert.Error(t, err)
		assert.Empty(t, hash)
	})
}

func TestVerify(t *testing.T) {
	hash, err := Hash("s3cr3t-password")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		assert.NoError(t, Verify("s3cr3t-password", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := Verify("other-password", hash)
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("empty password", func(t *testing.T) {
		err := Verify("", hash)
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("empty hash", func(t *testing.T) {
		err := Verify("s3cr3t-password", "")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}
