package s3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildObjectName(t *testing.T) {
	now := time.UnixMilli(1735689600000)

	t.Run("prefixes timestamp", func(t *testing.T) {
		name := BuildObjectName(now, "fachada.jpg")
		assert.Equal(t, "1735689600000-fachada.jpg", name)
	})

	t.Run("flattens path separators", func(t *testing.T) {
		name := BuildObjectName(now, "../etc/passwd")
		assert.Equal(t, "1735689600000-.._etc_passwd", name)
	})

	t.Run("distinct timestamps never collide", func(t *testing.T) {
		first := BuildObjectName(now, "foto.png")
		second := BuildObjectName(now.Add(time.Millisecond), "foto.png")
		assert.NotEqual(t, first, second)
	})
}
