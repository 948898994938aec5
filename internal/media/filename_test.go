package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStoredName(t *testing.T) {
	t.Run("never equals the original", func(t *testing.T) {
		name := NewStoredName("photo.jpg", ".webp")
		assert.NotEqual(t, "photo.jpg", name)
		assert.True(t, strings.HasPrefix(name, "photo-"))
		assert.True(t, strings.HasSuffix(name, ".webp"))
	})

	t.Run("keeps original extension when no override", func(t *testing.T) {
		name := NewStoredName("Report.PDF", "")
		assert.True(t, strings.HasSuffix(name, ".pdf"), name)
	})

	t.Run("distinct for identical inputs", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			name := NewStoredName("banner.png", ".webp")
			assert.False(t, seen[name], "duplicate generated name %q", name)
			seen[name] = true
		}
	})

	t.Run("strips path components and hostile runes", func(t *testing.T) {
		tests := []struct {
			in         string
			wantPrefix string
		}{
			{"../../etc/passwd", "passwd-"},
			{"my holiday photo.jpeg", "my-holiday-photo-"},
			{"..", "file-"},
			{"снимок.png", "file-"},
			{"Weird__Name!!.png", "weird-name-"},
		}
		for _, tt := range tests {
			name := NewStoredName(tt.in, ".webp")
			assert.True(t, strings.HasPrefix(name, tt.wantPrefix), "%q -> %q", tt.in, name)
			assert.NotContains(t, name, "/")
			assert.NotContains(t, name, "\\")
		}
	})
}

func TestThumbnailName(t *testing.T) {
	assert.Equal(t, "thumb-banner-1-abc.webp", ThumbnailName("banner-1-abc.webp"))
}
