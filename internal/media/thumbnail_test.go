package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailer_ExactSquare(t *testing.T) {
	th := NewThumbnailer(300, 60)

	tests := []struct {
		name string
		src  []byte
	}{
		{"landscape", nil},
		{"portrait", nil},
		{"tiny", nil},
	}
	tests[0].src = pngBytes(t, 400, 200)
	tests[1].src = pngBytes(t, 200, 400)
	tests[2].src = pngBytes(t, 10, 10)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := th.Generate(tt.src)
			require.NoError(t, err)

			format, w, h := decodeDims(t, data)
			assert.Equal(t, "webp", format)
			assert.Equal(t, 300, w)
			assert.Equal(t, 300, h)
		})
	}
}

func TestThumbnailer_CorruptPayload(t *testing.T) {
	th := NewThumbnailer(300, 60)

	data, err := th.Generate([]byte{0x89, 0x50, 0x4e})
	assert.Nil(t, data)
	assert.ErrorIs(t, err, ErrTranscodeFailure)
}
