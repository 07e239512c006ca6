package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDataURLRoundTrip(t *testing.T) {
	data := testPNG(t)

	dataURL := EncodeDataURL("image/png", data)
	assert.Contains(t, dataURL, "data:image/png;base64,")

	mimeType, decoded, err := ParseDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, data, decoded)
}

func TestEncodeDataURLDefaultsMIME(t *testing.T) {
	dataURL := EncodeDataURL("", []byte{0x1})
	assert.Contains(t, dataURL, "data:image/png;base64,")
}

func TestParseDataURLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a data url", "https://example.com/a.png"},
		{"missing payload", "data:image/png;base64"},
		{"non-base64 encoding", "data:image/png,rawbytes"},
		{"bad base64", "data:image/png;base64,%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataURL(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestConvertPNGToWebP(t *testing.T) {
	webpData, err := ConvertPNGToWebP(testPNG(t), 90.0)
	require.NoError(t, err)
	assert.NotEmpty(t, webpData)
}

func TestConvertPNGToWebPRejectsGarbage(t *testing.T) {
	_, err := ConvertPNGToWebP([]byte("not a png"), 90.0)
	assert.Error(t, err)
}
