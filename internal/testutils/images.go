package testutils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// PNGBytes encodes a tiny solid PNG.
func PNGBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// PNGBase64 returns PNGBytes as standard base64 text.
func PNGBase64(t *testing.T) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(PNGBytes(t))
}

// JPEGHeaderPadded returns n bytes starting with a JPEG SOI/APP0 marker.
// Content sniffers classify it as image/jpeg.
func JPEGHeaderPadded(n int) []byte {
	header := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	if n < len(header) {
		n = len(header)
	}
	buf := make([]byte, n)
	copy(buf, header)
	return buf
}
