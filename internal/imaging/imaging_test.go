package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// encodeTestJPEG produces an in-memory JPEG of the given dimensions.
func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnailScalesDown(t *testing.T) {
	data := encodeTestJPEG(t, 800, 600)

	thumb, err := Thumbnail(data, 400)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb == nil {
		t.Fatal("expected thumbnail bytes, got nil")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("thumbnail format: got %q, want jpeg", format)
	}
	if cfg.Width != 400 {
		t.Errorf("thumbnail width: got %d, want 400", cfg.Width)
	}
	if cfg.Height != 300 {
		t.Errorf("thumbnail height: got %d, want 300 (aspect preserved)", cfg.Height)
	}
}

func TestThumbnailSkipsSmallImages(t *testing.T) {
	data := encodeTestJPEG(t, 200, 150)

	thumb, err := Thumbnail(data, 400)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb != nil {
		t.Error("expected nil for image already under max width")
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail([]byte("not an image"), 400)
	if err == nil {
		t.Error("expected error for undecodable input")
	}
}
