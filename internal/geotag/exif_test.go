package geotag

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"strings"
	"testing"
)

func TestExtractNonImageReturnsErrNoGPS(t *testing.T) {
	_, err := Extract(strings.NewReader("not an image at all"))
	if !errors.Is(err, ErrNoGPS) {
		t.Fatalf("expected ErrNoGPS, got %v", err)
	}
}

func TestExtractJPEGWithoutExifReturnsErrNoGPS(t *testing.T) {
	// A freshly encoded JPEG carries no EXIF block, let alone GPS tags.
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	_, err := Extract(&buf)
	if !errors.Is(err, ErrNoGPS) {
		t.Fatalf("expected ErrNoGPS, got %v", err)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	_, err := Extract(strings.NewReader(""))
	if !errors.Is(err, ErrNoGPS) {
		t.Fatalf("expected ErrNoGPS, got %v", err)
	}
}
