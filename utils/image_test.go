package utils

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"testing"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func pngUpload(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()
	return memFile{bytes.NewReader(data)}, &multipart.FileHeader{
		Filename: "shot.png",
		Size:     int64(len(data)),
	}
}

func TestProcessImageUpload_PNGSanitized(t *testing.T) {
	file, header := pngUpload(t)
	data, ext, err := ProcessImageUpload(file, header, 1<<20)
	if err != nil {
		t.Fatalf("ProcessImageUpload: %v", err)
	}
	if ext != ".png" {
		t.Fatalf("expected .png, got %s", ext)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not a decodable png: %v", err)
	}
}

func TestProcessImageUpload_RejectsUnknownExtension(t *testing.T) {
	file, header := pngUpload(t)
	header.Filename = "shot.gif"
	_, _, err := ProcessImageUpload(file, header, 1<<20)
	if !errors.Is(err, ErrImageType) {
		t.Fatalf("expected ErrImageType, got %v", err)
	}
}

func TestProcessImageUpload_RejectsOversize(t *testing.T) {
	file, header := pngUpload(t)
	_, _, err := ProcessImageUpload(file, header, 10)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestProcessImageUpload_RejectsMasqueradingContent(t *testing.T) {
	// a text payload with a .png name must not survive the magic-bytes sniff
	data := []byte("definitely not an image")
	file := memFile{bytes.NewReader(data)}
	header := &multipart.FileHeader{Filename: "fake.png", Size: int64(len(data))}
	_, _, err := ProcessImageUpload(file, header, 1<<20)
	if !errors.Is(err, ErrImageType) {
		t.Fatalf("expected ErrImageType, got %v", err)
	}
}

func TestProcessImageUpload_JPEGNormalizedExtension(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	data := buf.Bytes()
	f := memFile{bytes.NewReader(data)}
	h := &multipart.FileHeader{Filename: "shot.jpeg", Size: int64(len(data))}
	_, ext, err := ProcessImageUpload(f, h, 1<<20)
	if err != nil {
		t.Fatalf("ProcessImageUpload: %v", err)
	}
	if ext != ".jpg" {
		t.Fatalf(".jpeg should normalize to .jpg, got %s", ext)
	}
}
