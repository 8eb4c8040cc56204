package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// Image upload validation shared by screenshot, avatar and logo uploads.

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".heif": true,
	".webp": true,
}

var (
	ErrImageType     = errors.New("image must be JPG/PNG/HEIC/HEIF/WEBP")
	ErrImageTooLarge = errors.New("image exceeds the size limit")
	ErrImageRead     = errors.New("failed to read image")
	ErrImageDecode   = errors.New("invalid image format")
)

// ProcessImageUpload validates an uploaded image and returns bytes ready for
// storage plus the normalized extension. JPG/PNG content is decoded and
// re-encoded to strip anything that is not pixel data; HEIC/HEIF/WEBP are not
// decodable with the standard library and are stored as received.
func ProcessImageUpload(file multipart.File, handler *multipart.FileHeader, maxBytes int64) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if !allowedImageExts[ext] {
		return nil, "", ErrImageType
	}
	if handler.Size > maxBytes {
		return nil, "", ErrImageTooLarge
	}

	// Magic-bytes sniff on the first 512 bytes.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return nil, "", ErrImageRead
	}
	detected := http.DetectContentType(head[:n])

	isHEIC := ext == ".heic" || ext == ".heif" || detected == "image/heic" || detected == "image/heif"
	isWEBP := ext == ".webp" || detected == "image/webp"

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", ErrImageRead
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", ErrImageRead
	}

	if isHEIC || isWEBP {
		return raw, ext, nil
	}

	if detected != "image/jpeg" && detected != "image/png" {
		return nil, "", ErrImageType
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", ErrImageDecode
	}

	var out bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", ErrImageDecode
		}
		ext = ".jpg"
	case "png":
		if err := png.Encode(&out, img); err != nil {
			return nil, "", ErrImageDecode
		}
	default:
		return nil, "", ErrImageType
	}
	return out.Bytes(), ext, nil
}
