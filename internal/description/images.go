package description

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Decoders for key images and height maps.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("description: empty image")

// LoadImage decodes a key image or height map, auto-detecting the format
// (PNG, JPEG, GIF, BMP, TIFF, WebP).
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("description: open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("description: decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return img, nil
}
