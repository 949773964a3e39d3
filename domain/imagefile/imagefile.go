// Package imagefile checks that a picked file is an image the engine can
// draw from.
package imagefile

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxSize is the largest accepted file.
const MaxSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image file too large")
	ErrUndecodable     = errors.New("image cannot be decoded")
)

var extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

// Extensions returns the accepted file extensions, lower case with dot.
func Extensions() []string { return append([]string(nil), extensions...) }

// Info describes an accepted image.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
	Size   int64
}

// Validate checks extension, size and header of the file at path.
func Validate(path string) error {
	_, err := Inspect(path)
	return err
}

func Inspect(path string) (Info, error) {
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range extensions {
		if e == ext {
			supported = true
			break
		}
	}
	if !supported {
		return Info{}, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() > MaxSize {
		return Info{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, st.Size(), MaxSize)
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: empty image", ErrUndecodable)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height, Size: st.Size()}, nil
}
