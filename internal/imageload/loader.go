// Package imageload decodes dataset members into pixel buffers with
// size and dimension ceilings enforced before expensive work. Failures
// are captured as a per-entry status, never raised to the caller.
package imageload

import (
	"errors"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/igridvu/igridvu/internal/errs"
)

// Loader loads images under configured safety ceilings. A zero ceiling
// disables that check.
type Loader struct {
	MaxFileBytes int64 // Skip decoding files larger than this
	MaxDimension int   // Reject images wider or taller than this
}

// NewLoader creates a Loader with the given ceilings.
func NewLoader(maxFileBytes int64, maxDimension int) *Loader {
	return &Loader{
		MaxFileBytes: maxFileBytes,
		MaxDimension: maxDimension,
	}
}

// Load resolves a path into an Entry. All failure modes come back as a
// status on the entry; the only side effect is reading the file.
//
// The size ceiling is checked before any decoding and the dimension
// ceiling after the header parse but before pixel allocation, so an
// oversized file never costs a full decode.
func (l *Loader) Load(path string) *Entry {
	e := &Entry{Path: path}

	file, err := os.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			e.Status = StatusPermissionDenied
			e.Err = errs.NewFileError("file access denied", path, errs.FileAccessDenied, err)
		case errors.Is(err, fs.ErrNotExist):
			e.Status = StatusNotFound
			e.Err = errs.NewFileError("file not found", path, errs.FileNotFound, err)
		default:
			e.Status = StatusNotFound
			e.Err = errs.NewFileError("cannot open file", path, errs.FileNotFound, err)
		}
		return e
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil {
		e.FileSize = info.Size()
		if l.MaxFileBytes > 0 && info.Size() > l.MaxFileBytes {
			e.Status = StatusTooLarge
			e.Err = errs.NewFileError("file too large", path, errs.FileTooLarge, nil)
			return e
		}
	}

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		e.Status = StatusUnrecognizedFormat
		e.Err = errs.NewFileError("unrecognized image format", path, errs.UnknownFormat, err)
		return e
	}
	e.Width = cfg.Width
	e.Height = cfg.Height
	if l.MaxDimension > 0 && (cfg.Width > l.MaxDimension || cfg.Height > l.MaxDimension) {
		e.Status = StatusTooLarge
		e.Err = errs.NewFileError("dimensions too large", path, errs.DimensionsTooLarge, nil)
		return e
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		e.Status = StatusCannotDecode
		e.Err = errs.NewFileError("cannot decode image", path, errs.DecodeFailed, err)
		return e
	}
	img, _, err := image.Decode(file)
	if err != nil {
		e.Status = StatusCannotDecode
		e.Err = errs.NewFileError("cannot decode image", path, errs.DecodeFailed, err)
		return e
	}

	e.Image = toNRGBA(img)
	e.Status = StatusLoaded
	return e
}

// toNRGBA normalizes a decoded image to NRGBA with a zero origin so
// channel access is uniform across source formats.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
