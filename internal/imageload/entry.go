package imageload

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/igridvu/igridvu/internal/errs"
)

// Entry represents one dataset member: a suffix resolved to a path and
// the result of loading it. An Entry is immutable after Load returns;
// a failed entry only becomes loaded by loading a replacement.
type Entry struct {
	Suffix string       // Filename remainder appended to the dataset prefix
	Path   string       // Resolved file path
	Status LoadStatus   // Load outcome
	Image  *image.NRGBA // Decoded pixels, nil unless StatusLoaded
	Err    error        // Underlying cause for failed loads, nil when loaded

	FileSize int64 // Size on disk in bytes, when the file could be stat'd
	Width    int   // Decoded width in pixels, when the header could be parsed
	Height   int   // Decoded height in pixels, when the header could be parsed
}

// Label returns the display name for the entry: the suffix without its
// extension, falling back to the path base when no suffix is set.
func (e *Entry) Label() string {
	name := e.Suffix
	if name == "" {
		name = filepath.Base(e.Path)
	} else {
		name = filepath.Base(name)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Loaded reports whether the entry holds decoded pixels.
func (e *Entry) Loaded() bool {
	return e.Status == StatusLoaded && e.Image != nil
}

// RGBAAt returns the 8-bit channel values at image coordinate (x, y).
// ok is false when the entry is not loaded or the coordinate falls
// outside the image.
func (e *Entry) RGBAAt(x, y int) (r, g, b, a uint8, ok bool) {
	if !e.Loaded() {
		return 0, 0, 0, 0, false
	}
	bounds := e.Image.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return 0, 0, 0, 0, false
	}
	c := e.Image.NRGBAAt(x, y)
	return c.R, c.G, c.B, c.A, true
}

// CellText returns the placeholder text rendered in the grid cell when
// the load failed. Loaded entries have no placeholder.
func (e *Entry) CellText() string {
	switch e.Status {
	case StatusLoaded:
		return ""
	case StatusNotFound:
		return "Not found"
	case StatusPermissionDenied:
		return "Permission\ndenied"
	case StatusTooLarge:
		var fileErr *errs.FileError
		if errs.As(e.Err, &fileErr) && fileErr.Kind() == errs.DimensionsTooLarge {
			return fmt.Sprintf("Dimensions too large\n(%dx%d)", e.Width, e.Height)
		}
		return fmt.Sprintf("File too large\n(%.1f MB)", float64(e.FileSize)/(1<<20))
	case StatusUnrecognizedFormat:
		return "Unrecognized\nformat"
	case StatusCannotDecode:
		return "Cannot load\n(Corrupted?)"
	default:
		return ""
	}
}
