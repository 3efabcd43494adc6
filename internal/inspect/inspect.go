// Package inspect implements cross-image pixel inspection: one scene
// coordinate queried against every dataset member at once.
package inspect

import (
	"fmt"
	"strings"

	"github.com/igridvu/igridvu/internal/imageload"
)

// Sample is one panel's channel readout at a scene coordinate. All
// channels are -1 when the coordinate is outside that image or the
// image never loaded.
type Sample struct {
	Label string
	R     int
	G     int
	B     int
	A     int
}

// InBounds reports whether the sample hit actual pixels.
func (s Sample) InBounds() bool {
	return s.R >= 0
}

// At queries every entry at the integer scene coordinate (x, y) and
// returns one sample per entry, in entry order. Entries are never
// omitted; misses carry -1 sentinels so the report stays aligned with
// the grid.
func At(entries []*imageload.Entry, x, y int) []Sample {
	samples := make([]Sample, 0, len(entries))
	for _, e := range entries {
		s := Sample{Label: e.Label(), R: -1, G: -1, B: -1, A: -1}
		if r, g, b, a, ok := e.RGBAAt(x, y); ok {
			s.R, s.G, s.B, s.A = int(r), int(g), int(b), int(a)
		}
		samples = append(samples, s)
	}
	return samples
}

// StatusLine renders the status bar text for a cursor position: the
// hovered panel's path, the scene coordinate, and every panel's RGB
// readout in grid order. Misses render as "---" so the line keeps one
// slot per panel.
func StatusLine(path string, x, y int, samples []Sample) string {
	parts := make([]string, 0, len(samples))
	for _, s := range samples {
		value := "---"
		if s.InBounds() {
			value = fmt.Sprintf("(%d,%d,%d)", s.R, s.G, s.B)
		}
		parts = append(parts, s.Label+": "+value)
	}
	return fmt.Sprintf("Path: %s  Coords: (%d, %d)  |  %s", path, x, y, strings.Join(parts, " | "))
}
