package inspect

import (
	"gonum.org/v1/gonum/stat"

	"github.com/igridvu/igridvu/internal/imageload"
)

// ChannelStats summarizes one channel's distribution across an image.
type ChannelStats struct {
	Mean   float64
	StdDev float64
}

// EntryStats holds per-channel statistics for one dataset member.
type EntryStats struct {
	Label  string
	Loaded bool
	Width  int
	Height int
	R      ChannelStats
	G      ChannelStats
	B      ChannelStats
}

// Stats computes mean and standard deviation per color channel for a
// loaded entry. Unloaded entries report Loaded=false with zero stats.
func Stats(e *imageload.Entry) EntryStats {
	out := EntryStats{Label: e.Label()}
	if !e.Loaded() {
		return out
	}

	bounds := e.Image.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	n := w * h
	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := e.Image.Pix[(y-bounds.Min.Y)*e.Image.Stride:]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+3]
			rs = append(rs, float64(px[0]))
			gs = append(gs, float64(px[1]))
			bs = append(bs, float64(px[2]))
		}
	}

	out.Loaded = true
	out.Width = w
	out.Height = h
	out.R = ChannelStats{Mean: stat.Mean(rs, nil), StdDev: stat.StdDev(rs, nil)}
	out.G = ChannelStats{Mean: stat.Mean(gs, nil), StdDev: stat.StdDev(gs, nil)}
	out.B = ChannelStats{Mean: stat.Mean(bs, nil), StdDev: stat.StdDev(bs, nil)}
	return out
}

// StatsAll computes per-channel statistics for every entry, in order.
func StatsAll(entries []*imageload.Entry) []EntryStats {
	out := make([]EntryStats, 0, len(entries))
	for _, e := range entries {
		out = append(out, Stats(e))
	}
	return out
}
