package inspect_test

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igridvu/igridvu/internal/imageload"
	"github.com/igridvu/igridvu/internal/inspect"
)

// loadedEntry builds an in-memory entry filled with a single color.
func loadedEntry(t *testing.T, suffixName string, w, h int, fill color.NRGBA) *imageload.Entry {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return &imageload.Entry{
		Suffix: suffixName,
		Status: imageload.StatusLoaded,
		Image:  img,
		Width:  w,
		Height: h,
	}
}

func TestAtReturnsOrderedSamples(t *testing.T) {
	entries := []*imageload.Entry{
		loadedEntry(t, "geometry.png", 8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255}),
		loadedEntry(t, "texture.png", 8, 8, color.NRGBA{R: 40, G: 50, B: 60, A: 128}),
		{Suffix: "missing.png", Status: imageload.StatusNotFound},
	}

	samples := inspect.At(entries, 3, 3)
	require.Len(t, samples, 3)

	assert.Equal(t, inspect.Sample{Label: "geometry", R: 10, G: 20, B: 30, A: 255}, samples[0])
	assert.Equal(t, inspect.Sample{Label: "texture", R: 40, G: 50, B: 60, A: 128}, samples[1])
	assert.Equal(t, inspect.Sample{Label: "missing", R: -1, G: -1, B: -1, A: -1}, samples[2])

	assert.True(t, samples[0].InBounds())
	assert.False(t, samples[2].InBounds())
}

func TestAtOutOfBoundsSentinels(t *testing.T) {
	// Mixed dimensions: a coordinate inside one image may still be
	// outside another, and each must answer for itself.
	entries := []*imageload.Entry{
		loadedEntry(t, "small.png", 4, 4, color.NRGBA{R: 1, A: 255}),
		loadedEntry(t, "large.png", 100, 100, color.NRGBA{R: 2, A: 255}),
	}

	tests := []struct {
		name string
		x, y int
		want [2]bool // in bounds per entry
	}{
		{"inside both", 2, 2, [2]bool{true, true}},
		{"outside small only", 50, 50, [2]bool{false, true}},
		{"negative x", -1, 2, [2]bool{false, false}},
		{"negative y", 2, -7, [2]bool{false, false}},
		{"beyond both", 1000, 1000, [2]bool{false, false}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			samples := inspect.At(entries, tc.x, tc.y)
			require.Len(t, samples, 2)
			for i, wantIn := range tc.want {
				if wantIn {
					assert.True(t, samples[i].InBounds())
					continue
				}
				assert.Equal(t, -1, samples[i].R)
				assert.Equal(t, -1, samples[i].G)
				assert.Equal(t, -1, samples[i].B)
				assert.Equal(t, -1, samples[i].A)
			}
		})
	}
}

func TestStatusLineFormat(t *testing.T) {
	samples := []inspect.Sample{
		{Label: "diffuse", R: 255, G: 128, B: 0, A: 255},
		{Label: "shadow", R: -1, G: -1, B: -1, A: -1},
	}

	got := inspect.StatusLine("/data/scene1_diffuse.png", 12, 34, samples)
	want := "Path: /data/scene1_diffuse.png  Coords: (12, 34)  |  diffuse: (255,128,0) | shadow: ---"
	assert.Equal(t, want, got)
}

func TestStatsUniformImage(t *testing.T) {
	e := loadedEntry(t, "flat.png", 6, 4, color.NRGBA{R: 90, G: 120, B: 200, A: 255})

	s := inspect.Stats(e)
	require.True(t, s.Loaded)
	assert.Equal(t, 6, s.Width)
	assert.Equal(t, 4, s.Height)
	assert.InDelta(t, 90.0, s.R.Mean, 1e-9)
	assert.InDelta(t, 120.0, s.G.Mean, 1e-9)
	assert.InDelta(t, 200.0, s.B.Mean, 1e-9)
	assert.InDelta(t, 0.0, s.R.StdDev, 1e-9)
}

func TestStatsCheckerboard(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{R: 0, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	e := &imageload.Entry{Suffix: "checker.png", Status: imageload.StatusLoaded, Image: img}

	s := inspect.Stats(e)
	require.True(t, s.Loaded)
	assert.InDelta(t, 127.5, s.R.Mean, 1e-9)
	// Sample standard deviation over {0,255,0,255}.
	want := math.Sqrt((4 * 127.5 * 127.5) / 3)
	assert.InDelta(t, want, s.R.StdDev, 1e-9)
	assert.InDelta(t, 0.0, s.G.Mean, 1e-9)
}

func TestStatsUnloadedEntry(t *testing.T) {
	e := &imageload.Entry{Suffix: "gone.png", Status: imageload.StatusNotFound}
	s := inspect.Stats(e)
	assert.False(t, s.Loaded)
	assert.Equal(t, "gone", s.Label)
	assert.Zero(t, s.R.Mean)
}

func TestStatsAllKeepsOrder(t *testing.T) {
	entries := []*imageload.Entry{
		loadedEntry(t, "one.png", 2, 2, color.NRGBA{R: 5, A: 255}),
		{Suffix: "two.png", Status: imageload.StatusCannotDecode},
		loadedEntry(t, "three.png", 2, 2, color.NRGBA{R: 7, A: 255}),
	}

	all := inspect.StatsAll(entries)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Label)
	assert.False(t, all[1].Loaded)
	assert.InDelta(t, 7.0, all[2].R.Mean, 1e-9)
}
