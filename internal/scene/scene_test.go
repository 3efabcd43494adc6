package scene_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igridvu/igridvu/internal/imageload"
	"github.com/igridvu/igridvu/internal/scene"
	"github.com/igridvu/igridvu/internal/suffix"
)

func TestCreateDataset(t *testing.T) {
	base := t.TempDir()

	prefix, err := scene.CreateDataset(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "testscene", "scene1_"), prefix)

	// The suffix file lists every generated pass in order.
	suffixes, err := suffix.Load(filepath.Join(base, "testscene", "igridvu_suffix.txt"))
	require.NoError(t, err)
	assert.Equal(t, scene.Suffixes(), suffixes)

	// Every member decodes and has the expected dimensions.
	loader := imageload.NewLoader(0, 0)
	for _, s := range suffixes {
		entry := loader.Load(prefix + s)
		require.Equal(t, imageload.StatusLoaded, entry.Status, "suffix %s", s)
		assert.Equal(t, 256, entry.Width)
		assert.Equal(t, 256, entry.Height)
	}
}

func TestCreateDatasetPassColors(t *testing.T) {
	base := t.TempDir()
	prefix, err := scene.CreateDataset(base)
	require.NoError(t, err)

	loader := imageload.NewLoader(0, 0)

	// Sample a corner pixel, away from the centered overlay text.
	geometry := loader.Load(prefix + "geometry.png")
	require.True(t, geometry.Loaded())
	r, g, b, _, ok := geometry.RGBAAt(2, 2)
	require.True(t, ok)
	assert.Equal(t, uint8(150), r)
	assert.Equal(t, uint8(220), g)
	assert.Equal(t, uint8(150), b)

	shadow := loader.Load(prefix + "shadow.png")
	require.True(t, shadow.Loaded())
	r, g, b, _, ok = shadow.RGBAAt(253, 253)
	require.True(t, ok)
	assert.Equal(t, uint8(40), r)
	assert.Equal(t, uint8(40), g)
	assert.Equal(t, uint8(60), b)

	// Passes must be distinguishable from each other.
	texture := loader.Load(prefix + "texture.png")
	require.True(t, texture.Loaded())
	tr, _, _, _, _ := texture.RGBAAt(2, 2)
	assert.NotEqual(t, r, tr)
}

func TestCreateDatasetIsRerunnable(t *testing.T) {
	base := t.TempDir()

	_, err := scene.CreateDataset(base)
	require.NoError(t, err)
	prefix, err := scene.CreateDataset(base)
	require.NoError(t, err)

	entry := imageload.NewLoader(0, 0).Load(prefix + "diffuse.png")
	assert.True(t, entry.Loaded())
}

func TestSuffixOrderIsPipelineOrder(t *testing.T) {
	got := scene.Suffixes()
	require.Len(t, got, 6)
	assert.Equal(t, "geometry.png", got[0])
	assert.Equal(t, "shadow.png", got[5])
	for _, s := range got {
		assert.True(t, strings.HasSuffix(s, ".png"))
	}
}
