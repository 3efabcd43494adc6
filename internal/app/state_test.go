package app

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igridvu/igridvu/internal/config"
	"github.com/igridvu/igridvu/internal/errs"
	"github.com/igridvu/igridvu/internal/scene"
	"github.com/igridvu/igridvu/pkg/viewgeom"
)

// createSceneDataset generates the bundled test scene in a temp dir and
// returns the prefix and suffix file path a viewer would be launched with.
func createSceneDataset(t *testing.T) (string, string) {
	t.Helper()
	prefix, err := scene.CreateDataset(t.TempDir())
	require.NoError(t, err)
	return prefix, filepath.Join(filepath.Dir(prefix), config.DefaultSuffixFileName)
}

// writeUniformPNG overwrites path with a small image of a single color.
func writeUniformPNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestLoadDataset(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	var loadedEvents int
	state.On(EventDatasetLoaded, func(data interface{}) {
		loadedEvents++
	})

	require.NoError(t, state.LoadDataset(prefix, suffixPath, 3))

	assert.Equal(t, 1, loadedEvents)
	assert.Equal(t, 3, state.Columns)
	assert.Equal(t, scene.Suffixes(), state.Suffixes)
	require.Len(t, state.Entries(), len(scene.Suffixes()))
	for i, entry := range state.Entries() {
		assert.True(t, entry.Loaded(), "member %d should load", i)
		assert.Equal(t, scene.Suffixes()[i], entry.Suffix)
	}
	assert.Equal(t, viewgeom.Identity(), state.CurrentTransform())
}

func TestLoadDatasetDefaultColumns(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 0))

	assert.Equal(t, state.Config.Grid.Columns, state.Columns)
}

func TestLoadDatasetMissingSuffixFile(t *testing.T) {
	state := NewState(config.NewTestConfig())

	err := state.LoadDataset("/data/scene1_", filepath.Join(t.TempDir(), "absent.txt"), 2)

	require.NoError(t, err)
	assert.Empty(t, state.Entries())
	assert.Empty(t, state.Suffixes)
}

func TestLoadDatasetCapsMembers(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	cfg := config.NewTestConfig()
	cfg.Limits.MaxImages = 2

	state := NewState(cfg)
	var statusMessages []string
	state.On(EventStatusMessage, func(data interface{}) {
		statusMessages = append(statusMessages, data.(string))
	})

	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	assert.Equal(t, scene.Suffixes()[:2], state.Suffixes)
	assert.Len(t, state.Entries(), 2)
	assert.Len(t, statusMessages, 1)
}

func TestLoadDatasetMissingMembersStillListed(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)
	require.NoError(t, os.Remove(prefix+"texture.png"))

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	require.Len(t, state.Entries(), len(scene.Suffixes()))
	assert.False(t, state.Entry(1).Loaded())
	assert.True(t, state.Entry(0).Loaded())
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()

	state := NewState(config.NewTestConfig())

	state.Prefix = dir
	assert.Equal(t, filepath.Join(dir, "a.png"), state.ResolvePath("a.png"),
		"directory prefix should join")

	state.Prefix = filepath.Join(dir, "scene1_")
	assert.Equal(t, filepath.Join(dir, "scene1_")+"a.png", state.ResolvePath("a.png"),
		"stem prefix should concatenate")
}

func TestGridPosition(t *testing.T) {
	state := NewState(config.NewTestConfig())

	state.Columns = 1
	for i := 0; i < 5; i++ {
		row, col := state.GridPosition(i)
		assert.Equal(t, i, row)
		assert.Equal(t, 0, col)
	}

	state.Columns = 2
	wantPos := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}}
	for i, want := range wantPos {
		row, col := state.GridPosition(i)
		assert.Equal(t, want[0], row)
		assert.Equal(t, want[1], col)
	}
}

func TestSetTransformNotifiesListeners(t *testing.T) {
	state := NewState(config.NewTestConfig())

	var got viewgeom.ViewTransform
	var calls int
	state.On(EventTransformChanged, func(data interface{}) {
		got = data.(viewgeom.ViewTransform)
		calls++
	})

	want := viewgeom.ViewTransform{Scale: 2.5, OffsetX: -40, OffsetY: 12}
	state.SetTransform(want)

	assert.Equal(t, 1, calls)
	assert.Equal(t, want, got)
	assert.Equal(t, want, state.CurrentTransform())
}

func TestEmitReachesAllListeners(t *testing.T) {
	state := NewState(config.NewTestConfig())

	var first, second bool
	state.On(EventCursorMoved, func(data interface{}) { first = true })
	state.On(EventCursorMoved, func(data interface{}) { second = true })

	state.Emit(EventCursorMoved, CursorEvent{PanelIndex: 0, SceneX: 3, SceneY: 4})

	assert.True(t, first)
	assert.True(t, second)
}

func TestReloadEntryPicksUpNewContent(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	var reloaded []int
	state.On(EventEntryReloaded, func(data interface{}) {
		reloaded = append(reloaded, data.(int))
	})

	writeUniformPNG(t, state.Entry(0).Path, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	state.ReloadEntry(0)

	assert.Equal(t, []int{0}, reloaded)
	r, g, b, _, ok := state.Entry(0).RGBAAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestReloadEntryIgnoresBadIndex(t *testing.T) {
	state := NewState(config.NewTestConfig())

	state.ReloadEntry(-1)
	state.ReloadEntry(99)
}

func TestReloadByPath(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	var reloaded []int
	state.On(EventEntryReloaded, func(data interface{}) {
		reloaded = append(reloaded, data.(int))
	})

	state.ReloadByPath([]string{
		state.Entry(2).Path,
		filepath.Join(t.TempDir(), "unrelated.png"),
	})

	assert.Equal(t, []int{2}, reloaded)
}

func TestConcurrentReloadAndRead(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	paths := state.MemberPaths()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 25; i++ {
			state.ReloadByPath(paths[:2])
		}
	}()

	// Reads mirror the UI inspecting members while the watcher reloads.
	for i := 0; i < 200; i++ {
		for _, entry := range state.Entries() {
			entry.RGBAAt(0, 0)
		}
		if entry := state.Entry(0); entry != nil {
			entry.Label()
		}
	}
	<-done

	require.Len(t, state.Entries(), len(scene.Suffixes()))
	assert.True(t, state.Entry(0).Loaded())
}

func TestSaveSuffixes(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	var edited bool
	state.On(EventSuffixesEdited, func(data interface{}) { edited = true })

	require.NoError(t, state.SaveSuffixes([]string{"  geometry.png  ", "", "shadow.png"}))

	assert.True(t, edited)
	assert.Equal(t, []string{"geometry.png", "shadow.png"}, state.Suffixes)
	require.Len(t, state.Entries(), 2)
	assert.True(t, state.Entry(0).Loaded())
	assert.True(t, state.Entry(1).Loaded())
}

func TestSaveSuffixesRejectsOversizedList(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	cfg := config.NewTestConfig()
	cfg.Limits.MaxImages = 2

	state := NewState(cfg)
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	err := state.SaveSuffixes([]string{"a.png", "b.png", "c.png"})

	require.Error(t, err)
	assert.True(t, errs.IsSuffixListTooLong(err))
	assert.Equal(t, scene.Suffixes()[:2], state.Suffixes, "list on disk should be untouched")
}

func TestSaveSuffixesWithoutDataset(t *testing.T) {
	state := NewState(config.NewTestConfig())

	err := state.SaveSuffixes([]string{"a.png"})

	require.Error(t, err)
}

func TestMemberPaths(t *testing.T) {
	prefix, suffixPath := createSceneDataset(t)

	state := NewState(config.NewTestConfig())
	require.NoError(t, state.LoadDataset(prefix, suffixPath, 2))

	paths := state.MemberPaths()
	require.Len(t, paths, len(scene.Suffixes()))
	for i, p := range paths {
		assert.Equal(t, prefix+scene.Suffixes()[i], p)
	}
}
