package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchCollector records callback batches for assertions.
type batchCollector struct {
	mu      sync.Mutex
	batches [][]string
	notify  chan struct{}
}

func newBatchCollector() *batchCollector {
	return &batchCollector{notify: make(chan struct{}, 16)}
}

func (c *batchCollector) collect(changed []string) {
	c.mu.Lock()
	c.batches = append(c.batches, changed)
	c.mu.Unlock()
	c.notify <- struct{}{}
}

func (c *batchCollector) all() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]string, len(c.batches))
	copy(out, c.batches)
	return out
}

func TestWatcherReportsTrackedMemberChanges(t *testing.T) {
	tempDir := t.TempDir()
	tracked := filepath.Join(tempDir, "scene1_diffuse.png")
	require.NoError(t, os.WriteFile(tracked, []byte("v1"), 0644))

	collector := newBatchCollector()
	w, err := New(50*time.Millisecond, collector.collect)
	require.NoError(t, err)

	require.NoError(t, w.SetPaths([]string{tracked}))
	require.NoError(t, w.Start())
	defer w.Close()
	assert.True(t, w.IsRunning())

	// Allow fsnotify to settle before generating events.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(tracked, []byte("v2"), 0644))

	select {
	case <-collector.notify:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change batch")
	}

	batches := collector.all()
	require.NotEmpty(t, batches)
	assert.Equal(t, []string{tracked}, batches[0])
}

func TestWatcherIgnoresUntrackedFiles(t *testing.T) {
	tempDir := t.TempDir()
	tracked := filepath.Join(tempDir, "scene1_texture.png")
	untracked := filepath.Join(tempDir, "unrelated.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("v1"), 0644))

	collector := newBatchCollector()
	w, err := New(50*time.Millisecond, collector.collect)
	require.NoError(t, err)

	require.NoError(t, w.SetPaths([]string{tracked}))
	require.NoError(t, w.Start())
	defer w.Close()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(untracked, []byte("noise"), 0644))

	select {
	case <-collector.notify:
		t.Fatalf("unexpected batch for untracked file: %v", collector.all())
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	tempDir := t.TempDir()
	a := filepath.Join(tempDir, "scene1_a.png")
	b := filepath.Join(tempDir, "scene1_b.png")
	require.NoError(t, os.WriteFile(a, []byte("v1"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("v1"), 0644))

	collector := newBatchCollector()
	w, err := New(150*time.Millisecond, collector.collect)
	require.NoError(t, err)

	require.NoError(t, w.SetPaths([]string{a, b}))
	require.NoError(t, w.Start())
	defer w.Close()

	time.Sleep(100 * time.Millisecond)

	// Two quick writes inside one debounce window become one batch.
	require.NoError(t, os.WriteFile(a, []byte("v2"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("v2"), 0644))

	select {
	case <-collector.notify:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for coalesced batch")
	}

	batches := collector.all()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{a, b}, batches[0])
}

func TestWatcherStartStop(t *testing.T) {
	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Start())
	assert.Error(t, w.Start(), "double start should fail")

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop() // Stop is idempotent
}

func TestWatcherRestartAfterStop(t *testing.T) {
	tempDir := t.TempDir()
	tracked := filepath.Join(tempDir, "scene1_normal.png")
	require.NoError(t, os.WriteFile(tracked, []byte("v1"), 0644))

	collector := newBatchCollector()
	w, err := New(50*time.Millisecond, collector.collect)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.SetPaths([]string{tracked}))
	require.NoError(t, w.Start())
	w.Stop()

	// A stopped watcher delivers nothing.
	require.NoError(t, os.WriteFile(tracked, []byte("v2"), 0644))
	select {
	case <-collector.notify:
		t.Fatalf("unexpected batch while stopped: %v", collector.all())
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(tracked, []byte("v3"), 0644))
	select {
	case <-collector.notify:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for batch after restart")
	}

	batches := collector.all()
	require.NotEmpty(t, batches)
	assert.Equal(t, []string{tracked}, batches[len(batches)-1])
}

func TestSetPathsSwapsDirectories(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	fileA := filepath.Join(dirA, "a.png")
	fileB := filepath.Join(dirB, "b.png")
	require.NoError(t, os.WriteFile(fileA, []byte("v1"), 0644))
	require.NoError(t, os.WriteFile(fileB, []byte("v1"), 0644))

	collector := newBatchCollector()
	w, err := New(50*time.Millisecond, collector.collect)
	require.NoError(t, err)

	require.NoError(t, w.SetPaths([]string{fileA}))
	require.NoError(t, w.SetPaths([]string{fileB}))
	require.NoError(t, w.Start())
	defer w.Close()

	time.Sleep(100 * time.Millisecond)

	// Only the second dataset is live.
	require.NoError(t, os.WriteFile(fileA, []byte("v2"), 0644))
	require.NoError(t, os.WriteFile(fileB, []byte("v2"), 0644))

	select {
	case <-collector.notify:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change batch")
	}

	batches := collector.all()
	require.NotEmpty(t, batches)
	assert.Equal(t, []string{fileB}, batches[0])
}
