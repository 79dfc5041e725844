package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
	"github.com/stagecraft-labs/pipemenu/internal/testutil"
)

func TestWatcher_IsDocument(t *testing.T) {
	loop := dispatch.NewLoop()
	w := New(t.TempDir(), []string{".mg", ".MG"}, loop, testutil.NewTestLogger(t))

	assert.True(t, w.isDocument("/p/scene.mg"))
	assert.True(t, w.isDocument("/p/SCENE.MG"), "extension match is case-insensitive")
	assert.False(t, w.isDocument("/p/render.exr"))

	any := New(t.TempDir(), nil, loop, testutil.NewTestLogger(t))
	assert.True(t, any.isDocument("/p/anything.xyz"), "empty extension list accepts every file")
}

func TestWatcher_SubscribeAndCancel(t *testing.T) {
	loop := dispatch.NewLoop()
	w := New(t.TempDir(), nil, loop, testutil.NewTestLogger(t))

	var got []string
	sub := w.Subscribe(func(path string) { got = append(got, path) })

	w.documentChanged("/p/a.mg")
	loop.Tick()
	assert.Equal(t, []string{"/p/a.mg"}, got)
	assert.Equal(t, "/p/a.mg", w.ActiveDocumentPath())

	sub.Cancel()
	w.documentChanged("/p/b.mg")
	loop.Tick()
	assert.Equal(t, []string{"/p/a.mg"}, got, "cancelled handler no longer fires")
	assert.Equal(t, "/p/b.mg", w.ActiveDocumentPath())
}

func TestWatcher_HandlersRunOnScheduler(t *testing.T) {
	loop := dispatch.NewLoop()
	w := New(t.TempDir(), nil, loop, testutil.NewTestLogger(t))

	fired := false
	w.Subscribe(func(string) { fired = true })

	w.documentChanged("/p/a.mg")
	assert.False(t, fired, "handler must wait for the next tick")

	loop.Tick()
	assert.True(t, fired)
}

func TestWatcher_RunDeliversFilesystemEvents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shots", "SH010"), 0o755))

	loop := dispatch.NewLoop()
	w := New(dir, []string{".mg"}, loop, testutil.NewTestLogger(t))

	changed := make(chan string, 1)
	w.Subscribe(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to install its watches.
	time.Sleep(100 * time.Millisecond)

	doc := filepath.Join(dir, "shots", "SH010", "scene.mg")
	require.NoError(t, os.WriteFile(doc, []byte("graph"), 0o644))

	// The debounced event lands on the loop; tick until it shows up.
	deadline := time.After(3 * time.Second)
	for {
		loop.Tick()
		select {
		case got := <-changed:
			assert.Equal(t, doc, got)
			cancel()
			<-done
			return
		case <-deadline:
			t.Fatal("timed out waiting for document change")
		default:
			time.Sleep(20 * time.Millisecond)
		}
	}
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	loop := dispatch.NewLoop()
	w := New(t.TempDir(), nil, loop, testutil.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
