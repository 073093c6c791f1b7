package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiresOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0644))

	changed := make(chan struct{}, 1)
	w := New(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil).WithDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to establish before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("change never observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0644))

	changed := make(chan struct{}, 1)
	w := New(path, func() { changed <- struct{}{} }, nil).WithDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Watch(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 1\n"), 0644))

	select {
	case <-changed:
		t.Fatal("sibling write should not fire the callback")
	case <-time.After(300 * time.Millisecond):
	}
}
