package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  Change
		ok    bool
	}{
		{
			name:  "scene write",
			event: fsnotify.Event{Name: "scenes/testOne.json", Op: fsnotify.Write},
			want:  Change{Kind: KindScene, Path: "scenes/testOne.json", Scene: "testOne"},
			ok:    true,
		},
		{
			name:  "scene removed",
			event: fsnotify.Event{Name: "scenes/old.json", Op: fsnotify.Remove},
			want:  Change{Kind: KindScene, Path: "scenes/old.json", Scene: "old", Removed: true},
			ok:    true,
		},
		{
			name:  "tileset",
			event: fsnotify.Event{Name: "assets/tiles.PNG", Op: fsnotify.Create},
			want:  Change{Kind: KindAsset, Path: "assets/tiles.PNG"},
			ok:    true,
		},
		{
			name:  "editor temp file",
			event: fsnotify.Event{Name: "scenes/testOne.json.tmp", Op: fsnotify.Write},
		},
		{
			name:  "scene index is not a scene name",
			event: fsnotify.Event{Name: "scenes/scene-index.json", Op: fsnotify.Write},
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: "scenes/testOne.json", Op: fsnotify.Chmod},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatcher_ReportsSceneWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "room.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	select {
	case change := <-w.Events:
		assert.Equal(t, KindScene, change.Kind)
		assert.Equal(t, "room", change.Scene)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for room.json")
	}
}

func TestWatcher_ReportsAfterLastWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"room"}`), 0o644))

	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	// Save the way editors do: truncate, then write the new content.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = f.Write([]byte(`{"name":"room","xCount":4}`))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	lastWrite := time.Now()

	var (
		changes []Change
		at      time.Time
	)
	timeout := time.After(2 * time.Second)
collect:
	for {
		select {
		case change := <-w.Events:
			changes = append(changes, change)
			at = time.Now()
		case <-time.After(3 * debounce):
			if len(changes) > 0 {
				break collect
			}
		case <-timeout:
			break collect
		}
	}

	require.Len(t, changes, 1, "one change for the whole save")
	assert.Equal(t, "room", changes[0].Scene)
	assert.False(t, changes[0].Removed)
	assert.True(t, at.After(lastWrite), "change is reported after the last write")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "xCount")
}

func TestWatcher_CloseClosesEvents(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second close is a no-op")

	select {
	case _, ok := <-w.Events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed")
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
