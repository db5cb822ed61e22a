package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [file]", watchCmd.Use)

	flag := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, "200ms", flag.DefValue)
}

func TestWatchCmd_RequiresSets(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("watch", "a.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--sets is required")
}

func TestWatchCmd_MissingOverrideDirectory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("watch", "--sets", filepath.Join(t.TempDir(), "nope", "gates.xml"), "a.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestWatchCmd_AnalysesOnceAndStopsOnCancel(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	override := filepath.Join(t.TempDir(), "gates.xml")
	require.NoError(t, os.WriteFile(override, []byte("<SetList/>"), 0o600))

	// An earlier command run leaves a live context on watchCmd.
	_, err := executeCommand("watch", "a.json")
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	type outcome struct {
		out string
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := executeCommandContext(ctx, "watch", "--sets", override, "-f", "table", "a.json")
		done <- outcome{out, err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Bacteria")
	assert.Contains(t, res.out, "Watching "+override)
	assert.Equal(t, override, ts.analysis.lastRequest().OverridePath)
}

func TestFileWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gates.xml")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	fw, err := newFileWatcher(path)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- fw.Run(ctx, 10*time.Millisecond, func() { changed <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gates.xml")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	fw, err := newFileWatcher(path)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 10)
	go func() {
		_ = fw.Run(ctx, 10*time.Millisecond, func() { changed <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xml"), []byte("x"), 0o600))

	select {
	case <-changed:
		t.Fatal("unexpected change for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
