package registry

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestWatcherReloadsOnManifestWrite(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "lib.yaml", `
scope: ":lib"
native: true
components:
  - name: core
    binaries:
      - variant: debug
`)

	reloads := make(chan *Registry, 4)
	watcher, err := NewWatcher(NewLoader(dir, quietLogger()), "@every 1h", func(reg *Registry) {
		reloads <- reg
	}, quietLogger())
	require.NoError(t, err)
	watcher.Start()
	t.Cleanup(watcher.Stop)

	writeManifest(t, dir, "app.yaml", `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - variant: debug
`)

	select {
	case reg := <-reloads:
		assert.Equal(t, 2, reg.ScopeCount())
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a reload after a manifest write")
	}
}

func TestWatcherKeepsPreviousRegistryOnBrokenWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "lib.yaml", `
scope: ":lib"
native: true
components:
  - name: core
    binaries:
      - variant: debug
`)

	reloads := make(chan *Registry, 4)
	watcher, err := NewWatcher(NewLoader(dir, quietLogger()), "@every 1h", func(reg *Registry) {
		reloads <- reg
	}, quietLogger())
	require.NoError(t, err)
	watcher.Start()
	t.Cleanup(watcher.Stop)

	// An unparseable manifest must not reach the callback.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("scope: [busted\n"), 0o644))

	select {
	case reg := <-reloads:
		t.Fatalf("Expected no reload for a broken workspace, got one with %d scopes", reg.ScopeCount())
	case <-time.After(2 * time.Second):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "lib.yaml", `
scope: ":lib"
native: true
components:
  - name: core
    binaries:
      - variant: debug
`)

	watcher, err := NewWatcher(NewLoader(dir, quietLogger()), "@every 1h", func(*Registry) {}, quietLogger())
	require.NoError(t, err)
	watcher.Start()

	watcher.Stop()
	watcher.Stop()
}

func TestWatcherRejectsBadSchedule(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWatcher(NewLoader(dir, quietLogger()), "not a schedule", func(*Registry) {}, quietLogger())
	require.Error(t, err)
}
