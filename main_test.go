package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maxsupermanhd/RegionTiles/primitives"
	"github.com/maxsupermanhd/RegionTiles/testutil"
	"github.com/maxsupermanhd/lac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	c, err := parseArgs([]string{"world/region", "-o", "out", "-f", "r.0.0.mca", "-debug", "-big-image-scale", "0.5"})
	require.NoError(t, err)
	assert.Equal(t, "out", c.outputDir)
	assert.True(t, c.force)
	assert.True(t, c.debug)
	assert.Equal(t, []string{"world/region", "r.0.0.mca"}, c.inputs)
	assert.Equal(t, 0.5, c.bigImageScale)
	assert.False(t, c.tileHTMLSet)

	c, err = parseArgs([]string{"-o", "out", "-create-tile-html=false", "a"})
	require.NoError(t, err)
	assert.True(t, c.tileHTMLSet)
	assert.False(t, c.shouldCreateTileHTML())

	_, err = parseArgs([]string{"-o", "out"})
	assert.ErrorIs(t, err, errNoInputs)
	_, err = parseArgs([]string{"region"})
	assert.ErrorIs(t, err, errNoOutput)
	_, err = parseArgs([]string{"-bogus", "region"})
	assert.Error(t, err)
}

func TestShouldCreateTileHTMLDefault(t *testing.T) {
	dir := t.TempDir()
	c := &command{inputs: []string{dir}}
	assert.True(t, c.shouldCreateTileHTML())
	c.inputs = append(c.inputs, dir)
	assert.False(t, c.shouldCreateTileHTML())
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Usage: regiontiles")

	stdout.Reset()
	assert.Equal(t, 1, run(context.Background(), []string{"-o", "out"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error: no regions or directories specified")
	assert.Contains(t, stderr.String(), "Usage: regiontiles")
}

func TestRunRendersDirectory(t *testing.T) {
	chdir(t, t.TempDir())
	regionDir := filepath.Join("world", "region")
	col := &testutil.Column{Sections: []*testutil.Section{testutil.NewSection(3).Fill(1, 0)}}
	for _, loc := range []primitives.RegionLocation{{X: 0, Z: 0}, {X: 1, Z: -1}} {
		_, err := testutil.WriteRegion(regionDir, loc, map[testutil.Pos][]byte{{X: 2, Z: 2}: col.MustEncode()})
		require.NoError(t, err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-o", "tiles", "-create-big-image", "-big-image-scale", "0.5", "-debug", regionDir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join("tiles", "tile.0.0.png"))
	assert.FileExists(t, filepath.Join("tiles", "tile.1.-1.png"))
	assert.FileExists(t, filepath.Join("tiles", "tiles.html"))
	assert.FileExists(t, filepath.Join("tiles", "big.png"))
	assert.FileExists(t, filepath.Join("logs", "RegionTiles.log"))
	assert.Contains(t, stderr.String(), "Rendered 2 regions")
}

func TestRunBadColorMap(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.Mkdir("region", 0755))
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), []string{"-o", "out", "-color-map", "missing.yaml", "region"}, &stdout, &stderr))
}

func TestWatchHelpers(t *testing.T) {
	dir := t.TempDir()
	fp, err := testutil.WriteRegion(dir, primitives.RegionLocation{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, watchDirs([]string{dir, fp}))

	assert.True(t, isRegionEvent(fsnotify.Event{Name: fp, Op: fsnotify.Write}))
	assert.False(t, isRegionEvent(fsnotify.Event{Name: fp, Op: fsnotify.Chmod}))
	assert.False(t, isRegionEvent(fsnotify.Event{Name: filepath.Join(dir, "level.dat"), Op: fsnotify.Create}))
}

func TestRunRegionFailureExitsZero(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.Mkdir("region", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("region", "r.0.0.mca"), []byte("nope"), 0644))
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-o", "out", "region"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Render pass finished with errors")

	stderr.Reset()
	assert.Equal(t, 1, run(context.Background(), []string{"-o", "out", "missing"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Failed to read inputs")
}

func TestWatchRendersChangedRegion(t *testing.T) {
	regionDir := t.TempDir()
	outDir := t.TempDir()
	c := &command{outputDir: outDir, inputs: []string{regionDir}}
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := newApp(c, lac.NewConf(), l, io.Discard)
	require.NoError(t, err)
	a.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- a.watch(ctx) }()

	loc := primitives.RegionLocation{X: 2, Z: 0}
	col := &testutil.Column{Sections: []*testutil.Section{testutil.NewSection(1).Fill(1, 0)}}
	require.Eventually(t, func() bool {
		if a.store.Exists(loc) {
			return true
		}
		_, err := testutil.WriteRegion(regionDir, loc, map[testutil.Pos][]byte{{X: 0, Z: 0}: col.MustEncode()})
		assert.NoError(t, err)
		return false
	}, 10*time.Second, 4*a.settle)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
