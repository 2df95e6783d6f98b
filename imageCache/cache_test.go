package imagecache

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxsupermanhd/RegionTiles/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTilePath(t *testing.T) {
	s := NewTileStore("out", nil)
	assert.Equal(t, filepath.Join("out", "tile.-3.12.png"), s.TilePath(primitives.RegionLocation{X: -3, Z: 12}))
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewTileStore(dir, nil)
	loc := primitives.RegionLocation{X: 1, Z: -1}
	assert.False(t, s.Exists(loc))
	assert.True(t, s.ModTime(loc).IsZero())
	assert.False(t, s.UpToDate(loc, time.Time{}))

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	n, err := s.Save(loc, img)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.True(t, s.Exists(loc))
	assert.True(t, s.UpToDate(loc, time.Now().Add(-time.Hour)))
	assert.False(t, s.UpToDate(loc, time.Now().Add(time.Hour)))

	got, err := s.Load(loc)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, got.NRGBAAt(1, 2))
	assert.Equal(t, color.NRGBA{}, got.NRGBAAt(0, 0))

	_, err = s.Load(primitives.RegionLocation{X: 9, Z: 9})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFailedSaveKeepsPreviousTile(t *testing.T) {
	dir := t.TempDir()
	s := NewTileStore(dir, nil)
	loc := primitives.RegionLocation{}
	_, err := s.Save(loc, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	before, err := os.ReadFile(s.TilePath(loc))
	require.NoError(t, err)

	_, err = s.Save(loc, image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)

	after, err := os.ReadFile(s.TilePath(loc))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}
