package filesystemChunkStorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	"github.com/maxsupermanhd/RegionTiles/primitives"
	"github.com/maxsupermanhd/RegionTiles/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRegionPath(t *testing.T) {
	var x, z int
	assert.True(t, ExtractRegionPath("r.-1.12.mca", &x, &z))
	assert.Equal(t, -1, x)
	assert.Equal(t, 12, z)
	assert.True(t, ExtractRegionPath("r.0.0.mca", nil, nil))
	for _, n := range []string{"r.1.mca", "r.a.b.mca", "r.1.2.mcr", "xr.1.2.mca", "r.1.2.mca.bak"} {
		assert.False(t, ExtractRegionPath(n, nil, nil), n)
	}
	assert.Equal(t, "r.-4.5.mca", RegionFileName(primitives.RegionLocation{X: -4, Z: 5}))
}

func TestRegionColumns(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("column payload")
	sectors := map[testutil.Pos]testutil.Sector{}
	for i, c := range []byte{testutil.CompressionGzip, testutil.CompressionZlib, testutil.CompressionNone} {
		s, err := testutil.Compress(c, payload)
		require.NoError(t, err)
		sectors[testutil.Pos{X: i, Z: 31}] = s
	}
	sectors[testutil.Pos{X: 5, Z: 5}] = testutil.Sector{Compression: testutil.CompressionZlib, Payload: []byte("not zlib")}
	sectors[testutil.Pos{X: 6, Z: 5}] = testutil.Sector{Compression: 42, Payload: payload}
	path, err := testutil.WriteRegionSectors(dir, primitives.RegionLocation{X: 2, Z: 3}, sectors)
	require.NoError(t, err)

	r, err := OpenRegion(path)
	require.NoError(t, err)
	defer r.Close()
	assert.False(t, r.ModTime().IsZero())

	for i := 0; i < 3; i++ {
		d, err := r.ColumnData(i, 31)
		require.NoError(t, err)
		assert.Equal(t, payload, d)
	}
	d, err := r.ColumnData(7, 7)
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = r.ColumnData(5, 5)
	assert.ErrorIs(t, err, chunkStorage.ErrCorruptColumn)
	_, err = r.ColumnData(6, 5)
	assert.ErrorIs(t, err, chunkStorage.ErrCorruptColumn)
	_, err = r.ColumnData(32, 0)
	assert.Error(t, err)
}

func TestOpenRegionErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenRegion(filepath.Join(dir, "r.0.0.mca"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	short := filepath.Join(dir, "r.1.0.mca")
	require.NoError(t, os.WriteFile(short, []byte{1, 2, 3}, 0644))
	_, err = Open(short)
	assert.ErrorIs(t, err, chunkStorage.ErrNotRegionFile)
}

func TestScanRegions(t *testing.T) {
	dir := t.TempDir()
	regionDir := filepath.Join(dir, "region")
	for _, loc := range []primitives.RegionLocation{{X: 0, Z: 0}, {X: -2, Z: 1}, {X: 3, Z: -1}} {
		_, err := testutil.WriteRegion(regionDir, loc, nil)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(regionDir, "r.9.9.mca.d"), 0755))
	extra, err := testutil.WriteRegion(filepath.Join(dir, "other"), primitives.RegionLocation{X: 7, Z: 7}, nil)
	require.NoError(t, err)

	m, err := ScanRegions([]string{regionDir, extra, filepath.Join(regionDir, "r.0.0.mca")}, nil)
	require.NoError(t, err)
	require.Len(t, m.Regions, 4)
	assert.Equal(t, primitives.RegionLocation{X: 3, Z: -1}, m.Regions[0].Loc)
	assert.Equal(t, primitives.RegionLocation{X: 0, Z: 0}, m.Regions[1].Loc)
	assert.Equal(t, primitives.RegionLocation{X: -2, Z: 1}, m.Regions[2].Loc)
	assert.Equal(t, primitives.RegionLocation{X: -2, Z: -1}, m.Bounds.Min)
	assert.Equal(t, primitives.RegionLocation{X: 7, Z: 7}, m.Bounds.Max)
	r, ok := m.Get(primitives.RegionLocation{X: 7, Z: 7})
	require.True(t, ok)
	assert.Equal(t, extra, r.Path)
	assert.False(t, r.ModTime.IsZero())

	assert.True(t, SingleDirectory([]string{regionDir}))
	assert.False(t, SingleDirectory([]string{regionDir, extra}))
	assert.False(t, SingleDirectory([]string{extra}))

	_, err = ScanRegions([]string{filepath.Join(dir, "missing")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
