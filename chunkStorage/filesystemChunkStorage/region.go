/*
	RegionTiles, top-down tile renderer for block game regions
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package filesystemChunkStorage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/Tnze/go-mc/save/region"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	"github.com/maxsupermanhd/RegionTiles/primitives"
)

const (
	CompressionGzip = 1
	CompressionZlib = 2
	CompressionNone = 3
)

var (
	regionFnameRegexp = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)
)

func RegionFileName(loc primitives.RegionLocation) string {
	return fmt.Sprintf("r.%d.%d.mca", loc.X, loc.Z)
}

func ExtractRegionPath(fname string, xx, zz *int) bool {
	r := regionFnameRegexp.FindAllStringSubmatch(fname, -1)
	if len(r) != 1 {
		return false
	}
	if len(r[0]) != 3 {
		return false
	}
	var err error
	var x, z int
	x, err = strconv.Atoi(r[0][1])
	if err != nil {
		return false
	}
	z, err = strconv.Atoi(r[0][2])
	if err != nil {
		return false
	}
	if xx != nil {
		*xx = x
	}
	if zz != nil {
		*zz = z
	}
	return true
}

// Region is a read-only view of one region file.
type Region struct {
	f       *os.File
	reg     *region.Region
	modTime time.Time
}

func OpenRegion(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	reg, err := region.Load(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", chunkStorage.ErrNotRegionFile, path, err)
	}
	return &Region{
		f:       f,
		reg:     reg,
		modTime: info.ModTime(),
	}, nil
}

// Open satisfies chunkStorage.Opener.
func Open(path string) (chunkStorage.RegionSource, error) {
	r, err := OpenRegion(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Region) ModTime() time.Time {
	return r.modTime
}

// ColumnData returns decompressed payload of a column at local
// coordinates cx, cz (0..31).
func (r *Region) ColumnData(cx, cz int) ([]byte, error) {
	if cx < 0 || cx >= primitives.RegionSize || cz < 0 || cz >= primitives.RegionSize {
		return nil, fmt.Errorf("column %d:%d outside of region", cx, cz)
	}
	if !r.reg.ExistSector(cx, cz) {
		return nil, nil
	}
	d, err := r.reg.ReadSector(cx, cz)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sector %d:%d: %v", chunkStorage.ErrCorruptColumn, cx, cz, err)
	}
	return decompress(d)
}

func (r *Region) Close() error {
	return r.f.Close()
}

// decompress takes sector payload starting with compression byte
func decompress(d []byte) ([]byte, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: empty sector", chunkStorage.ErrCorruptColumn)
	}
	var rd io.Reader
	var err error
	switch d[0] {
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", chunkStorage.ErrCorruptColumn, d[0])
	case CompressionGzip:
		rd, err = gzip.NewReader(bytes.NewReader(d[1:]))
	case CompressionZlib:
		rd, err = zlib.NewReader(bytes.NewReader(d[1:]))
	case CompressionNone:
		return d[1:], nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunkStorage.ErrCorruptColumn, err)
	}
	ret, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunkStorage.ErrCorruptColumn, err)
	}
	return ret, nil
}
