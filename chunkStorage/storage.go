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

package chunkStorage

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/maxsupermanhd/RegionTiles/primitives"
)

var (
	// ErrCorruptColumn marks failures confined to one column payload,
	// the rest of the region stays readable.
	ErrCorruptColumn = errors.New("corrupt column")
	ErrNotRegionFile = errors.New("not a region file")
)

// RegionSource gives access to raw column payloads of one region.
// ColumnData returns nil, nil for columns that were never saved.
type RegionSource interface {
	ColumnData(cx, cz int) ([]byte, error)
	ModTime() time.Time
	Close() error
}

// Opener opens region source by path.
type Opener func(path string) (RegionSource, error)

type RegionFile struct {
	Loc     primitives.RegionLocation
	Path    string
	ModTime time.Time
}

// RegionMap is a set of region files with their bounding rectangle.
type RegionMap struct {
	Regions []RegionFile
	Bounds  primitives.Bounds
	index   map[primitives.RegionLocation]int
}

// Add keeps the first file seen for every location.
func (m *RegionMap) Add(r RegionFile) bool {
	if m.index == nil {
		m.index = map[primitives.RegionLocation]int{}
	}
	if _, ok := m.index[r.Loc]; ok {
		return false
	}
	m.index[r.Loc] = len(m.Regions)
	m.Regions = append(m.Regions, r)
	m.Bounds.Extend(r.Loc)
	return true
}

func (m *RegionMap) Get(loc primitives.RegionLocation) (RegionFile, bool) {
	i, ok := m.index[loc]
	if !ok {
		return RegionFile{}, false
	}
	return m.Regions[i], true
}

// Sort orders regions row by row, north to south and west to east.
func (m *RegionMap) Sort() {
	sort.Slice(m.Regions, func(i, j int) bool {
		a, b := m.Regions[i].Loc, m.Regions[j].Loc
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	for i, r := range m.Regions {
		m.index[r.Loc] = i
	}
}

// CloseSource closes s logging failures, for use in defers.
func CloseSource(l *slog.Logger, s RegionSource) {
	if err := s.Close(); err != nil {
		l.Warn("Failed to close region", "err", err)
	}
}
