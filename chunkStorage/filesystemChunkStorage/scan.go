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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	"github.com/maxsupermanhd/RegionTiles/primitives"
)

func dirExists(p string) bool {
	fi, err := os.Stat(p)
	if err == nil {
		return fi.IsDir()
	} else {
		return false
	}
}

func fileModtime(p string) time.Time {
	fi, err := os.Stat(p)
	if err == nil {
		return fi.ModTime()
	}
	return time.Time{}
}

// SingleDirectory reports whether paths is exactly one directory.
func SingleDirectory(paths []string) bool {
	return len(paths) == 1 && dirExists(paths[0])
}

// ScanRegions collects region files given directly or found (not
// recursively) in given directories. Files not named like regions are
// skipped, missing paths are an error.
func ScanRegions(paths []string, l *slog.Logger) (*chunkStorage.RegionMap, error) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &chunkStorage.RegionMap{}
	add := func(p string) {
		var rx, rz int
		if !ExtractRegionPath(filepath.Base(p), &rx, &rz) {
			l.Debug("Skipping non-region file", "path", p)
			return
		}
		loc := primitives.RegionLocation{X: rx, Z: rz}
		if !m.Add(chunkStorage.RegionFile{
			Loc:     loc,
			Path:    p,
			ModTime: fileModtime(p),
		}) {
			l.Warn("Region given more than once, keeping first", "region", loc, "path", p)
		}
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			add(filepath.Join(p, e.Name()))
		}
	}
	m.Sort()
	return m, nil
}
