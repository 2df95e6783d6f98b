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

package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage/filesystemChunkStorage"
)

// defaultWatchSettle is how long region files must stay quiet before a pass.
const defaultWatchSettle = 2 * time.Second

func watchDirs(inputs []string) []string {
	seen := map[string]bool{}
	ret := []string{}
	for _, p := range inputs {
		d := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			d = filepath.Dir(p)
		}
		if !seen[d] {
			seen[d] = true
			ret = append(ret, d)
		}
	}
	return ret
}

func isRegionEvent(e fsnotify.Event) bool {
	if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filesystemChunkStorage.ExtractRegionPath(filepath.Base(e.Name), nil, nil)
}

// watch runs a render pass every time region files in the inputs
// change, until ctx is cancelled.
func (a *app) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, d := range watchDirs(a.c.inputs) {
		if err := watcher.Add(d); err != nil {
			return err
		}
	}
	a.l.Info("Watching for region changes")
	settle := time.NewTimer(a.settle)
	settle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				a.l.Warn("Region watcher failed to read from events channel")
				return nil
			}
			if isRegionEvent(event) {
				a.l.Debug("Region changed", "event", event.String())
				settle.Reset(a.settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.l.Warn("Region watcher error", "err", err)
		case <-settle.C:
			if err := a.renderPass(ctx); err != nil {
				a.l.Error("Render pass finished with errors", "err", err)
			}
		}
	}
}
