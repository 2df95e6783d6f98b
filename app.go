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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/RegionTiles/bigImage"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage/filesystemChunkStorage"
	imagecache "github.com/maxsupermanhd/RegionTiles/imageCache"
	"github.com/maxsupermanhd/RegionTiles/render"
	"github.com/maxsupermanhd/RegionTiles/render/dispatchers"
	"github.com/maxsupermanhd/RegionTiles/render/palette"
	"github.com/maxsupermanhd/RegionTiles/tileIndex"
	"github.com/maxsupermanhd/lac"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type app struct {
	c       *command
	l       *slog.Logger
	report  io.Writer
	store   *imagecache.TileStore
	batch   *dispatchers.BatchRenderer
	bigConf *lac.ConfSubtree
	settle  time.Duration
}

func newApp(c *command, cfg *lac.Conf, l *slog.Logger, report io.Writer) (*app, error) {
	blocks, biomes, err := palette.LoadFromConfig(cfg.SubTree("palette"), c.colorMap, c.biomeMap)
	if err != nil {
		return nil, err
	}
	rend := render.NewRegionRendererFromConfig(cfg.SubTree("render"), blocks, biomes, l)
	store := imagecache.NewTileStoreFromConfig(cfg.SubTree("output"), c.outputDir, l)
	opts := dispatchers.OptionsFromConfig(cfg.SubTree("dispatch"))
	opts.Force = opts.Force || c.force
	if c.debug {
		l.Debug("Render settings\n" + spew.Sdump(c, opts))
	}
	return &app{
		c:       c,
		l:       l,
		report:  report,
		store:   store,
		batch:   dispatchers.NewBatchRenderer(opts, rend, store, l),
		bigConf: cfg.SubTree("bigImage"),
		settle:  defaultWatchSettle,
	}, nil
}

// bigImageScale prefers the command line factor over the configured
// percentage.
func (a *app) bigImageScale() float64 {
	if a.c.bigImageScale > 0 {
		return a.c.bigImageScale
	}
	return float64(a.bigConf.GetDSInt(100, "scalePercent")) / 100
}

// renderPass scans inputs, renders stale regions and writes requested
// extras. Errors of single regions are collected into the result,
// unreadable inputs wrap errBadInputs.
func (a *app) renderPass(ctx context.Context) error {
	rm, err := filesystemChunkStorage.ScanRegions(a.c.inputs, a.l)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadInputs, err)
	}
	a.l.Info("Rendering regions", "count", len(rm.Regions), "output", a.store.Root())
	var errs *multierror.Error
	st, err := a.batch.RenderAll(ctx, rm.Regions)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if a.c.debug {
		st.Report(a.report)
		hostReport(a.report)
	}
	if errors.Is(err, context.Canceled) {
		return errs.ErrorOrNil()
	}

	if a.c.shouldCreateTileHTML() {
		a.l.Debug("Writing HTML tiles")
		if _, err := tileIndex.Write(a.store.Root(), rm.Bounds, a.store); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("writing tile index: %w", err))
		}
	}
	if a.c.imageTree {
		a.l.Warn("Image tree output is not supported, skipping")
	}
	if a.c.bigImage {
		a.l.Debug("Creating big image")
		img, err := bigImage.Merge(rm, a.store, a.bigImageScale(), a.l)
		if err == nil {
			_, err = bigImage.Save(a.store.Root(), img)
		}
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("creating big image: %w", err))
		}
	}
	return errs.ErrorOrNil()
}

func hostReport(w io.Writer) {
	info, err := host.Info()
	if err == nil {
		fmt.Fprintf(w, "Host %s: %s %s, kernel %s, %d CPUs\n", info.Hostname, info.Platform, info.PlatformVersion, info.KernelVersion, runtime.NumCPU())
	}
	vm, err := mem.VirtualMemory()
	if err == nil {
		fmt.Fprintf(w, "Memory: %s available of %s (%.1f%% used)\n", humanize.Bytes(vm.Available), humanize.Bytes(vm.Total), vm.UsedPercent)
	}
}
