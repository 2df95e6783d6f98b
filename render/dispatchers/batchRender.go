package dispatchers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	"github.com/maxsupermanhd/RegionTiles/chunkStorage/filesystemChunkStorage"
	imagecache "github.com/maxsupermanhd/RegionTiles/imageCache"
	"github.com/maxsupermanhd/RegionTiles/primitives"
	"github.com/maxsupermanhd/RegionTiles/render"
	"github.com/maxsupermanhd/lac"
	"github.com/shirou/gopsutil/mem"
	"golang.org/x/sync/errgroup"
)

// regionFootprint is a rough upper bound of memory one worker holds
// while rendering and encoding a region.
const regionFootprint = 8 << 20

type RegionState int

const (
	StatePending RegionState = iota
	StateSkipped
	StateRendering
	StateDone
	StateFailed
)

func (s RegionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSkipped:
		return "skipped"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("RegionState(%d)", int(s))
}

type renderTask struct {
	region chunkStorage.RegionFile
}

// BatchRenderer renders regions to tiles on a bounded pool of workers.
type BatchRenderer struct {
	rend    *render.RegionRenderer
	store   *imagecache.TileStore
	threads int
	qlen    int
	l       *slog.Logger

	// Force renders regions even when their tiles are newer.
	Force bool
	// Open defaults to the filesystem region reader.
	Open chunkStorage.Opener
	// OnState, when set, is called from workers on every state change.
	OnState func(loc primitives.RegionLocation, s RegionState)
}

type Options struct {
	Threads  int
	QueueLen int
	Force    bool
}

func OptionsFromConfig(cfg *lac.ConfSubtree) Options {
	return Options{
		Threads:  cfg.GetDSInt(runtime.NumCPU(), "rendererThreadCount"),
		QueueLen: cfg.GetDSInt(64, "queueLen"),
		Force:    cfg.GetDSBool(false, "force"),
	}
}

func NewBatchRenderer(opts Options, rend *render.RegionRenderer, store *imagecache.TileStore, l *slog.Logger) *BatchRenderer {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BatchRenderer{
		rend:    rend,
		store:   store,
		threads: opts.Threads,
		qlen:    opts.QueueLen,
		l:       l,
		Force:   opts.Force,
		Open:    filesystemChunkStorage.Open,
	}
}

// workerCount caps configured thread count by available memory and
// amount of work.
func (b *BatchRenderer) workerCount(regions int) int {
	n := b.threads
	if n <= 0 {
		n = runtime.NumCPU()
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		b.l.Debug("Failed to read available memory, not capping workers", "err", err)
	} else if byMem := int(vm.Available / regionFootprint); byMem < n {
		b.l.Info("Limiting workers by available memory", "configured", n, "limit", byMem)
		n = byMem
	}
	return max(1, min(n, regions))
}

func (b *BatchRenderer) setState(loc primitives.RegionLocation, s RegionState) {
	if b.OnState != nil {
		b.OnState(loc, s)
	}
}

// RenderAll renders every region that is not up to date. Failures of
// single regions are collected and do not stop the batch. Cancelling
// ctx stops dispatching new regions, ones in progress are finished.
// Total of the returned stats is wall time of the whole batch.
func (b *BatchRenderer) RenderAll(ctx context.Context, regions []chunkStorage.RegionFile) (render.Stats, error) {
	start := time.Now()
	var (
		total render.Stats
		errs  *multierror.Error
		mu    sync.Mutex
	)
	if len(regions) == 0 {
		b.l.Warn("No regions found")
		return total, nil
	}
	for _, r := range regions {
		b.setState(r.Loc, StatePending)
	}

	queue := make(chan renderTask, max(b.qlen, 1))
	workers := b.workerCount(len(regions))
	b.l.Debug("Starting render workers", "workers", workers, "regions", len(regions))
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			sc := render.NewScratch()
			for t := range queue {
				st, err := b.renderRegion(t, sc)
				mu.Lock()
				total.Merge(st)
				if err != nil {
					errs = multierror.Append(errs, err)
				}
				mu.Unlock()
			}
			return nil
		})
	}

dispatchLoop:
	for _, r := range regions {
		if ctx.Err() != nil {
			b.l.Info("Render cancelled, waiting for regions in progress")
			break
		}
		select {
		case <-ctx.Done():
			b.l.Info("Render cancelled, waiting for regions in progress")
			break dispatchLoop
		case queue <- renderTask{region: r}:
		}
	}
	close(queue)
	g.Wait()

	if err := ctx.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	total.Total = time.Since(start)
	return total, errs.ErrorOrNil()
}

// sourceModTime prefers the timestamp of the opened file over the one
// recorded at scan time.
func sourceModTime(src chunkStorage.RegionSource, r chunkStorage.RegionFile) time.Time {
	if mt := src.ModTime(); !mt.IsZero() {
		return mt
	}
	return r.ModTime
}

func (b *BatchRenderer) renderRegion(t renderTask, sc *render.Scratch) (st render.Stats, err error) {
	loc := t.region.Loc
	l := b.l.With("region", loc.String())
	start := time.Now()
	defer func() {
		st.Total = time.Since(start)
		if err != nil {
			st.FailedCount++
			b.setState(loc, StateFailed)
		}
	}()

	src, err := b.Open(t.region.Path)
	if err != nil {
		l.Error("Failed to open region", "path", t.region.Path, "err", err)
		return st, fmt.Errorf("region %s: %w", loc, err)
	}
	defer chunkStorage.CloseSource(l, src)

	if !b.Force {
		if mt := sourceModTime(src, t.region); !mt.IsZero() && b.store.UpToDate(loc, mt) {
			l.Debug("Image already up-to-date")
			st.SkippedCount++
			b.setState(loc, StateSkipped)
			return st, nil
		}
	}
	b.setState(loc, StateRendering)
	l.Debug("Generating " + imagecache.TileName(loc))

	img, rst, err := b.rend.WithLogger(l).RenderWith(src, sc)
	st.Merge(rst)
	if err != nil {
		l.Error("Failed to render region", "err", err)
		return st, fmt.Errorf("region %s: %w", loc, err)
	}

	saveStart := time.Now()
	n, err := b.store.Save(loc, img)
	st.ImageSaving += time.Since(saveStart)
	if err != nil {
		l.Error("Failed to write tile, keeping previous one", "err", err)
		return st, fmt.Errorf("region %s: %w", loc, err)
	}
	st.BytesWritten += n
	st.RegionCount++
	b.setState(loc, StateDone)
	return st, nil
}
