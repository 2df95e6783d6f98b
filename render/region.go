package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	"github.com/maxsupermanhd/RegionTiles/render/argb"
	"github.com/maxsupermanhd/RegionTiles/lib/nbtwalk"
	"github.com/maxsupermanhd/RegionTiles/primitives"
)

// TileSize is the side of a region tile in pixels, one per column of voxels.
const TileSize = primitives.RegionSize * 16

// ColumnReader is the part of chunkStorage.RegionSource rendering needs.
type ColumnReader interface {
	ColumnData(cx, cz int) ([]byte, error)
}

// Scratch is per-worker memory reused between regions.
type Scratch struct {
	Column  Column
	Colors  []uint32
	Heights []int16
}

func NewScratch() *Scratch {
	return &Scratch{
		Colors:  make([]uint32, TileSize*TileSize),
		Heights: make([]int16, TileSize*TileSize),
	}
}

func (sc *Scratch) reset() {
	clear(sc.Colors)
	clear(sc.Heights)
}

// loadColumn reads and decodes one column into sc.Column. Returns false
// for columns that were never saved.
func (r *RegionRenderer) loadColumn(src ColumnReader, cx, cz int, sc *Scratch) (bool, error) {
	data, err := src.ColumnData(cx, cz)
	if err != nil {
		sc.Column.Reset()
		return true, err
	}
	if data == nil {
		return false, nil
	}
	root, err := nbtwalk.Parse(data)
	if err != nil {
		sc.Column.Reset()
		return true, fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	return true, DecodeColumn(root, &sc.Column)
}

// PreRender composites every column of the region into sc.Colors
// (premultiplied) and sc.Heights. Columns that fail to load are logged
// and drawn as empty air, only errors not confined to a column are
// returned.
func (r *RegionRenderer) PreRender(src ColumnReader, sc *Scratch, st *Stats) error {
	for cz := 0; cz < primitives.RegionSize; cz++ {
		for cx := 0; cx < primitives.RegionSize; cx++ {
			start := time.Now()
			present, err := r.loadColumn(src, cx, cz, sc)
			st.RegionLoading += time.Since(start)
			if err != nil {
				if !errors.Is(err, ErrMalformedColumn) && !errors.Is(err, chunkStorage.ErrCorruptColumn) {
					return fmt.Errorf("column %d:%d: %w", cx, cz, err)
				}
				r.l.Warn("Failed to load column, drawing it empty", "cx", cx, "cz", cz, "err", err)
				st.BrokenCount++
			}
			if !present {
				continue
			}
			st.ColumnCount++
			st.SectionCount += sc.Column.PopulatedCount()

			start = time.Now()
			for z := 0; z < 16; z++ {
				for x := 0; x < 16; x++ {
					i := TileSize*(cz*16+z) + 16*cx + x
					sc.Colors[i], sc.Heights[i] = r.CompositeColumn(&sc.Column, x, z)
				}
			}
			st.PreRendering += time.Since(start)
		}
	}
	return nil
}

// RenderWith renders a region reusing sc. The returned image does not
// alias sc.
func (r *RegionRenderer) RenderWith(src ColumnReader, sc *Scratch) (*image.NRGBA, Stats, error) {
	var st Stats
	sc.reset()
	if err := r.PreRender(src, sc, &st); err != nil {
		return nil, st, err
	}
	start := time.Now()
	DemultiplyAlpha(sc.Colors)
	Shade(sc.Heights, sc.Colors)
	img := ToImage(sc.Colors)
	st.PostProcessing += time.Since(start)
	return img, st, nil
}

func (r *RegionRenderer) Render(src ColumnReader) (*image.NRGBA, Stats, error) {
	return r.RenderWith(src, NewScratch())
}

// ToImage copies a straight alpha ARGB tile buffer into an image.
func ToImage(colors []uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))
	for i, c := range colors {
		n := argb.ToNRGBA(c)
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = n.R, n.G, n.B, n.A
	}
	return img
}
