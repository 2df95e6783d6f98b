package render

import (
	"io"
	"log/slog"

	"github.com/maxsupermanhd/RegionTiles/render/argb"
	"github.com/maxsupermanhd/RegionTiles/render/palette"
	"github.com/maxsupermanhd/lac"
)

const (
	// DefaultShadeOpacityCutoff is the alpha below which voxels do not
	// count as surface for the height field.
	DefaultShadeOpacityCutoff = 0x20
	BaseHeight                = 64
)

// RegionRenderer turns regions into tiles. It holds only immutable
// tables and is safe for concurrent use, per-region state lives in
// Scratch.
type RegionRenderer struct {
	blocks *palette.BlockColors
	biomes *palette.BiomeColors
	air16  uint32
	cutoff uint32
	l      *slog.Logger
}

// NewRegionRenderer uses built-in tables for nil arguments.
func NewRegionRenderer(blocks *palette.BlockColors, biomes *palette.BiomeColors, l *slog.Logger) *RegionRenderer {
	if blocks == nil {
		blocks = palette.DefaultBlockColors()
	}
	if biomes == nil {
		biomes = palette.DefaultBiomeColors()
	}
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RegionRenderer{
		blocks: blocks,
		biomes: biomes,
		air16:  argb.OverlayN(0, blocks.Air(), 16),
		cutoff: DefaultShadeOpacityCutoff,
		l:      l,
	}
}

// NewRegionRendererFromConfig reads shadeOpacityCutoff from cfg.
func NewRegionRendererFromConfig(cfg *lac.ConfSubtree, blocks *palette.BlockColors, biomes *palette.BiomeColors, l *slog.Logger) *RegionRenderer {
	r := NewRegionRenderer(blocks, biomes, l)
	cutoff := cfg.GetDSInt(DefaultShadeOpacityCutoff, "shadeOpacityCutoff")
	if cutoff < 0 || cutoff > 0xFF {
		r.l.Warn("Shade opacity cutoff out of range, using default", "value", cutoff, "default", DefaultShadeOpacityCutoff)
		cutoff = DefaultShadeOpacityCutoff
	}
	r.cutoff = uint32(cutoff)
	return r
}

// WithLogger returns a copy sharing tables but logging to l.
func (r *RegionRenderer) WithLogger(l *slog.Logger) *RegionRenderer {
	c := *r
	c.l = l
	return &c
}

// Air16 is the color of a whole empty section seen from above.
func (r *RegionRenderer) Air16() uint32 {
	return r.air16
}

func (r *RegionRenderer) ShadeOpacityCutoff() uint32 {
	return r.cutoff
}
