package render

import (
	"github.com/maxsupermanhd/RegionTiles/render/argb"
)

// CompositeColumn stacks voxels of column x, z (0..15) bottom to top
// into one premultiplied color. Height is the absolute Y of the topmost
// voxel with alpha at or above the cutoff, 0 if there is none.
func (r *RegionRenderer) CompositeColumn(col *Column, x, z int) (color uint32, height int16) {
	biome := col.Biomes[z*16+x]
	for s := 0; s < SectionsPerColumn; s++ {
		if !col.Populated[s] {
			color = argb.Overlay(color, r.air16)
			continue
		}
		sec := &col.Sections[s]
		absY := s * 16
		for idx, y := z*16+x, 0; y < 16; idx, y = idx+256, y+1 {
			c, inf := r.blocks.Lookup(sec.Blocks[idx], sec.Data[idx])
			if tint, ok := r.biomes.Tint(biome, inf); ok {
				c = argb.MultiplySolid(c, tint)
			}
			color = argb.Overlay(color, c)
			if argb.Alpha(c) >= r.cutoff {
				height = int16(absY + y)
			}
		}
	}
	return
}
