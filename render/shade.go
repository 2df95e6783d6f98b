package render

import (
	"github.com/maxsupermanhd/RegionTiles/render/argb"
)

// DemultiplyAlpha converts a premultiplied buffer to straight alpha in place.
func DemultiplyAlpha(colors []uint32) {
	for i := range colors {
		colors[i] = argb.Demultiply(colors[i])
	}
}

// Shade applies relief shading derived from the height field to every
// non-zero pixel of a TileSize x TileSize buffer.
func Shade(heights []int16, colors []uint32) {
	const width, depth = TileSize, TileSize
	idx := 0
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x, idx = x+1, idx+1 {
			if colors[idx] == 0 {
				continue
			}
			var dyx, dyz int
			switch x {
			case 0:
				dyx = int(heights[idx+1]) - int(heights[idx])
			case width - 1:
				dyx = int(heights[idx]) - int(heights[idx-1])
			default:
				dyx = (int(heights[idx+1]) - int(heights[idx-1])) * 2
			}
			switch z {
			case 0:
				dyz = int(heights[idx+width]) - int(heights[idx])
			case depth - 1:
				dyz = int(heights[idx]) - int(heights[idx-width])
			default:
				dyz = (int(heights[idx+width]) - int(heights[idx-width])) * 2
			}
			shade := float32(min(max(dyx+dyz, -10), 10))
			shade = float32(float64(shade) + float64(int(heights[idx])-BaseHeight)/7.0)
			colors[idx] = argb.Shade(colors[idx], int(shade*8))
		}
	}
}
