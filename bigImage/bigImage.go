package bigImage

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maxsupermanhd/RegionTiles/chunkStorage"
	imagecache "github.com/maxsupermanhd/RegionTiles/imageCache"
	"github.com/maxsupermanhd/RegionTiles/render"
	"github.com/nfnt/resize"
)

const FileName = "big.png"

var ErrNothingToMerge = errors.New("no regions to merge")

// TileSide returns side of a single tile inside the merged image.
// Scales outside (0, 1) keep tiles at full size.
func TileSide(scale float64) int {
	if scale <= 0 || scale >= 1 {
		return render.TileSize
	}
	return max(1, int(float64(render.TileSize)*scale+0.5))
}

// Merge places every existing tile of regions onto a single image, tile
// of region at bounds minimum goes to the top left corner. Missing and
// unreadable tiles are left transparent.
func Merge(regions *chunkStorage.RegionMap, store *imagecache.TileStore, scale float64, l *slog.Logger) (*image.NRGBA, error) {
	if regions == nil || regions.Bounds.Empty() {
		return nil, ErrNothingToMerge
	}
	side := TileSide(scale)
	b := regions.Bounds
	img := image.NewNRGBA(image.Rect(0, 0, b.Width()*side, b.Depth()*side))
	for _, r := range regions.Regions {
		tile, err := store.Load(r.Loc)
		if err != nil {
			if l != nil && !errors.Is(err, os.ErrNotExist) {
				l.Warn("Failed to load tile for big image", "region", r.Loc.String(), "err", err)
			}
			continue
		}
		var src image.Image = tile
		if side != tile.Bounds().Dx() || side != tile.Bounds().Dy() {
			src = resize.Resize(uint(side), uint(side), tile, resize.Bilinear)
		}
		px := (r.Loc.X - b.Min.X) * side
		pz := (r.Loc.Z - b.Min.Z) * side
		draw.Draw(img, image.Rect(px, pz, px+side, pz+side), src, src.Bounds().Min, draw.Src)
	}
	return img, nil
}

// Save writes img as big.png into dir.
func Save(dir string, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0764); err != nil {
		return "", err
	}
	fp := filepath.Join(dir, FileName)
	f, err := os.Create(fp)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding %s: %w", fp, err)
	}
	return fp, f.Close()
}
