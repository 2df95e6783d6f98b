package imagecache

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/maxsupermanhd/RegionTiles/primitives"
)

// Save writes img as the tile of loc. The image goes to a uniquely
// named temporary file first and is renamed over the old tile, so a
// failed save leaves the previous tile intact. Returns bytes written.
func (c *TileStore) Save(loc primitives.RegionLocation, img image.Image) (int64, error) {
	if err := os.MkdirAll(c.root, 0764); err != nil {
		return 0, err
	}
	storePath := c.TilePath(loc)
	tmp := filepath.Join(c.root, ".tile-"+uuid.NewString()+".tmp")
	n, err := writePNG(tmp, img)
	if err != nil {
		if rerr := os.Remove(tmp); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			c.logger.Warn("Failed to remove temporary tile", "path", tmp, "err", rerr)
		}
		return 0, fmt.Errorf("writing %s: %w", storePath, err)
	}
	if err := os.Rename(tmp, storePath); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing %s: %w", storePath, err)
	}
	return n, nil
}

func writePNG(fp string, img image.Image) (int64, error) {
	file, err := os.Create(fp)
	if err != nil {
		return 0, err
	}
	err = png.Encode(file, img)
	if err != nil {
		file.Close()
		return 0, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return 0, err
	}
	return info.Size(), file.Close()
}

// Load reads tile of loc, os.ErrNotExist is returned as is for missing
// tiles.
func (c *TileStore) Load(loc primitives.RegionLocation) (*image.NRGBA, error) {
	fp := c.TilePath(loc)
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ii, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fp, err)
	}
	if iinrgba, ok := ii.(*image.NRGBA); ok {
		return iinrgba, nil
	}
	b := ii.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), ii, b.Min, draw.Src)
	return dst, nil
}
