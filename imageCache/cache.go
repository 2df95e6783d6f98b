package imagecache

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/maxsupermanhd/RegionTiles/primitives"
	"github.com/maxsupermanhd/lac"
)

// TileStore keeps one PNG per region in a flat directory, named
// tile.<x>.<z>.png.
type TileStore struct {
	root   string
	logger *slog.Logger
}

func NewTileStore(root string, logger *slog.Logger) *TileStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TileStore{
		root:   root,
		logger: logger,
	}
}

// NewTileStoreFromConfig reads "root", overridden by root when it is set.
func NewTileStoreFromConfig(cfg *lac.ConfSubtree, root string, logger *slog.Logger) *TileStore {
	if root == "" {
		root = cfg.GetDSString("tiles", "root")
	}
	return NewTileStore(root, logger)
}

func (c *TileStore) Root() string {
	return c.root
}

func TileName(loc primitives.RegionLocation) string {
	return fmt.Sprintf("tile.%d.%d.png", loc.X, loc.Z)
}

func (c *TileStore) TilePath(loc primitives.RegionLocation) string {
	return filepath.Join(c.root, TileName(loc))
}

// ModTime is zero when the tile does not exist.
func (c *TileStore) ModTime(loc primitives.RegionLocation) time.Time {
	return c.getModTimeFp(c.TilePath(loc))
}

func (c *TileStore) Exists(loc primitives.RegionLocation) bool {
	info, err := os.Stat(c.TilePath(loc))
	return err == nil && info.Mode().IsRegular()
}

// UpToDate reports whether the tile exists and is strictly newer than t.
func (c *TileStore) UpToDate(loc primitives.RegionLocation, t time.Time) bool {
	mt := c.ModTime(loc)
	return !mt.IsZero() && mt.After(t)
}

func (c *TileStore) getModTimeFp(fp string) time.Time {
	info, err := os.Stat(fp)
	if err != nil || !info.Mode().IsRegular() {
		return time.Time{}
	}
	return info.ModTime()
}
