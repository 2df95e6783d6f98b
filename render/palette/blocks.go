package palette

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/maxsupermanhd/RegionTiles/render/argb"
	"gopkg.in/yaml.v3"
)

// Influence tells which biome tint modulates a block color.
type Influence uint8

const (
	InfluenceNone Influence = iota
	InfluenceGrass
	InfluenceFoliage
	InfluenceWater
)

func (i Influence) String() string {
	switch i {
	case InfluenceGrass:
		return "grass"
	case InfluenceFoliage:
		return "foliage"
	case InfluenceWater:
		return "water"
	default:
		return "none"
	}
}

func ParseInfluence(s string) (Influence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "default":
		return InfluenceNone, nil
	case "grass":
		return InfluenceGrass, nil
	case "foliage":
		return InfluenceFoliage, nil
	case "water":
		return InfluenceWater, nil
	}
	return InfluenceNone, fmt.Errorf("unknown influence %q", s)
}

const (
	// MaxBlockID is the largest block type addressable with 8 base bits
	// and the 4 bit extension nybble.
	MaxBlockID   = 1<<12 - 1
	variantCount = 16
)

var ErrBadTable = errors.New("bad color table")

type Entry struct {
	Color     uint32
	Influence Influence
}

// BlockColors maps (block type, variant) pairs to colors. Immutable
// after load, safe for concurrent readers.
type BlockColors struct {
	entries []Entry
}

func (c *BlockColors) Lookup(id uint16, variant uint8) (uint32, Influence) {
	e := c.entries[int(id&MaxBlockID)*variantCount+int(variant&0x0F)]
	return e.Color, e.Influence
}

// Air is the color of block 0 variant 0.
func (c *BlockColors) Air() uint32 {
	return c.entries[0].Color
}

type blockColorsFile struct {
	Default string `yaml:"default"`
	Blocks  []struct {
		ID        int    `yaml:"id"`
		Data      *int   `yaml:"data"`
		Name      string `yaml:"name"`
		Color     string `yaml:"color"`
		Influence string `yaml:"influence"`
	} `yaml:"blocks"`
}

//go:embed default_blocks.yaml
var defaultBlocksYAML []byte

func DefaultBlockColors() *BlockColors {
	c, err := ParseBlockColors(defaultBlocksYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func LoadBlockColors(path string) (*BlockColors, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseBlockColors(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func ParseBlockColors(b []byte) (*BlockColors, error) {
	var f blockColorsFile
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	def := uint32(0)
	if f.Default != "" {
		var err error
		def, err = argb.ParseHex(f.Default)
		if err != nil {
			return nil, fmt.Errorf("%w: default: %v", ErrBadTable, err)
		}
	}
	c := &BlockColors{entries: make([]Entry, (MaxBlockID+1)*variantCount)}
	for i := range c.entries {
		c.entries[i].Color = def
	}
	// whole-id entries first so per-variant ones win regardless of order
	for pass := 0; pass < 2; pass++ {
		for i, v := range f.Blocks {
			if (v.Data != nil) != (pass == 1) {
				continue
			}
			if v.ID < 0 || v.ID > MaxBlockID {
				return nil, fmt.Errorf("%w: entry %d (%s): id %d out of range", ErrBadTable, i, v.Name, v.ID)
			}
			col, err := argb.ParseHex(v.Color)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d (%s): %v", ErrBadTable, i, v.Name, err)
			}
			inf, err := ParseInfluence(v.Influence)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d (%s): %v", ErrBadTable, i, v.Name, err)
			}
			e := Entry{Color: col, Influence: inf}
			if v.Data == nil {
				for d := 0; d < variantCount; d++ {
					c.entries[v.ID*variantCount+d] = e
				}
				continue
			}
			if *v.Data < 0 || *v.Data >= variantCount {
				return nil, fmt.Errorf("%w: entry %d (%s): data %d out of range", ErrBadTable, i, v.Name, *v.Data)
			}
			c.entries[v.ID*variantCount+*v.Data] = e
		}
	}
	return c, nil
}
