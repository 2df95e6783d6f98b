package palette

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/maxsupermanhd/RegionTiles/render/argb"
	"gopkg.in/yaml.v3"
)

// UnknownBiome marks columns stored without biome data.
const UnknownBiome = int8(-1)

type Biome struct {
	Grass, Foliage, Water uint32
}

// BiomeColors is indexed by signed 8 bit biome id, ids without an entry
// (including UnknownBiome) resolve to the default tints.
type BiomeColors struct {
	def    Biome
	biomes [256]Biome
}

func (c *BiomeColors) Get(id int8) Biome {
	if id == UnknownBiome {
		return c.def
	}
	return c.biomes[uint8(id)]
}

func (c *BiomeColors) Grass(id int8) uint32   { return c.Get(id).Grass }
func (c *BiomeColors) Foliage(id int8) uint32 { return c.Get(id).Foliage }
func (c *BiomeColors) Water(id int8) uint32   { return c.Get(id).Water }

// Tint returns the color block color of given influence should be
// multiplied by, ok is false for InfluenceNone.
func (c *BiomeColors) Tint(id int8, inf Influence) (tint uint32, ok bool) {
	switch inf {
	case InfluenceGrass:
		return c.Grass(id), true
	case InfluenceFoliage:
		return c.Foliage(id), true
	case InfluenceWater:
		return c.Water(id), true
	}
	return 0, false
}

type biomeTints struct {
	Grass   string `yaml:"grass"`
	Foliage string `yaml:"foliage"`
	Water   string `yaml:"water"`
}

type biomeColorsFile struct {
	Default biomeTints `yaml:"default"`
	Biomes  []struct {
		ID      int    `yaml:"id"`
		Name    string `yaml:"name"`
		Grass   string `yaml:"grass"`
		Foliage string `yaml:"foliage"`
		Water   string `yaml:"water"`
	} `yaml:"biomes"`
}

//go:embed default_biomes.yaml
var defaultBiomesYAML []byte

func DefaultBiomeColors() *BiomeColors {
	c, err := ParseBiomeColors(defaultBiomesYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func LoadBiomeColors(path string) (*BiomeColors, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseBiomeColors(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (t biomeTints) resolve(fallback Biome) (ret Biome, err error) {
	ret = fallback
	for _, f := range []struct {
		s   string
		dst *uint32
	}{{t.Grass, &ret.Grass}, {t.Foliage, &ret.Foliage}, {t.Water, &ret.Water}} {
		if f.s == "" {
			continue
		}
		*f.dst, err = argb.ParseHex(f.s)
		if err != nil {
			return
		}
	}
	return
}

func ParseBiomeColors(b []byte) (*BiomeColors, error) {
	var f biomeColorsFile
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	white := Biome{Grass: 0xFFFFFFFF, Foliage: 0xFFFFFFFF, Water: 0xFFFFFFFF}
	def, err := f.Default.resolve(white)
	if err != nil {
		return nil, fmt.Errorf("%w: default: %v", ErrBadTable, err)
	}
	c := &BiomeColors{def: def}
	for i := range c.biomes {
		c.biomes[i] = def
	}
	for i, v := range f.Biomes {
		if v.ID < 0 || v.ID > 254 {
			return nil, fmt.Errorf("%w: biome %d (%s): id %d out of range", ErrBadTable, i, v.Name, v.ID)
		}
		c.biomes[v.ID], err = biomeTints{v.Grass, v.Foliage, v.Water}.resolve(def)
		if err != nil {
			return nil, fmt.Errorf("%w: biome %d (%s): %v", ErrBadTable, i, v.Name, err)
		}
	}
	return c, nil
}
