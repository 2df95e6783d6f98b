package palette

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBlockColors(t *testing.T) {
	c := DefaultBlockColors()
	assert.Equal(t, uint32(0), c.Air())

	col, inf := c.Lookup(1, 0)
	assert.Equal(t, uint32(0xFF7D7D7D), col)
	assert.Equal(t, InfluenceNone, inf)

	col, _ = c.Lookup(1, 1)
	assert.Equal(t, uint32(0xFF9A6C59), col, "variant entry overrides whole-id one")
	col, _ = c.Lookup(1, 2)
	assert.Equal(t, uint32(0xFF7D7D7D), col, "other variants keep whole-id color")

	_, inf = c.Lookup(2, 0)
	assert.Equal(t, InfluenceGrass, inf)
	_, inf = c.Lookup(9, 7)
	assert.Equal(t, InfluenceWater, inf)
	_, inf = c.Lookup(18, 0)
	assert.Equal(t, InfluenceFoliage, inf)
	_, inf = c.Lookup(18, 1)
	assert.Equal(t, InfluenceNone, inf)

	col, _ = c.Lookup(4000, 3)
	assert.Equal(t, uint32(0xFFFF00FF), col, "unlisted ids use default color")
}

func TestParseBlockColorsErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"id range":    "blocks:\n  - {id: 4096, color: FFFFFFFF}\n",
		"data range":  "blocks:\n  - {id: 1, data: 16, color: FFFFFFFF}\n",
		"color":       "blocks:\n  - {id: 1, color: nope}\n",
		"influence":   "blocks:\n  - {id: 1, color: FFFFFFFF, influence: lava}\n",
		"unknown key": "blocks:\n  - {id: 1, colour: FFFFFFFF}\n",
		"default":     "default: 12\n",
	} {
		_, err := ParseBlockColors([]byte(doc))
		assert.True(t, errors.Is(err, ErrBadTable), "%s: %v", name, err)
	}
}

func TestBiomeColors(t *testing.T) {
	c := DefaultBiomeColors()
	def := c.Get(UnknownBiome)
	assert.Equal(t, uint32(0xFF8DB360), def.Grass)
	assert.Equal(t, uint32(0xFF3F76E4), def.Water)

	assert.Equal(t, uint32(0xFF91BD59), c.Grass(1))
	assert.Equal(t, uint32(0xFF77AB2F), c.Foliage(1))
	assert.Equal(t, def.Water, c.Water(1), "missing water falls back to default")
	assert.Equal(t, uint32(0xFF617B64), c.Water(6))
	assert.Equal(t, def, c.Get(100), "unlisted biome uses default")
	assert.Equal(t, def, c.Get(-20))

	tint, ok := c.Tint(1, InfluenceGrass)
	assert.True(t, ok)
	assert.Equal(t, c.Grass(1), tint)
	_, ok = c.Tint(1, InfluenceNone)
	assert.False(t, ok)
}

func TestParseBiomeColorsErrors(t *testing.T) {
	_, err := ParseBiomeColors([]byte("biomes:\n  - {id: 255, grass: FFFFFF}\n"))
	assert.ErrorIs(t, err, ErrBadTable)
	_, err = ParseBiomeColors([]byte("biomes:\n  - {id: 3, grass: 12345}\n"))
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	bp := filepath.Join(dir, "blocks.yaml")
	require.NoError(t, os.WriteFile(bp, []byte("blocks:\n  - {id: 1, color: \"FF010203\"}\n"), 0644))

	blocks, biomes, err := Load(bp, "")
	require.NoError(t, err)
	col, _ := blocks.Lookup(1, 0)
	assert.Equal(t, uint32(0xFF010203), col)
	col, _ = blocks.Lookup(2, 0)
	assert.Equal(t, uint32(0), col, "override tables start from transparent default")
	assert.Equal(t, DefaultBiomeColors().Get(1), biomes.Get(1))

	_, _, err = Load(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("biomes: [{id: -4}]\n"), 0644))
	_, _, err = Load("", bad)
	assert.ErrorIs(t, err, ErrBadTable)
}
