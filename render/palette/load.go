package palette

import (
	"github.com/maxsupermanhd/lac"
)

// Load returns built-in tables for empty paths and parsed files otherwise.
func Load(blockColorsPath, biomeColorsPath string) (*BlockColors, *BiomeColors, error) {
	blocks := DefaultBlockColors()
	biomes := DefaultBiomeColors()
	var err error
	if blockColorsPath != "" {
		blocks, err = LoadBlockColors(blockColorsPath)
		if err != nil {
			return nil, nil, err
		}
	}
	if biomeColorsPath != "" {
		biomes, err = LoadBiomeColors(biomeColorsPath)
		if err != nil {
			return nil, nil, err
		}
	}
	return blocks, biomes, nil
}

// LoadFromConfig loads tables named by blockColorsPath and
// biomeColorsPath of cfg, non-empty arguments take precedence.
func LoadFromConfig(cfg *lac.ConfSubtree, blockColorsPath, biomeColorsPath string) (*BlockColors, *BiomeColors, error) {
	if blockColorsPath == "" {
		blockColorsPath = cfg.GetDSString("", "blockColorsPath")
	}
	if biomeColorsPath == "" {
		biomeColorsPath = cfg.GetDSString("", "biomeColorsPath")
	}
	return Load(blockColorsPath, biomeColorsPath)
}
