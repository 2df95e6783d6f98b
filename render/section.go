package render

import (
	"errors"
	"fmt"

	"github.com/Tnze/go-mc/nbt"
	"github.com/maxsupermanhd/RegionTiles/lib/nbtwalk"
	"github.com/maxsupermanhd/RegionTiles/render/argb"
	"github.com/maxsupermanhd/RegionTiles/render/palette"
)

var ErrMalformedColumn = errors.New("malformed column")

const (
	SectionsPerColumn = 16
	sectionVolume     = 16 * 16 * 16
	columnArea        = 16 * 16
)

// Section holds decoded 12-bit block types and 4-bit variants in
// y*256 + z*16 + x order.
type Section struct {
	Blocks [sectionVolume]uint16
	Data   [sectionVolume]uint8
}

// Column is a reusable decoding arena for one column. It is owned by a
// single render worker.
type Column struct {
	Sections  [SectionsPerColumn]Section
	Populated [SectionsPerColumn]bool
	Biomes    [columnArea]int8
}

// Reset marks all sections empty and all biomes unknown. Section
// contents are left in place and overwritten on decode.
func (c *Column) Reset() {
	c.Populated = [SectionsPerColumn]bool{}
	for i := range c.Biomes {
		c.Biomes[i] = palette.UnknownBiome
	}
}

func (c *Column) PopulatedCount() (n int) {
	for _, p := range c.Populated {
		if p {
			n++
		}
	}
	return
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedColumn, fmt.Sprintf(format, args...))
}

// DecodeColumn fills dst from the root tag of a column. On error dst is
// left reset, with no populated sections.
func DecodeColumn(root *nbtwalk.Node, dst *Column) error {
	dst.Reset()
	err := decodeColumn(root, dst)
	if err != nil {
		dst.Reset()
	}
	return err
}

func decodeColumn(root *nbtwalk.Node, dst *Column) error {
	level := root.Child("Level")
	if level == nil {
		return malformed("no Level compound")
	}
	if err := decodeBiomes(level.Child("Biomes"), dst); err != nil {
		return err
	}

	sections, err := level.Child("Sections").List()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	for i, s := range sections {
		if s.T != nbt.TagCompound {
			return malformed("section %d is %s", i, nbtwalk.ByteTagName(s.T))
		}
		if err := decodeSection(s, dst); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

// decodeBiomes accepts 256 byte or int arrays. An absent tag leaves
// biomes unknown.
func decodeBiomes(n *nbtwalk.Node, dst *Column) error {
	if n == nil {
		return nil
	}
	switch n.T {
	case nbt.TagByteArray:
		b, _ := n.ByteArray()
		if len(b) != columnArea {
			return malformed("biomes length %d", len(b))
		}
		for i, v := range b {
			dst.Biomes[i] = int8(v)
		}
	case nbt.TagIntArray:
		b, _ := n.IntArray()
		if len(b) != columnArea {
			return malformed("biomes length %d", len(b))
		}
		for i, v := range b {
			dst.Biomes[i] = int8(v)
		}
	default:
		return malformed("biomes is %s", nbtwalk.ByteTagName(n.T))
	}
	return nil
}

func decodeSection(s *nbtwalk.Node, dst *Column) error {
	y, err := s.Child("Y").Byte()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	if y < 0 || int(y) >= SectionsPerColumn {
		return malformed("section index %d out of range", y)
	}
	blocks, err := s.Child("Blocks").ByteArray()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	if len(blocks) != sectionVolume {
		return malformed("Blocks has %d entries", len(blocks))
	}
	data, err := s.Child("Data").ByteArray()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	if len(data) != sectionVolume/2 {
		return malformed("Data has %d entries", len(data))
	}
	var add []byte
	if an := s.Child("Add"); an != nil {
		add, err = an.ByteArray()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
		}
		if len(add) != sectionVolume/2 {
			return malformed("Add has %d entries", len(add))
		}
	}

	sec := &dst.Sections[y]
	for i := 0; i < sectionVolume; i++ {
		t := uint16(blocks[i])
		if add != nil {
			t |= uint16(argb.Nybble(add, i)) << 8
		}
		sec.Blocks[i] = t
		sec.Data[i] = argb.Nybble(data, i)
	}
	dst.Populated[y] = true
	return nil
}
