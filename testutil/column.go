package testutil

import (
	"bytes"

	"github.com/Tnze/go-mc/nbt"
)

// Section is a pre-flattening section under construction.
type Section struct {
	Y      int8
	Blocks []byte
	Data   []byte
	Add    []byte
}

func NewSection(y int8) *Section {
	return &Section{
		Y:      y,
		Blocks: make([]byte, 4096),
		Data:   make([]byte, 2048),
	}
}

func setNybble(arr []byte, index int, v uint8) {
	if index&1 == 0 {
		arr[index>>1] = arr[index>>1]&0xF0 | v&0x0F
	} else {
		arr[index>>1] = arr[index>>1]&0x0F | v<<4
	}
}

// Set places block id:data at section-local x, y, z. Ids above 255 get
// an Add array.
func (s *Section) Set(x, y, z int, id uint16, data uint8) *Section {
	i := y*256 + z*16 + x
	s.Blocks[i] = byte(id)
	if id > 0xFF {
		if s.Add == nil {
			s.Add = make([]byte, 2048)
		}
		setNybble(s.Add, i, uint8(id>>8))
	}
	setNybble(s.Data, i, data)
	return s
}

// Fill sets every voxel of the section.
func (s *Section) Fill(id uint16, data uint8) *Section {
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				s.Set(x, y, z, id, data)
			}
		}
	}
	return s
}

func (s *Section) tag() map[string]any {
	t := map[string]any{
		"Y":      s.Y,
		"Blocks": s.Blocks,
		"Data":   s.Data,
	}
	if s.Add != nil {
		t["Add"] = s.Add
	}
	return t
}

// Column describes the Level compound of a column.
type Column struct {
	X, Z     int32
	Biomes   []byte
	Sections []*Section
	// Extra is merged into Level, overriding generated tags.
	Extra map[string]any
}

// Encode returns uncompressed NBT of the column with "" root and
// "Level" compound inside.
func (c *Column) Encode() ([]byte, error) {
	sections := make([]map[string]any, 0, len(c.Sections))
	for _, s := range c.Sections {
		sections = append(sections, s.tag())
	}
	level := map[string]any{
		"xPos":     c.X,
		"zPos":     c.Z,
		"Sections": sections,
	}
	if c.Biomes != nil {
		level["Biomes"] = c.Biomes
	}
	for k, v := range c.Extra {
		level[k] = v
	}
	var buf bytes.Buffer
	err := nbt.NewEncoder(&buf).Encode(map[string]any{"Level": level}, "")
	return buf.Bytes(), err
}

// MustEncode panics on encoding errors, for fixtures.
func (c *Column) MustEncode() []byte {
	b, err := c.Encode()
	if err != nil {
		panic(err)
	}
	return b
}
