package argb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packNybbles(vals []uint8) []byte {
	ret := make([]byte, (len(vals)+1)/2)
	for i, v := range vals {
		if i%2 == 0 {
			ret[i/2] |= v & 0x0F
		} else {
			ret[i/2] |= (v & 0x0F) << 4
		}
	}
	return ret
}

func TestNybbleRoundTrip(t *testing.T) {
	vals := make([]uint8, 4096)
	for i := range vals {
		vals[i] = uint8((i*7 + i/3) & 0x0F)
	}
	arr := packNybbles(vals)
	require.Len(t, arr, 2048)
	for i := range vals {
		if got := Nybble(arr, i); got != vals[i] {
			t.Fatalf("nybble %d: got %d want %d", i, got, vals[i])
		}
	}
}

func TestNybbleOrder(t *testing.T) {
	arr := []byte{0xA5}
	assert.Equal(t, uint8(0x5), Nybble(arr, 0))
	assert.Equal(t, uint8(0xA), Nybble(arr, 1))
}

func TestOverlay(t *testing.T) {
	opaque := uint32(0xFF102030)
	assert.Equal(t, opaque, Overlay(0, opaque))
	assert.Equal(t, opaque, Overlay(0xFFFFFFFF, opaque))
	assert.Equal(t, uint32(0x80402010), Overlay(0x80402010, 0x00FFFFFF))

	half := Overlay(0xFF000000, 0x80FFFFFF)
	assert.Equal(t, uint32(0xFF), Alpha(half))
	assert.Equal(t, uint32(0x80), Red(half))
}

func TestOverlayN(t *testing.T) {
	assert.Equal(t, uint32(0), OverlayN(0, 0, 16))
	c := uint32(0x20FFFFFF)
	assert.Equal(t, Overlay(Overlay(Overlay(0, c), c), c), OverlayN(0, c, 3))
}

func TestMultiplySolid(t *testing.T) {
	assert.Equal(t, uint32(0x40808080), MultiplySolid(0x40FFFFFF, 0x00808080))
	assert.Equal(t, uint32(0xFF000000), MultiplySolid(0xFF123456, 0xFF000000))
}

func TestDemultiply(t *testing.T) {
	assert.Equal(t, uint32(0), Demultiply(0))
	assert.Equal(t, uint32(0), Demultiply(0x00123456))
	assert.Equal(t, uint32(0xFF123456), Demultiply(0xFF123456))
	assert.Equal(t, uint32(0xFF123456), Demultiply(Demultiply(0xFF123456)))
	assert.Equal(t, uint32(0x80FDFDFD), Demultiply(0x807F7F7F))
}

func TestShade(t *testing.T) {
	assert.Equal(t, uint32(0x80123456), Shade(0x80123456, 0))
	assert.Equal(t, uint32(0xFF1C3E60), Shade(0xFF123456, 10))
	assert.Equal(t, uint32(0xFF000000), Shade(0xFF123456, -200))
	assert.Equal(t, uint32(0x10FFFFFF), Shade(0x10F0F0F0, 100))
}

func TestParseHex(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint32
	}{
		{"FF7D7D7D", 0xFF7D7D7D},
		{"#7D7D7D", 0xFF7D7D7D},
		{"0x3f76e4", 0xFF3F76E4},
		{"0x00000000", 0},
	} {
		got, err := ParseHex(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	for _, bad := range []string{"", "#12345", "zzzzzz", "0x123456789"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "FF7D7D7D", Hex(0xFF7D7D7D))
}
