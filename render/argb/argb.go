// Package argb holds helpers for colors packed as 0xAARRGGBB.
//
// Colors coming from palettes are straight (non-premultiplied). The
// accumulator built by Overlay is premultiplied and has to go through
// Demultiply before it is handed to an encoder.
package argb

import (
	"fmt"
	"image/color"
	"strconv"
)

func Alpha(c uint32) uint32 { return c >> 24 }
func Red(c uint32) uint32   { return (c >> 16) & 0xFF }
func Green(c uint32) uint32 { return (c >> 8) & 0xFF }
func Blue(c uint32) uint32  { return c & 0xFF }

func Pack(a, r, g, b uint32) uint32 {
	return a<<24 | r<<16 | g<<8 | b
}

func clampByte(v int) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}

// Overlay puts straight color c on top of premultiplied accumulator acc
// and returns the new premultiplied accumulator.
func Overlay(acc, c uint32) uint32 {
	a := Alpha(c)
	if a == 0 {
		return acc
	}
	if a == 255 {
		return c
	}
	ia := 255 - a
	return Pack(
		a+Alpha(acc)*ia/255,
		(Red(c)*a+Red(acc)*ia)/255,
		(Green(c)*a+Green(acc)*ia)/255,
		(Blue(c)*a+Blue(acc)*ia)/255,
	)
}

// OverlayN repeats Overlay of the same color n times.
func OverlayN(acc, c uint32, n int) uint32 {
	for i := 0; i < n; i++ {
		acc = Overlay(acc, c)
	}
	return acc
}

// MultiplySolid tints RGB of c with tint, alpha of c is preserved and
// alpha of tint ignored.
func MultiplySolid(c, tint uint32) uint32 {
	return Pack(
		Alpha(c),
		Red(c)*Red(tint)/255,
		Green(c)*Green(tint)/255,
		Blue(c)*Blue(tint)/255,
	)
}

// Demultiply converts premultiplied color into straight one.
// Fully transparent colors become 0, opaque ones are returned as is.
func Demultiply(c uint32) uint32 {
	a := Alpha(c)
	switch a {
	case 0:
		return 0
	case 255:
		return c
	}
	return Pack(
		a,
		min(Red(c)*255/a, 255),
		min(Green(c)*255/a, 255),
		min(Blue(c)*255/a, 255),
	)
}

// Shade adds amt to every color channel, clamping, alpha untouched.
func Shade(c uint32, amt int) uint32 {
	return Pack(
		Alpha(c),
		clampByte(int(Red(c))+amt),
		clampByte(int(Green(c))+amt),
		clampByte(int(Blue(c))+amt),
	)
}

func ToNRGBA(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(Red(c)), G: uint8(Green(c)), B: uint8(Blue(c)), A: uint8(Alpha(c))}
}

// Nybble extracts 4-bit value number index from arr, even indexes
// occupy low bits of a byte and odd ones high bits.
func Nybble(arr []byte, index int) uint8 {
	if index&1 == 0 {
		return arr[index>>1] & 0x0F
	}
	return arr[index>>1] >> 4
}

// ParseHex accepts AARRGGBB, #AARRGGBB or 0xAARRGGBB.
// Six digit forms are treated as opaque.
func ParseHex(s string) (uint32, error) {
	t := s
	switch {
	case len(t) > 0 && t[0] == '#':
		t = t[1:]
	case len(t) > 1 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X'):
		t = t[2:]
	}
	if len(t) != 6 && len(t) != 8 {
		return 0, fmt.Errorf("bad color %q: expected 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(t) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}

func Hex(c uint32) string {
	return fmt.Sprintf("%08X", c)
}
