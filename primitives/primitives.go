package primitives

import "fmt"

// RegionSize is the width of a region in columns.
const RegionSize = 32

type RegionLocation struct {
	X, Z int
}

func (l RegionLocation) String() string {
	return fmt.Sprintf("{%dx %dz}", l.X, l.Z)
}

// At returns region holding column at absolute coordinates cx, cz.
func At(cx, cz int) RegionLocation {
	return RegionLocation{X: cx >> 5, Z: cz >> 5}
}

// In returns position of column cx, cz inside of its region.
func In(cx, cz int) (int, int) {
	return cx & 31, cz & 31
}

// Bounds is an inclusive rectangle of regions, zero value is empty.
type Bounds struct {
	Min, Max RegionLocation
	set      bool
}

func (b Bounds) Empty() bool {
	return !b.set
}

func (b *Bounds) Extend(l RegionLocation) {
	if !b.set {
		b.Min, b.Max, b.set = l, l, true
		return
	}
	b.Min.X = min(b.Min.X, l.X)
	b.Min.Z = min(b.Min.Z, l.Z)
	b.Max.X = max(b.Max.X, l.X)
	b.Max.Z = max(b.Max.Z, l.Z)
}

// Width and Depth are in regions.
func (b Bounds) Width() int {
	if !b.set {
		return 0
	}
	return b.Max.X - b.Min.X + 1
}

func (b Bounds) Depth() int {
	if !b.set {
		return 0
	}
	return b.Max.Z - b.Min.Z + 1
}
