package nbtwalk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Tnze/go-mc/nbt"
)

var (
	ErrUnknownTag       = errors.New("unknown tag")
	ErrUnexpectedEndTag = errors.New("unexpected TagEnd")
	ErrNegativeSize     = errors.New("negative size")
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrTooDeep          = errors.New("nesting too deep")
)

const maxDepth = 512

type ContextedError struct {
	E            error
	ReadingStage string
	Offset       int
}

func (err ContextedError) Error() string {
	return fmt.Sprintf("%s at %d: %s", err.E.Error(), err.Offset, err.ReadingStage)
}

func (err ContextedError) Unwrap() error {
	return err.E
}

// NBTnode is one step of the path to the tag being reported.
// For lists S is the list length and I the index of the current element.
type NBTnode struct {
	T byte
	N string
	S int
	I int
}

func ByteTagName(b byte) string {
	names := []string{
		"TagEnd",
		"TagByte",
		"TagShort",
		"TagInt",
		"TagLong",
		"TagFloat",
		"TagDouble",
		"TagByteArray",
		"TagString",
		"TagList",
		"TagCompound",
		"TagIntArray",
		"TagLongArray",
	}
	if int(b) >= len(names) {
		return fmt.Sprintf("unknown tag 0x%02x", b)
	}
	return names[b]
}

func PrintNodeSlice(p []NBTnode) string {
	ret := ""
	for _, v := range p {
		if v.T == nbt.TagList {
			ret += fmt.Sprintf(".%q[%d]", v.N, v.I)
		} else {
			ret += fmt.Sprintf(".%q", v.N)
		}
	}
	return ret
}

// WalkerCallbacks are invoked in document order, nil ones are skipped.
// Slices passed to array callbacks alias the walked buffer for byte
// arrays and are freshly allocated for int and long arrays.
type WalkerCallbacks struct {
	CbEnd       func(p []NBTnode)
	CbByte      func(p []NBTnode, n string, val byte)
	CbShort     func(p []NBTnode, n string, val uint16)
	CbInt       func(p []NBTnode, n string, val uint32)
	CbLong      func(p []NBTnode, n string, val uint64)
	CbFloat     func(p []NBTnode, n string, val float32)
	CbDouble    func(p []NBTnode, n string, val float64)
	CbByteArray func(p []NBTnode, n string, val []byte)
	CbString    func(p []NBTnode, n string, val string)
	CbList      func(p []NBTnode, n string, t byte, l int)
	CbCompound  func(p []NBTnode, n string)
	CbIntArray  func(p []NBTnode, n string, val []uint32)
	CbLongArray func(p []NBTnode, n string, val []uint64)
}

type walker struct {
	data []byte
	i    int
	p    []NBTnode
	cb   *WalkerCallbacks
}

func (w *walker) need(n int, stage string) error {
	if n < 0 || w.i+n > len(w.data) {
		return ContextedError{
			E:            ErrOutOfBounds,
			ReadingStage: stage,
			Offset:       w.i,
		}
	}
	return nil
}

func (w *walker) size(stage string) (int, error) {
	if err := w.need(4, stage); err != nil {
		return 0, err
	}
	s := int32(binary.BigEndian.Uint32(w.data[w.i:]))
	if s < 0 {
		return 0, ContextedError{
			E:            ErrNegativeSize,
			ReadingStage: stage,
			Offset:       w.i,
		}
	}
	w.i += 4
	return int(s), nil
}

// inspired by github.com/rmmh/cubeographer
// reflectless nbt "parser", callbacks get the path of enclosing
// compounds and lists so callers can dispatch on position in the tree
func WalkNBT(data []byte, cb *WalkerCallbacks) error {
	w := walker{
		data: data,
		p:    make([]NBTnode, 0, 32),
		cb:   cb,
	}
	if err := w.need(1, "root tag"); err != nil {
		return err
	}
	t := data[0]
	w.i = 1
	if t == nbt.TagEnd {
		return ContextedError{
			E:            ErrUnexpectedEndTag,
			ReadingStage: "end at the root",
			Offset:       w.i,
		}
	}
	n, err := w.name()
	if err != nil {
		return err
	}
	return w.payload(t, n)
}

func (w *walker) name() (string, error) {
	if err := w.need(2, "name length absent"); err != nil {
		return "", err
	}
	ns := int(binary.BigEndian.Uint16(w.data[w.i:]))
	w.i += 2
	if err := w.need(ns, fmt.Sprintf("name too big (%d)", ns)); err != nil {
		return "", err
	}
	n := string(w.data[w.i : w.i+ns])
	w.i += ns
	return n, nil
}

func (w *walker) payload(t byte, n string) error {
	cb := w.cb
	switch t {
	default:
		return ContextedError{
			E:            ErrUnknownTag,
			ReadingStage: ByteTagName(t),
			Offset:       w.i,
		}
	case nbt.TagByte:
		if err := w.need(1, "payload absent"); err != nil {
			return err
		}
		if cb.CbByte != nil {
			cb.CbByte(w.p, n, w.data[w.i])
		}
		w.i += 1
	case nbt.TagShort:
		if err := w.need(2, "payload absent"); err != nil {
			return err
		}
		if cb.CbShort != nil {
			cb.CbShort(w.p, n, binary.BigEndian.Uint16(w.data[w.i:]))
		}
		w.i += 2
	case nbt.TagInt:
		if err := w.need(4, "payload absent"); err != nil {
			return err
		}
		if cb.CbInt != nil {
			cb.CbInt(w.p, n, binary.BigEndian.Uint32(w.data[w.i:]))
		}
		w.i += 4
	case nbt.TagLong:
		if err := w.need(8, "payload absent"); err != nil {
			return err
		}
		if cb.CbLong != nil {
			cb.CbLong(w.p, n, binary.BigEndian.Uint64(w.data[w.i:]))
		}
		w.i += 8
	case nbt.TagFloat:
		if err := w.need(4, "payload absent"); err != nil {
			return err
		}
		if cb.CbFloat != nil {
			cb.CbFloat(w.p, n, math.Float32frombits(binary.BigEndian.Uint32(w.data[w.i:])))
		}
		w.i += 4
	case nbt.TagDouble:
		if err := w.need(8, "payload absent"); err != nil {
			return err
		}
		if cb.CbDouble != nil {
			cb.CbDouble(w.p, n, math.Float64frombits(binary.BigEndian.Uint64(w.data[w.i:])))
		}
		w.i += 8
	case nbt.TagByteArray:
		s, err := w.size("byte array length")
		if err != nil {
			return err
		}
		if err := w.need(s, "byte array too big"); err != nil {
			return err
		}
		if cb.CbByteArray != nil {
			cb.CbByteArray(w.p, n, w.data[w.i:w.i+s:w.i+s])
		}
		w.i += s
	case nbt.TagString:
		if err := w.need(2, "string size absent"); err != nil {
			return err
		}
		s := int(binary.BigEndian.Uint16(w.data[w.i:]))
		w.i += 2
		if err := w.need(s, "string size too big"); err != nil {
			return err
		}
		if cb.CbString != nil {
			cb.CbString(w.p, n, string(w.data[w.i:w.i+s]))
		}
		w.i += s
	case nbt.TagList:
		if err := w.need(1, "list type absent"); err != nil {
			return err
		}
		lt := w.data[w.i]
		w.i += 1
		if lt > nbt.TagLongArray {
			return ContextedError{
				E:            ErrUnknownTag,
				ReadingStage: "list type is weird",
				Offset:       w.i - 1,
			}
		}
		ls, err := w.size("list length")
		if err != nil {
			return err
		}
		if ls > 0 && lt == nbt.TagEnd {
			return ContextedError{
				E:            ErrUnexpectedEndTag,
				ReadingStage: "non-empty list of TagEnd",
				Offset:       w.i,
			}
		}
		if cb.CbList != nil {
			cb.CbList(w.p, n, lt, ls)
		}
		if len(w.p) >= maxDepth {
			return ContextedError{E: ErrTooDeep, ReadingStage: "list", Offset: w.i}
		}
		w.p = append(w.p, NBTnode{T: nbt.TagList, N: n, S: ls})
		for e := 0; e < ls; e++ {
			w.p[len(w.p)-1].I = e
			if err := w.payload(lt, ""); err != nil {
				return err
			}
		}
		w.p = w.p[:len(w.p)-1]
	case nbt.TagCompound:
		if cb.CbCompound != nil {
			cb.CbCompound(w.p, n)
		}
		if len(w.p) >= maxDepth {
			return ContextedError{E: ErrTooDeep, ReadingStage: "compound", Offset: w.i}
		}
		w.p = append(w.p, NBTnode{T: nbt.TagCompound, N: n})
		for {
			if err := w.need(1, "compound not terminated"); err != nil {
				return err
			}
			ct := w.data[w.i]
			w.i += 1
			if ct == nbt.TagEnd {
				break
			}
			cn, err := w.name()
			if err != nil {
				return err
			}
			if err := w.payload(ct, cn); err != nil {
				return err
			}
		}
		if cb.CbEnd != nil {
			cb.CbEnd(w.p)
		}
		w.p = w.p[:len(w.p)-1]
	case nbt.TagIntArray:
		s, err := w.size("int array length")
		if err != nil {
			return err
		}
		if err := w.need(s*4, "int array too big"); err != nil {
			return err
		}
		arr := make([]uint32, s)
		for ii := range arr {
			arr[ii] = binary.BigEndian.Uint32(w.data[w.i+ii*4:])
		}
		if cb.CbIntArray != nil {
			cb.CbIntArray(w.p, n, arr)
		}
		w.i += s * 4
	case nbt.TagLongArray:
		s, err := w.size("long array length")
		if err != nil {
			return err
		}
		if err := w.need(s*8, "long array too big"); err != nil {
			return err
		}
		arr := make([]uint64, s)
		for ii := range arr {
			arr[ii] = binary.BigEndian.Uint64(w.data[w.i+ii*8:])
		}
		if cb.CbLongArray != nil {
			cb.CbLongArray(w.p, n, arr)
		}
		w.i += s * 8
	}
	return nil
}
