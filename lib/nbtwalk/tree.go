package nbtwalk

import (
	"errors"
	"fmt"

	"github.com/Tnze/go-mc/nbt"
)

var ErrWrongType = errors.New("wrong tag type")

// Node is a tag of a parsed tree. Compounds and lists keep their
// children in Children, scalar and array payloads are in Value.
type Node struct {
	T        byte
	Name     string
	ElemType byte
	Value    any
	Children []*Node
}

// Child finds named child of a compound, nil if absent or n is nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.T != nbt.TagCompound {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) typeErr(want byte) error {
	if n == nil {
		return fmt.Errorf("%w: want %s, tag absent", ErrWrongType, ByteTagName(want))
	}
	return fmt.Errorf("%w: %q is %s, want %s", ErrWrongType, n.Name, ByteTagName(n.T), ByteTagName(want))
}

func (n *Node) Byte() (int8, error) {
	if n == nil || n.T != nbt.TagByte {
		return 0, n.typeErr(nbt.TagByte)
	}
	return int8(n.Value.(byte)), nil
}

func (n *Node) ByteArray() ([]byte, error) {
	if n == nil || n.T != nbt.TagByteArray {
		return nil, n.typeErr(nbt.TagByteArray)
	}
	return n.Value.([]byte), nil
}

func (n *Node) IntArray() ([]int32, error) {
	if n == nil || n.T != nbt.TagIntArray {
		return nil, n.typeErr(nbt.TagIntArray)
	}
	raw := n.Value.([]uint32)
	ret := make([]int32, len(raw))
	for i, v := range raw {
		ret[i] = int32(v)
	}
	return ret, nil
}

func (n *Node) List() ([]*Node, error) {
	if n == nil || n.T != nbt.TagList {
		return nil, n.typeErr(nbt.TagList)
	}
	return n.Children, nil
}

// Parse reads a whole tree. Byte array values alias data.
func Parse(data []byte) (*Node, error) {
	var root *Node
	stack := make([]*Node, 0, 32)
	add := func(p []NBTnode, c *Node) {
		if len(p) == 0 {
			root = c
		} else {
			stack = stack[:len(p)]
			parent := stack[len(p)-1]
			parent.Children = append(parent.Children, c)
		}
		if c.T == nbt.TagCompound || c.T == nbt.TagList {
			stack = append(stack[:len(p)], c)
		}
	}
	value := func(t byte) func(p []NBTnode, n string, v any) {
		return func(p []NBTnode, n string, v any) {
			add(p, &Node{T: t, Name: n, Value: v})
		}
	}
	vByte, vShort, vInt, vLong := value(nbt.TagByte), value(nbt.TagShort), value(nbt.TagInt), value(nbt.TagLong)
	vFloat, vDouble, vString := value(nbt.TagFloat), value(nbt.TagDouble), value(nbt.TagString)
	vBytes, vInts, vLongs := value(nbt.TagByteArray), value(nbt.TagIntArray), value(nbt.TagLongArray)
	err := WalkNBT(data, &WalkerCallbacks{
		CbByte:      func(p []NBTnode, n string, v byte) { vByte(p, n, v) },
		CbShort:     func(p []NBTnode, n string, v uint16) { vShort(p, n, v) },
		CbInt:       func(p []NBTnode, n string, v uint32) { vInt(p, n, v) },
		CbLong:      func(p []NBTnode, n string, v uint64) { vLong(p, n, v) },
		CbFloat:     func(p []NBTnode, n string, v float32) { vFloat(p, n, v) },
		CbDouble:    func(p []NBTnode, n string, v float64) { vDouble(p, n, v) },
		CbString:    func(p []NBTnode, n string, v string) { vString(p, n, v) },
		CbByteArray: func(p []NBTnode, n string, v []byte) { vBytes(p, n, v) },
		CbIntArray:  func(p []NBTnode, n string, v []uint32) { vInts(p, n, v) },
		CbLongArray: func(p []NBTnode, n string, v []uint64) { vLongs(p, n, v) },
		CbList: func(p []NBTnode, n string, t byte, l int) {
			add(p, &Node{T: nbt.TagList, Name: n, ElemType: t, Children: make([]*Node, 0, min(l, len(data)))})
		},
		CbCompound: func(p []NBTnode, n string) {
			add(p, &Node{T: nbt.TagCompound, Name: n})
		},
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}
