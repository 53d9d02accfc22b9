package nx

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/phanxgames/nxview"
)

// Node type codes as stored in the file.
const (
	typeNone    = 0
	typeInteger = 1
	typeReal    = 2
	typeString  = 3
	typeVector  = 4
	typeBitmap  = 5
	typeAudio   = 6
)

// Node is one record of an NX file. It implements nxview.Node,
// nxview.ChildLookup, and nxview.Valuer.
//
// Read errors on a corrupt file surface as an empty name or an empty child
// list; Bitmap and Audio return them.
type Node struct {
	f     *File
	id    uint32
	name  uint32
	first uint32
	count uint16
	typ   uint16
	data  [8]byte
}

// ID returns the node's index in the node table.
func (n *Node) ID() uint32 { return n.id }

// Name implements nxview.Node.
func (n *Node) Name() string {
	s, err := n.f.str(n.name)
	if err != nil {
		return ""
	}
	return s
}

// Kind implements nxview.Node.
func (n *Node) Kind() nxview.DataKind {
	if n.typ > typeAudio {
		return nxview.KindNone
	}
	return nxview.DataKind(n.typ)
}

// NumChildren returns the number of children without reading them.
func (n *Node) NumChildren() int { return int(n.count) }

// Children implements nxview.Node. Children are read from the file on every
// call.
func (n *Node) Children() []nxview.Node {
	if n.count == 0 {
		return nil
	}
	out := make([]nxview.Node, 0, n.count)
	for i := uint32(0); i < uint32(n.count); i++ {
		c, err := n.f.node(n.first + i)
		if err != nil {
			return out
		}
		out = append(out, c)
	}
	return out
}

// Child implements nxview.ChildLookup. NX stores children sorted by name, so
// the lookup is a binary search.
func (n *Node) Child(name string) (nxview.Node, bool) {
	lo, hi := 0, int(n.count)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c, err := n.f.node(n.first + uint32(mid))
		if err != nil {
			return nil, false
		}
		switch cmp := strings.Compare(c.Name(), name); {
		case cmp == 0:
			return c, true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return nil, false
}

// --- Payload accessors ---

// Int returns the integer payload. Zero for other kinds.
func (n *Node) Int() int64 {
	if n.typ != typeInteger {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(n.data[:]))
}

// Real returns the floating point payload. Zero for other kinds.
func (n *Node) Real() float64 {
	if n.typ != typeReal {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(n.data[:]))
}

// Text returns the string payload. Empty for other kinds.
func (n *Node) Text() string {
	if n.typ != typeString {
		return ""
	}
	s, err := n.f.str(binary.LittleEndian.Uint32(n.data[0:4]))
	if err != nil {
		return ""
	}
	return s
}

// Vector returns the vector payload. Zero for other kinds.
func (n *Node) Vector() (x, y int32) {
	if n.typ != typeVector {
		return 0, 0
	}
	return int32(binary.LittleEndian.Uint32(n.data[0:4])), int32(binary.LittleEndian.Uint32(n.data[4:8]))
}

// Size returns the bitmap dimensions. Zero for other kinds.
func (n *Node) Size() (width, height int) {
	if n.typ != typeBitmap {
		return 0, 0
	}
	return int(binary.LittleEndian.Uint16(n.data[4:6])), int(binary.LittleEndian.Uint16(n.data[6:8]))
}

// Bitmap implements nxview.Node.
func (n *Node) Bitmap() (nxview.Bitmap, error) {
	if n.typ != typeBitmap {
		return nxview.Bitmap{}, nxview.ErrNotABitmap
	}
	id := binary.LittleEndian.Uint32(n.data[0:4])
	w, h := n.Size()
	return n.f.bitmap(id, w, h)
}

// Audio returns the raw audio payload.
func (n *Node) Audio() ([]byte, error) {
	if n.typ != typeAudio {
		return nil, fmt.Errorf("nx: node %d is not audio", n.id)
	}
	id := binary.LittleEndian.Uint32(n.data[0:4])
	length := binary.LittleEndian.Uint32(n.data[4:8])
	return n.f.audio(id, length)
}

// Value implements nxview.Valuer.
func (n *Node) Value() string {
	switch n.typ {
	case typeInteger:
		return strconv.FormatInt(n.Int(), 10)
	case typeReal:
		return strconv.FormatFloat(n.Real(), 'g', -1, 64)
	case typeString:
		return n.Text()
	case typeVector:
		x, y := n.Vector()
		return fmt.Sprintf("(%d, %d)", x, y)
	case typeBitmap:
		w, h := n.Size()
		return fmt.Sprintf("%dx%d", w, h)
	case typeAudio:
		return fmt.Sprintf("%d bytes", binary.LittleEndian.Uint32(n.data[4:8]))
	}
	return ""
}
