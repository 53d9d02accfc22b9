package nx

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/phanxgames/nxview"
)

// Write serializes the tree under root as an NX archive.
//
// Nodes are numbered breadth-first so that each node's children are
// contiguous, and children are sorted by name. Payloads are taken from
// *nxview.MemNode and *Node fields; for other Node implementations only
// bitmaps (via Bitmap) and strings (via nxview.Valuer) are written.
func Write(w io.Writer, root nxview.Node) error {
	if root == nil {
		return fmt.Errorf("nx: write: nil root")
	}
	b := &builder{strIndex: make(map[string]uint32)}
	if err := b.build(root); err != nil {
		return err
	}
	_, err := w.Write(b.encode())
	return err
}

type record struct {
	name  uint32
	first uint32
	count uint16
	typ   uint16
	data  [8]byte
}

type builder struct {
	records  []record
	strings  []string
	strIndex map[string]uint32
	bitmaps  [][]byte
	audio    [][]byte
}

// intern returns the string table id of s. Strings are stored with a u16
// length, so longer ones are rejected.
func (b *builder) intern(s string) (uint32, error) {
	if len(s) > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %d bytes (max %d)", ErrStringTooLong, len(s), math.MaxUint16)
	}
	if id, ok := b.strIndex[s]; ok {
		return id, nil
	}
	id := uint32(len(b.strings))
	b.strings = append(b.strings, s)
	b.strIndex[s] = id
	return id, nil
}

func (b *builder) build(root nxview.Node) error {
	queue := []nxview.Node{root}
	b.records = make([]record, 0, 64)
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		kids := sortedChildren(n)
		if len(kids) > math.MaxUint16 {
			return fmt.Errorf("nx: write: node %q has %d children (max %d)", n.Name(), len(kids), math.MaxUint16)
		}
		name, err := b.intern(n.Name())
		if err != nil {
			return fmt.Errorf("nx: write: node name: %w", err)
		}
		rec := record{
			name:  name,
			first: uint32(len(queue)),
			count: uint16(len(kids)),
		}
		if len(kids) == 0 {
			rec.first = 0
		}
		if err := b.payload(n, &rec); err != nil {
			return err
		}
		b.records = append(b.records, rec)
		queue = append(queue, kids...)
	}
	return nil
}

func sortedChildren(n nxview.Node) []nxview.Node {
	kids := append([]nxview.Node(nil), n.Children()...)
	sort.Slice(kids, func(i, j int) bool { return kids[i].Name() < kids[j].Name() })
	return kids
}

// payload fills the type and data fields of rec from n.
func (b *builder) payload(n nxview.Node, rec *record) error {
	le := binary.LittleEndian
	switch n.Kind() {
	case nxview.KindInteger:
		rec.typ = typeInteger
		switch v := n.(type) {
		case *nxview.MemNode:
			le.PutUint64(rec.data[:], uint64(v.Int))
		case *Node:
			le.PutUint64(rec.data[:], uint64(v.Int()))
		}
	case nxview.KindReal:
		rec.typ = typeReal
		switch v := n.(type) {
		case *nxview.MemNode:
			le.PutUint64(rec.data[:], math.Float64bits(v.Real))
		case *Node:
			le.PutUint64(rec.data[:], math.Float64bits(v.Real()))
		}
	case nxview.KindString:
		rec.typ = typeString
		var s string
		if v, ok := n.(nxview.Valuer); ok {
			s = v.Value()
		}
		id, err := b.intern(s)
		if err != nil {
			return fmt.Errorf("nx: write string %q: %w", n.Name(), err)
		}
		le.PutUint32(rec.data[0:4], id)
	case nxview.KindVector:
		rec.typ = typeVector
		var x, y int32
		switch v := n.(type) {
		case *nxview.MemNode:
			x, y = v.VecX, v.VecY
		case *Node:
			x, y = v.Vector()
		}
		le.PutUint32(rec.data[0:4], uint32(x))
		le.PutUint32(rec.data[4:8], uint32(y))
	case nxview.KindBitmap:
		rec.typ = typeBitmap
		bmp, err := n.Bitmap()
		if err != nil {
			return fmt.Errorf("nx: write bitmap %q: %w", n.Name(), err)
		}
		if bmp.Width > math.MaxUint16 || bmp.Height > math.MaxUint16 {
			return fmt.Errorf("nx: write bitmap %q: %dx%d too large", n.Name(), bmp.Width, bmp.Height)
		}
		size := 4 * bmp.Width * bmp.Height
		if len(bmp.Pix) < size {
			return fmt.Errorf("nx: write bitmap %q: %w", n.Name(), nxview.ErrShortBitmap)
		}
		bgra := append([]byte(nil), bmp.Pix[:size]...)
		swapRB(bgra)
		block, err := compressBlock(bgra)
		if err != nil {
			return fmt.Errorf("nx: write bitmap %q: %w", n.Name(), err)
		}
		le.PutUint32(rec.data[0:4], uint32(len(b.bitmaps)))
		le.PutUint16(rec.data[4:6], uint16(bmp.Width))
		le.PutUint16(rec.data[6:8], uint16(bmp.Height))
		b.bitmaps = append(b.bitmaps, block)
	case nxview.KindAudio:
		rec.typ = typeAudio
		var data []byte
		switch v := n.(type) {
		case *nxview.MemNode:
			data = v.Audio
		case *Node:
			var err error
			if data, err = v.Audio(); err != nil {
				return fmt.Errorf("nx: write audio %q: %w", n.Name(), err)
			}
		}
		le.PutUint32(rec.data[0:4], uint32(len(b.audio)))
		le.PutUint32(rec.data[4:8], uint32(len(data)))
		b.audio = append(b.audio, data)
	}
	return nil
}

// encode lays the file out as header, node table, then the string, bitmap,
// and audio tables, each followed by its data. Tables are 8-byte aligned.
func (b *builder) encode() []byte {
	le := binary.LittleEndian
	out := make([]byte, headerSize)
	copy(out, magic)

	align := func() {
		for len(out)%8 != 0 {
			out = append(out, 0)
		}
	}

	align()
	nodeOffset := uint64(len(out))
	for _, r := range b.records {
		var buf [nodeSize]byte
		le.PutUint32(buf[0:4], r.name)
		le.PutUint32(buf[4:8], r.first)
		le.PutUint16(buf[8:10], r.count)
		le.PutUint16(buf[10:12], r.typ)
		copy(buf[12:20], r.data[:])
		out = append(out, buf[:]...)
	}

	// table writes an offset table for blobs followed by the blobs, each
	// prefixed by prefix(blob).
	table := func(blobs [][]byte, prefix func([]byte) []byte) uint64 {
		align()
		tableOffset := uint64(len(out))
		out = append(out, make([]byte, 8*len(blobs))...)
		for i, blob := range blobs {
			align()
			le.PutUint64(out[tableOffset+uint64(i)*8:], uint64(len(out)))
			out = append(out, prefix(blob)...)
			out = append(out, blob...)
		}
		return tableOffset
	}

	strBlobs := make([][]byte, len(b.strings))
	for i, s := range b.strings {
		strBlobs[i] = []byte(s)
	}
	stringOffset := table(strBlobs, func(blob []byte) []byte {
		return le.AppendUint16(nil, uint16(len(blob)))
	})
	bitmapOffset := table(b.bitmaps, func(blob []byte) []byte {
		return le.AppendUint32(nil, uint32(len(blob)))
	})
	audioOffset := table(b.audio, func([]byte) []byte { return nil })

	le.PutUint32(out[4:8], uint32(len(b.records)))
	le.PutUint64(out[8:16], nodeOffset)
	le.PutUint32(out[16:20], uint32(len(b.strings)))
	le.PutUint64(out[20:28], stringOffset)
	le.PutUint32(out[28:32], uint32(len(b.bitmaps)))
	le.PutUint64(out[32:40], bitmapOffset)
	le.PutUint32(out[40:44], uint32(len(b.audio)))
	le.PutUint64(out[44:52], audioOffset)
	return out
}
