package nx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/phanxgames/nxview"
	"golang.org/x/exp/mmap"
)

const (
	magic      = "PKG4"
	headerSize = 52
	nodeSize   = 20
)

var (
	// ErrBadMagic is returned when a file does not start with "PKG4".
	ErrBadMagic = errors.New("nx: bad magic")

	// ErrCorrupt is returned when a table offset, index, or length points
	// outside the file.
	ErrCorrupt = errors.New("nx: corrupt file")

	// ErrStringTooLong is returned by Write when a node name or string
	// payload does not fit the format's 16-bit string length.
	ErrStringTooLong = errors.New("nx: string too long")
)

// header is the fixed 52-byte file header. All fields are little-endian.
type header struct {
	nodeCount    uint32
	nodeOffset   uint64
	stringCount  uint32
	stringOffset uint64
	bitmapCount  uint32
	bitmapOffset uint64
	audioCount   uint32
	audioOffset  uint64
}

// File is an open NX archive. Nodes returned by a File are valid until Close.
// A File must only be used from one goroutine.
type File struct {
	r     io.ReaderAt
	size  int64
	close func() error
	name  string
	hdr   header
	names map[uint32]string
}

// Open memory-maps the NX file at path and validates its header.
func Open(path string) (*File, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nx: open %s: %w", path, err)
	}
	f, err := newFile(ra, int64(ra.Len()), path)
	if err != nil {
		_ = ra.Close()
		return nil, fmt.Errorf("nx: open %s: %w", path, err)
	}
	f.close = ra.Close
	return f, nil
}

// NewReader reads an NX archive of the given size from r. The caller keeps
// ownership of r; Close on the returned File is a no-op.
func NewReader(r io.ReaderAt, size int64) (*File, error) {
	return newFile(r, size, "")
}

func newFile(r io.ReaderAt, size int64, name string) (*File, error) {
	f := &File{r: r, size: size, name: name, names: make(map[uint32]string)}
	if err := f.readHeader(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) readHeader() error {
	buf, err := f.read(0, headerSize)
	if err != nil {
		return err
	}
	if string(buf[0:4]) != magic {
		return ErrBadMagic
	}
	le := binary.LittleEndian
	f.hdr = header{
		nodeCount:    le.Uint32(buf[4:8]),
		nodeOffset:   le.Uint64(buf[8:16]),
		stringCount:  le.Uint32(buf[16:20]),
		stringOffset: le.Uint64(buf[20:28]),
		bitmapCount:  le.Uint32(buf[28:32]),
		bitmapOffset: le.Uint64(buf[32:40]),
		audioCount:   le.Uint32(buf[40:44]),
		audioOffset:  le.Uint64(buf[44:52]),
	}
	h := f.hdr
	if h.nodeCount == 0 {
		return fmt.Errorf("%w: no nodes", ErrCorrupt)
	}
	if !f.fits(h.nodeOffset, uint64(h.nodeCount)*nodeSize) {
		return fmt.Errorf("%w: node table out of range", ErrCorrupt)
	}
	if !f.fits(h.stringOffset, uint64(h.stringCount)*8) {
		return fmt.Errorf("%w: string table out of range", ErrCorrupt)
	}
	if h.bitmapCount > 0 && !f.fits(h.bitmapOffset, uint64(h.bitmapCount)*8) {
		return fmt.Errorf("%w: bitmap table out of range", ErrCorrupt)
	}
	if h.audioCount > 0 && !f.fits(h.audioOffset, uint64(h.audioCount)*8) {
		return fmt.Errorf("%w: audio table out of range", ErrCorrupt)
	}
	return nil
}

// fits reports whether [off, off+n) lies inside the file.
func (f *File) fits(off, n uint64) bool {
	end := off + n
	return end >= off && end <= uint64(f.size)
}

func (f *File) read(off uint64, n int) ([]byte, error) {
	if !f.fits(off, uint64(n)) {
		return nil, ErrCorrupt
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := f.r.ReadAt(buf, int64(off)); err != nil {
		return nil, fmt.Errorf("nx: read at %d: %w", off, err)
	}
	return buf, nil
}

func (f *File) u64(off uint64) (uint64, error) {
	buf, err := f.read(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// Name returns the path the file was opened from.
func (f *File) Name() string { return f.name }

// NumNodes returns the number of node records.
func (f *File) NumNodes() int { return int(f.hdr.nodeCount) }

// NumBitmaps returns the number of bitmap table entries.
func (f *File) NumBitmaps() int { return int(f.hdr.bitmapCount) }

// Root returns node 0.
func (f *File) Root() *Node {
	n, err := f.node(0)
	if err != nil {
		// The header check guarantees node 0 is in range.
		panic(err)
	}
	return n
}

// Close releases the memory mapping. Nodes must not be used afterwards.
func (f *File) Close() error {
	if f.close == nil {
		return nil
	}
	c := f.close
	f.close = nil
	return c()
}

// node reads node record id.
func (f *File) node(id uint32) (*Node, error) {
	if id >= f.hdr.nodeCount {
		return nil, fmt.Errorf("%w: node %d of %d", ErrCorrupt, id, f.hdr.nodeCount)
	}
	buf, err := f.read(f.hdr.nodeOffset+uint64(id)*nodeSize, nodeSize)
	if err != nil {
		return nil, err
	}
	le := binary.LittleEndian
	n := &Node{
		f:     f,
		id:    id,
		name:  le.Uint32(buf[0:4]),
		first: le.Uint32(buf[4:8]),
		count: le.Uint16(buf[8:10]),
		typ:   le.Uint16(buf[10:12]),
	}
	copy(n.data[:], buf[12:20])
	return n, nil
}

// str returns string id, memoized.
func (f *File) str(id uint32) (string, error) {
	if s, ok := f.names[id]; ok {
		return s, nil
	}
	if id >= f.hdr.stringCount {
		return "", fmt.Errorf("%w: string %d of %d", ErrCorrupt, id, f.hdr.stringCount)
	}
	off, err := f.u64(f.hdr.stringOffset + uint64(id)*8)
	if err != nil {
		return "", err
	}
	lenBuf, err := f.read(off, 2)
	if err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint16(lenBuf)
	data, err := f.read(off+2, int(n))
	if err != nil {
		return "", err
	}
	s := string(data)
	f.names[id] = s
	return s, nil
}

// Resolve resolves a path against this file's root. The first segment must
// be a known archive label and, for files opened with Open, the file's own
// base name; otherwise the error wraps nxview.ErrUnknownArchive.
func (f *File) Resolve(path string) (nxview.Node, error) {
	label, names := nxview.SplitPath(path)
	if _, ok := nxview.ParseArchive(label); !ok || (f.name != "" && label != filepath.Base(f.name)) {
		return nil, &nxview.PathError{Op: "resolve", Path: path, Segment: label, Err: nxview.ErrUnknownArchive}
	}
	var node nxview.Node = f.Root()
	for _, seg := range names {
		child, ok := nxview.Child(node, seg)
		if !ok {
			return nil, &nxview.PathError{Op: "resolve", Path: path, Segment: seg, Err: nxview.ErrPathNotFound}
		}
		node = child
	}
	return node, nil
}
