package nx

import (
	"encoding/binary"
	"fmt"

	"github.com/phanxgames/nxview"
	"github.com/pierrec/lz4/v4"
)

// bitmap decodes bitmap table entry id as a w×h image. The stored payload is
// a u32 compressed length followed by an LZ4 block of BGRA8888 pixels.
func (f *File) bitmap(id uint32, w, h int) (nxview.Bitmap, error) {
	if id >= f.hdr.bitmapCount {
		return nxview.Bitmap{}, fmt.Errorf("%w: bitmap %d of %d", ErrCorrupt, id, f.hdr.bitmapCount)
	}
	if w == 0 || h == 0 {
		return nxview.Bitmap{Width: w, Height: h}, nil
	}
	off, err := f.u64(f.hdr.bitmapOffset + uint64(id)*8)
	if err != nil {
		return nxview.Bitmap{}, err
	}
	lenBuf, err := f.read(off, 4)
	if err != nil {
		return nxview.Bitmap{}, err
	}
	src, err := f.read(off+4, int(binary.LittleEndian.Uint32(lenBuf)))
	if err != nil {
		return nxview.Bitmap{}, err
	}

	pix := make([]byte, 4*w*h)
	n, err := lz4.UncompressBlock(src, pix)
	if err != nil {
		return nxview.Bitmap{}, fmt.Errorf("nx: bitmap %d: %w", id, err)
	}
	if n != len(pix) {
		return nxview.Bitmap{}, fmt.Errorf("%w: bitmap %d decoded to %d bytes, want %d", ErrCorrupt, id, n, len(pix))
	}
	swapRB(pix)
	return nxview.Bitmap{Width: w, Height: h, Pix: pix}, nil
}

// audio returns audio table entry id.
func (f *File) audio(id, length uint32) ([]byte, error) {
	if id >= f.hdr.audioCount {
		return nil, fmt.Errorf("%w: audio %d of %d", ErrCorrupt, id, f.hdr.audioCount)
	}
	off, err := f.u64(f.hdr.audioOffset + uint64(id)*8)
	if err != nil {
		return nil, err
	}
	return f.read(off, int(length))
}

// swapRB converts BGRA to RGBA in place (and back).
func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// compressBlock LZ4-compresses src. Incompressible input is stored as a
// literal-only block, which every LZ4 block decoder accepts.
func compressBlock(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, dst, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return literalBlock(src), nil
	}
	return dst[:n], nil
}

// literalBlock encodes src as a single LZ4 sequence with no match part.
func literalBlock(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/255+2)
	l := len(src)
	if l < 15 {
		out = append(out, byte(l<<4))
	} else {
		out = append(out, 0xF0)
		rest := l - 15
		for rest >= 255 {
			out = append(out, 255)
			rest -= 255
		}
		out = append(out, byte(rest))
	}
	return append(out, src...)
}
