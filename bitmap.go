package nxview

import (
	"image"
)

// Bitmap is a decoded image: straight-alpha RGBA8, row-major, 4 bytes per
// pixel.
type Bitmap struct {
	Width, Height int
	Pix           []byte
}

// Empty reports whether the bitmap carries no pixel data.
func (b Bitmap) Empty() bool {
	return len(b.Pix) == 0
}

// NRGBA wraps the pixels in an *image.NRGBA without copying.
func (b Bitmap) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// BitmapFromImage converts any image.Image into a Bitmap.
func BitmapFromImage(img image.Image) Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == 4*w && bounds.Min == (image.Point{}) {
		return Bitmap{Width: w, Height: h, Pix: nrgba.Pix[:4*w*h]}
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return Bitmap{Width: w, Height: h, Pix: out.Pix}
}

// Decoder turns a bitmap node into pixels. The texture cache calls it at most
// once per cached path.
type Decoder interface {
	Decode(n Node) (Bitmap, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(n Node) (Bitmap, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(n Node) (Bitmap, error) { return f(n) }

// NodeDecoder decodes by calling the node's own Bitmap method.
var NodeDecoder Decoder = DecoderFunc(func(n Node) (Bitmap, error) {
	return n.Bitmap()
})
