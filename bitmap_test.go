package nxview

import (
	"image"
	"image/color"
	"testing"
)

func TestBitmapFromImageNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 40})
	b := BitmapFromImage(src)
	if b.Width != 2 || b.Height != 1 || len(b.Pix) != 8 {
		t.Fatalf("got %dx%d with %d bytes", b.Width, b.Height, len(b.Pix))
	}
	if b.Pix[4] != 10 || b.Pix[7] != 40 {
		t.Errorf("pixel = %v", b.Pix[4:8])
	}
}

func TestBitmapFromImageOffsetRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(6, 5, color.RGBA{255, 0, 0, 255})
	b := BitmapFromImage(src)
	if b.Width != 2 || b.Height != 1 {
		t.Fatalf("size = %dx%d", b.Width, b.Height)
	}
	if b.Pix[4] != 255 || b.Pix[7] != 255 {
		t.Errorf("pixel = %v", b.Pix[4:8])
	}
	back := b.NRGBA()
	if back.Bounds().Dx() != 2 || back.NRGBAAt(1, 0).R != 255 {
		t.Errorf("NRGBA round trip = %v", back.NRGBAAt(1, 0))
	}
}

func TestBitmapEmpty(t *testing.T) {
	if !(Bitmap{Width: 3, Height: 3}).Empty() {
		t.Error("no pixels should be empty")
	}
	if solidBitmap(1, 1).Empty() {
		t.Error("solid bitmap should not be empty")
	}
}
