package nxview

import (
	"bytes"
	"testing"
)

func TestPremultiply(t *testing.T) {
	in := []byte{
		200, 100, 50, 255, // opaque: unchanged
		200, 100, 50, 0, // transparent: color dropped
		200, 100, 50, 128, // half
	}
	got := premultiply(in)
	want := []byte{
		200, 100, 50, 255,
		0, 0, 0, 0,
		100, 50, 25, 128,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("premultiply = %v, want %v", got, want)
	}
	if in[8] != 200 {
		t.Error("premultiply must not modify its input")
	}
}

func TestImageUploaderCreateDestroy(t *testing.T) {
	u := NewImageUploader()
	id, err := u.CreateTexture(4, 2, solidBitmap(4, 2).Pix)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("ID should be non-zero")
	}
	img := u.Image(id)
	if img == nil {
		t.Fatal("Image returned nil for live texture")
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 4x2", b)
	}

	id2, err := u.CreateTexture(1, 1, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if id2 == id {
		t.Error("IDs should be unique")
	}
	if u.Len() != 2 {
		t.Errorf("Len = %d, want 2", u.Len())
	}

	u.DestroyTexture(id)
	if u.Image(id) != nil || u.Len() != 1 {
		t.Error("DestroyTexture should forget the image")
	}
	u.DestroyTexture(id)
	u.DestroyTexture(999)
	if u.Len() != 1 {
		t.Errorf("Len = %d after no-op destroys", u.Len())
	}
}

func TestImageUploaderRejectsBadInput(t *testing.T) {
	u := NewImageUploader()
	if _, err := u.CreateTexture(0, 4, nil); err == nil {
		t.Error("zero width should fail")
	}
	if _, err := u.CreateTexture(2, 2, make([]byte, 15)); err == nil {
		t.Error("short pixel buffer should fail")
	}
	if u.Len() != 0 {
		t.Error("failed creates should not allocate")
	}
}

func TestTextureCacheWithImageUploader(t *testing.T) {
	set := testForest(t)
	u := NewImageUploader()
	c := NewTextureCache(u)
	id, err := c.GetOrLoad("UI.nx/Login", set, NodeDecoder)
	if err != nil {
		t.Fatal(err)
	}
	if u.Image(id) == nil {
		t.Fatal("cached ID should name a live image")
	}
	c.ReleaseAll()
	if u.Len() != 0 {
		t.Errorf("%d images live after ReleaseAll", u.Len())
	}
}
