package nxview

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageUploader is an Uploader backed by Ebitengine images. Each texture is a
// persistent *ebiten.Image owned by the uploader until DestroyTexture.
// Ebitengine picks the filter at draw time; the viewer draws previews with
// ebiten.FilterLinear.
type ImageUploader struct {
	images map[TextureID]*ebiten.Image
	nextID TextureID
}

// NewImageUploader creates an uploader with no textures.
func NewImageUploader() *ImageUploader {
	return &ImageUploader{images: make(map[TextureID]*ebiten.Image)}
}

// CreateTexture implements Uploader. The straight-alpha input is copied and
// premultiplied, which is the layout WritePixels expects.
func (u *ImageUploader) CreateTexture(width, height int, pix []byte) (TextureID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("nxview: invalid texture size %dx%d", width, height)
	}
	n := 4 * width * height
	if len(pix) < n {
		return 0, fmt.Errorf("nxview: texture %dx%d needs %d bytes, got %d", width, height, n, len(pix))
	}

	img := ebiten.NewImage(width, height)
	img.WritePixels(premultiply(pix[:n]))

	u.nextID++
	u.images[u.nextID] = img
	return u.nextID, nil
}

// DestroyTexture implements Uploader. Unknown IDs are ignored.
func (u *ImageUploader) DestroyTexture(id TextureID) {
	img, ok := u.images[id]
	if !ok {
		return
	}
	img.Deallocate()
	delete(u.images, id)
}

// Image returns the image for id, or nil if id is not a live texture.
func (u *ImageUploader) Image(id TextureID) *ebiten.Image {
	return u.images[id]
}

// Len returns the number of live textures.
func (u *ImageUploader) Len() int {
	return len(u.images)
}

// premultiply returns a copy of straight-alpha RGBA pixels with color
// channels scaled by alpha.
func premultiply(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		switch a {
		case 255:
			out[i], out[i+1], out[i+2] = pix[i], pix[i+1], pix[i+2]
		case 0:
			// fully transparent: color channels stay zero
		default:
			out[i] = uint8(uint16(pix[i]) * uint16(a) / 255)
			out[i+1] = uint8(uint16(pix[i+1]) * uint16(a) / 255)
			out[i+2] = uint8(uint16(pix[i+2]) * uint16(a) / 255)
		}
		out[i+3] = a
	}
	return out
}
