package nxview

import (
	"errors"
	"fmt"
)

// TextureID is an opaque handle to a GPU texture created by an Uploader.
// The zero value never names a texture.
type TextureID uint32

// Uploader creates and destroys GPU textures.
type Uploader interface {
	// CreateTexture uploads straight-alpha RGBA8 pixels as a 2D texture with
	// linear filtering and no mipmaps.
	CreateTexture(width, height int, pix []byte) (TextureID, error)
	// DestroyTexture releases a texture created by CreateTexture.
	DestroyTexture(id TextureID)
}

// CacheStats counts texture cache traffic since the cache was created.
type CacheStats struct {
	Hits     int // lookups answered from the cache
	Misses   int // lookups that attempted a load
	Loads    int // successful decode+upload pairs
	Failures int // misses that returned an error
}

// TextureCache maps requested paths to textures. Each path is decoded and
// uploaded at most once; the texture then stays cached until ReleaseAll.
//
// The cache is unbounded and never evicts, so a TextureID returned for a path
// stays valid until ReleaseAll. Failed loads are not cached and are retried
// in full on the next request.
//
// A TextureCache must only be used from one goroutine.
type TextureCache struct {
	uploader Uploader
	entries  map[string]TextureID
	stats    CacheStats
}

// NewTextureCache creates an empty cache that uploads through u.
func NewTextureCache(u Uploader) *TextureCache {
	return &TextureCache{
		uploader: u,
		entries:  make(map[string]TextureID),
	}
}

// Get returns the cached texture for path without loading.
func (c *TextureCache) Get(path string) (TextureID, bool) {
	id, ok := c.entries[path]
	return id, ok
}

// GetOrLoad returns the texture for path, loading it on the first request.
//
// On a miss the path is resolved with r. If the node is not a bitmap, its
// first direct bitmap child is used instead; the texture is still cached under
// path, so the next request for path is a hit. The bitmap is decoded with d
// and uploaded. Callers are not told when a child was substituted.
// Any failure leaves the cache unchanged and is returned as a
// *PathError wrapping ErrUnknownArchive, ErrPathNotFound, ErrNotABitmap,
// ErrEmptyBitmap, ErrShortBitmap, or the decoder's or uploader's error.
func (c *TextureCache) GetOrLoad(path string, r Resolver, d Decoder) (TextureID, error) {
	if id, ok := c.entries[path]; ok {
		c.stats.Hits++
		return id, nil
	}
	c.stats.Misses++

	id, err := c.load(path, r, d)
	if err != nil {
		c.stats.Failures++
		return 0, err
	}
	c.entries[path] = id
	c.stats.Loads++
	return id, nil
}

func (c *TextureCache) load(path string, r Resolver, d Decoder) (TextureID, error) {
	bmp, err := decodePath("load", path, r, d)
	if err != nil {
		return 0, err
	}
	id, err := c.uploader.CreateTexture(bmp.Width, bmp.Height, bmp.Pix)
	if err != nil {
		return 0, &PathError{Op: "load", Path: path, Err: err}
	}
	return id, nil
}

// decodePath resolves path, applies the one-level bitmap fallback, decodes,
// and validates the pixel buffer. Errors are *PathError values tagged op.
func decodePath(op, path string, r Resolver, d Decoder) (Bitmap, error) {
	node, err := r.Resolve(path)
	if err != nil {
		var pe *PathError
		if errors.As(err, &pe) {
			return Bitmap{}, &PathError{Op: op, Path: path, Segment: pe.Segment, Err: pe.Err}
		}
		return Bitmap{}, &PathError{Op: op, Path: path, Err: err}
	}

	bmpNode, ok := FirstBitmap(node)
	if !ok {
		return Bitmap{}, &PathError{Op: op, Path: path, Err: ErrNotABitmap}
	}

	bmp, err := d.Decode(bmpNode)
	if err != nil {
		return Bitmap{}, &PathError{Op: op, Path: path, Err: err}
	}
	if bmp.Empty() {
		return Bitmap{}, &PathError{Op: op, Path: path, Err: ErrEmptyBitmap}
	}
	if bmp.Width <= 0 || bmp.Height <= 0 || len(bmp.Pix) < 4*bmp.Width*bmp.Height {
		return Bitmap{}, &PathError{Op: op, Path: path, Err: fmt.Errorf("%w: %dx%d with %d bytes",
			ErrShortBitmap, bmp.Width, bmp.Height, len(bmp.Pix))}
	}
	return bmp, nil
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	return len(c.entries)
}

// Stats returns the cache's traffic counters.
func (c *TextureCache) Stats() CacheStats {
	return c.stats
}

// Paths returns the cached paths in no particular order.
func (c *TextureCache) Paths() []string {
	out := make([]string, 0, len(c.entries))
	for p := range c.entries {
		out = append(out, p)
	}
	return out
}

// ReleaseAll destroys every cached texture exactly once and empties the
// cache. Call it once at shutdown, while the uploader is still usable.
func (c *TextureCache) ReleaseAll() {
	for path, id := range c.entries {
		c.uploader.DestroyTexture(id)
		delete(c.entries, path)
	}
}
