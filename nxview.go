package nxview

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to Ebitengine.
type Color struct {
	R, G, B, A float64
}

// toRGBA converts a Color to a premultiplied color.Color for image.Fill.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DataKind identifies the payload a Node carries. The numeric values match
// the node type codes of the NX format.
type DataKind uint8

const (
	KindNone    DataKind = iota // no payload (pure container)
	KindInteger                 // signed 64-bit integer
	KindReal                    // 64-bit float
	KindString                  // UTF-8 text
	KindVector                  // pair of 32-bit integers
	KindBitmap                  // RGBA image, decoded on demand
	KindAudio                   // audio clip (not decoded by nxview)
)

var kindNames = [...]string{
	KindNone:    "none",
	KindInteger: "integer",
	KindReal:    "real",
	KindString:  "string",
	KindVector:  "vector",
	KindBitmap:  "bitmap",
	KindAudio:   "audio",
}

// String returns the lowercase name of the kind.
func (k DataKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Focus identifies which viewer pane receives keyboard input.
type Focus uint8

const (
	FocusSearch  Focus = iota // the search box
	FocusResults              // the search results list
	FocusTree                 // the archive tree

	numFocus
)
