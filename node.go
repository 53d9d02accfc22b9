package nxview

import (
	"fmt"
	"strconv"
)

// Node is a read-only element of an archive tree. Implementations must keep
// Children in a stable order and must not give two children of one node the
// same name.
type Node interface {
	Name() string
	// Children returns the child list. The returned slice MUST NOT be mutated
	// by the caller. Leaves return an empty slice.
	Children() []Node
	Kind() DataKind
	// Bitmap decodes the node's image. Only valid when Kind() == KindBitmap.
	Bitmap() (Bitmap, error)
}

// ChildLookup is implemented by nodes that can find a child by exact name
// faster than a scan of Children.
type ChildLookup interface {
	Child(name string) (Node, bool)
}

// Valuer is implemented by nodes that can render their leaf payload as text.
type Valuer interface {
	Value() string
}

// Child returns the child of n named name, using ChildLookup when n
// implements it.
func Child(n Node, name string) (Node, bool) {
	if cl, ok := n.(ChildLookup); ok {
		return cl.Child(name)
	}
	for _, c := range n.Children() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// FirstBitmap returns n itself when it is a bitmap, otherwise its first
// direct child that is a bitmap. It does not look further than one level.
func FirstBitmap(n Node) (Node, bool) {
	if n.Kind() == KindBitmap {
		return n, true
	}
	for _, c := range n.Children() {
		if c.Kind() == KindBitmap {
			return c, true
		}
	}
	return nil, false
}

// Describe returns a one-line summary of n: kind, child count, and value
// when n implements Valuer.
func Describe(n Node) string {
	s := fmt.Sprintf("%s [%s, %d children]", n.Name(), n.Kind(), len(n.Children()))
	if v, ok := n.(Valuer); ok {
		if val := v.Value(); val != "" {
			s += " = " + val
		}
	}
	return s
}

// --- MemNode ---

// MemNode is an in-memory Node. A single flat struct is used for all kinds,
// with the payload fields of the other kinds left zero. Build a tree with the
// typed constructors and AddChild, then treat it as read-only.
type MemNode struct {
	name     string
	kind     DataKind
	children []Node
	byName   map[string]*MemNode

	// Payload
	Int    int64
	Real   float64
	Text   string
	VecX   int32
	VecY   int32
	Image  Bitmap
	Audio  []byte
	decode func() (Bitmap, error) // optional lazy decoder for KindBitmap
}

// NewContainer creates a node with no payload.
func NewContainer(name string) *MemNode {
	return &MemNode{name: name, kind: KindNone}
}

// NewInteger creates an integer leaf.
func NewInteger(name string, v int64) *MemNode {
	return &MemNode{name: name, kind: KindInteger, Int: v}
}

// NewReal creates a floating point leaf.
func NewReal(name string, v float64) *MemNode {
	return &MemNode{name: name, kind: KindReal, Real: v}
}

// NewString creates a text leaf.
func NewString(name, v string) *MemNode {
	return &MemNode{name: name, kind: KindString, Text: v}
}

// NewVector creates a two-component vector leaf.
func NewVector(name string, x, y int32) *MemNode {
	return &MemNode{name: name, kind: KindVector, VecX: x, VecY: y}
}

// NewBitmap creates a bitmap node holding already-decoded RGBA8 pixels.
func NewBitmap(name string, bmp Bitmap) *MemNode {
	return &MemNode{name: name, kind: KindBitmap, Image: bmp}
}

// NewLazyBitmap creates a bitmap node whose pixels are produced by decode on
// every call to Bitmap.
func NewLazyBitmap(name string, decode func() (Bitmap, error)) *MemNode {
	return &MemNode{name: name, kind: KindBitmap, decode: decode}
}

// NewAudio creates an audio leaf. nxview never decodes audio.
func NewAudio(name string, data []byte) *MemNode {
	return &MemNode{name: name, kind: KindAudio, Audio: data}
}

// Name implements Node.
func (n *MemNode) Name() string { return n.name }

// Kind implements Node.
func (n *MemNode) Kind() DataKind { return n.kind }

// Children implements Node.
func (n *MemNode) Children() []Node { return n.children }

// NumChildren returns the number of children.
func (n *MemNode) NumChildren() int { return len(n.children) }

// Bitmap implements Node.
func (n *MemNode) Bitmap() (Bitmap, error) {
	if n.kind != KindBitmap {
		return Bitmap{}, ErrNotABitmap
	}
	if n.decode != nil {
		return n.decode()
	}
	return n.Image, nil
}

// Child implements ChildLookup.
func (n *MemNode) Child(name string) (Node, bool) {
	c, ok := n.byName[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// Value implements Valuer.
func (n *MemNode) Value() string {
	switch n.kind {
	case KindInteger:
		return strconv.FormatInt(n.Int, 10)
	case KindReal:
		return strconv.FormatFloat(n.Real, 'g', -1, 64)
	case KindString:
		return n.Text
	case KindVector:
		return fmt.Sprintf("(%d, %d)", n.VecX, n.VecY)
	case KindBitmap:
		if n.decode == nil {
			return fmt.Sprintf("%dx%d", n.Image.Width, n.Image.Height)
		}
	case KindAudio:
		return fmt.Sprintf("%d bytes", len(n.Audio))
	}
	return ""
}

// --- Tree construction ---

// AddChild appends child to this node's children and returns n so that
// construction can be chained.
// Panics if child is nil, if a sibling already has child's name, or if child
// is n or contains n (cycle).
func (n *MemNode) AddChild(child *MemNode) *MemNode {
	if child == nil {
		panic("nxview: cannot add nil child")
	}
	if _, dup := n.byName[child.name]; dup {
		panic(fmt.Sprintf("nxview: node %q already has a child named %q", n.name, child.name))
	}
	if contains(child, n) {
		panic("nxview: adding child would create a cycle")
	}
	if n.byName == nil {
		n.byName = make(map[string]*MemNode)
	}
	n.byName[child.name] = child
	n.children = append(n.children, child)
	return n
}

// Add is a convenience for AddChild over several children.
func (n *MemNode) Add(children ...*MemNode) *MemNode {
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// contains reports whether target is root or one of its descendants.
// MemNode has no parent pointers, so this walks root's subtree.
func contains(root, target *MemNode) bool {
	stack := []*MemNode{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top == target {
			return true
		}
		for _, c := range top.children {
			if m, ok := c.(*MemNode); ok {
				stack = append(stack, m)
			}
		}
	}
	return false
}
