package nxview

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ViewerConfig holds the options for NewViewer. Zero values select the
// defaults noted on each field.
type ViewerConfig struct {
	// Archives is the set to browse. Nil means an empty set.
	Archives *ArchiveSet
	// Decoder turns bitmap nodes into pixels. Nil means NodeDecoder.
	Decoder Decoder
	// Reload mounts archives that were missing at startup and reports how
	// many were added. Nil disables the reload key.
	Reload func() (int, error)
	// Scale is the initial preview scale, clamped to [MinScale, MaxScale].
	// Zero means 1.
	Scale float64
	// ScreenshotDir is where Screenshot writes PNGs. Empty means
	// "screenshots".
	ScreenshotDir string
	// Debug logs load and search timings to stderr.
	Debug bool
	// ShowOverlay draws FPS and texture cache counters.
	ShowOverlay bool
	// ExitWhenScriptDone ends the game loop once an attached TestRunner has
	// finished and its screenshots are written.
	ExitWhenScriptDone bool
}

// Row is one visible line of the archive tree.
type Row struct {
	Path        string
	Name        string // the archive label for root rows
	Depth       int
	Kind        DataKind
	NumChildren int
	Expanded    bool
	Value       string // leaf payload text, when the node implements Valuer
}

// Viewer is an ebiten.Game that browses an ArchiveSet: a search box with its
// results, a collapsible tree of every mounted archive, and a preview of the
// selected bitmap.
//
// Textures are loaded through a TextureCache on first preview and stay
// cached until Close. A Viewer must only be used from the goroutine running
// the game loop.
type Viewer struct {
	// ScreenshotDir is the directory where screenshot PNGs are saved.
	ScreenshotDir string
	// Background is the color the screen is cleared to each frame.
	Background Color

	set      *ArchiveSet
	uploader *ImageUploader
	cache    *TextureCache
	decoder  Decoder
	reload   func() (int, error)

	query        string
	results      []string
	resultCursor int
	searched     bool

	expanded map[string]bool
	selected string
	focus    Focus

	zoom   *zoomTween
	status string

	debug        bool
	warned       map[string]bool
	lastFailed   string
	showOverlay  bool
	exitWhenDone bool

	screenshotQueue []string
	injectQueue     []syntheticInputEvent
	runeBuf         []rune
	testRunner      *TestRunner

	width, height int
	closed        bool
}

// NewViewer creates a viewer with its own ImageUploader and TextureCache.
func NewViewer(cfg ViewerConfig) *Viewer {
	set := cfg.Archives
	if set == nil {
		set = NewArchiveSet()
	}
	dec := cfg.Decoder
	if dec == nil {
		dec = NodeDecoder
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	up := NewImageUploader()
	return &Viewer{
		ScreenshotDir: dir,
		Background:    Color{R: 0.118, G: 0.118, B: 0.157, A: 1},
		set:           set,
		uploader:      up,
		cache:         NewTextureCache(up),
		decoder:       dec,
		reload:        cfg.Reload,
		expanded:      make(map[string]bool),
		zoom:          newZoomTween(clampScale(scale)),
		debug:         cfg.Debug,
		warned:        make(map[string]bool),
		showOverlay:   cfg.ShowOverlay,
		exitWhenDone:  cfg.ExitWhenScriptDone,
	}
}

// Archives returns the set being browsed.
func (v *Viewer) Archives() *ArchiveSet { return v.set }

// Cache returns the viewer's texture cache.
func (v *Viewer) Cache() *TextureCache { return v.cache }

// SetDebugMode enables or disables timing and fanout logging to stderr.
func (v *Viewer) SetDebugMode(enabled bool) { v.debug = enabled }

// Focus returns the pane that receives keyboard input.
func (v *Viewer) Focus() Focus { return v.focus }

// SetFocus moves keyboard input to pane f.
func (v *Viewer) SetFocus(f Focus) {
	if f < numFocus {
		v.focus = f
	}
}

// Status returns the last reload message, or "".
func (v *Viewer) Status() string { return v.status }

// --- Search ---

// SetQuery replaces the search box text. Results are not refreshed until
// RunSearch.
func (v *Viewer) SetQuery(q string) { v.query = q }

// Query returns the search box text.
func (v *Viewer) Query() string { return v.query }

// RunSearch replaces the result list with a full search for the current
// query over every mounted archive.
func (v *Viewer) RunSearch() {
	t0 := time.Now()
	v.results = Search(v.query, v.set.Roots())
	v.resultCursor = 0
	v.searched = true
	v.debugLogSearch(v.query, len(v.results), time.Since(t0))
}

// Results returns the paths found by the last RunSearch. The returned slice
// MUST NOT be mutated.
func (v *Viewer) Results() []string { return v.results }

// --- Selection and tree ---

// Select makes path the previewed node and expands its ancestors so the
// tree shows it. The path is cleaned but need not resolve.
func (v *Viewer) Select(path string) {
	path = CleanPath(path)
	v.selected = path
	label, names := SplitPath(path)
	for i := 0; i < len(names); i++ {
		v.expanded[JoinPath(label, names[:i]...)] = true
	}
}

// Selected returns the selected path, or "".
func (v *Viewer) Selected() string { return v.selected }

// Expand shows the children of path in the tree.
func (v *Viewer) Expand(path string) { v.expanded[CleanPath(path)] = true }

// Collapse hides the children of path.
func (v *Viewer) Collapse(path string) { delete(v.expanded, CleanPath(path)) }

// Toggle flips the expanded state of path.
func (v *Viewer) Toggle(path string) {
	path = CleanPath(path)
	if v.expanded[path] {
		delete(v.expanded, path)
	} else {
		v.expanded[path] = true
	}
}

// IsExpanded reports whether path shows its children.
func (v *Viewer) IsExpanded(path string) bool { return v.expanded[CleanPath(path)] }

// rowFrame is one pending node on the row work stack.
type rowFrame struct {
	node  Node
	path  string
	name  string
	depth int
}

// Rows flattens the visible tree: every mounted archive root, and the
// children of every expanded node, in pre-order.
func (v *Viewer) Rows() []Row {
	roots := v.set.Roots()
	stack := make([]rowFrame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, rowFrame{node: roots[i].Node, path: roots[i].Label, name: roots[i].Label})
	}

	var rows []Row
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children := top.node.Children()
		row := Row{
			Path:        top.path,
			Name:        top.name,
			Depth:       top.depth,
			Kind:        top.node.Kind(),
			NumChildren: len(children),
			Expanded:    v.expanded[top.path] && len(children) > 0,
		}
		if val, ok := top.node.(Valuer); ok {
			row.Value = val.Value()
		}
		rows = append(rows, row)

		if !row.Expanded {
			continue
		}
		v.debugCheckChildCount(top.path, top.node)
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			stack = append(stack, rowFrame{
				node:  c,
				path:  top.path + PathSeparator + c.Name(),
				name:  c.Name(),
				depth: top.depth + 1,
			})
		}
	}
	return rows
}

// treeCursorIndex returns the row index of the selection, or 0.
func (v *Viewer) treeCursorIndex(rows []Row) int {
	for i, r := range rows {
		if r.Path == v.selected {
			return i
		}
	}
	return 0
}

func (v *Viewer) selectRow(r Row) { v.selected = r.Path }

// --- Preview ---

// Preview returns the texture for the selected path, loading it on first
// use. When it cannot be shown, the image is nil and status says why:
// "Resolve failed: <path>", "Not a bitmap at: <path>", "Empty bitmap: <path>",
// or "Load failed: <path>". Failed loads are retried on every call.
func (v *Viewer) Preview() (*ebiten.Image, string) {
	if v.selected == "" || v.closed {
		return nil, ""
	}
	path := v.selected

	_, hit := v.cache.Get(path)
	var t0 time.Time
	if v.debug && !hit {
		t0 = time.Now()
	}
	id, err := v.cache.GetOrLoad(path, v.set, v.decoder)
	if !hit && (err == nil || path != v.lastFailed) {
		v.debugLogLoad(loadStats{path: path, loadTime: time.Since(t0), err: err})
	}
	if err != nil {
		v.lastFailed = path
		return nil, previewStatus(path, err)
	}
	v.lastFailed = ""
	return v.uploader.Image(id), ""
}

// previewStatus turns a load error into the inline preview message.
func previewStatus(path string, err error) string {
	switch {
	case IsUnresolved(err):
		return "Resolve failed: " + path
	case errors.Is(err, ErrNotABitmap):
		return "Not a bitmap at: " + path
	case errors.Is(err, ErrEmptyBitmap), errors.Is(err, ErrShortBitmap):
		return "Empty bitmap: " + path
	default:
		return "Load failed: " + path
	}
}

// SetScale requests a preview scale. The value is clamped to
// [MinScale, MaxScale] and the displayed scale eases toward it.
func (v *Viewer) SetScale(s float64) { v.zoom.retarget(clampScale(s)) }

// Scale returns the requested preview scale.
func (v *Viewer) Scale() float64 { return v.zoom.target }

// DisplayScale returns the preview scale as currently drawn.
func (v *Viewer) DisplayScale() float64 { return v.zoom.current }

// --- Reload ---

// Reload calls the configured reload function and refreshes the search
// results when archives were added. Previews that failed to resolve recover
// on the next frame because failures are never cached.
func (v *Viewer) Reload() (int, error) {
	if v.reload == nil {
		return 0, nil
	}
	n, err := v.reload()
	switch {
	case err != nil:
		v.status = fmt.Sprintf("Reload: %d added, %v", n, err)
	case n == 0:
		v.status = "Reload: nothing new"
	default:
		v.status = fmt.Sprintf("Reload: %d added", n)
	}
	if n > 0 && v.searched {
		v.RunSearch()
	}
	return n, err
}

// --- Game loop ---

// Update implements ebiten.Game. It steps the test runner, processes input,
// and advances the zoom tween.
func (v *Viewer) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	if v.testRunner != nil {
		v.testRunner.step(v)
	}
	v.processInput()
	v.zoom.update(dt)

	if v.exitWhenDone && v.testRunner != nil && v.testRunner.Done() && len(v.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// Layout implements ebiten.Game. The viewer fills the window.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.width, v.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close releases every cached texture. Further previews return nothing.
// Close is idempotent.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.cache.ReleaseAll()
	v.closed = true
}

// --- Drawing ---

const (
	lineHeight = 16
	charWidth  = 6
	padding    = 8
	previewPx  = 64 // preview side at scale 1
)

var (
	highlightFocused = Color{R: 0.25, G: 0.4, B: 0.65, A: 1}
	highlightIdle    = Color{R: 0.25, G: 0.25, B: 0.3, A: 1}
	overlayBack      = Color{R: 0, G: 0, B: 0, A: 0.5}
)

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.Background.toRGBA())

	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	col := w / 3
	body := h - lineHeight - padding

	v.drawSearchPane(screen, padding, padding, col-2*padding, body-padding)
	v.drawTreePane(screen, col+padding, padding, col-2*padding, body-padding)
	v.drawPreviewPane(screen, 2*col+padding, padding, col-2*padding)

	if v.status != "" {
		ebitenutil.DebugPrintAt(screen, v.status, padding, h-lineHeight-padding/2)
	}
	if v.showOverlay {
		v.drawOverlay(screen)
	}

	v.flushScreenshots(screen)
}

func (v *Viewer) drawSearchPane(screen *ebiten.Image, x, y, w, h int) {
	ebitenutil.DebugPrintAt(screen, paneTitle("Search", v.focus == FocusSearch), x, y)
	box := "> " + v.query
	if v.focus == FocusSearch {
		box += "_"
	}
	ebitenutil.DebugPrintAt(screen, clip(box, w), x, y+lineHeight)

	y += 3 * lineHeight
	ebitenutil.DebugPrintAt(screen, paneTitle(fmt.Sprintf("Results (%d)", len(v.results)), v.focus == FocusResults), x, y)
	y += lineHeight

	visible := max((h-4*lineHeight)/lineHeight, 1)
	start := scrollStart(v.resultCursor, len(v.results), visible)
	for i := start; i < len(v.results) && i < start+visible; i++ {
		if i == v.resultCursor {
			v.highlight(screen, x, y, w, v.focus == FocusResults)
		}
		ebitenutil.DebugPrintAt(screen, clip(v.results[i], w), x, y)
		y += lineHeight
	}
}

func (v *Viewer) drawTreePane(screen *ebiten.Image, x, y, w, h int) {
	ebitenutil.DebugPrintAt(screen, paneTitle("Archives", v.focus == FocusTree), x, y)
	y += lineHeight

	rows := v.Rows()
	if len(rows) == 0 {
		ebitenutil.DebugPrintAt(screen, "(no archives mounted)", x, y)
		return
	}
	cur := v.treeCursorIndex(rows)
	visible := max((h-lineHeight)/lineHeight, 1)
	start := scrollStart(cur, len(rows), visible)
	for i := start; i < len(rows) && i < start+visible; i++ {
		r := rows[i]
		if r.Path == v.selected {
			v.highlight(screen, x, y, w, v.focus == FocusTree)
		}
		ebitenutil.DebugPrintAt(screen, clip(rowText(r), w), x, y)
		y += lineHeight
	}
}

func (v *Viewer) drawPreviewPane(screen *ebiten.Image, x, y, w int) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Preview  x%.2f", v.DisplayScale()), x, y)
	y += lineHeight
	if v.selected == "" {
		ebitenutil.DebugPrintAt(screen, "(nothing selected)", x, y)
		return
	}
	ebitenutil.DebugPrintAt(screen, clip(v.selected, w), x, y)
	y += lineHeight

	img, status := v.Preview()
	if img == nil {
		ebitenutil.DebugPrintAt(screen, clip(status, w), x, y)
		return
	}
	ib := img.Bounds()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%dx%d", ib.Dx(), ib.Dy()), x, y)
	y += lineHeight

	side := previewPx * v.DisplayScale()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(side/float64(ib.Dx()), side/float64(ib.Dy()))
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

// highlight fills one text line behind the cursor.
func (v *Viewer) highlight(screen *ebiten.Image, x, y, w int, focused bool) {
	c := highlightIdle
	if focused {
		c = highlightFocused
	}
	fillRect(screen, image.Rect(x-2, y, x+w, y+lineHeight), c)
}

// fillRect fills r, clipped to the screen.
func fillRect(screen *ebiten.Image, r image.Rectangle, c Color) {
	r = r.Intersect(screen.Bounds())
	if r.Empty() {
		return
	}
	screen.SubImage(r).(*ebiten.Image).Fill(c.toRGBA())
}

func paneTitle(title string, focused bool) string {
	if focused {
		return "[" + title + "]"
	}
	return " " + title
}

// rowText renders a tree row with indentation and an expand marker.
func rowText(r Row) string {
	marker := "  "
	if r.NumChildren > 0 {
		marker = "+ "
		if r.Expanded {
			marker = "- "
		}
	}
	s := strings.Repeat("  ", r.Depth) + marker + r.Name
	if r.Value != "" {
		s += " = " + r.Value
	}
	return s
}

// scrollStart returns the first visible index that keeps cursor on screen.
func scrollStart(cursor, total, visible int) int {
	if total <= visible || cursor < visible {
		return 0
	}
	return min(cursor-visible+1, total-visible)
}

// clip truncates s to fit w pixels of debug text.
func clip(s string, w int) string {
	n := w / charWidth
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
