package nxview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key identifies a viewer command key. Keys are decoupled from Ebitengine's
// key codes so that scripts and tests can inject them.
type Key uint8

const (
	KeyNone       Key = iota
	KeyEnter          // run the search, or open the highlighted row
	KeyTab            // cycle focus: search box, results, tree
	KeyUp             // move the cursor up
	KeyDown           // move the cursor down
	KeyLeft           // collapse, or jump to the parent row
	KeyRight          // expand
	KeyBackspace      // delete the last rune of the query
	KeyZoomIn         // grow the preview
	KeyZoomOut        // shrink the preview
	KeyReload         // retry archives that are not mounted yet
	KeyScreenshot     // queue a screenshot
)

var keyNames = [...]string{
	KeyNone:       "none",
	KeyEnter:      "enter",
	KeyTab:        "tab",
	KeyUp:         "up",
	KeyDown:       "down",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyBackspace:  "backspace",
	KeyZoomIn:     "zoomin",
	KeyZoomOut:    "zoomout",
	KeyReload:     "reload",
	KeyScreenshot: "screenshot",
}

// String returns the key's script name.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// ParseKey maps a script name such as "enter" or "zoomin" to its Key.
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name && Key(i) != KeyNone {
			return Key(i), true
		}
	}
	return KeyNone, false
}

// keyBindings maps physical keys to commands.
var keyBindings = []struct {
	key    ebiten.Key
	cmd    Key
	repeat bool
}{
	{ebiten.KeyEnter, KeyEnter, false},
	{ebiten.KeyNumpadEnter, KeyEnter, false},
	{ebiten.KeyTab, KeyTab, false},
	{ebiten.KeyArrowUp, KeyUp, true},
	{ebiten.KeyArrowDown, KeyDown, true},
	{ebiten.KeyArrowLeft, KeyLeft, true},
	{ebiten.KeyArrowRight, KeyRight, true},
	{ebiten.KeyBackspace, KeyBackspace, true},
	{ebiten.KeyF5, KeyReload, false},
	{ebiten.KeyF12, KeyScreenshot, false},
}

// Key repeat timing, in ticks.
const (
	repeatDelay    = 30
	repeatInterval = 4
)

// --- Input processing ---

// pressedThisTick reports whether k went down this tick, or is held long
// enough to auto-repeat when repeat is set.
func pressedThisTick(k ebiten.Key, repeat bool) bool {
	if inpututil.IsKeyJustPressed(k) {
		return true
	}
	if !repeat {
		return false
	}
	d := inpututil.KeyPressDuration(k)
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// processInput is called from Viewer.Update. A queued synthetic event
// replaces real keyboard input for that frame.
func (v *Viewer) processInput() {
	if v.processInjectedInput() {
		return
	}

	v.runeBuf = ebiten.AppendInputChars(v.runeBuf[:0])
	for _, r := range v.runeBuf {
		v.handleRune(r)
	}
	for _, b := range keyBindings {
		if pressedThisTick(b.key, b.repeat) {
			v.handleKey(b.cmd)
		}
	}
}

// handleRune routes a typed character. The search box takes every printable
// rune; elsewhere '=' or '+' zooms in and '-' zooms out.
func (v *Viewer) handleRune(r rune) {
	if v.focus == FocusSearch {
		if r >= 0x20 && r != 0x7f {
			v.query += string(r)
		}
		return
	}
	switch r {
	case '=', '+':
		v.handleKey(KeyZoomIn)
	case '-':
		v.handleKey(KeyZoomOut)
	}
}

// handleKey applies one command key to the focused pane.
func (v *Viewer) handleKey(k Key) {
	switch k {
	case KeyTab:
		v.focus = (v.focus + 1) % numFocus
		return
	case KeyZoomIn:
		v.SetScale(v.Scale() * zoomStep)
		return
	case KeyZoomOut:
		v.SetScale(v.Scale() / zoomStep)
		return
	case KeyReload:
		_, _ = v.Reload()
		return
	case KeyScreenshot:
		v.Screenshot("manual")
		return
	}

	switch v.focus {
	case FocusSearch:
		v.searchKey(k)
	case FocusResults:
		v.resultsKey(k)
	case FocusTree:
		v.treeKey(k)
	}
}

func (v *Viewer) searchKey(k Key) {
	switch k {
	case KeyBackspace:
		if r := []rune(v.query); len(r) > 0 {
			v.query = string(r[:len(r)-1])
		}
	case KeyEnter:
		v.RunSearch()
		if len(v.results) > 0 {
			v.focus = FocusResults
		}
	case KeyDown:
		if len(v.results) > 0 {
			v.focus = FocusResults
		}
	}
}

func (v *Viewer) resultsKey(k Key) {
	if len(v.results) == 0 {
		return
	}
	switch k {
	case KeyUp:
		v.resultCursor = max(v.resultCursor-1, 0)
	case KeyDown:
		v.resultCursor = min(v.resultCursor+1, len(v.results)-1)
	case KeyEnter, KeyRight:
		v.Select(v.results[v.resultCursor])
	}
}

func (v *Viewer) treeKey(k Key) {
	rows := v.Rows()
	if len(rows) == 0 {
		return
	}
	cur := v.treeCursorIndex(rows)
	switch k {
	case KeyUp:
		if cur > 0 {
			v.selectRow(rows[cur-1])
		}
	case KeyDown:
		if cur < len(rows)-1 {
			v.selectRow(rows[cur+1])
		}
	case KeyRight:
		v.Expand(rows[cur].Path)
	case KeyLeft:
		row := rows[cur]
		if row.Expanded {
			v.Collapse(row.Path)
		} else if parent := ParentPath(row.Path); parent != "" {
			v.selected = parent
		}
	case KeyEnter:
		v.Toggle(rows[cur].Path)
	}
}
