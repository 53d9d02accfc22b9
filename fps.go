package nxview

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// drawOverlay prints FPS, TPS, and texture cache counters in the top-right
// corner on a semi-transparent background.
func (v *Viewer) drawOverlay(screen *ebiten.Image) {
	text := overlayText(ebiten.ActualFPS(), ebiten.ActualTPS(), v.cache.Len(), v.cache.Stats())

	const w, h = 180, 4 * lineHeight
	x := screen.Bounds().Dx() - w - padding
	fillRect(screen, image.Rect(x, padding, x+w, padding+h), overlayBack)
	ebitenutil.DebugPrintAt(screen, text, x+4, padding)
}

func overlayText(fps, tps float64, textures int, s CacheStats) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\ntextures: %d\nhits: %d misses: %d",
		fps, tps, textures, s.Hits, s.Misses)
}
