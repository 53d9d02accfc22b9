package nxview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Preview scale limits and step.
const (
	MinScale = 0.1
	MaxScale = 8.0

	zoomStep     = 1.25
	zoomDuration = 0.15 // seconds
)

// clampScale limits s to [MinScale, MaxScale].
func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// zoomTween eases the displayed preview scale toward the requested one.
// Call update once per frame.
type zoomTween struct {
	tween   *gween.Tween
	current float64
	target  float64
	Done    bool
}

func newZoomTween(scale float64) *zoomTween {
	return &zoomTween{current: scale, target: scale, Done: true}
}

// retarget starts a new tween from the current displayed value to to.
func (z *zoomTween) retarget(to float64) {
	if to == z.target {
		return
	}
	z.target = to
	z.tween = gween.New(float32(z.current), float32(to), zoomDuration, ease.OutQuad)
	z.Done = false
}

// update advances the tween by dt seconds.
func (z *zoomTween) update(dt float32) {
	if z.Done {
		return
	}
	val, finished := z.tween.Update(dt)
	z.current = float64(val)
	if finished {
		z.current = z.target
		z.Done = true
	}
}
