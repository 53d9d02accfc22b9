package nxview

import "testing"

func TestClampScale(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{1, 1},
		{0.1, 0.1},
		{8, 8},
		{0.05, MinScale},
		{9, MaxScale},
	}
	for _, tt := range tests {
		if got := clampScale(tt.in); got != tt.want {
			t.Errorf("clampScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZoomTweenStartsDone(t *testing.T) {
	z := newZoomTween(2)
	if !z.Done || z.current != 2 || z.target != 2 {
		t.Errorf("newZoomTween = %+v", z)
	}
	z.update(1) // no-op when done
	if z.current != 2 {
		t.Errorf("current = %v", z.current)
	}
}

func TestZoomTweenRetargetSameValue(t *testing.T) {
	z := newZoomTween(1)
	z.retarget(1)
	if !z.Done || z.tween != nil {
		t.Error("retarget to the current target should not start a tween")
	}
}

func TestZoomTweenReachesTarget(t *testing.T) {
	z := newZoomTween(1)
	z.retarget(4)
	if z.Done {
		t.Fatal("tween should be running")
	}
	prev := z.current
	for i := 0; i < 100 && !z.Done; i++ {
		z.update(1.0 / 60)
		if z.current < prev {
			t.Fatalf("zoom in should be monotonic: %v after %v", z.current, prev)
		}
		prev = z.current
	}
	if !z.Done || z.current != 4 {
		t.Errorf("after tween: current = %v, done = %v", z.current, z.Done)
	}
}

func TestZoomTweenRetargetMidway(t *testing.T) {
	z := newZoomTween(1)
	z.retarget(4)
	z.update(zoomDuration / 2)
	mid := z.current
	z.retarget(0.5)
	z.update(0.001)
	if z.current > mid {
		t.Errorf("retarget should continue from %v, got %v", mid, z.current)
	}
	z.update(zoomDuration)
	if z.current != 0.5 {
		t.Errorf("current = %v, want 0.5", z.current)
	}
}
