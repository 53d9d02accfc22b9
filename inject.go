package nxview

// syntheticInputEvent is a single injected key press or typed rune.
type syntheticInputEvent struct {
	key Key
	r   rune
}

// InjectKey queues a command key. The event is consumed on the next frame's
// processInput call.
func (v *Viewer) InjectKey(k Key) {
	v.injectQueue = append(v.injectQueue, syntheticInputEvent{key: k})
}

// InjectText queues each rune of s as a typed character, one per frame.
func (v *Viewer) InjectText(s string) {
	for _, r := range s {
		v.injectQueue = append(v.injectQueue, syntheticInputEvent{r: r})
	}
}

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (real input should be skipped).
func (v *Viewer) processInjectedInput() bool {
	if len(v.injectQueue) == 0 {
		return false
	}
	evt := v.injectQueue[0]
	copy(v.injectQueue, v.injectQueue[1:])
	v.injectQueue = v.injectQueue[:len(v.injectQueue)-1]

	if evt.key != KeyNone {
		v.handleKey(evt.key)
	} else {
		v.handleRune(evt.r)
	}
	return true
}
