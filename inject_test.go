package nxview

import "testing"

func TestInjectKeyQueues(t *testing.T) {
	v := newTestViewer(t)
	v.InjectKey(KeyTab)
	v.InjectKey(KeyTab)
	if len(v.injectQueue) != 2 {
		t.Fatalf("queue len = %d, want 2", len(v.injectQueue))
	}
	if v.injectQueue[0].key != KeyTab {
		t.Errorf("event 0 = %+v", v.injectQueue[0])
	}
}

func TestInjectTextQueuesOneEventPerRune(t *testing.T) {
	v := newTestViewer(t)
	v.InjectText("héllo")
	if len(v.injectQueue) != 5 {
		t.Fatalf("queue len = %d, want 5", len(v.injectQueue))
	}
	if v.injectQueue[1].r != 'é' || v.injectQueue[1].key != KeyNone {
		t.Errorf("event 1 = %+v", v.injectQueue[1])
	}
}

func TestProcessInjectedInputOnePerFrame(t *testing.T) {
	v := newTestViewer(t)
	v.InjectText("bt")
	v.InjectKey(KeyEnter)

	if !v.processInjectedInput() || v.Query() != "b" {
		t.Fatalf("frame 1: Query = %q", v.Query())
	}
	if !v.processInjectedInput() || v.Query() != "bt" {
		t.Fatalf("frame 2: Query = %q", v.Query())
	}
	if !v.processInjectedInput() {
		t.Fatal("frame 3 should consume Enter")
	}
	if len(v.Results()) != 1 || v.Focus() != FocusResults {
		t.Errorf("after Enter: Results = %v, Focus = %v", v.Results(), v.Focus())
	}
	if v.processInjectedInput() {
		t.Error("empty queue should report no event")
	}
}
