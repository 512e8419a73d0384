package input

import "testing"

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewDispatcher()
	var keys []Key
	var resized [][2]int

	d.On(EventKeyDown, func(e Event) { keys = append(keys, e.Key) })
	d.On(EventWindowResize, func(e Event) { resized = append(resized, [2]int{e.Width, e.Height}) })

	d.DispatchAll([]Event{
		{Type: EventKeyDown, Key: KeyRight},
		{Type: EventMouseMove, MouseX: 5},
		{Type: EventWindowResize, Width: 800, Height: 600},
		{Type: EventKeyDown, Key: KeyLeft},
	})

	if len(keys) != 2 || keys[0] != KeyRight || keys[1] != KeyLeft {
		t.Errorf("keys = %v", keys)
	}
	if len(resized) != 1 || resized[0] != [2]int{800, 600} {
		t.Errorf("resized = %v", resized)
	}
}

func TestDispatcherOrderAndReport(t *testing.T) {
	d := NewDispatcher()
	var order []int
	d.On(EventMouseUp, func(Event) { order = append(order, 1) })
	d.On(EventMouseUp, func(Event) { order = append(order, 2) })
	d.On(EventMouseUp, nil)

	if !d.Dispatch(Event{Type: EventMouseUp}) {
		t.Error("Dispatch should report handled")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v", order)
	}
	if d.Dispatch(Event{Type: EventQuit}) {
		t.Error("unhandled event reported as handled")
	}
}

func TestEventHeld(t *testing.T) {
	e := Event{Type: EventMouseMove, Buttons: 1<<(ButtonLeft-1) | 1<<(ButtonRight-1)}
	tests := []struct {
		button uint8
		want   bool
	}{
		{ButtonLeft, true},
		{ButtonMiddle, false},
		{ButtonRight, true},
		{0, false},
	}
	for _, tt := range tests {
		if got := e.Held(tt.button); got != tt.want {
			t.Errorf("Held(%d) = %v, want %v", tt.button, got, tt.want)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	if EventMouseWheel.String() != "wheel" {
		t.Errorf("got %q", EventMouseWheel.String())
	}
	if EventType(99).String() != "unknown" {
		t.Errorf("got %q", EventType(99).String())
	}
}

func TestPointerClickVersusDrag(t *testing.T) {
	tests := []struct {
		name  string
		moves [][2]int
		up    [2]int
		click bool
	}{
		{"still", nil, [2]int{100, 100}, true},
		{"jitter", [][2]int{{101, 101}, {102, 99}}, [2]int{101, 100}, true},
		{"drag", [][2]int{{120, 100}}, [2]int{121, 100}, false},
		{"drag and return", [][2]int{{150, 150}, {100, 100}}, [2]int{100, 100}, false},
		{"release far", nil, [2]int{100, 110}, false},
		{"on the slop edge", nil, [2]int{104, 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pointer{Slop: 4}
			p.Press(100, 100, ButtonLeft)
			for _, m := range tt.moves {
				p.Move(m[0], m[1])
			}
			if got := p.Release(tt.up[0], tt.up[1], ButtonLeft); got != tt.click {
				t.Errorf("click = %v, want %v", got, tt.click)
			}
		})
	}
}

func TestPointerButtonMismatch(t *testing.T) {
	p := Pointer{Slop: 4}
	p.Press(0, 0, ButtonLeft)
	if p.Release(0, 0, ButtonRight) {
		t.Error("release of another button counted as click")
	}
	if !p.Release(0, 0, ButtonLeft) {
		t.Error("matching release should still click")
	}
	if p.Release(0, 0, ButtonLeft) {
		t.Error("release without press counted as click")
	}
}

func TestPointerDragging(t *testing.T) {
	p := Pointer{Slop: 4}
	if p.Dragging() {
		t.Error("dragging before press")
	}
	p.Press(0, 0, ButtonLeft)
	p.Move(2, 0)
	if p.Dragging() {
		t.Error("dragging inside slop")
	}
	p.Move(10, 0)
	if !p.Dragging() {
		t.Error("not dragging after leaving slop")
	}
}

func TestPointerZeroSlop(t *testing.T) {
	p := Pointer{}
	p.Press(50, 50, ButtonLeft)
	if p.Dragging() {
		t.Error("dragging before any move")
	}
	if !p.Release(50, 50, ButtonLeft) {
		t.Error("stationary release should click with zero slop")
	}

	p.Press(50, 50, ButtonLeft)
	p.Move(51, 50)
	if !p.Dragging() {
		t.Error("any move should drag with zero slop")
	}
	if p.Release(51, 50, ButtonLeft) {
		t.Error("moved release should not click with zero slop")
	}
}
