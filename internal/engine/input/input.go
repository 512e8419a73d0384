// Package input defines window-system independent input events and routes
// them to handlers.
package input

// EventType identifies the kind of an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

var eventNames = [...]string{
	EventNone:         "none",
	EventQuit:         "quit",
	EventWindowResize: "resize",
	EventKeyDown:      "keydown",
	EventKeyUp:        "keyup",
	EventMouseMove:    "mousemove",
	EventMouseDown:    "mousedown",
	EventMouseUp:      "mouseup",
	EventMouseWheel:   "wheel",
}

// String implements fmt.Stringer.
func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Key is a keyboard key independent of the window system.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Mouse buttons, numbered like SDL.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Button uint8
	// Buttons is the held-button mask on mouse moves: bit (n-1) for button n.
	Buttons uint32
	WheelY  float32
}

// Held reports whether button was held during a mouse move.
func (e Event) Held(button uint8) bool {
	return button > 0 && e.Buttons&(1<<(button-1)) != 0
}

// Handler reacts to one event.
type Handler func(Event)

// Dispatcher is a table from event type to handlers.
type Dispatcher struct {
	handlers map[EventType][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventType][]Handler)}
}

// On registers h for events of type t. Handlers run in registration order.
func (d *Dispatcher) On(t EventType, h Handler) {
	if h == nil {
		return
	}
	d.handlers[t] = append(d.handlers[t], h)
}

// Dispatch delivers e to its handlers and reports whether any ran.
func (d *Dispatcher) Dispatch(e Event) bool {
	hs := d.handlers[e.Type]
	for _, h := range hs {
		h(e)
	}
	return len(hs) > 0
}

// DispatchAll delivers events in order.
func (d *Dispatcher) DispatchAll(events []Event) {
	for _, e := range events {
		d.Dispatch(e)
	}
}
