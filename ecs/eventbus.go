package ecs

// EventBus is a named, multi-listener dispatcher (spec.md §2 L0 "Event
// bus"), grounded on the teacher's engine/core/events.go EventBus (named
// EventType, per-type listener lists, Emit/Dispatch). Unlike the teacher's
// version, Emit dispatches synchronously and in order rather than
// queuing for a later Dispatch call, since the query index and reactive
// buckets that sit on top of it need same-tick delivery (spec.md §4.4,
// §4.6).
type EventBus struct {
	listeners map[string][]func(any)
	fired     map[string]int
	handled   map[string]int
}

func newEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[string][]func(any)),
		fired:     make(map[string]int),
		handled:   make(map[string]int),
	}
}

// NewEventBus constructs a standalone bus for client use (e.g. a domain
// System broadcasting gameplay events), independent of any World.
func NewEventBus() *EventBus { return newEventBus() }

// On registers a handler for the named event. Handlers run synchronously, in
// subscription order, each time the event fires.
func (b *EventBus) On(name string, handler func(any)) {
	b.listeners[name] = append(b.listeners[name], handler)
}

// Emit fires name synchronously to every registered handler.
func (b *EventBus) Emit(name string, payload any) {
	publish(b, name, payload)
}

// FireCount returns how many times name has been emitted.
func (b *EventBus) FireCount(name string) int { return b.fired[name] }

// HandledCount returns how many (listener invocation) pairs name has
// produced across its lifetime.
func (b *EventBus) HandledCount(name string) int { return b.handled[name] }

func publish(b *EventBus, name string, payload any) {
	b.fired[name]++
	hs := b.listeners[name]
	if len(hs) == 0 {
		return
	}
	b.handled[name] += len(hs)
	for _, h := range hs {
		h(payload)
	}
}

const (
	eventEntityAdded      = "ENTITY_ADDED"
	eventEntityRemoved    = "ENTITY_REMOVED"
	eventComponentChanged = "COMPONENT_CHANGED"
	eventWorldCreated     = "world-created"
)
