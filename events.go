package loom

// Handler is an event callback. A non-nil error aborts the remainder of the
// dispatch for that emit and is returned to the emitter; callers performing
// mutations treat it as aborting the mutation's handler chain.
type Handler func(payload any) error

type eventHandler struct {
	id uint32
	fn Handler
}

// Subscription allows removing a registered handler.
type Subscription struct {
	id    uint32
	hub   *Hub
	event Event
}

// Off unregisters this handler so it no longer fires. Removing during a
// dispatch does not affect the handler list currently being iterated.
func (s Subscription) Off() {
	if s.hub == nil {
		return
	}
	handlers := s.hub.subs[s.event]
	for i := range handlers {
		if handlers[i].id == s.id {
			copy(handlers[i:], handlers[i+1:])
			handlers[len(handlers)-1] = eventHandler{}
			s.hub.subs[s.event] = handlers[:len(handlers)-1]
			return
		}
	}
}

// Hub is a synchronous publish-subscribe bus over the engine's fixed event
// set. Handlers run in subscription order. Emit iterates over a snapshot of
// the handler list, so subscribing or unsubscribing mid-dispatch takes
// effect on the next emit, never the current one.
type Hub struct {
	subs   map[Event][]eventHandler
	nextID uint32
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Event][]eventHandler)}
}

// On subscribes fn to event and returns a handle for unsubscribing.
func (h *Hub) On(event Event, fn Handler) Subscription {
	h.nextID++
	id := h.nextID
	h.subs[event] = append(h.subs[event], eventHandler{id: id, fn: fn})
	return Subscription{id: id, hub: h, event: event}
}

// Emit invokes all handlers subscribed to event, synchronously and in
// subscription order. The first handler error stops the remaining handlers
// and is returned; the hub itself never swallows handler failures.
func (h *Hub) Emit(event Event, payload any) error {
	handlers := h.subs[event]
	if len(handlers) == 0 {
		return nil
	}
	snapshot := append([]eventHandler(nil), handlers...)
	for _, eh := range snapshot {
		if err := eh.fn(payload); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of handlers subscribed to event.
func (h *Hub) Count(event Event) int {
	return len(h.subs[event])
}

// clear drops every subscription. Used by Engine.Destroy.
func (h *Hub) clear() {
	h.subs = make(map[Event][]eventHandler)
}
