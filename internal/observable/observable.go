// Package observable gives stateful components change notification
// with delivery serialized onto a single designated dispatcher.
package observable

import "sync"

// defaultDispatcher serves hosts that never had a dispatcher injected.
var defaultDispatcher = &ImmediateDispatcher{}

// Host is the embeddable base for components that expose observable
// properties. The zero value is ready to use; notifications then run
// on a shared immediate dispatcher.
//
// All notification delivery for one Host is serialized: a listener
// never observes two notifications from the same host concurrently,
// and notifications are delivered in mutation order. Listeners must
// not mutate the same host synchronously from inside a notification.
type Host struct {
	mu         sync.Mutex
	fireMu     sync.Mutex
	dispatcher Dispatcher
	listeners  map[int]func(property string)
	nextID     int
}

// SetDispatcher injects the dispatcher that owns listener delivery.
// Call before the first mutation; a nil dispatcher is ignored.
func (h *Host) SetDispatcher(d Dispatcher) {
	if d == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dispatcher = d
}

// OnPropertyChanged registers fn to be called with the property name
// on every change. The returned cancel func removes the listener so
// subscriptions do not leak across host lifetimes.
func (h *Host) OnPropertyChanged(fn func(property string)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners == nil {
		h.listeners = make(map[int]func(property string))
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// NotifyChanged fires one notification per distinct property name,
// duplicates collapsed, in first-occurrence order. An empty set fires
// nothing.
func (h *Host) NotifyChanged(properties ...string) {
	h.fireMu.Lock()
	defer h.fireMu.Unlock()
	h.notify(properties)
}

// notify assumes fireMu is held by the caller.
func (h *Host) notify(properties []string) {
	if len(properties) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(properties))
	distinct := properties[:0:0]
	for _, p := range properties {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		distinct = append(distinct, p)
	}

	h.mu.Lock()
	d := h.dispatcher
	listeners := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	if len(listeners) == 0 {
		return
	}
	if d == nil {
		d = defaultDispatcher
	}

	d.Invoke(func() {
		for _, p := range distinct {
			for _, fn := range listeners {
				fn(p)
			}
		}
	})
}

// Set stores value into *field when it differs from the current value
// under value equality, notifies listeners of property, and reports
// whether anything changed. Equal values store nothing and fire
// nothing.
func Set[T comparable](h *Host, field *T, value T, property string) bool {
	h.fireMu.Lock()
	defer h.fireMu.Unlock()

	h.mu.Lock()
	if *field == value {
		h.mu.Unlock()
		return false
	}
	*field = value
	h.mu.Unlock()

	h.notify([]string{property})
	return true
}

// Get reads *field consistently with respect to concurrent Set calls
// on the same host. Safe to call from inside a notification listener.
func Get[T any](h *Host, field *T) T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return *field
}
