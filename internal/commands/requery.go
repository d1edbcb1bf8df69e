// Package commands decouples UI triggers from business actions behind
// a uniform "can this run now / run it" contract.
package commands

import "sync"

// Requery fans an availability "re-check" signal out to every
// subscriber of every command constructed against it. It is injected
// at construction and scoped to one application's command set; the
// signal carries no state, so concurrent raises are idempotent.
type Requery struct {
	mu     sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewRequery creates an empty registry.
func NewRequery() *Requery {
	return &Requery{subs: make(map[int]func())}
}

// Subscribe registers fn to run on every raise. The returned cancel
// func removes the subscription.
func (r *Requery) Subscribe(fn func()) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Raise asks every subscriber to re-evaluate command availability.
func (r *Requery) Raise() {
	r.mu.Lock()
	subs := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
