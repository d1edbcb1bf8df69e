package commands

import (
	"errors"

	"scangate/internal/logger"
)

// ErrInvalidParameter reports an execution-time parameter coercion
// failure. Callers are expected to gate Execute behind CanExecute;
// reaching this error is a contract violation, not a normal path.
var ErrInvalidParameter = errors.New("invalid command parameter")

// Command is the uniform contract bound controls program against.
type Command interface {
	// CanExecute reports whether the command may run with parameter.
	// It never fails hard: an unusable parameter reads as unavailable.
	CanExecute(parameter any) bool
	// Execute runs the command's action with parameter.
	Execute(parameter any) error
	// OnEnablementChanged subscribes fn to availability re-check
	// signals. The subscription is transparently shared with every
	// command on the same registry.
	OnEnablementChanged(fn func()) (cancel func())
	// RaiseEnablementChanged asks every bound control on the shared
	// registry to re-evaluate CanExecute.
	RaiseEnablementChanged()
}

// Relay wraps a zero-argument action and an optional zero-argument
// availability predicate.
type Relay struct {
	execute    func()
	canExecute func() bool
	requery    *Requery
}

// RelayOption configures a Relay at construction.
type RelayOption func(*Relay)

// WithCanExecute sets the availability predicate. Absent, the command
// is always available.
func WithCanExecute(predicate func() bool) RelayOption {
	return func(c *Relay) { c.canExecute = predicate }
}

// NewRelay builds a niladic command. A nil execute action is a
// construction-time contract violation and panics; a nil registry gets
// a private one so enablement subscriptions still work.
func NewRelay(registry *Requery, execute func(), opts ...RelayOption) *Relay {
	if execute == nil {
		panic("commands: NewRelay requires a non-nil execute action")
	}
	if registry == nil {
		registry = NewRequery()
	}
	c := &Relay{execute: execute, requery: registry}
	for _, opt := range opts {
		opt(c)
	}
	logger.Log.Debugw("relay command constructed", "has_predicate", c.canExecute != nil)
	return c
}

// CanExecute reports the predicate's result, defaulting to true. The
// parameter is ignored.
func (c *Relay) CanExecute(parameter any) bool {
	if c.canExecute == nil {
		return true
	}
	return c.canExecute()
}

// Execute invokes the action. The parameter is ignored.
func (c *Relay) Execute(parameter any) error {
	c.execute()
	return nil
}

// OnEnablementChanged subscribes fn via the shared registry.
func (c *Relay) OnEnablementChanged(fn func()) (cancel func()) {
	return c.requery.Subscribe(fn)
}

// RaiseEnablementChanged signals the shared registry.
func (c *Relay) RaiseEnablementChanged() {
	c.requery.Raise()
}
