package commands

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"

	"scangate/internal/logger"
)

// TypedRelay wraps a single-argument action over a typed parameter.
// Callers supply an untyped value that is coerced to T before the
// predicate or the action runs. Coercion failure is two-tier: silent
// (unavailable) through CanExecute, a hard ErrInvalidParameter through
// Execute.
type TypedRelay[T any] struct {
	execute    func(T)
	canExecute func(T) bool
	convert    func(any) (T, error)
	requery    *Requery
}

// TypedOption configures a TypedRelay at construction.
type TypedOption[T any] func(*TypedRelay[T])

// WithTypedCanExecute sets the availability predicate over the coerced
// parameter. Absent, the command is available whenever coercion
// succeeds.
func WithTypedCanExecute[T any](predicate func(T) bool) TypedOption[T] {
	return func(c *TypedRelay[T]) { c.canExecute = predicate }
}

// WithConverter replaces the default value conversion for parameters
// whose runtime type is not already T.
func WithConverter[T any](convert func(any) (T, error)) TypedOption[T] {
	return func(c *TypedRelay[T]) { c.convert = convert }
}

// NewTypedRelay builds a typed command. A nil execute action panics at
// construction; a nil registry gets a private one.
func NewTypedRelay[T any](registry *Requery, execute func(T), opts ...TypedOption[T]) *TypedRelay[T] {
	if execute == nil {
		panic("commands: NewTypedRelay requires a non-nil execute action")
	}
	if registry == nil {
		registry = NewRequery()
	}
	c := &TypedRelay[T]{execute: execute, requery: registry, convert: defaultConverter[T]}
	for _, opt := range opts {
		opt(c)
	}
	logger.Log.Debugw("typed command constructed",
		"parameter_type", reflect.TypeFor[T]().String(),
		"has_predicate", c.canExecute != nil,
	)
	return c
}

// coerce turns an untyped parameter into T.
//
//   - nil parameter: succeeds with the vacant value for nilable T
//     (pointer, interface, map, slice, chan, func), fails otherwise.
//   - parameter already of runtime type T: direct cast, no conversion.
//   - anything else: the converter decides.
func (c *TypedRelay[T]) coerce(parameter any) (T, error) {
	var zero T

	if parameter == nil {
		if isNilable[T]() {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: nil parameter for non-nilable %s",
			ErrInvalidParameter, reflect.TypeFor[T]())
	}

	if v, ok := parameter.(T); ok {
		return v, nil
	}

	v, err := c.convert(parameter)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return v, nil
}

// CanExecute coerces the parameter and runs the predicate. Coercion
// failure reads as unavailable so a bound control disables instead of
// erroring on a mistyped parameter.
func (c *TypedRelay[T]) CanExecute(parameter any) bool {
	v, err := c.coerce(parameter)
	if err != nil {
		return false
	}
	if c.canExecute == nil {
		return true
	}
	return c.canExecute(v)
}

// Execute coerces the parameter and runs the action. Coercion failure
// here is a hard error.
func (c *TypedRelay[T]) Execute(parameter any) error {
	v, err := c.coerce(parameter)
	if err != nil {
		logger.Log.Errorw("typed command executed with unusable parameter",
			"parameter_type", reflect.TypeFor[T]().String(),
			"error", err,
		)
		return err
	}
	c.execute(v)
	return nil
}

// OnEnablementChanged subscribes fn via the shared registry.
func (c *TypedRelay[T]) OnEnablementChanged(fn func()) (cancel func()) {
	return c.requery.Subscribe(fn)
}

// RaiseEnablementChanged signals the shared registry.
func (c *TypedRelay[T]) RaiseEnablementChanged() {
	c.requery.Raise()
}

// isNilable reports whether T's vacant value is nil.
func isNilable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

// defaultConverter handles the basic kinds through spf13/cast. Types
// it cannot reach need an explicit WithConverter.
func defaultConverter[T any](parameter any) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()

	var converted any
	var err error

	if t == reflect.TypeFor[time.Duration]() {
		converted, err = cast.ToDurationE(parameter)
	} else {
		switch t.Kind() {
		case reflect.String:
			converted, err = cast.ToStringE(parameter)
		case reflect.Bool:
			converted, err = cast.ToBoolE(parameter)
		case reflect.Int:
			converted, err = cast.ToIntE(parameter)
		case reflect.Int8:
			converted, err = cast.ToInt8E(parameter)
		case reflect.Int16:
			converted, err = cast.ToInt16E(parameter)
		case reflect.Int32:
			converted, err = cast.ToInt32E(parameter)
		case reflect.Int64:
			converted, err = cast.ToInt64E(parameter)
		case reflect.Uint:
			converted, err = cast.ToUintE(parameter)
		case reflect.Uint8:
			converted, err = cast.ToUint8E(parameter)
		case reflect.Uint16:
			converted, err = cast.ToUint16E(parameter)
		case reflect.Uint32:
			converted, err = cast.ToUint32E(parameter)
		case reflect.Uint64:
			converted, err = cast.ToUint64E(parameter)
		case reflect.Float32:
			converted, err = cast.ToFloat32E(parameter)
		case reflect.Float64:
			converted, err = cast.ToFloat64E(parameter)
		default:
			return zero, fmt.Errorf("no conversion from %T to %s", parameter, t)
		}
	}
	if err != nil {
		return zero, err
	}

	v, ok := converted.(T)
	if !ok {
		// Named types share a kind with their underlying type but fail
		// the assertion; they need an explicit converter.
		return zero, fmt.Errorf("no conversion from %T to %s", parameter, t)
	}
	return v, nil
}
