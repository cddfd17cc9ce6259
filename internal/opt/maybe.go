// Package opt provides a small optional-value type.
package opt

import "fmt"

// Maybe is an optional value. The zero value holds nothing.
type Maybe[V any] struct {
	defined bool
	value   V
}

// Some returns a Maybe that has a defined value.
func Some[V any](value V) Maybe[V] {
	return Maybe[V]{defined: true, value: value}
}

// None returns a Maybe with no value.
func None[V any]() Maybe[V] { return Maybe[V]{} }

// IsDefined returns true if the Maybe has a value.
func (m Maybe[V]) IsDefined() bool { return m.defined }

// Value returns the value if defined, or the zero value for the type otherwise.
func (m Maybe[V]) Value() V { return m.value }

// Get returns the value and whether it is defined.
func (m Maybe[V]) Get() (V, bool) { return m.value, m.defined }

// OrElse returns the value of the Maybe if any, or valueIfUndefined otherwise.
func (m Maybe[V]) OrElse(valueIfUndefined V) V {
	if m.defined {
		return m.value
	}
	return valueIfUndefined
}

// String returns "[none]" when undefined. Values that implement fmt.Stringer
// decide their own representation, which lets secrets stay redacted.
func (m Maybe[V]) String() string {
	if !m.defined {
		return "[none]"
	}
	var v interface{} = m.value
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", m.value)
}
