package ingress

// Value is an explicit presence wrapper: Set distinguishes "the field was
// assigned, even to its zero value" from "the field was never touched".
// Canonical serialization omits any Value whose Set is false, matching the
// source's exclude_unset/exclude_none/exclude_defaults serialization
// (this package "Option<T>" design note).
type Value[T any] struct {
	Set bool
	V   T
}

// Some wraps v as an explicitly-set value.
func Some[T any](v T) Value[T] {
	return Value[T]{Set: true, V: v}
}

// Get returns the wrapped value and whether it was set.
func (p Value[T]) Get() (T, bool) {
	return p.V, p.Set
}

// Presence is a marker type for the empty-object sentinel the literal
// string "true" is coerced into: "api: true" means "enabled, no further
// configuration", not a boolean. The merge core represents that sentinel
// as an empty map[string]any; nothing in this repository produces a
// Presence value.
type Presence struct{}

// AnyValue is the untyped equivalent of Value[T], used where a field's
// source type is ambiguous at ingest time (e.g. a field that may arrive as
// either a bool or an object, like HttpMiddleware.Compress). Raw holds
// whatever the merge core produced for this leaf; Set is true whenever Raw
// was ever assigned, including to nil/false/zero.
type AnyValue struct {
	Set bool
	Raw any
}

func SomeAny(v any) AnyValue {
	return AnyValue{Set: true, Raw: v}
}
