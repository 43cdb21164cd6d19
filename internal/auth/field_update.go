package auth

// FieldUpdate is an explicit Keep | SetTo value for partial updates. The
// zero value keeps the current field; Set marks it for replacement. Each
// field is evaluated independently, so an absent field can never be
// confused with a request to clear it.
type FieldUpdate[T any] struct {
	value T
	set   bool
}

// Set returns a FieldUpdate that replaces the current value.
func Set[T any](v T) FieldUpdate[T] {
	return FieldUpdate[T]{value: v, set: true}
}

// Keep returns a FieldUpdate that leaves the current value unchanged.
func Keep[T any]() FieldUpdate[T] {
	return FieldUpdate[T]{}
}

// Value returns the replacement value and whether one was set.
func (f FieldUpdate[T]) Value() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether the field carries a replacement value.
func (f FieldUpdate[T]) IsSet() bool {
	return f.set
}

// Apply resolves the update against the current value.
func (f FieldUpdate[T]) Apply(current T) T {
	if f.set {
		return f.value
	}
	return current
}
