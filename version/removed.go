package version

import "github.com/avl/savefile-go/wire"

// Removed is the zero-sized placeholder of spec §4.3: "a type that occupies
// zero memory but deserializes identically to the former type and discards
// the value." It carries no data at runtime; DecodeRemoved reads and drops
// the old wire form so the reader stays positioned correctly for whatever
// follows.
type Removed[T any] struct{}

// DecodeRemoved reads T's old wire form with decode and discards it,
// returning a Removed[T] marker.
func DecodeRemoved[T any](r *wire.Reader, decode func(*wire.Reader) (T, error)) (Removed[T], error) {
	if _, err := decode(r); err != nil {
		return Removed[T]{}, err
	}
	return Removed[T]{}, nil
}
