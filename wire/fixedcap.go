package wire

import "github.com/avl/savefile-go/errors"

// FixedCapacitySlice wraps a []T with a caller-declared upper bound, the Go
// analogue of the original_source arrayvec container tests in
// test_arrayvec.rs: a sequence that never grows past Capacity. On the wire it
// is indistinguishable from a plain sequence (length prefix, then elements);
// the capacity bound is checked by Push, EncodeFixedCapacitySlice and
// DecodeFixedCapacitySlice but is not part of the encoded bytes.
type FixedCapacitySlice[T any] struct {
	Capacity int
	Items    []T
}

// NewFixedCapacitySlice creates an empty FixedCapacitySlice with the given
// capacity.
func NewFixedCapacitySlice[T any](capacity int) *FixedCapacitySlice[T] {
	return &FixedCapacitySlice[T]{Capacity: capacity}
}

// Push appends v, failing if doing so would exceed Capacity.
func (f *FixedCapacitySlice[T]) Push(v T) error {
	if len(f.Items) >= f.Capacity {
		return errors.ArityExceeded(errors.PhaseEncode, "fixed-capacity slice is full")
	}
	f.Items = append(f.Items, v)
	return nil
}

// EncodeFixedCapacitySlice writes f's length and elements, encodeElem
// handling one T at a time. It is an encode-time error for len(f.Items) to
// exceed f.Capacity, mirroring the panic an overfull ArrayVec::push would
// raise in the original.
func EncodeFixedCapacitySlice[T any](w *Writer, f *FixedCapacitySlice[T], encodeElem func(*Writer, T) error) error {
	if len(f.Items) > f.Capacity {
		return errors.ArityExceeded(errors.PhaseEncode, "fixed-capacity slice length exceeds its declared capacity")
	}
	if err := w.WriteLen(len(f.Items)); err != nil {
		return err
	}
	for _, item := range f.Items {
		if err := encodeElem(w, item); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFixedCapacitySlice reads a length-prefixed sequence into a
// FixedCapacitySlice[T] of the given capacity, failing if the encoded length
// exceeds that capacity rather than silently truncating or over-allocating.
func DecodeFixedCapacitySlice[T any](r *Reader, capacity int, decodeElem func(*Reader) (T, error)) (*FixedCapacitySlice[T], error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	if n > capacity {
		return nil, errors.ArityExceeded(errors.PhaseDecode, "encoded sequence length exceeds the requested fixed capacity")
	}
	items := make([]T, 0, n)
	for i := 0; i < n; i++ {
		item, err := decodeElem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &FixedCapacitySlice[T]{Capacity: capacity, Items: items}, nil
}
