package version

import (
	"github.com/avl/savefile-go/errors"
	"github.com/avl/savefile-go/wire"
)

// HistoricalForm is one "version-as" sub-interval of a Field: for file
// versions in Interval, the field was written as a different wire shape;
// Decode reads that old shape and performs the conversion to T. When the
// original spec's conversion function is absent, Decode is simply a
// value-type-driven identity promotion (e.g. reading an i32 and widening it
// to i64) — there is no separate "no conversion" representation, since in Go
// the promotion is just what Decode does.
type HistoricalForm[T any] struct {
	Interval Range
	Decode   func(r *wire.Reader) (T, error)
}

// Field is the versioned-field machinery of spec §4.3: a version interval,
// an optional default, a set of historical wire forms to migrate from, and
// an Ignore flag (the field is skipped by both Serialize and Deserialize,
// e.g. a field retained in the type for layout reasons but no longer
// persisted).
type Field[T any] struct {
	Name     string
	Interval Range
	Default  func() T
	History  []HistoricalForm[T]
	Ignore   bool
}

// MinSafeVersion computes this field's contribution to its owning type's
// minimum safe version: the interval boundary plus every historical form's
// boundary, since a version-as migration is itself a layout change the raw
// copy fast path must not straddle.
func (f Field[T]) MinSafeVersion() uint32 {
	m := f.Interval.MinSafeVersion()
	for _, h := range f.History {
		if v := h.Interval.MinSafeVersion(); v > m {
			m = v
		}
	}
	return m
}

// Deserialize selects the first interval (historical forms first, then the
// field's own current interval) containing the file version the reader is
// decoding at, reads through it, and otherwise falls back to Default (spec
// §4.3: "selects the first interval containing the file version... writes
// it through the conversion; otherwise falls back to the default").
func (f Field[T]) Deserialize(r *wire.Reader, currentDecode func(*wire.Reader) (T, error)) (T, error) {
	var zero T
	if f.Ignore {
		return zero, nil
	}
	fileVersion := r.Version()
	for _, h := range f.History {
		if h.Interval.Contains(fileVersion) {
			debugf("field %s: decoding historical form at file version %d", f.Name, fileVersion)
			return h.Decode(r)
		}
	}
	if f.Interval.Contains(fileVersion) {
		return currentDecode(r)
	}
	if f.Default != nil {
		debugf("field %s: absent at file version %d, using default", f.Name, fileVersion)
		return f.Default(), nil
	}
	return zero, errors.New(errors.PhaseDecode, errors.KindMalformedData).
		Path(f.Name).
		Detail("no value present at version %d and no default declared", fileVersion).
		Build()
}

// Serialize emits the field through currentEncode only when the writer's
// output version lies in the field's interval; outside that interval the
// field is simply omitted from the stream, per spec §4.3.
func (f Field[T]) Serialize(w *wire.Writer, v T, currentEncode func(*wire.Writer, T) error) error {
	if f.Ignore {
		return nil
	}
	if !f.Interval.Contains(w.Version()) {
		return nil
	}
	return currentEncode(w, v)
}

// RequireVariantAvailable enforces the enum half of spec §4.3's rule:
// "attempting to serialize a variant not present in the output version is
// fatal", unlike a struct field, which is silently omitted.
func RequireVariantAvailable(interval Range, outputVersion uint32, variantName string) error {
	if interval.Contains(outputVersion) {
		return nil
	}
	return errors.New(errors.PhaseEncode, errors.KindMalformedData).
		Detail("variant %s is not present at output version %d", variantName, outputVersion).
		Build()
}
