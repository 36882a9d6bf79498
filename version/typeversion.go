package version

// MinSafeVersioner is implemented by Field[T] for any T, letting fields of
// differing element types sit in one heterogeneous slice describing a
// struct or enum's full field set — Go's generics don't let Field[T] itself
// be boxed as "Field of some T", but a method whose signature doesn't
// mention T can still be called through a plain interface.
type MinSafeVersioner interface {
	MinSafeVersion() uint32
}

// TypeVersion aggregates the versioned fields (or variants) of a struct or
// enum, and computes the type-level minimum safe version spec §4.3 defines:
// "the max of minimum-safe-versions of all fields of the type." This value
// is what gates wire.FastPathEligible.
type TypeVersion struct {
	Fields []MinSafeVersioner
}

// MinSafeVersion returns the maximum of every field's MinSafeVersion, or 0
// for a type with no versioned fields (always fast-path eligible as far as
// version history is concerned).
func (t TypeVersion) MinSafeVersion() uint32 {
	var m uint32
	for _, f := range t.Fields {
		if v := f.MinSafeVersion(); v > m {
			m = v
		}
	}
	return m
}
