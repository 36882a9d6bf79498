package abi

import "github.com/avl/savefile-go/errors"

// MaxArguments is the compatibility mask's capacity: "the compatibility
// mask supports at most 64 arguments per method; violating this is a
// construction-time error" (spec §3 invariants).
const MaxArguments = 64

// Mask is the 64-bit per-method compatibility mask of spec §3 ("Connector
// state"): bit i set iff argument i is layout-identical on both sides and
// may be sent as a pointer.
type Mask uint64

// Bit reports whether argument i may be sent by reference.
func (m Mask) Bit(i int) bool { return m&(1<<uint(i)) != 0 }

func (m *Mask) set(i int, v bool) {
	if v {
		*m |= 1 << uint(i)
	} else {
		*m &^= 1 << uint(i)
	}
}

// BuildMask assembles a method's compatibility mask from the per-argument
// decisions computed by AnalyzeArg, rejecting more than MaxArguments per
// spec's construction-time-error invariant.
func BuildMask(args []ArgCompat) (Mask, error) {
	if len(args) > MaxArguments {
		return 0, errors.ArityExceeded(errors.PhaseNegotiate,
			"method has more than 64 arguments, exceeding the compatibility mask's capacity")
	}
	var m Mask
	for i, a := range args {
		m.set(i, a.MaskBit)
	}
	return m, nil
}
