package abi

import (
	"bytes"
	"unsafe"

	"github.com/avl/savefile-go/errors"
	"github.com/avl/savefile-go/wire"
)

// ArgType classifies how one method argument crosses the ABI boundary
// (spec §4.4 "Argument marshalling").
type ArgType uint8

const (
	ArgPlainData ArgType = iota
	ArgReference
	ArgSlice
	ArgStrRef
	ArgTraitRef
	ArgTraitRefMut
	ArgBoxedTrait
	ArgFnRef
	ArgFnMutRef
)

func (t ArgType) isTraitFamily() bool {
	switch t {
	case ArgTraitRef, ArgTraitRefMut, ArgBoxedTrait, ArgFnRef, ArgFnMutRef:
		return true
	default:
		return false
	}
}

// ArgValue is one marshalled argument, carried in AbiProtocol.Args for a
// RegularCall. Exactly one of Bytes, (Raw, RawLen), or Trait is populated,
// depending on Kind and whether the compatibility mask allowed a reference.
//
// The spec's literal wire shape concatenates all arguments into one buffer,
// with in-range pointer bit patterns written as raw 8-byte values. This
// module's EntryPoint is an in-process Go func value rather than a real
// dlsym'd C function (Open Question decision #1), so a pointer argument is
// carried as an actual unsafe.Pointer field instead of bytes reinterpreted
// from a uintptr — storing only the bit pattern across a call boundary
// would not keep the referent alive for Go's garbage collector, whereas a
// real foreign ABI has no GC to race against. The compatibility-mask
// contract (bit i set iff argument i may be sent by reference) is
// unchanged; only the in-memory shape of "by reference" differs.
type ArgValue struct {
	Kind   ArgType
	Raw    unsafe.Pointer
	RawLen int
	Bytes  []byte
	Trait  *PackagedTraitObject
}

// BuildArg marshals a PlainData, Reference, Slice, or StrRef argument.
// When maskBit is set and argType allows sending by reference, value's
// address is carried directly; otherwise value is serialized with encode.
func BuildArg[T any](argType ArgType, maskBit bool, version uint32, value *T, encode func(*wire.Writer, T) error) (ArgValue, error) {
	if argType.isTraitFamily() {
		return ArgValue{}, errors.New(errors.PhaseDispatch, errors.KindMalformedData).
			Detail("BuildArg does not marshal trait-family arguments; use BuildTraitArg").
			Build()
	}
	if maskBit && argType != ArgPlainData {
		return ArgValue{Kind: argType, Raw: unsafe.Pointer(value), RawLen: 1}, nil
	}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, version)
	if err := encode(w, *value); err != nil {
		return ArgValue{}, err
	}
	return ArgValue{Kind: argType, Bytes: buf.Bytes()}, nil
}

// BuildSliceArg marshals a Slice(&[T]) argument. When maskBit is set, the
// fat pointer (data pointer + length) is carried directly; otherwise the
// sequence is serialized element-wise with encode.
func BuildSliceArg[T any](maskBit bool, version uint32, values []T, encode func(*wire.Writer, []T) error) (ArgValue, error) {
	if maskBit {
		if len(values) == 0 {
			return ArgValue{Kind: ArgSlice}, nil
		}
		return ArgValue{Kind: ArgSlice, Raw: unsafe.Pointer(&values[0]), RawLen: len(values)}, nil
	}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, version)
	if err := encode(w, values); err != nil {
		return ArgValue{}, err
	}
	return ArgValue{Kind: ArgSlice, Bytes: buf.Bytes()}, nil
}

// BuildTraitArg marshals a TraitRef, TraitRefMut, BoxedTrait, FnRef, or
// FnMutRef argument. Per spec §4.4, the compatibility mask bit MUST be set
// for these; an unset bit is a coding error at the caller-callee interface,
// not a recoverable serialization fallback, since trait objects have no
// plain-data wire form — per spec §7's "Propagation" paragraph, this panics
// at the caller trampoline rather than returning an error, the same as
// MethodMissing.
func BuildTraitArg(argType ArgType, maskBit bool, methodName string, argIndex int, obj PackagedTraitObject) ArgValue {
	if !maskBit {
		panic(errors.ArgNotLayoutCompatible(methodName, argIndex).Error())
	}
	return ArgValue{Kind: argType, Trait: &obj}
}
