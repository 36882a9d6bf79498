package schema

// Kind discriminates the variants of Schema, the recursive sum type from
// spec §3.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindStruct
	KindEnum
	KindSequence
	KindSet
	KindMapping
	KindOptional
	KindBoxed
	KindBoxedTrait
	KindFnClosure
	KindFuture
	KindZeroSize
	KindRecursionMarker
)

var kindNames = [...]string{
	KindPrimitive:       "Primitive",
	KindStruct:          "Struct",
	KindEnum:            "Enum",
	KindSequence:         "Sequence",
	KindSet:             "Set",
	KindMapping:         "Mapping",
	KindOptional:        "Optional",
	KindBoxed:           "Boxed",
	KindBoxedTrait:      "BoxedTrait",
	KindFnClosure:       "FnClosure",
	KindFuture:          "Future",
	KindZeroSize:        "ZeroSize",
	KindRecursionMarker: "RecursionMarker",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Primitive enumerates the primitive wire kinds from spec §3.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimU8
	PrimI8
	PrimU16
	PrimI16
	PrimU32
	PrimI32
	PrimU64
	PrimI64
	PrimUsize
	PrimIsize
	PrimF32
	PrimF64
	PrimString
)

var primNames = [...]string{
	PrimBool: "bool", PrimU8: "u8", PrimI8: "i8", PrimU16: "u16", PrimI16: "i16",
	PrimU32: "u32", PrimI32: "i32", PrimU64: "u64", PrimI64: "i64",
	PrimUsize: "usize", PrimIsize: "isize", PrimF32: "f32", PrimF64: "f64",
	PrimString: "string",
}

func (p Primitive) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "unknown"
}

// Receiver enumerates the receiver kinds of an AbiMethod (spec "Trait
// definition (for ABI)").
type Receiver uint8

const (
	ReceiverShared Receiver = iota
	ReceiverMut
	ReceiverPinMut
	ReceiverOwned
)
