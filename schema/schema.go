// Package schema implements the Schema sum type and schema-compatibility
// check of spec §3 / §4.2 (component C2), grounded on the teacher's
// transcoder/internal/types CompiledType: a flat struct tagged by a Kind
// enum, with pointer-linked sub-schemas instead of a Go sum-type hierarchy
// (Go has no native sum types; this is the idiom the pack itself uses).
package schema

// Schema is the recursive sum type from spec §3. Exactly the fields
// relevant to Kind are populated; this mirrors CompiledType's "one flat
// struct, Kind decides which fields are live" shape rather than an
// interface-per-variant hierarchy, which would make Diff's recursive walk
// (compat.go) considerably more verbose for no behavioral gain.
type Schema struct {
	// Primitive
	Prim Primitive

	// Struct / Enum
	Name             string // debug name, informational only
	Fields           []Field
	Variants         []Variant
	DiscriminantBits int // Enum only: 1, 2 or 4 (bytes)

	// Sequence / Set / Optional / Boxed: single child
	// Mapping: Key + Value
	Elem  *Schema
	Key   *Schema
	Value *Schema

	// BoxedTrait / FnClosure
	Trait  *AbiTraitDefinition
	FnMut  bool // FnClosure only

	// Future
	Output        *Schema
	RequiresSend  bool
	RequiresSync  bool
	RequiresUnpin bool

	// RecursionMarker
	RecursionDepth int

	Kind Kind
}

// Field is a named child schema of a Struct. Name is informational only —
// order is what matters for compatibility (spec §4.2).
type Field struct {
	Name   string
	Schema *Schema
}

// Variant is a named, discriminated child of an Enum.
type Variant struct {
	Name          string
	Discriminator uint32
	Fields        []Field
}

// AbiMethodArgument is one argument of an AbiMethod.
type AbiMethodArgument struct {
	Schema        *Schema
	CanBeSentAsRef bool
}

// AbiMethodInfo describes a method's signature for ABI negotiation.
type AbiMethodInfo struct {
	ReturnValue     *Schema
	Receiver        Receiver
	Arguments       []AbiMethodArgument
	AsyncHeuristic  bool
}

// AbiMethod is one method of an AbiTraitDefinition.
type AbiMethod struct {
	Name string
	Info AbiMethodInfo
}

// AbiTraitDefinition describes a trait for ABI purposes: its name and
// methods (spec "Trait definition (for ABI)").
type AbiTraitDefinition struct {
	TraitName string
	Methods   []AbiMethod
}

// Primitive constructors.

func NewPrimitive(p Primitive) *Schema { return &Schema{Kind: KindPrimitive, Prim: p} }

func NewStruct(name string, fields []Field) *Schema {
	return &Schema{Kind: KindStruct, Name: name, Fields: fields}
}

func NewEnum(name string, discBits int, variants []Variant) *Schema {
	return &Schema{Kind: KindEnum, Name: name, DiscriminantBits: discBits, Variants: variants}
}

func NewSequence(elem *Schema) *Schema { return &Schema{Kind: KindSequence, Elem: elem} }

func NewSet(elem *Schema) *Schema { return &Schema{Kind: KindSet, Elem: elem} }

func NewMapping(key, value *Schema) *Schema { return &Schema{Kind: KindMapping, Key: key, Value: value} }

func NewOptional(elem *Schema) *Schema { return &Schema{Kind: KindOptional, Elem: elem} }

func NewBoxed(elem *Schema) *Schema { return &Schema{Kind: KindBoxed, Elem: elem} }

func NewBoxedTrait(trait *AbiTraitDefinition) *Schema {
	return &Schema{Kind: KindBoxedTrait, Trait: trait}
}

func NewFnClosure(mut bool, trait *AbiTraitDefinition) *Schema {
	return &Schema{Kind: KindFnClosure, FnMut: mut, Trait: trait}
}

func NewFuture(output *Schema, send, sync, unpin bool) *Schema {
	return &Schema{Kind: KindFuture, Output: output, RequiresSend: send, RequiresSync: sync, RequiresUnpin: unpin}
}

func NewZeroSize() *Schema { return &Schema{Kind: KindZeroSize} }

func NewRecursionMarker(depth int) *Schema {
	return &Schema{Kind: KindRecursionMarker, RecursionDepth: depth}
}

// IsPrimitive reports whether s is a primitive schema.
func (s *Schema) IsPrimitive() bool { return s.Kind == KindPrimitive }
