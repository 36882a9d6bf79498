package abi

import (
	"reflect"

	"github.com/avl/savefile-go/layout"
	"github.com/avl/savefile-go/schema"
)

// packedCalculator is this package's own layout.Calculator, separate from
// the one wire's fast path uses; layout computation is pure, so both caches
// produce the same results for the same type.
var packedCalculator = layout.NewCalculator()

// NativeLayout describes one side's current (non-effective-version) view
// of an argument's type, for the native-layout half of the C5 analyzer
// (spec §4.5 step 2). GoType is optional: it is only available when both
// sides happen to be compiled against the same concrete Go type (the
// common case for PlainData/Reference arguments in a single-process
// simulation); when absent, layout compatibility falls back to comparing
// the native Schema structurally, which is always available and is exactly
// what trait-reference and boxed/future positions must do anyway (spec
// §4.5: "for boxed/future/trait variants, identical trait identity plus
// recursive compatibility").
type NativeLayout struct {
	Schema *schema.Schema
	GoType reflect.Type
}

func layoutCompatible(caller, callee NativeLayout) bool {
	if caller.GoType != nil && callee.GoType != nil {
		ci := packedCalculator.Calculate(caller.GoType)
		ce := packedCalculator.Calculate(callee.GoType)
		if ci.Supported && ce.Supported {
			return layout.SamePackedLayout(ci, ce)
		}
	}
	if caller.Schema == nil && callee.Schema == nil {
		// No native-layout evidence on either side: the conservative
		// default is to fall back to serialization rather than assume a
		// match neither side has actually confirmed.
		return false
	}
	return schema.Compatible(caller.Schema, callee.Schema)
}

func isTraitOrClosure(s *schema.Schema) bool {
	return s.Kind == schema.KindBoxedTrait || s.Kind == schema.KindFnClosure
}

// ArgPair holds everything AnalyzeArg needs for one argument position: the
// effective-version schemas (what actually gets negotiated and, if
// necessary, serialized) and the native schemas/types (what decides
// whether a raw pointer is safe).
type ArgPair struct {
	CallerEffective *schema.Schema
	CalleeEffective *schema.Schema
	CallerNative    NativeLayout
	CalleeNative    NativeLayout
}

// ArgCompat is the per-argument outcome of the C5 analyzer.
type ArgCompat struct {
	// MaskBit is true iff this argument may be sent by raw pointer.
	MaskBit bool
	// PanicsAtCall is true when a trait-reference or closure-reference
	// argument's effective schemas differ: there is no serialized fallback
	// for a reference type, so any call that actually supplies this
	// argument must fail at call time rather than at template-build time
	// (spec §4.5 step 1).
	PanicsAtCall bool
}

// AnalyzeArg implements spec §4.5's per-argument algorithm: first compare
// effective-version schemas; if they match, additionally require
// native-layout compatibility before allowing a pointer.
func AnalyzeArg(pair ArgPair) ArgCompat {
	if !schema.Compatible(pair.CallerEffective, pair.CalleeEffective) {
		if isTraitOrClosure(pair.CallerEffective) {
			return ArgCompat{PanicsAtCall: true}
		}
		return ArgCompat{}
	}
	if layoutCompatible(pair.CallerNative, pair.CalleeNative) {
		return ArgCompat{MaskBit: true}
	}
	return ArgCompat{}
}

// MethodAnalysis is the per-method outcome of the C5 analyzer, prior to
// being folded into a MethodSlot.
type MethodAnalysis struct {
	Args             []ArgCompat
	Mask             Mask
	ReturnCompatible bool
}

// AnalyzeMethod runs AnalyzeArg over every argument position of a method
// present on both sides and checks return-value schema compatibility (spec
// §4.5: "For the return value, only schema compatibility matters... A
// return value schema mismatch makes the whole method unusable.").
func AnalyzeMethod(argPairs []ArgPair, callerReturn, calleeReturn *schema.Schema) (MethodAnalysis, error) {
	compats := make([]ArgCompat, len(argPairs))
	for i, p := range argPairs {
		compats[i] = AnalyzeArg(p)
	}
	mask, err := BuildMask(compats)
	if err != nil {
		return MethodAnalysis{}, err
	}
	return MethodAnalysis{
		Args:             compats,
		Mask:             mask,
		ReturnCompatible: schema.Compatible(callerReturn, calleeReturn),
	}, nil
}
