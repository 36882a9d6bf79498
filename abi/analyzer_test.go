package abi

import (
	"testing"

	"github.com/avl/savefile-go/schema"
)

func TestAnalyzeArgIdenticalSchemaAndLayout(t *testing.T) {
	s := schema.NewPrimitive(schema.PrimI64)
	got := AnalyzeArg(ArgPair{
		CallerEffective: s,
		CalleeEffective: s,
		CallerNative:    NativeLayout{Schema: s},
		CalleeNative:    NativeLayout{Schema: s},
	})
	if !got.MaskBit || got.PanicsAtCall {
		t.Errorf("got %+v, want mask bit set and no panic flag", got)
	}
}

func TestAnalyzeArgSchemaDiffersPlainData(t *testing.T) {
	got := AnalyzeArg(ArgPair{
		CallerEffective: schema.NewPrimitive(schema.PrimI64),
		CalleeEffective: schema.NewPrimitive(schema.PrimI32),
	})
	if got.MaskBit || got.PanicsAtCall {
		t.Errorf("got %+v, want no mask bit and no panic flag (falls back to serialization)", got)
	}
}

func TestAnalyzeArgSchemaDiffersTraitPosition(t *testing.T) {
	callerTrait := &schema.AbiTraitDefinition{TraitName: "X", Methods: []schema.AbiMethod{{Name: "m"}}}
	calleeTrait := &schema.AbiTraitDefinition{TraitName: "X", Methods: []schema.AbiMethod{{Name: "m"}, {Name: "n"}}}
	got := AnalyzeArg(ArgPair{
		CallerEffective: schema.NewBoxedTrait(callerTrait),
		CalleeEffective: schema.NewBoxedTrait(calleeTrait),
	})
	if got.MaskBit {
		t.Error("trait-position mismatch must never set the mask bit")
	}
	if !got.PanicsAtCall {
		t.Error("trait-position schema mismatch must be flagged as call-time panic, not a silent serialize fallback")
	}
}

func TestAnalyzeArgNativeLayoutDiffers(t *testing.T) {
	s := schema.NewPrimitive(schema.PrimU32)
	got := AnalyzeArg(ArgPair{
		CallerEffective: s,
		CalleeEffective: s,
		CallerNative:    NativeLayout{Schema: schema.NewPrimitive(schema.PrimU32)},
		CalleeNative:    NativeLayout{Schema: schema.NewPrimitive(schema.PrimU64)},
	})
	if got.MaskBit {
		t.Error("differing native layout must not set the mask bit even when effective schemas match")
	}
}

func TestAnalyzeArgNoNativeEvidenceIsConservative(t *testing.T) {
	s := schema.NewPrimitive(schema.PrimU32)
	got := AnalyzeArg(ArgPair{CallerEffective: s, CalleeEffective: s})
	if got.MaskBit {
		t.Error("absent native-layout evidence must default to no pointer, not an optimistic match")
	}
}

func TestAnalyzeMethodReturnIncompatibleFlagged(t *testing.T) {
	analysis, err := AnalyzeMethod(nil, schema.NewPrimitive(schema.PrimI64), schema.NewPrimitive(schema.PrimI32))
	if err != nil {
		t.Fatal(err)
	}
	if analysis.ReturnCompatible {
		t.Error("i64 vs i32 return types must not be compatible")
	}
}
