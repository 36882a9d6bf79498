package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32Field(name string) Field {
	return Field{Name: name, Schema: NewPrimitive(PrimU32)}
}

func TestDiffIdenticalStructsCompatible(t *testing.T) {
	a := NewStruct("Account", []Field{u32Field("a"), u32Field("b")})
	b := NewStruct("Account", []Field{u32Field("a"), u32Field("b")})
	assert.True(t, Compatible(a, b))
}

func TestDiffFieldNamesAreInformationalOnly(t *testing.T) {
	// Spec §4.2: field names are informational only, order matters.
	a := NewStruct("Account", []Field{u32Field("a"), u32Field("b")})
	b := NewStruct("Account", []Field{u32Field("x"), u32Field("y")})
	assert.True(t, Compatible(a, b))
}

func TestDiffFieldCountDiffers(t *testing.T) {
	a := NewStruct("Account", []Field{u32Field("a"), u32Field("b")})
	b := NewStruct("Account", []Field{u32Field("a")})
	d := Diff(a, b, nil, false)
	require.NotNil(t, d)
	assert.Contains(t, d.Error(), "field count differs")
}

func TestDiffPrimitiveMismatch(t *testing.T) {
	a := NewPrimitive(PrimU32)
	b := NewPrimitive(PrimU64)
	d := Diff(a, b, nil, false)
	require.NotNil(t, d)
	assert.Contains(t, d.Error(), "primitive kind differs")
}

// TestEnumDiscriminantWidthMismatch is scenario 4 from spec §8.
func TestEnumDiscriminantWidthMismatch(t *testing.T) {
	a := NewEnum("EnumAVer1", 1, []Variant{{Name: "A", Discriminator: 0}})
	b := NewEnum("EnumAVer1", 2, []Variant{{Name: "A", Discriminator: 0}})
	d := Diff(a, b, []string{"EnumAVer1"}, false)
	require.NotNil(t, d)
	assert.Contains(t, d.Error(), "discriminant")
	assert.Contains(t, d.Error(), "EnumAVer1")
}

func TestDiffRecursionMarkerDepthMismatch(t *testing.T) {
	a := NewRecursionMarker(1)
	b := NewRecursionMarker(2)
	d := Diff(a, b, []string{"Tree"}, false)
	require.NotNil(t, d)
	assert.Contains(t, d.Error(), "recursion depth differs")
}

func TestDiffSequenceRecurses(t *testing.T) {
	a := NewSequence(NewPrimitive(PrimU32))
	b := NewSequence(NewPrimitive(PrimU64))
	d := Diff(a, b, nil, false)
	require.NotNil(t, d)
}

func TestDiffMappingRecursesKeyAndValue(t *testing.T) {
	a := NewMapping(NewPrimitive(PrimString), NewPrimitive(PrimU32))
	b := NewMapping(NewPrimitive(PrimString), NewPrimitive(PrimU32))
	assert.True(t, Compatible(a, b))

	c := NewMapping(NewPrimitive(PrimString), NewPrimitive(PrimU64))
	assert.False(t, Compatible(a, c))
}

func TestDiffZeroSizeAlwaysCompatible(t *testing.T) {
	assert.True(t, Compatible(NewZeroSize(), NewZeroSize()))
}

func TestDiffFutureBoundsSubset(t *testing.T) {
	callerNeedsSend := NewFuture(NewPrimitive(PrimU32), true, false, false)
	calleeProvidesSendSync := NewFuture(NewPrimitive(PrimU32), true, true, false)
	assert.True(t, Compatible(callerNeedsSend, calleeProvidesSendSync))

	calleeMissingSend := NewFuture(NewPrimitive(PrimU32), false, false, false)
	assert.False(t, Compatible(callerNeedsSend, calleeMissingSend))
}

func TestDiffTraitIdentity(t *testing.T) {
	caller := NewBoxedTrait(&AbiTraitDefinition{TraitName: "Adder", Methods: []AbiMethod{
		{Name: "add", Info: AbiMethodInfo{ReturnValue: NewPrimitive(PrimU32)}},
	}})
	calleeSameName := NewBoxedTrait(&AbiTraitDefinition{TraitName: "Adder", Methods: []AbiMethod{
		{Name: "add", Info: AbiMethodInfo{ReturnValue: NewPrimitive(PrimU32)}},
	}})
	assert.True(t, Compatible(caller, calleeSameName))

	calleeDifferentName := NewBoxedTrait(&AbiTraitDefinition{TraitName: "Multiplier", Methods: caller.Trait.Methods})
	assert.False(t, Compatible(caller, calleeDifferentName))
}
