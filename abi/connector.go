package abi

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/avl/savefile-go/errors"
	"github.com/avl/savefile-go/schema"
	"github.com/avl/savefile-go/version"
	"github.com/avl/savefile-go/wire"
)

// CallerSide describes everything the caller brings to NewConnector: its
// own trait definition at any version it still knows how to produce (no
// codegen in this module, so the caller supplies this function directly
// rather than it being emitted by a derive macro), and, optionally, the
// concrete Go type backing each argument position when both sides happen
// to share it (used only to get a sharper native-layout comparison than
// the always-available structural one).
type CallerSide struct {
	Type                   reflect.Type
	LatestTraitVersion     uint32
	LatestSchemaLibVersion uint16
	TraitAt                func(version uint32) *schema.AbiTraitDefinition
	NativeLayoutFor        func(methodName string, argIndex int) NativeLayout
}

// Connector is the caller-side handle of spec §3 ("Connector state"): "a
// shared reference to the template, an Owning flag... and a type-erased
// 16-byte trait-object handle."
type Connector struct {
	template *ConnectionTemplate
	handle   TraitHandle
	owning   Owning
}

// Handle returns the connector's trait-object handle, e.g. to package it
// as a PackagedTraitObject when passing this connector on as an argument.
func (c *Connector) Handle() TraitHandle { return c.handle }

// Template returns the connector's (shared, immutable) template.
func (c *Connector) Template() *ConnectionTemplate { return c.template }

func interrogateVersion(entry EntryPoint) VersionInfo {
	var vi VersionInfo
	entry(&AbiProtocol{Command: CmdInterrogateVersion, VersionOut: &vi})
	return vi
}

func interrogateMethods(entry EntryPoint, wantedSchemaLibVersion uint16, wantedTraitVersion uint32) (*schema.AbiTraitDefinition, error) {
	var data []byte
	entry(&AbiProtocol{
		Command:                CmdInterrogateMethods,
		WantedSchemaLibVersion:  wantedSchemaLibVersion,
		WantedTraitVersion:      wantedTraitVersion,
		MethodsReceiver: func(_ uint16, b []byte) {
			data = append([]byte(nil), b...)
		},
	})

	r := wire.NewReader(bytes.NewReader(data), 0)
	s, err := schema.Decode(r)
	if err != nil {
		return nil, err
	}
	if s.Kind != schema.KindBoxedTrait || s.Trait == nil {
		return nil, errors.New(errors.PhaseNegotiate, errors.KindSchemaMismatch).
			Detail("InterrogateMethods did not return a trait definition").Build()
	}
	return s.Trait, nil
}

func createInstance(entry EntryPoint) (TraitHandle, error) {
	var handle TraitHandle
	var failMsg string
	entry(&AbiProtocol{
		Command:       CmdCreateInstance,
		InstanceOut:   &handle,
		ErrorReceiver: func(msg string) { failMsg = msg },
	})
	if failMsg != "" {
		return NilHandle, errors.New(errors.PhaseLifecycle, errors.KindMalformedData).
			Detail("CreateInstance failed: %s", failMsg).Build()
	}
	return handle, nil
}

// nativeLayoutLookup builds a NativeLayout-producing function that looks up
// a method/argument's schema within def, falling back to an empty
// NativeLayout (forcing the conservative "no pointer" default in
// layoutCompatible) when the method or argument isn't found.
func nativeLayoutLookup(def *schema.AbiTraitDefinition) func(name string, argIndex int) NativeLayout {
	return func(name string, argIndex int) NativeLayout {
		for _, m := range def.Methods {
			if m.Name != name || argIndex >= len(m.Info.Arguments) {
				continue
			}
			return NativeLayout{Schema: m.Info.Arguments[argIndex].Schema}
		}
		return NativeLayout{}
	}
}

// NewConnector implements the Uninitialized → Live transition of spec
// §4.4's state machine ("new_internal"): negotiate versions, interrogate
// methods on both sides at native and effective version, run the C5
// compatibility analyzer, and create a trait object if the caller didn't
// already supply one (existing != nil). Any failure aborts without
// exposing partial state, per spec.
func NewConnector(caller CallerSide, entry EntryPoint, existing *TraitHandle) (*Connector, error) {
	build := func() (*ConnectionTemplate, error) {
		calleeVersions := interrogateVersion(entry)

		effectiveVersion := version.Effective(caller.LatestTraitVersion, calleeVersions.TraitLatestVersion)
		effectiveSchemaVersion := version.Effective(uint32(caller.LatestSchemaLibVersion), uint32(calleeVersions.SchemaLibraryVersion))
		debugf("connector: negotiated effective trait version %d, effective schema version %d (callee latest %d/%d)",
			effectiveVersion, effectiveSchemaVersion, calleeVersions.TraitLatestVersion, calleeVersions.SchemaLibraryVersion)

		callerNative := caller.TraitAt(caller.LatestTraitVersion)
		callerEffective := caller.TraitAt(effectiveVersion)

		calleeNative, err := interrogateMethods(entry, uint16(effectiveSchemaVersion), calleeVersions.TraitLatestVersion)
		if err != nil {
			return nil, err
		}
		calleeEffective, err := interrogateMethods(entry, uint16(effectiveSchemaVersion), effectiveVersion)
		if err != nil {
			return nil, err
		}

		callerNativeFor := caller.NativeLayoutFor
		if callerNativeFor == nil {
			callerNativeFor = nativeLayoutLookup(callerNative)
		}

		slots, err := buildSlots(callerEffective, calleeEffective, callerNativeFor, nativeLayoutLookup(calleeNative))
		if err != nil {
			return nil, err
		}

		return &ConnectionTemplate{
			EffectiveVersion:       effectiveVersion,
			EffectiveSchemaVersion: uint16(effectiveSchemaVersion),
			Slots:                  slots,
			Entry:                  entry,
		}, nil
	}

	template, err := templateFor(caller.Type, entry, build)
	if err != nil {
		return nil, err
	}

	handle := NilHandle
	owning := OwningBorrowed
	if existing != nil {
		handle = *existing
	} else {
		handle, err = createInstance(entry)
		if err != nil {
			return nil, err
		}
		owning = OwningOwned
	}

	return &Connector{template: template, handle: handle, owning: owning}, nil
}

// Call is the caller trampoline of spec §4.6: look up the slot, invoke the
// EntryPoint with RegularCall, and return the decoded result. Argument
// marshalling (BuildArg/BuildSliceArg/BuildTraitArg) happens before this
// call, driven by the slot's Mask; Call itself is agnostic to argument
// shape. Per spec §7's propagation rule, a method missing on the callee is a
// coding error at the caller-callee interface, not a recoverable condition:
// Call panics rather than returning an error, the same as BuildTraitArg does
// for an unset compatibility-mask bit. CalleePanic, by contrast, is always
// returned as an ordinary error, never re-raised, since unwinding must not
// cross the ABI boundary.
func (c *Connector) Call(methodName string, args []ArgValue) (RawAbiCallResult, error) {
	slot, ok := c.template.SlotByName(methodName)
	if !ok || slot.CalleeMethodNumber == nil {
		debugf("connector: method %s has no callee counterpart", methodName)
		panic(fmt.Sprintf("Method %s does not exist in implementation", methodName))
	}
	if slot.Unusable {
		debugf("connector: method %s is unusable: %s", methodName, slot.UnusableReason)
		return RawAbiCallResult{}, errors.New(errors.PhaseDispatch, errors.KindSchemaMismatch).
			Detail("method %s is unusable: %s", methodName, slot.UnusableReason).Build()
	}

	var result RawAbiCallResult
	called := false
	c.template.Entry(&AbiProtocol{
		Command:          CmdRegularCall,
		Instance:         c.handle,
		Mask:             slot.Mask,
		EffectiveVersion: c.template.EffectiveVersion,
		MethodNumber:     *slot.CalleeMethodNumber,
		Args:             args,
		ResultReceiver: func(r RawAbiCallResult) {
			result = r
			called = true
		},
	})
	if !called {
		return RawAbiCallResult{}, errors.New(errors.PhaseDispatch, errors.KindMalformedData).
			Detail("callee never invoked the result callback for %s", methodName).Build()
	}

	switch result.Kind {
	case ResultPanic:
		debugf("connector: callee panicked in %s: %s", methodName, result.Message)
		return result, errors.CalleePanic(methodName, result.Message)
	case ResultAbiError:
		debugf("connector: %s returned AbiError: %s", methodName, result.Message)
		return result, errors.New(errors.PhaseDispatch, errors.KindArgNotLayoutCompat).
			Detail(result.Message).Build()
	default:
		return result, nil
	}
}

// Close implements the Live → dropped transition: "issues DropInstance iff
// Owning=Owned; never otherwise" (spec §4.4).
func (c *Connector) Close() {
	if c.owning != OwningOwned {
		return
	}
	c.template.Entry(&AbiProtocol{Command: CmdDropInstance, Instance: c.handle})
}

// buildSlots matches caller and callee methods by name (spec invariant:
// methods are identified by name, not ordinal) and runs the C5 analyzer on
// each matched pair.
func buildSlots(callerEff, calleeEff *schema.AbiTraitDefinition, callerNativeFor, calleeNativeFor func(string, int) NativeLayout) ([]MethodSlot, error) {
	calleeIndex := make(map[string]int, len(calleeEff.Methods))
	for i, m := range calleeEff.Methods {
		calleeIndex[m.Name] = i
	}

	slots := make([]MethodSlot, 0, len(callerEff.Methods))
	for _, cm := range callerEff.Methods {
		slot := MethodSlot{Name: cm.Name, CallerInfo: cm.Info}

		idx, ok := calleeIndex[cm.Name]
		if !ok {
			slots = append(slots, slot)
			continue
		}
		calleeMethod := calleeEff.Methods[idx]
		n := idx
		slot.CalleeMethodNumber = &n

		if len(cm.Info.Arguments) != len(calleeMethod.Info.Arguments) {
			slot.Unusable = true
			slot.UnusableReason = "argument count differs between caller and callee"
			slots = append(slots, slot)
			continue
		}

		pairs := make([]ArgPair, len(cm.Info.Arguments))
		for i := range cm.Info.Arguments {
			pairs[i] = ArgPair{
				CallerEffective: cm.Info.Arguments[i].Schema,
				CalleeEffective: calleeMethod.Info.Arguments[i].Schema,
				CallerNative:    callerNativeFor(cm.Name, i),
				CalleeNative:    calleeNativeFor(cm.Name, i),
			}
		}

		analysis, err := AnalyzeMethod(pairs, cm.Info.ReturnValue, calleeMethod.Info.ReturnValue)
		if err != nil {
			return nil, err
		}
		slot.Mask = analysis.Mask
		slot.ArgPanicsAtCall = make([]bool, len(analysis.Args))
		for i, a := range analysis.Args {
			slot.ArgPanicsAtCall[i] = a.PanicsAtCall
		}
		if !analysis.ReturnCompatible {
			slot.Unusable = true
			slot.UnusableReason = "return value schema is incompatible"
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// SynthesizeFnTrait builds the single-method trait definition an FnRef or
// FnMutRef argument is marshalled as (spec §9's closure note): a trait
// named "Fn" with one method, "docall", taking the closure's argument
// schemas and returning its result schema. See DESIGN.md's Open Question
// decision #2: this module has no macro layer to generate such a type per
// closure signature, so callers build it with this helper instead.
func SynthesizeFnTrait(mut bool, argSchemas []*schema.Schema, ret *schema.Schema) *schema.AbiTraitDefinition {
	args := make([]schema.AbiMethodArgument, len(argSchemas))
	for i, s := range argSchemas {
		args[i] = schema.AbiMethodArgument{Schema: s}
	}
	receiver := schema.ReceiverShared
	if mut {
		receiver = schema.ReceiverMut
	}
	return &schema.AbiTraitDefinition{
		TraitName: "Fn",
		Methods: []schema.AbiMethod{{
			Name: "docall",
			Info: schema.AbiMethodInfo{ReturnValue: ret, Receiver: receiver, Arguments: args},
		}},
	}
}

// SynthesizePollTrait builds the single-method trait definition a boxed
// Future<Output=T> is marshalled as (spec §9's Future design note): a trait
// named "Future" with one method, "poll", taking a boxed waker closure and
// returning an Optional<T> — None for Pending, Some(output) for Ready. The
// caller drives the future to completion by repeatedly calling "poll"
// through the same Connector until it returns Some. See DESIGN.md's Open
// Question decision #4: this module has no executor of its own, so driving
// the returned trait to completion is left to the caller.
func SynthesizePollTrait(output *schema.Schema) *schema.AbiTraitDefinition {
	waker := SynthesizeFnTrait(true, nil, schema.NewZeroSize())
	wakerArg := schema.AbiMethodArgument{Schema: schema.NewFnClosure(true, waker)}
	return &schema.AbiTraitDefinition{
		TraitName: "Future",
		Methods: []schema.AbiMethod{{
			Name: "poll",
			Info: schema.AbiMethodInfo{
				ReturnValue: schema.NewOptional(output),
				Receiver:    schema.ReceiverMut,
				Arguments:   []schema.AbiMethodArgument{wakerArg},
			},
		}},
	}
}

// newTraitHandle mints a fresh opaque handle; used by callee-side instance
// tables (package abi's callee.go) at CreateInstance time.
func newTraitHandle() TraitHandle { return uuid.New() }
