package abi

import (
	"github.com/google/uuid"

	"github.com/avl/savefile-go/schema"
)

// Command is the tagged command enum the EntryPoint dispatches on (spec
// §4.4's protocol table).
type Command uint8

const (
	CmdInterrogateVersion Command = iota
	CmdInterrogateMethods
	CmdCreateInstance
	CmdDropInstance
	CmdRegularCall
)

func (c Command) String() string {
	switch c {
	case CmdInterrogateVersion:
		return "InterrogateVersion"
	case CmdInterrogateMethods:
		return "InterrogateMethods"
	case CmdCreateInstance:
		return "CreateInstance"
	case CmdDropInstance:
		return "DropInstance"
	case CmdRegularCall:
		return "RegularCall"
	default:
		return "Unknown"
	}
}

// TraitHandle is the type-erased 16-byte trait-object handle of spec §3
// ("Connector state"). A real dlsym-loaded callee would hand back an
// opaque data pointer; in this module the handle is a uuid.UUID minted by
// the callee at CreateInstance time and looked up in its own instance
// table — same byte width (16 bytes), same "opaque to the caller" contract,
// without assuming a real foreign pointer exists on the other side of the
// call (see DESIGN.md's Open Question decisions).
type TraitHandle = uuid.UUID

// NilHandle is the zero handle, used before CreateInstance has run.
var NilHandle TraitHandle

// Owning records whether a Connector must issue DropInstance when it is
// discarded (spec "Connector state": "an Owning flag").
type Owning uint8

const (
	OwningBorrowed Owning = iota
	OwningOwned
)

// PackagedTraitObject is the three-word package a TraitRef, TraitRefMut,
// BoxedTrait, FnRef, or FnMutRef argument crosses the boundary as (spec
// §4.4 "Argument marshalling"): in the original, a data pointer, a vtable
// pointer, and an entry-point pointer. TraitHandle already carries both the
// data and the vtable identity (the callee resolves both from its own
// instance table by handle), so this module's three words are handle,
// entry point, and ownership.
type PackagedTraitObject struct {
	Handle TraitHandle
	Entry  EntryPoint
	Owning Owning
}

// VersionInfo is written by the callee in response to InterrogateVersion
// (spec §4.4: "out-pointers to receive (schema-library-version u16,
// trait-latest-version u32)").
type VersionInfo struct {
	SchemaLibraryVersion uint16
	TraitLatestVersion   uint32
}

// ResultKind discriminates RawAbiCallResult (spec §4.4).
type ResultKind uint8

const (
	ResultSuccess ResultKind = iota
	ResultPanic
	ResultAbiError
)

// RawAbiCallResult is the value handed to a result callback (spec §4.4):
// Success carries `effective_version || serialized return value` in Data;
// Panic and AbiError carry a human-readable Message.
type RawAbiCallResult struct {
	Kind    ResultKind
	Data    []byte
	Message string
}

// AbiProtocol is the tagged-union-by-value argument of the EntryPoint (spec
// §6 "Shared-object entry symbol"). Exactly the fields relevant to Command
// are populated, following the same flat-struct-plus-tag idiom this module
// uses for schema.Schema. Out-pointers and receiver callbacks are modeled
// directly as Go pointers and func values rather than C function pointers
// plus opaque receiver pointers, since the EntryPoint itself is already a
// Go func value in this module (see Open Question decision #1) — there is
// no separate "receiver pointer" to thread through when the callback is a
// real Go closure that already captures its own state.
type AbiProtocol struct {
	Command Command

	// InterrogateVersion
	VersionOut *VersionInfo

	// InterrogateMethods
	WantedSchemaLibVersion uint16
	WantedTraitVersion     uint32
	MethodsReceiver        func(schemaVersion uint16, data []byte)

	// CreateInstance
	InstanceOut   *TraitHandle
	ErrorReceiver func(message string)

	// DropInstance / RegularCall (callee-local handle)
	Instance TraitHandle

	// RegularCall
	Mask             Mask
	EffectiveVersion uint32
	MethodNumber     int
	Args             []ArgValue
	ResultReceiver   func(RawAbiCallResult)
}

// EntryPoint is the single C-linkage dispatch function of spec §4.4 and §6:
// "a single C-linkage function that accepts one tagged command enum." It
// must never unwind; any callee-side panic must be caught and converted to
// a Panic result (enforced by the callee trampoline helpers in callee.go,
// not by this type itself).
type EntryPoint func(p *AbiProtocol)

// schemaForTraitDef is a small convenience used across this package to
// round-trip an AbiTraitDefinition through schema.Schema's BoxedTrait
// variant, since InterrogateMethods transmits a trait definition the same
// way any other schema-bearing value would be transmitted (spec §4.2's
// schema wire format, reused rather than inventing a second one for traits).
func schemaForTraitDef(def *schema.AbiTraitDefinition) *schema.Schema {
	return schema.NewBoxedTrait(def)
}
