package abi

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"

	"github.com/avl/savefile-go/schema"
	"github.com/avl/savefile-go/wire"
)

// InstanceTable is the callee-side owner of every live trait object,
// indexed by the TraitHandle it handed back at CreateInstance. This is the
// callee's half of spec §3's "Owned trait object" lifecycle: "created by
// the callee on request... dropped by issuing DropInstance."
type InstanceTable struct {
	mu        sync.RWMutex
	instances map[TraitHandle]any
}

func NewInstanceTable() *InstanceTable {
	return &InstanceTable{instances: make(map[TraitHandle]any)}
}

// Insert mints a fresh handle for impl and stores it, returning the handle.
func (t *InstanceTable) Insert(impl any) TraitHandle {
	h := newTraitHandle()
	t.mu.Lock()
	t.instances[h] = impl
	t.mu.Unlock()
	return h
}

// Get returns the implementation registered under h.
func (t *InstanceTable) Get(h TraitHandle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	impl, ok := t.instances[h]
	return impl, ok
}

// Remove discards the implementation registered under h (DropInstance).
func (t *InstanceTable) Remove(h TraitHandle) {
	t.mu.Lock()
	delete(t.instances, h)
	t.mu.Unlock()
}

// MethodRegistry binds a concrete implementation's exported methods by
// name, grounded on the same reflect-based registration loop the teacher
// uses for host functions: enumerate exported methods once, keep bound
// reflect.Values around rather than re-resolving by name on every call.
type MethodRegistry struct {
	methods map[string]reflect.Value
}

func NewMethodRegistry(impl any) *MethodRegistry {
	rv := reflect.ValueOf(impl)
	rt := rv.Type()
	reg := &MethodRegistry{methods: make(map[string]reflect.Value, rt.NumMethod())}
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() {
			continue
		}
		reg.methods[m.Name] = rv.Method(i)
	}
	return reg
}

// Lookup returns the bound method named name, if impl exported one.
func (r *MethodRegistry) Lookup(name string) (reflect.Value, bool) {
	v, ok := r.methods[name]
	return v, ok
}

// TraitMethodTable maps a callee-local method number back to its name,
// mirroring the ordering InterrogateMethods' trait definition was built
// with. Method numbers are callee-local and arbitrary (spec invariant:
// "identified by name, not ordinal"); this table is simply how this
// module's callee trampoline recovers the name from the number the caller
// was given in its slot table.
type TraitMethodTable struct {
	names []string
}

func NewTraitMethodTable(def *schema.AbiTraitDefinition) *TraitMethodTable {
	names := make([]string, len(def.Methods))
	for i, m := range def.Methods {
		names[i] = m.Name
	}
	return &TraitMethodTable{names: names}
}

// NameOf returns the method name at the given callee-local number.
func (t *TraitMethodTable) NameOf(methodNumber int) (string, bool) {
	if methodNumber < 0 || methodNumber >= len(t.names) {
		return "", false
	}
	return t.names[methodNumber], true
}

// CalleeConfig is everything NewEntryPoint needs to answer every command
// except the ones it handles generically (InterrogateVersion, DropInstance,
// panic recovery). Dispatch performs the actual "read the argument buffer,
// invoke the implementation, serialize the return value" work (spec
// §4.6's callee trampoline) — this module leaves Dispatch to the caller
// because decoding a RegularCall's ArgValue slice back into typed
// arguments requires knowing the concrete trait's method signatures, which
// only generated (or hand-written) per-trait glue has; that generator is
// an explicit Non-goal ("we specify the contracts, not the generator").
type CalleeConfig struct {
	SchemaLibraryVersion uint16
	TraitLatestVersion   uint32
	TraitAt              func(version uint32) *schema.AbiTraitDefinition
	// NewImpl constructs a fresh implementation for CreateInstance. Nil
	// means this entry point is abi_entry_light: it answers everything
	// except CreateInstance, for interface-only libraries that cannot
	// construct an implementation (spec §4.6).
	NewImpl  func() (any, error)
	Dispatch func(impl any, methodNumber int, effectiveVersion uint32, args []ArgValue) (RawAbiCallResult, error)
}

// NewEntryPoint builds the single C-linkage-shaped dispatch function of
// spec §4.4/§6 from a CalleeConfig and its InstanceTable. The returned
// EntryPoint never unwinds: any panic is recovered, per spec §4.4's "the
// callee must never unwind across the EntryPoint." A panic during a
// RegularCall is delivered to the ResultReceiver as a Panic result; a panic
// during any other command is recovered and not reported.
func NewEntryPoint(cfg CalleeConfig, instances *InstanceTable) EntryPoint {
	return func(p *AbiProtocol) {
		defer func() {
			if r := recover(); r != nil && p.Command == CmdRegularCall && p.ResultReceiver != nil {
				debugf("entrypoint: recovered panic during RegularCall (method %d): %v", p.MethodNumber, r)
				p.ResultReceiver(RawAbiCallResult{Kind: ResultPanic, Message: fmt.Sprint(r)})
			}
		}()

		switch p.Command {
		case CmdInterrogateVersion:
			if p.VersionOut != nil {
				*p.VersionOut = VersionInfo{
					SchemaLibraryVersion: cfg.SchemaLibraryVersion,
					TraitLatestVersion:   cfg.TraitLatestVersion,
				}
			}

		case CmdInterrogateMethods:
			def := cfg.TraitAt(p.WantedTraitVersion)
			var buf bytes.Buffer
			w := wire.NewWriter(&buf, 0)
			if err := schema.Encode(w, schemaForTraitDef(def)); err != nil {
				return
			}
			if p.MethodsReceiver != nil {
				p.MethodsReceiver(p.WantedSchemaLibVersion, buf.Bytes())
			}

		case CmdCreateInstance:
			if cfg.NewImpl == nil {
				if p.ErrorReceiver != nil {
					p.ErrorReceiver("this entry point cannot construct an implementation")
				}
				return
			}
			impl, err := cfg.NewImpl()
			if err != nil {
				if p.ErrorReceiver != nil {
					p.ErrorReceiver(err.Error())
				}
				return
			}
			handle := instances.Insert(impl)
			if p.InstanceOut != nil {
				*p.InstanceOut = handle
			}

		case CmdDropInstance:
			instances.Remove(p.Instance)

		case CmdRegularCall:
			impl, ok := instances.Get(p.Instance)
			if !ok {
				if p.ResultReceiver != nil {
					p.ResultReceiver(RawAbiCallResult{Kind: ResultAbiError, Message: "unknown trait object handle"})
				}
				return
			}
			result, err := cfg.Dispatch(impl, p.MethodNumber, p.EffectiveVersion, p.Args)
			if err != nil {
				debugf("entrypoint: dispatch of method %d failed: %v", p.MethodNumber, err)
				result = RawAbiCallResult{Kind: ResultAbiError, Message: err.Error()}
			}
			if p.ResultReceiver != nil {
				p.ResultReceiver(result)
			}
		}
	}
}
