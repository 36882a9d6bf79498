package abi

import (
	"reflect"
	"sync"

	"github.com/avl/savefile-go/schema"
)

// MethodSlot is one entry of a ConnectionTemplate's method table (spec §3
// "Connector state"): the method name, the caller's own method info, the
// callee's method number when a counterpart exists, and the per-argument
// compatibility mask.
type MethodSlot struct {
	Name               string
	CallerInfo         schema.AbiMethodInfo
	CalleeMethodNumber *int
	Mask               Mask
	ArgPanicsAtCall    []bool
	Unusable           bool
	UnusableReason     string
}

// ConnectionTemplate is immutable after creation (spec §3): "negotiated
// effective version, vector of per-method slots, and the C-linkage entry
// pointer."
type ConnectionTemplate struct {
	EffectiveVersion       uint32
	EffectiveSchemaVersion uint16
	Slots                  []MethodSlot
	Entry                  EntryPoint
}

// SlotByName looks up a method slot by name (spec invariant: "the set of
// methods is identified by name, not ordinal").
func (t *ConnectionTemplate) SlotByName(name string) (*MethodSlot, bool) {
	for i := range t.Slots {
		if t.Slots[i].Name == name {
			return &t.Slots[i], true
		}
	}
	return nil, false
}

// templateCacheKey is (static caller type identity, entry-pointer value),
// per spec §3: "Templates are cached in a process-wide mapping keyed by
// (static caller type identity, entry-pointer value)." See DESIGN.md's
// Open Question decision #1 for why entryPtr is reflect.Value.Pointer() of
// a Go func rather than a dlsym result.
type templateCacheKey struct {
	callerType reflect.Type
	entryPtr   uintptr
}

var (
	templateCacheMu sync.Mutex
	templateCache   = make(map[templateCacheKey]*ConnectionTemplate)
)

// templateFor returns the cached template for (callerType, entry), calling
// build to populate it on a cache miss. Per spec §5, the cache is mutable
// only during miss handling and entries are never evicted ("immortal for
// process lifetime").
func templateFor(callerType reflect.Type, entry EntryPoint, build func() (*ConnectionTemplate, error)) (*ConnectionTemplate, error) {
	key := templateCacheKey{callerType: callerType, entryPtr: reflect.ValueOf(entry).Pointer()}

	templateCacheMu.Lock()
	if t, ok := templateCache[key]; ok {
		templateCacheMu.Unlock()
		return t, nil
	}
	templateCacheMu.Unlock()

	t, err := build()
	if err != nil {
		return nil, err
	}

	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	if existing, ok := templateCache[key]; ok {
		// Lost a race with a concurrent builder; the spec treats the
		// template as immortal and identity-keyed, so either build is
		// equally valid — keep whichever was inserted first.
		return existing, nil
	}
	templateCache[key] = t
	return t, nil
}
