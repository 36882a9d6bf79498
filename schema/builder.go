package schema

// Builder tracks in-progress type identifiers while a WithSchema
// implementation (generated or hand-written) recursively builds a Schema,
// substituting a RecursionMarker on re-entry instead of expanding forever
// (spec §3 invariant, §9 design note).
//
// Usage, from a generated WithSchema method:
//
//	func (t *Tree) Schema(b *schema.Builder) *schema.Schema {
//		if depth, seen := b.Enter("Tree"); seen {
//			return schema.NewRecursionMarker(depth)
//		}
//		defer b.Leave("Tree")
//		return schema.NewStruct("Tree", []schema.Field{
//			{Name: "value", Schema: schema.NewPrimitive(schema.PrimI32)},
//			{Name: "children", Schema: schema.NewSequence(schema.NewBoxed(t.schemaSelf(b)))},
//		})
//	}
type Builder struct {
	stack []string
}

func NewBuilder() *Builder { return &Builder{} }

// Enter registers typeID as in progress. If typeID is already on the stack
// (a cycle), it returns the number of levels up to that enclosing
// occurrence and seen=true; the caller must substitute a RecursionMarker
// and must not call Leave for this (non-)entry.
func (b *Builder) Enter(typeID string) (depth int, seen bool) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i] == typeID {
			return len(b.stack) - i, true
		}
	}
	b.stack = append(b.stack, typeID)
	return 0, false
}

// Leave pops the most recently entered type. Callers must pair every
// non-cyclic Enter with exactly one Leave.
func (b *Builder) Leave(typeID string) {
	if len(b.stack) == 0 {
		return
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// Depth returns the current nesting depth, mostly useful for tests.
func (b *Builder) Depth() int { return len(b.stack) }
