package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Introspect renders a human-readable, recursive dump of value against its
// schema — a debug aid, not part of the wire protocol. This is the feature
// supplemented from original_source/savefile-test/src/test_introspect.rs:
// the original exercises a debug view of a value against its schema: a
// recursive listing of struct/enum fields by name. Useful alongside the
// SchemaMismatch/CalleePanic diagnostics this module already produces,
// which are required to be human-readable and path-qualified.
func Introspect(s *Schema, v reflect.Value) string {
	var b strings.Builder
	introspect(&b, s, v, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func introspect(b *strings.Builder, s *Schema, v reflect.Value, depth int) {
	if s == nil {
		b.WriteString("<no schema>")
		return
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		v = v.Elem()
	}

	switch s.Kind {
	case KindPrimitive:
		if v.IsValid() {
			fmt.Fprintf(b, "%v (%s)", v.Interface(), s.Prim)
		} else {
			fmt.Fprintf(b, "<invalid> (%s)", s.Prim)
		}

	case KindStruct:
		fmt.Fprintf(b, "%s {\n", s.Name)
		for i, f := range s.Fields {
			indent(b, depth+1)
			fmt.Fprintf(b, "%s: ", f.Name)
			var fv reflect.Value
			if v.IsValid() && v.Kind() == reflect.Struct && i < v.NumField() {
				fv = v.Field(i)
			}
			introspect(b, f.Schema, fv, depth+1)
			b.WriteString("\n")
		}
		indent(b, depth)
		b.WriteString("}")

	case KindSequence, KindSet:
		b.WriteString("[")
		if v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
			for i := 0; i < v.Len(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				introspect(b, s.Elem, v.Index(i), depth)
			}
		}
		b.WriteString("]")

	case KindOptional:
		if !v.IsValid() {
			b.WriteString("None")
			return
		}
		b.WriteString("Some(")
		introspect(b, s.Elem, v, depth)
		b.WriteString(")")

	case KindBoxed:
		introspect(b, s.Elem, v, depth)

	case KindMapping:
		b.WriteString("{")
		if v.IsValid() && v.Kind() == reflect.Map {
			first := true
			for _, key := range v.MapKeys() {
				if !first {
					b.WriteString(", ")
				}
				first = false
				introspect(b, s.Key, key, depth)
				b.WriteString(": ")
				introspect(b, s.Value, v.MapIndex(key), depth)
			}
		}
		b.WriteString("}")

	case KindEnum:
		fmt.Fprintf(b, "%s::<variant>", s.Name)

	case KindZeroSize:
		b.WriteString("()")

	case KindRecursionMarker:
		fmt.Fprintf(b, "<recurse %d levels up>", s.RecursionDepth)

	case KindBoxedTrait, KindFnClosure:
		if s.Trait != nil {
			fmt.Fprintf(b, "<dyn %s>", s.Trait.TraitName)
		} else {
			b.WriteString("<dyn trait>")
		}

	case KindFuture:
		b.WriteString("<future>")

	default:
		b.WriteString("<?>")
	}
}
