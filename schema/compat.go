package schema

import (
	"fmt"

	"github.com/avl/savefile-go/errors"
)

// Diagnostic is the structured mismatch report returned by Diff. A nil
// Diagnostic means the two schemas are compatible.
type Diagnostic = errors.Error

// Diff implements spec §4.2's diff_schema: caller is the schema the reading
// side expects, callee is the schema actually present (on disk, or on the
// other side of an ABI call). path accumulates the slash-separated field
// path for diagnostics. isReturnPosition affects only Future bound-set
// comparison direction documentation-wise; the comparison itself is
// symmetric except for that one case, per spec.
func Diff(caller, callee *Schema, path []string, isReturnPosition bool) *Diagnostic {
	if caller == nil || callee == nil {
		if caller == callee {
			return nil
		}
		return errors.SchemaMismatch(path, describe(caller), describe(callee), "one side is nil")
	}

	if caller.Kind != callee.Kind {
		return errors.SchemaMismatch(path, describe(caller), describe(callee), "schema kind differs")
	}

	switch caller.Kind {
	case KindPrimitive:
		if caller.Prim != callee.Prim {
			return errors.SchemaMismatch(path, caller.Prim.String(), callee.Prim.String(), "primitive kind differs")
		}
		return nil

	case KindStruct:
		return diffFields(caller.Fields, callee.Fields, path)

	case KindEnum:
		if caller.DiscriminantBits != callee.DiscriminantBits {
			return errors.SchemaMismatch(path, fmt.Sprintf("discriminant width %d", caller.DiscriminantBits),
				fmt.Sprintf("discriminant width %d", callee.DiscriminantBits), "discriminant width differs")
		}
		if len(caller.Variants) != len(callee.Variants) {
			return errors.SchemaMismatch(path, fmt.Sprintf("%d variants", len(caller.Variants)),
				fmt.Sprintf("%d variants", len(callee.Variants)), "variant count differs")
		}
		for i := range caller.Variants {
			cv, lv := caller.Variants[i], callee.Variants[i]
			vp := append(append([]string{}, path...), cv.Name)
			if d := diffFields(cv.Fields, lv.Fields, vp); d != nil {
				return d
			}
		}
		return nil

	case KindSequence, KindSet, KindOptional, KindBoxed:
		return Diff(caller.Elem, callee.Elem, append(path, caller.Kind.String()), isReturnPosition)

	case KindMapping:
		if d := Diff(caller.Key, callee.Key, append(append([]string{}, path...), "key"), isReturnPosition); d != nil {
			return d
		}
		return Diff(caller.Value, callee.Value, append(append([]string{}, path...), "value"), isReturnPosition)

	case KindFnClosure:
		if caller.FnMut != callee.FnMut {
			return errors.SchemaMismatch(path, "mut", "not-mut", "closure mutability flag differs")
		}
		return diffTrait(caller.Trait, callee.Trait, path)

	case KindBoxedTrait:
		return diffTrait(caller.Trait, callee.Trait, path)

	case KindFuture:
		if d := Diff(caller.Output, callee.Output, append(append([]string{}, path...), "output"), isReturnPosition); d != nil {
			return d
		}
		// Caller's required bound set must be a subset of callee's provided set.
		if caller.RequiresSend && !callee.RequiresSend {
			return errors.SchemaMismatch(path, "requires Send", "does not provide Send", "future bound not satisfied")
		}
		if caller.RequiresSync && !callee.RequiresSync {
			return errors.SchemaMismatch(path, "requires Sync", "does not provide Sync", "future bound not satisfied")
		}
		if caller.RequiresUnpin && !callee.RequiresUnpin {
			return errors.SchemaMismatch(path, "requires Unpin", "does not provide Unpin", "future bound not satisfied")
		}
		return nil

	case KindZeroSize:
		return nil

	case KindRecursionMarker:
		if caller.RecursionDepth != callee.RecursionDepth {
			return errors.RecursionDepthDiffers(path, caller.RecursionDepth, callee.RecursionDepth)
		}
		return nil

	default:
		return errors.SchemaMismatch(path, "unknown", "unknown", "unrecognized schema kind")
	}
}

func diffFields(caller, callee []Field, path []string) *Diagnostic {
	if len(caller) != len(callee) {
		return errors.SchemaMismatch(path, fmt.Sprintf("%d fields", len(caller)), fmt.Sprintf("%d fields", len(callee)), "field count differs")
	}
	for i := range caller {
		fp := append(append([]string{}, path...), caller[i].Name)
		if d := Diff(caller[i].Schema, callee[i].Schema, fp, false); d != nil {
			return d
		}
	}
	return nil
}

func diffTrait(caller, callee *AbiTraitDefinition, path []string) *Diagnostic {
	if caller == nil || callee == nil {
		if caller == callee {
			return nil
		}
		return errors.SchemaMismatch(path, "trait present", "trait absent", "trait reference differs")
	}
	if caller.TraitName != callee.TraitName {
		return errors.SchemaMismatch(path, caller.TraitName, callee.TraitName, "trait identity differs")
	}
	if len(caller.Methods) != len(callee.Methods) {
		return errors.SchemaMismatch(append(path, caller.TraitName), fmt.Sprintf("%d methods", len(caller.Methods)),
			fmt.Sprintf("%d methods", len(callee.Methods)), "method count differs")
	}
	for i := range caller.Methods {
		cm, lm := caller.Methods[i], callee.Methods[i]
		mp := append(append([]string{}, path...), caller.TraitName, cm.Name)
		if cm.Name != lm.Name {
			return errors.SchemaMismatch(mp, cm.Name, lm.Name, "method name differs")
		}
		if d := Diff(cm.Info.ReturnValue, lm.Info.ReturnValue, append(mp, "return"), true); d != nil {
			return d
		}
		if len(cm.Info.Arguments) != len(lm.Info.Arguments) {
			return errors.SchemaMismatch(mp, fmt.Sprintf("%d args", len(cm.Info.Arguments)),
				fmt.Sprintf("%d args", len(lm.Info.Arguments)), "argument count differs")
		}
		for a := range cm.Info.Arguments {
			ap := append(append([]string{}, mp...), fmt.Sprintf("arg%d", a))
			if d := Diff(cm.Info.Arguments[a].Schema, lm.Info.Arguments[a].Schema, ap, false); d != nil {
				return d
			}
		}
	}
	return nil
}

func describe(s *Schema) string {
	if s == nil {
		return "<nil>"
	}
	return s.Kind.String()
}

// Compatible is a convenience wrapper: true iff Diff returns nil.
func Compatible(caller, callee *Schema) bool {
	d := Diff(caller, callee, nil, false)
	if d != nil {
		debugf("compat: schemas incompatible: %v", d)
	}
	return d == nil
}
