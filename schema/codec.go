package schema

import (
	"github.com/avl/savefile-go/errors"
	"github.com/avl/savefile-go/wire"
)

// WireVersion is this package's internal schema wire format version
// (spec §3's schema_version / §6's "its own 1-byte-versioned internal
// format"), distinct from any user data's file-format or type version.
const WireVersion uint16 = 1

// WriteSchemaVersion writes the 1-byte schema_version header used when a
// schema is embedded in a save() payload (spec §3).
func WriteSchemaVersion(w *wire.Writer) error {
	return w.WriteU8(uint8(WireVersion))
}

// ReadSchemaVersion reads and validates the schema_version header.
func ReadSchemaVersion(r *wire.Reader) (uint16, error) {
	b, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	v := uint16(b)
	if v > WireVersion {
		return 0, errors.VersionTooNew(uint32(v), uint32(WireVersion))
	}
	return v, nil
}

// Encode writes a Schema in the internal wire format: one byte Kind
// discriminant followed by kind-specific payload.
func Encode(w *wire.Writer, s *Schema) error {
	if s == nil {
		return errors.MalformedData(errors.PhaseEncode, nil, "nil schema")
	}
	if err := w.WriteU8(uint8(s.Kind)); err != nil {
		return err
	}
	switch s.Kind {
	case KindPrimitive:
		return w.WriteU8(uint8(s.Prim))

	case KindStruct:
		if err := w.WriteString(s.Name); err != nil {
			return err
		}
		return encodeFields(w, s.Fields)

	case KindEnum:
		if err := w.WriteString(s.Name); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(s.DiscriminantBits)); err != nil {
			return err
		}
		if err := w.WriteLen(len(s.Variants)); err != nil {
			return err
		}
		for _, v := range s.Variants {
			if err := w.WriteString(v.Name); err != nil {
				return err
			}
			if err := w.WriteU32(v.Discriminator); err != nil {
				return err
			}
			if err := encodeFields(w, v.Fields); err != nil {
				return err
			}
		}
		return nil

	case KindSequence, KindSet, KindOptional, KindBoxed:
		return Encode(w, s.Elem)

	case KindMapping:
		if err := Encode(w, s.Key); err != nil {
			return err
		}
		return Encode(w, s.Value)

	case KindBoxedTrait:
		return encodeTrait(w, s.Trait)

	case KindFnClosure:
		if err := w.WriteBool(s.FnMut); err != nil {
			return err
		}
		return encodeTrait(w, s.Trait)

	case KindFuture:
		if err := Encode(w, s.Output); err != nil {
			return err
		}
		if err := w.WriteBool(s.RequiresSend); err != nil {
			return err
		}
		if err := w.WriteBool(s.RequiresSync); err != nil {
			return err
		}
		return w.WriteBool(s.RequiresUnpin)

	case KindZeroSize:
		return nil

	case KindRecursionMarker:
		return w.WriteU32(uint32(s.RecursionDepth))

	default:
		return errors.MalformedData(errors.PhaseEncode, nil, "unknown schema kind")
	}
}

func encodeFields(w *wire.Writer, fields []Field) error {
	if err := w.WriteLen(len(fields)); err != nil {
		return err
	}
	for _, f := range fields {
		if err := w.WriteString(f.Name); err != nil {
			return err
		}
		if err := Encode(w, f.Schema); err != nil {
			return err
		}
	}
	return nil
}

func encodeTrait(w *wire.Writer, t *AbiTraitDefinition) error {
	if t == nil {
		return errors.MalformedData(errors.PhaseEncode, nil, "nil trait definition")
	}
	if err := w.WriteString(t.TraitName); err != nil {
		return err
	}
	if err := w.WriteLen(len(t.Methods)); err != nil {
		return err
	}
	for _, m := range t.Methods {
		if err := w.WriteString(m.Name); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(m.Info.Receiver)); err != nil {
			return err
		}
		if err := w.WriteBool(m.Info.AsyncHeuristic); err != nil {
			return err
		}
		if err := Encode(w, m.Info.ReturnValue); err != nil {
			return err
		}
		if err := w.WriteLen(len(m.Info.Arguments)); err != nil {
			return err
		}
		for _, a := range m.Info.Arguments {
			if err := w.WriteBool(a.CanBeSentAsRef); err != nil {
				return err
			}
			if err := Encode(w, a.Schema); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads a Schema in the internal wire format written by Encode.
func Decode(r *wire.Reader) (*Schema, error) {
	kindByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	kind := Kind(kindByte)
	if int(kind) >= len(kindNames) {
		return nil, errors.MalformedData(errors.PhaseDecode, nil, "unknown schema kind discriminant")
	}

	switch kind {
	case KindPrimitive:
		p, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return NewPrimitive(Primitive(p)), nil

	case KindStruct:
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		fields, err := decodeFields(r)
		if err != nil {
			return nil, err
		}
		return NewStruct(name, fields), nil

	case KindEnum:
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		bits, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		variants := make([]Variant, n)
		for i := 0; i < n; i++ {
			vname, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			disc, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			fields, err := decodeFields(r)
			if err != nil {
				return nil, err
			}
			variants[i] = Variant{Name: vname, Discriminator: disc, Fields: fields}
		}
		return NewEnum(name, int(bits), variants), nil

	case KindSequence, KindSet, KindOptional, KindBoxed:
		elem, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return &Schema{Kind: kind, Elem: elem}, nil

	case KindMapping:
		key, err := Decode(r)
		if err != nil {
			return nil, err
		}
		value, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return NewMapping(key, value), nil

	case KindBoxedTrait:
		t, err := decodeTrait(r)
		if err != nil {
			return nil, err
		}
		return NewBoxedTrait(t), nil

	case KindFnClosure:
		mut, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		t, err := decodeTrait(r)
		if err != nil {
			return nil, err
		}
		return NewFnClosure(mut, t), nil

	case KindFuture:
		output, err := Decode(r)
		if err != nil {
			return nil, err
		}
		send, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		sync, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		unpin, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		return NewFuture(output, send, sync, unpin), nil

	case KindZeroSize:
		return NewZeroSize(), nil

	case KindRecursionMarker:
		depth, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return NewRecursionMarker(int(depth)), nil

	default:
		return nil, errors.MalformedData(errors.PhaseDecode, nil, "unhandled schema kind")
	}
}

func decodeFields(r *wire.Reader) ([]Field, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	fields := make([]Field, n)
	for i := 0; i < n; i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		s, err := Decode(r)
		if err != nil {
			return nil, err
		}
		fields[i] = Field{Name: name, Schema: s}
	}
	return fields, nil
}

func decodeTrait(r *wire.Reader) (*AbiTraitDefinition, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	methods := make([]AbiMethod, n)
	for i := 0; i < n; i++ {
		mname, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		recv, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		async, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		ret, err := Decode(r)
		if err != nil {
			return nil, err
		}
		argN, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		args := make([]AbiMethodArgument, argN)
		for a := 0; a < argN; a++ {
			canRef, err := r.ReadBool()
			if err != nil {
				return nil, err
			}
			s, err := Decode(r)
			if err != nil {
				return nil, err
			}
			args[a] = AbiMethodArgument{Schema: s, CanBeSentAsRef: canRef}
		}
		methods[i] = AbiMethod{
			Name: mname,
			Info: AbiMethodInfo{
				ReturnValue:    ret,
				Receiver:       Receiver(recv),
				Arguments:      args,
				AsyncHeuristic: async,
			},
		}
	}
	return &AbiTraitDefinition{TraitName: name, Methods: methods}, nil
}
