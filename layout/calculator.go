package layout

import (
	"reflect"
)

// Info describes the native (Go compiler) layout of a type: its size,
// alignment, and — for structs — each field's byte offset.
type Info struct {
	Size      uint32
	Align     uint32
	FieldOffs []uint32 // parallel to reflect.Type.Field(i), struct types only
	Packed    bool      // true iff there are no padding holes between fields
	Supported bool      // false for types this calculator declines to reason about (pointers, interfaces, maps, slices, strings)
}

// Calculator memoizes layout computation per reflect.Type, mirroring the
// teacher's per-*wit.TypeDef cache in transcoder/internal/layout.
type Calculator struct {
	cache map[reflect.Type]Info
}

func NewCalculator() *Calculator {
	return &Calculator{cache: make(map[reflect.Type]Info)}
}

// Calculate returns the native layout of t. Pointer, interface, map, slice
// and string kinds are reported Supported=false: they have no single
// "packed wire-identical" representation, so the fast path (spec §4.1) and
// the ABI analyzer (spec §4.5) must always fall back to element-wise
// handling for them.
func (c *Calculator) Calculate(t reflect.Type) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		info = Info{Size: 1, Align: 1, Packed: true, Supported: true}
	case reflect.Int16, reflect.Uint16:
		info = Info{Size: 2, Align: 2, Packed: true, Supported: true}
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		info = Info{Size: 4, Align: 4, Packed: true, Supported: true}
	case reflect.Int64, reflect.Uint64, reflect.Float64,
		reflect.Int, reflect.Uint:
		info = Info{Size: 8, Align: 8, Packed: true, Supported: true}
	case reflect.Array:
		info = c.calculateArray(t)
	case reflect.Struct:
		info = c.calculateStruct(t)
	default:
		info = Info{Supported: false}
	}

	c.cache[t] = info
	return info
}

func (c *Calculator) calculateArray(t reflect.Type) Info {
	elem := c.Calculate(t.Elem())
	if !elem.Supported {
		return Info{Supported: false}
	}
	n := uint32(t.Len())
	return Info{
		Size:      elem.Size * n,
		Align:     elem.Align,
		Packed:    elem.Packed,
		Supported: true,
	}
}

func (c *Calculator) calculateStruct(t reflect.Type) Info {
	n := t.NumField()
	if n == 0 {
		return Info{Size: 0, Align: 1, Packed: true, Supported: true}
	}

	offs := make([]uint32, n)
	maxAlign := uint32(1)
	expected := uint32(0) // offset if the struct were packed, no padding
	packed := true

	for i := 0; i < n; i++ {
		f := t.Field(i)
		fi := c.Calculate(f.Type)
		if !fi.Supported || !fi.Packed {
			return Info{Supported: false}
		}
		realOff := uint32(f.Offset)
		offs[i] = realOff
		if realOff != expected {
			packed = false
		}
		expected = realOff + fi.Size
		if fi.Align > maxAlign {
			maxAlign = fi.Align
		}
	}

	total := uint32(t.Size())
	if total != expected {
		packed = false
	}

	return Info{
		Size:      total,
		Align:     maxAlign,
		FieldOffs: offs,
		Packed:    packed,
		Supported: true,
	}
}

// AlignTo rounds offset up to the next multiple of align.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) / align * align
}

// SamePackedLayout reports whether two types' native layouts are packed and
// field-for-field identical — the native half of the ABI compatibility test
// in spec §4.5 step 2, and the precondition for the fast raw-copy path in
// spec §4.1.
func SamePackedLayout(a, b Info) bool {
	if !a.Supported || !b.Supported || !a.Packed || !b.Packed {
		return false
	}
	if a.Size != b.Size || a.Align != b.Align {
		return false
	}
	if len(a.FieldOffs) != len(b.FieldOffs) {
		return false
	}
	for i := range a.FieldOffs {
		if a.FieldOffs[i] != b.FieldOffs[i] {
			return false
		}
	}
	return true
}
